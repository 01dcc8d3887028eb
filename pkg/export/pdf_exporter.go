package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin      = 10.0
	pdfHeaderRow   = 8.0
	pdfBodyRow     = 7.0
	pdfFooterSpace = 12.0
)

// PDFExporter renders datasets as a landscape table with the header row
// repeated on every page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the document. title is printed above the table when set.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfFooterSpace)
	pdf.AliasNbPages("{nb}")

	pageWidth, _ := pdf.GetPageSize()
	widths := columnWidths(data, pageWidth-2*pdfMargin)

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], pdfHeaderRow, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfFooterSpace + 2)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range data.Rows {
		if pdf.GetY()+pdfBodyRow > pageHeight-pdfFooterSpace {
			pdf.AddPage()
			drawHeader()
		}
		for i, value := range data.record(row) {
			pdf.CellFormat(widths[i], pdfBodyRow, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths spreads the usable width by Dataset.Widths, or evenly.
func columnWidths(data Dataset, usable float64) []float64 {
	widths := make([]float64, len(data.Headers))
	var total float64
	for _, weight := range data.Widths {
		if weight > 0 {
			total += weight
		}
	}
	for i := range widths {
		if total == 0 {
			widths[i] = usable / float64(len(widths))
			continue
		}
		if data.Widths[i] > 0 {
			widths[i] = usable * data.Widths[i] / total
		}
	}
	return widths
}
