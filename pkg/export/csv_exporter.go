package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a table of string cells addressed by header name.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Widths optionally weights PDF column widths, one entry per header.
	Widths []float64
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	seen := make(map[string]bool, len(d.Headers))
	for _, header := range d.Headers {
		if seen[header] {
			return fmt.Errorf("duplicate header %q", header)
		}
		seen[header] = true
	}
	if len(d.Widths) > 0 && len(d.Widths) != len(d.Headers) {
		return fmt.Errorf("got %d column widths for %d headers", len(d.Widths), len(d.Headers))
	}
	return nil
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

// CSVExporter renders a Dataset as delimited text.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// WithComma returns an exporter using another field delimiter, e.g. ';'.
func (e *CSVExporter) WithComma(comma rune) *CSVExporter {
	return &CSVExporter{comma: comma}
}

// Render writes the header row followed by one record per dataset row.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(data.record(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
