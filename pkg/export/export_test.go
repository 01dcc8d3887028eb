package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Subject", "Day"},
		Rows: []map[string]string{
			{"Subject": "COMP1", "Day": "Mon"},
			{"Subject": "MATH, advanced", "Day": "Tue"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Subject,Day\nCOMP1,Mon\n\"MATH, advanced\",Tue\n", string(out))
}

func TestCSVExporterWithComma(t *testing.T) {
	out, err := NewCSVExporter().WithComma(';').Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Subject;Day\nCOMP1;Mon\nMATH, advanced;Tue\n", string(out))
}

func TestExportersRejectBadDatasets(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{Headers: []string{"A", "A"}})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Dataset{Headers: []string{"A", "B"}, Widths: []float64{1}}, "")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, map[string]string{"Subject": "ART", "Day": "Fri"})
	}
	data.Widths = []float64{3, 1}

	out, err := NewPDFExporter().Render(data, "Timetable")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	even := columnWidths(Dataset{Headers: []string{"A", "B"}}, 100)
	assert.Equal(t, []float64{50, 50}, even)

	weighted := columnWidths(Dataset{Headers: []string{"A", "B"}, Widths: []float64{3, 1}}, 100)
	assert.Equal(t, []float64{75, 25}, weighted)
}
