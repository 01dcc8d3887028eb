package catalogio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// csvActivity is one row of a flat catalog export. Column names follow the
// timetable service field names.
type csvActivity struct {
	SubjectCode        string `csv:"subject_code"`
	SubjectDescription string `csv:"subject_description,omitempty"`
	GroupCode          string `csv:"activity_group_code"`
	ActivityCode       string `csv:"activity_code"`
	DayOfWeek          string `csv:"day_of_week"`
	StartTime          string `csv:"start_time"`
	Duration           int    `csv:"duration"`
	ActivityType       string `csv:"activity_type,omitempty"`
	Location           string `csv:"location,omitempty"`
	Campus             string `csv:"campus,omitempty"`
}

func decodeCSV(r io.Reader, delim rune) (*Document, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true

	var rows []*csvActivity
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("parse csv catalog: %w", err)
	}

	doc := &Document{}
	positions := make(map[string]int)
	for i, row := range rows {
		code := strings.TrimSpace(row.SubjectCode)
		day, err := models.ParseWeekday(row.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		start, err := models.ParseClockTime(strings.TrimSpace(row.StartTime))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		appendActivity(&doc.Catalog, positions, code, row.SubjectDescription, models.Activity{
			SubjectCode:  code,
			GroupCode:    strings.TrimSpace(row.GroupCode),
			ActivityCode: strings.TrimSpace(row.ActivityCode),
			Day:          day,
			Start:        start,
			Duration:     row.Duration,
			ActivityType: row.ActivityType,
			Location:     row.Location,
			Campus:       row.Campus,
		})
	}
	return doc, nil
}
