package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type runReader interface {
	GetRun(ctx context.Context, id string) (*models.OptimizationRun, error)
}

var (
	scheduleExportHeaders = []string{"Subject", "Group", "Activity", "Day", "Start", "End", "Minutes", "Type", "Location"}
	scheduleExportWidths  = []float64{1.2, 1.4, 1, 0.7, 0.8, 0.8, 0.9, 1.2, 2}
)

// ScheduleFile is a rendered schedule ready for download.
type ScheduleFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ScheduleExportService renders stored schedules as CSV or PDF.
type ScheduleExportService struct {
	runs   runReader
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewScheduleExportService constructs the export service.
func NewScheduleExportService(runs runReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ScheduleExportService{runs: runs, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the schedule of a completed run.
func (s *ScheduleExportService) Export(ctx context.Context, runID string, format dto.ExportFormat) (*ScheduleFile, error) {
	format = dto.ExportFormat(strings.ToLower(string(format)))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	if format != dto.ExportFormatCSV && format != dto.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.OptimizationRunStatusCompleted {
		return nil, appErrors.Clonef(appErrors.ErrConflict, "optimization run is %s", strings.ToLower(string(run.Status)))
	}

	var schedule models.Schedule
	if len(run.Schedule) > 0 {
		if err := json.Unmarshal(run.Schedule, &schedule); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode stored schedule")
		}
	}
	dataset := ScheduleDataset(schedule)

	var file ScheduleFile
	switch format {
	case dto.ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Timetable "+run.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		file = ScheduleFile{Filename: "timetable-" + run.ID + ".pdf", ContentType: "application/pdf", Payload: payload}
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		file = ScheduleFile{Filename: "timetable-" + run.ID + ".csv", ContentType: "text/csv", Payload: payload}
	}

	s.logger.Debug("schedule exported", zap.String("run_id", run.ID), zap.String("format", string(format)), zap.Int("bytes", len(file.Payload)))
	return &file, nil
}

// ScheduleDataset tabulates a schedule in display-line order.
func ScheduleDataset(schedule models.Schedule) export.Dataset {
	ordered := make(models.Schedule, len(schedule))
	copy(ordered, schedule)
	sort.SliceStable(ordered, func(i, j int) bool {
		return FormatActivity(ordered[i]) < FormatActivity(ordered[j])
	})

	rows := make([]map[string]string, 0, len(ordered))
	for _, activity := range ordered {
		rows = append(rows, map[string]string{
			"Subject":  activity.SubjectCode,
			"Group":    activity.GroupCode,
			"Activity": activity.ActivityCode,
			"Day":      string(activity.Day),
			"Start":    activity.Start.String(),
			"End":      models.ClockTime(activity.End()).String(),
			"Minutes":  strconv.Itoa(activity.Duration),
			"Type":     activity.ActivityType,
			"Location": activity.Location,
		})
	}
	return export.Dataset{Headers: scheduleExportHeaders, Rows: rows, Widths: scheduleExportWidths}
}
