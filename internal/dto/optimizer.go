package dto

import (
	"time"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// SearchBudgetRequest bounds a single optimization. Zero values fall back to
// the server configuration.
type SearchBudgetRequest struct {
	MaxEvaluations int64 `json:"maxEvaluations" validate:"omitempty,min=0"`
	TimeoutMs      int64 `json:"timeoutMs" validate:"omitempty,min=0,max=600000"`
}

// Timeout converts the millisecond budget to a duration.
func (b SearchBudgetRequest) Timeout() time.Duration {
	return time.Duration(b.TimeoutMs) * time.Millisecond
}

// OptimizeRequest carries an inline catalog to optimize.
type OptimizeRequest struct {
	Catalog     models.Catalog      `json:"catalog"`
	Preferences models.Preferences  `json:"preferences"`
	Budget      SearchBudgetRequest `json:"budget"`
}

// StoredOptimizeRequest optimizes subjects loaded from the catalog store.
type StoredOptimizeRequest struct {
	SubjectCodes []string            `json:"subjectCodes" validate:"required,min=1,dive,required"`
	Preferences  models.Preferences  `json:"preferences"`
	Budget       SearchBudgetRequest `json:"budget"`
}

// OptimizeResponse is the best schedule found for a request.
type OptimizeResponse struct {
	RunID        string                `json:"runId,omitempty"`
	Lines        []string              `json:"lines"`
	Schedule     models.Schedule       `json:"schedule"`
	Score        *float64              `json:"score"`
	Breakdown    models.ScoreBreakdown `json:"breakdown"`
	Evaluated    int64                 `json:"evaluated"`
	Combinations int64                 `json:"combinations"`
	Exhaustive   bool                  `json:"exhaustive"`
	Cached       bool                  `json:"cached"`
	DurationMs   int64                 `json:"durationMs"`
}

// OptimizationJobResponse acknowledges an async optimization.
type OptimizationJobResponse struct {
	RunID  string                       `json:"runId"`
	Status models.OptimizationRunStatus `json:"status"`
}

// OptimizationRunQuery pages through stored runs.
type OptimizationRunQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ExportFormat selects the rendering for schedule downloads.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)
