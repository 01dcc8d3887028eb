package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// OptimizationRunStatus tracks the lifecycle of a stored optimization.
type OptimizationRunStatus string

const (
	OptimizationRunStatusQueued    OptimizationRunStatus = "QUEUED"
	OptimizationRunStatusRunning   OptimizationRunStatus = "RUNNING"
	OptimizationRunStatusCompleted OptimizationRunStatus = "COMPLETED"
	OptimizationRunStatusFailed    OptimizationRunStatus = "FAILED"
)

// OptimizationRun is the persisted record of one optimization request.
type OptimizationRun struct {
	ID           string                `db:"id" json:"id"`
	Status       OptimizationRunStatus `db:"status" json:"status"`
	RequestHash  string                `db:"request_hash" json:"requestHash"`
	Request      types.JSONText        `db:"request" json:"-"`
	Score        *float64              `db:"score" json:"score"`
	Lines        types.JSONText        `db:"lines" json:"lines"`
	Schedule     types.JSONText        `db:"schedule" json:"schedule"`
	Evaluated    int64                 `db:"evaluated" json:"evaluated"`
	Exhaustive   bool                  `db:"exhaustive" json:"exhaustive"`
	ErrorMessage *string               `db:"error_message" json:"error,omitempty"`
	CreatedAt    time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time             `db:"updated_at" json:"updatedAt"`
	FinishedAt   *time.Time            `db:"finished_at" json:"finishedAt,omitempty"`
}

// Finished reports whether the run reached a terminal status.
func (r OptimizationRun) Finished() bool {
	return r.Status == OptimizationRunStatusCompleted || r.Status == OptimizationRunStatusFailed
}
