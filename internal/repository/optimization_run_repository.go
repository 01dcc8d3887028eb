package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// OptimizationRunRepository persists optimization runs.
type OptimizationRunRepository struct {
	db *sqlx.DB
}

// NewOptimizationRunRepository constructs the repository.
func NewOptimizationRunRepository(db *sqlx.DB) *OptimizationRunRepository {
	return &OptimizationRunRepository{db: db}
}

// OptimizationRunFilter narrows List results.
type OptimizationRunFilter struct {
	Status   models.OptimizationRunStatus
	Page     int
	PageSize int
}

// UpdateOptimizationRunParams carries the columns to change; nil fields are kept.
type UpdateOptimizationRunParams struct {
	Status       *models.OptimizationRunStatus
	Score        *float64
	Lines        types.JSONText
	Schedule     types.JSONText
	Evaluated    *int64
	Exhaustive   *bool
	ErrorMessage *string
	FinishedAt   *time.Time
}

const optimizationRunColumns = `id, status, request_hash, request, score, lines, schedule, evaluated, exhaustive, error_message, created_at, updated_at, finished_at`

// Create inserts a new run, assigning id, status and timestamps when unset.
func (r *OptimizationRunRepository) Create(ctx context.Context, run *models.OptimizationRun) error {
	if run == nil {
		return fmt.Errorf("optimization run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.OptimizationRunStatusQueued
	}
	if len(run.Request) == 0 {
		run.Request = types.JSONText(`{}`)
	}
	if len(run.Lines) == 0 {
		run.Lines = types.JSONText(`[]`)
	}
	if len(run.Schedule) == 0 {
		run.Schedule = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	query := `INSERT INTO optimization_runs (` + optimizationRunColumns + `)
VALUES (:id, :status, :request_hash, :request, :score, :lines, :schedule, :evaluated, :exhaustive, :error_message, :created_at, :updated_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert optimization run: %w", err)
	}
	return nil
}

// GetByID loads a run by id, returning sql.ErrNoRows when absent.
func (r *OptimizationRunRepository) GetByID(ctx context.Context, id string) (*models.OptimizationRun, error) {
	query := `SELECT ` + optimizationRunColumns + ` FROM optimization_runs WHERE id = $1`
	var run models.OptimizationRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// Update applies the non-nil params to the run.
func (r *OptimizationRunRepository) Update(ctx context.Context, id string, params UpdateOptimizationRunParams) error {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.Score != nil {
		add("score", *params.Score)
	}
	if len(params.Lines) > 0 {
		add("lines", params.Lines)
	}
	if len(params.Schedule) > 0 {
		add("schedule", params.Schedule)
	}
	if params.Evaluated != nil {
		add("evaluated", *params.Evaluated)
	}
	if params.Exhaustive != nil {
		add("exhaustive", *params.Exhaustive)
	}
	if params.ErrorMessage != nil {
		add("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		add("finished_at", *params.FinishedAt)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE optimization_runs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update optimization run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("optimization run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns runs newest first with the total count for pagination.
func (r *OptimizationRunRepository) List(ctx context.Context, filter OptimizationRunFilter) ([]models.OptimizationRun, int, error) {
	base := "FROM optimization_runs WHERE 1=1"
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		base += fmt.Sprintf(" AND status = $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", optimizationRunColumns, base, size, offset)
	var runs []models.OptimizationRun
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list optimization runs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count optimization runs: %w", err)
	}
	return runs, total, nil
}
