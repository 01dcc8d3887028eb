package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
)

const optimizationJobType = "optimization"

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

// OptimizationJobService runs optimizations in the background and tracks
// them as stored runs.
type OptimizationJobService struct {
	optimizer *OptimizerService
	runs      optimizationRunStore
	queue     jobEnqueuer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewOptimizationJobService constructs the job service. Call Handle from the
// queue worker and SetQueue once the queue exists.
func NewOptimizationJobService(optimizer *OptimizerService, runs optimizationRunStore, metrics *MetricsService, logger *zap.Logger) *OptimizationJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizationJobService{optimizer: optimizer, runs: runs, metrics: metrics, logger: logger}
}

// SetQueue attaches the queue that Submit pushes onto.
func (s *OptimizationJobService) SetQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Submit validates the request, records a QUEUED run and enqueues it.
func (s *OptimizationJobService) Submit(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizationJobResponse, error) {
	if s.runs == nil || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "async optimization is not configured")
	}
	if err := s.optimizer.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimization payload")
	}
	input := optimizationInput{Catalog: req.Catalog, Preferences: req.Preferences, Budget: req.Budget}
	if err := s.optimizer.check(input); err != nil {
		return nil, err
	}
	input.Budget = s.optimizer.effectiveBudget(input.Budget)

	hash, err := RequestHash(input)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash optimization request")
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode optimization request")
	}

	run := &models.OptimizationRun{
		ID:          uuid.NewString(),
		Status:      models.OptimizationRunStatusQueued,
		RequestHash: hash,
		Request:     types.JSONText(payload),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store optimization run")
	}

	if err := s.queue.TryEnqueue(jobs.Job{ID: run.ID, Type: optimizationJobType, Payload: input}); err != nil {
		s.fail(ctx, run.ID, err)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "optimization queue is full")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue optimization")
	}

	s.logger.Info("optimization queued", zap.String("run_id", run.ID))
	return &dto.OptimizationJobResponse{RunID: run.ID, Status: run.Status}, nil
}

// Handle executes a queued optimization. Infrastructure failures are
// returned for retry; search failures are recorded on the run.
func (s *OptimizationJobService) Handle(ctx context.Context, job jobs.Job) error {
	input, ok := job.Payload.(optimizationInput)
	if !ok {
		s.fail(ctx, job.ID, errors.New("unexpected job payload"))
		return jobs.Permanent(errors.New("unexpected job payload"))
	}

	running := models.OptimizationRunStatusRunning
	if err := s.runs.Update(ctx, job.ID, repository.UpdateOptimizationRunParams{Status: &running}); err != nil {
		return err
	}

	resp, err := s.optimizer.execute(ctx, input)
	if err != nil {
		s.fail(ctx, job.ID, err)
		return jobs.Permanent(err)
	}

	lines, schedule, err := encodeResult(resp)
	if err != nil {
		s.fail(ctx, job.ID, err)
		return jobs.Permanent(err)
	}
	completed := models.OptimizationRunStatusCompleted
	finished := time.Now().UTC()
	evaluated := resp.Evaluated
	exhaustive := resp.Exhaustive
	if err := s.runs.Update(ctx, job.ID, repository.UpdateOptimizationRunParams{
		Status:     &completed,
		Score:      resp.Score,
		Lines:      lines,
		Schedule:   schedule,
		Evaluated:  &evaluated,
		Exhaustive: &exhaustive,
		FinishedAt: &finished,
	}); err != nil {
		return err
	}

	s.metrics.ObserveJob(completed)
	s.logger.Info("optimization job completed",
		zap.String("run_id", job.ID),
		zap.Int64("evaluated", evaluated),
		zap.Bool("exhaustive", exhaustive),
	)
	return nil
}

func (s *OptimizationJobService) fail(ctx context.Context, runID string, cause error) {
	failed := models.OptimizationRunStatusFailed
	message := cause.Error()
	finished := time.Now().UTC()
	if err := s.runs.Update(ctx, runID, repository.UpdateOptimizationRunParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &finished,
	}); err != nil {
		s.logger.Error("failed to mark optimization run as failed", zap.String("run_id", runID), zap.Error(err))
	}
	s.metrics.ObserveJob(failed)
	s.logger.Warn("optimization job failed", zap.String("run_id", runID), zap.Error(cause))
}
