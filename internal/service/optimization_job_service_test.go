package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
)

func newJobFixture(t *testing.T) (*OptimizationJobService, *stubRunStore, *stubQueue) {
	t.Helper()
	fx := newOptimizerFixture(t, OptimizerConfig{})
	svc := NewOptimizationJobService(fx.service, fx.runs, fx.metrics, nil)
	queue := &stubQueue{}
	svc.SetQueue(queue)
	return svc, fx.runs, queue
}

func TestOptimizationJobServiceSubmit(t *testing.T) {
	svc, runs, queue := newJobFixture(t)

	resp, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	require.NoError(t, err)
	assert.Equal(t, models.OptimizationRunStatusQueued, resp.Status)

	run, err := runs.GetByID(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.OptimizationRunStatusQueued, run.Status)
	assert.NotEmpty(t, run.RequestHash)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.RunID, queue.jobs[0].ID)
	assert.Equal(t, optimizationJobType, queue.jobs[0].Type)
	assert.IsType(t, optimizationInput{}, queue.jobs[0].Payload)
}

func TestOptimizationJobServiceSubmitRejectsInvalidCatalog(t *testing.T) {
	svc, runs, queue := newJobFixture(t)
	catalog := lectureTutorialCatalog(t)
	catalog.Subjects[0].Activities[0].Duration = 0

	_, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: catalog})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, runs.runs)
	assert.Empty(t, queue.jobs)
}

func TestOptimizationJobServiceSubmitQueueFull(t *testing.T) {
	svc, runs, queue := newJobFixture(t)
	queue.err = jobs.ErrQueueFull

	_, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))

	require.Len(t, runs.runs, 1)
	for _, run := range runs.runs {
		assert.Equal(t, models.OptimizationRunStatusFailed, run.Status)
		require.NotNil(t, run.ErrorMessage)
		assert.Equal(t, jobs.ErrQueueFull.Error(), *run.ErrorMessage)
	}
}

func TestOptimizationJobServiceSubmitNotConfigured(t *testing.T) {
	fx := newOptimizerFixture(t, OptimizerConfig{})
	svc := NewOptimizationJobService(fx.service, fx.runs, nil, nil)

	_, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
}

func TestOptimizationJobServiceHandle(t *testing.T) {
	svc, runs, queue := newJobFixture(t)
	resp, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	require.NoError(t, err)

	require.NoError(t, svc.Handle(context.Background(), queue.jobs[0]))

	run, err := runs.GetByID(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.OptimizationRunStatusCompleted, run.Status)
	require.NotNil(t, run.Score)
	assert.Equal(t, int64(2), run.Evaluated)
	assert.True(t, run.Exhaustive)
	assert.NotNil(t, run.FinishedAt)

	require.Len(t, runs.updates, 2)
	assert.Equal(t, models.OptimizationRunStatusRunning, *runs.updates[0].Status)
}

func TestOptimizationJobServiceHandleBadPayload(t *testing.T) {
	svc, runs, _ := newJobFixture(t)
	require.NoError(t, runs.Create(context.Background(), &models.OptimizationRun{ID: "run-1", Status: models.OptimizationRunStatusQueued}))

	err := svc.Handle(context.Background(), jobs.Job{ID: "run-1", Payload: "garbage"})
	require.Error(t, err)
	assert.True(t, jobs.IsPermanent(err))

	run, _ := runs.GetByID(context.Background(), "run-1")
	assert.Equal(t, models.OptimizationRunStatusFailed, run.Status)
}

func TestOptimizationJobServiceHandleCancelledIsPermanent(t *testing.T) {
	svc, runs, queue := newJobFixture(t)
	resp, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = svc.Handle(ctx, queue.jobs[0])
	require.Error(t, err)
	assert.True(t, jobs.IsPermanent(err))

	run, _ := runs.GetByID(context.Background(), resp.RunID)
	assert.Equal(t, models.OptimizationRunStatusFailed, run.Status)
}

func TestOptimizationJobServiceHandleRetriesStoreErrors(t *testing.T) {
	svc, runs, queue := newJobFixture(t)
	_, err := svc.Submit(context.Background(), dto.OptimizeRequest{Catalog: lectureTutorialCatalog(t)})
	require.NoError(t, err)
	runs.updateErr = errors.New("connection reset")

	err = svc.Handle(context.Background(), queue.jobs[0])
	require.Error(t, err)
	assert.False(t, jobs.IsPermanent(err))
}
