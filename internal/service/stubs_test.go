package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
)

type stubCatalogStore struct {
	subjects map[string]models.Subject
	replaced []models.Catalog
	err      error
}

func (s *stubCatalogStore) ListBySubjects(ctx context.Context, codes []string) (models.Catalog, error) {
	if s.err != nil {
		return models.Catalog{}, s.err
	}
	catalog := models.Catalog{}
	for _, code := range codes {
		if subject, ok := s.subjects[code]; ok {
			catalog.Subjects = append(catalog.Subjects, subject)
		}
	}
	return catalog, nil
}

func (s *stubCatalogStore) ReplaceSubjects(ctx context.Context, catalog models.Catalog) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = append(s.replaced, catalog)
	return nil
}

type stubRunStore struct {
	mu        sync.Mutex
	runs      map[string]*models.OptimizationRun
	updates   []repository.UpdateOptimizationRunParams
	filter    repository.OptimizationRunFilter
	updateErr error
}

func newStubRunStore() *stubRunStore {
	return &stubRunStore{runs: make(map[string]*models.OptimizationRun)}
}

func (s *stubRunStore) Create(ctx context.Context, run *models.OptimizationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *run
	s.runs[run.ID] = &copied
	return nil
}

func (s *stubRunStore) GetByID(ctx context.Context, id string) (*models.OptimizationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *run
	return &copied, nil
}

func (s *stubRunStore) Update(ctx context.Context, id string, params repository.UpdateOptimizationRunParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	run, ok := s.runs[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.updates = append(s.updates, params)
	if params.Status != nil {
		run.Status = *params.Status
	}
	if params.Score != nil {
		run.Score = params.Score
	}
	if params.Lines != nil {
		run.Lines = params.Lines
	}
	if params.Schedule != nil {
		run.Schedule = params.Schedule
	}
	if params.Evaluated != nil {
		run.Evaluated = *params.Evaluated
	}
	if params.Exhaustive != nil {
		run.Exhaustive = *params.Exhaustive
	}
	if params.ErrorMessage != nil {
		run.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		run.FinishedAt = params.FinishedAt
	}
	return nil
}

func (s *stubRunStore) List(ctx context.Context, filter repository.OptimizationRunFilter) ([]models.OptimizationRun, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	runs := make([]models.OptimizationRun, 0, len(s.runs))
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		runs = append(runs, *run)
	}
	return runs, len(runs), nil
}

// memoryCache is a CacheRepository backed by a map of JSON payloads.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type stubQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *stubQueue) TryEnqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}
