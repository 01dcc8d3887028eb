package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/middleware/requestid"
)

type catalogReader interface {
	ListBySubjects(ctx context.Context, codes []string) (models.Catalog, error)
}

type optimizationRunStore interface {
	Create(ctx context.Context, run *models.OptimizationRun) error
	GetByID(ctx context.Context, id string) (*models.OptimizationRun, error)
	Update(ctx context.Context, id string, params repository.UpdateOptimizationRunParams) error
	List(ctx context.Context, filter repository.OptimizationRunFilter) ([]models.OptimizationRun, int, error)
}

// OptimizerConfig bounds searches and toggles persistence.
type OptimizerConfig struct {
	MaxEvaluations int64
	Timeout        time.Duration
	MaxSubjects    int
	CacheTTL       time.Duration
	PersistRuns    bool
}

// OptimizerService validates requests, runs the combination search and
// records the outcome.
type OptimizerService struct {
	catalogs  catalogReader
	runs      optimizationRunStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    OptimizerConfig
}

// NewOptimizerService wires optimizer dependencies. catalogs and runs may be
// nil when no database is configured.
func NewOptimizerService(
	catalogs catalogReader,
	runs optimizationRunStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg OptimizerConfig,
) *OptimizerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizerService{
		catalogs:  catalogs,
		runs:      runs,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
	}
}

// optimizationInput is the normalised form of every request variant and the
// payload hashed for caching.
type optimizationInput struct {
	Catalog     models.Catalog          `json:"catalog"`
	Preferences models.Preferences      `json:"preferences"`
	Budget      dto.SearchBudgetRequest `json:"budget"`
}

// Optimize searches an inline catalog.
func (s *OptimizerService) Optimize(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimization payload")
	}
	input := optimizationInput{Catalog: req.Catalog, Preferences: req.Preferences, Budget: req.Budget}
	if err := s.check(input); err != nil {
		return nil, err
	}
	return s.optimizeAndRecord(ctx, input)
}

// OptimizeStored searches subjects loaded from the catalog store.
func (s *OptimizerService) OptimizeStored(ctx context.Context, req dto.StoredOptimizeRequest) (*dto.OptimizeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimization payload")
	}
	catalog, err := s.loadCatalog(ctx, req.SubjectCodes)
	if err != nil {
		return nil, err
	}
	input := optimizationInput{Catalog: catalog, Preferences: req.Preferences, Budget: req.Budget}
	if err := s.check(input); err != nil {
		return nil, err
	}
	return s.optimizeAndRecord(ctx, input)
}

func (s *OptimizerService) loadCatalog(ctx context.Context, codes []string) (models.Catalog, error) {
	if s.catalogs == nil {
		return models.Catalog{}, appErrors.Clone(appErrors.ErrUnavailable, "catalog store is not configured")
	}
	catalog, err := s.catalogs.ListBySubjects(ctx, codes)
	if err != nil {
		return models.Catalog{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	found := make(map[string]bool, len(catalog.Subjects))
	for _, subject := range catalog.Subjects {
		found[subject.Code] = true
	}
	var missing []string
	for _, code := range codes {
		if !found[code] {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return models.Catalog{}, appErrors.Clonef(appErrors.ErrNotFound, "subjects not found: %s", strings.Join(missing, ", "))
	}
	return catalog, nil
}

// check runs every validation that must pass before a search or an enqueue.
func (s *OptimizerService) check(input optimizationInput) error {
	if s.config.MaxSubjects > 0 && len(input.Catalog.Subjects) > s.config.MaxSubjects {
		return appErrors.Clonef(appErrors.ErrValidation, "at most %d subjects can be optimized at once", s.config.MaxSubjects)
	}
	if err := ValidateCatalog(input.Catalog); err != nil {
		return err
	}
	return ValidatePreferences(input.Preferences)
}

func (s *OptimizerService) optimizeAndRecord(ctx context.Context, input optimizationInput) (*dto.OptimizeResponse, error) {
	input.Budget = s.effectiveBudget(input.Budget)
	hash, err := RequestHash(input)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash optimization request")
	}

	var cached dto.OptimizeResponse
	if hit, _ := s.cache.Get(ctx, hash, &cached); hit {
		cached.Cached = true
		s.logger.Debug("optimization served from cache", zap.String("hash", hash))
		return &cached, nil
	}

	resp, err := s.execute(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.config.PersistRuns && s.runs != nil {
		run, err := newCompletedRun(hash, input, resp)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode optimization run")
		}
		if err := s.runs.Create(ctx, run); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store optimization run")
		}
		resp.RunID = run.ID
	}

	// Truncated searches depend on timing, so only exhaustive results are reusable.
	if resp.Exhaustive {
		_ = s.cache.Set(ctx, hash, resp, s.config.CacheTTL)
	}
	return resp, nil
}

// effectiveBudget fills zero request fields from the configured budget.
func (s *OptimizerService) effectiveBudget(req dto.SearchBudgetRequest) dto.SearchBudgetRequest {
	if req.MaxEvaluations == 0 {
		req.MaxEvaluations = s.config.MaxEvaluations
	}
	if req.TimeoutMs == 0 {
		req.TimeoutMs = s.config.Timeout.Milliseconds()
	}
	return req
}

// execute runs the core pipeline: index, search, format.
func (s *OptimizerService) execute(ctx context.Context, input optimizationInput) (*dto.OptimizeResponse, error) {
	index := BuildCatalogIndex(input.Catalog)
	combinations := index.CombinationCount()
	if input.Preferences.HasIgnoredToggles() {
		s.logger.Debug("preference toggles do not affect scoring",
			zap.Bool("minimize_clashes", input.Preferences.MinimizeClashes),
			zap.Bool("clash_lectures", input.Preferences.ClashLectures),
			zap.Bool("cramp_classes", input.Preferences.CrampClasses),
			zap.Bool("allocate_breaks", input.Preferences.AllocateBreaks),
			zap.Bool("spread_classes", input.Preferences.SpreadClasses),
		)
	}

	effective := s.effectiveBudget(input.Budget)
	budget := SearchBudget{MaxEvaluations: effective.MaxEvaluations}
	timeout := effective.Timeout()
	searchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result := SearchBestSchedule(searchCtx, index, input.Preferences, budget)
	duration := time.Since(start)
	s.metrics.ObserveSearch(result.Evaluated, result.Exhaustive, duration)

	if err := ctx.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "optimization cancelled")
	}

	fields := []zap.Field{
		zap.Int("subjects", len(index.Subjects)),
		zap.Int64("combinations", combinations),
		zap.Int64("evaluated", result.Evaluated),
		zap.Bool("exhaustive", result.Exhaustive),
		zap.Duration("duration", duration),
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if result.Exhaustive {
		s.logger.Info("optimization completed", fields...)
	} else {
		s.logger.Warn("search budget exhausted", fields...)
	}

	schedule := result.Schedule
	if schedule == nil {
		schedule = models.Schedule{}
	}
	return &dto.OptimizeResponse{
		Lines:        FormatSchedule(schedule),
		Schedule:     schedule,
		Score:        result.Score.TotalPtr(),
		Breakdown:    result.Score,
		Evaluated:    result.Evaluated,
		Combinations: combinations,
		Exhaustive:   result.Exhaustive,
		DurationMs:   duration.Milliseconds(),
	}, nil
}

func newCompletedRun(hash string, input optimizationInput, resp *dto.OptimizeResponse) (*models.OptimizationRun, error) {
	request, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	lines, schedule, err := encodeResult(resp)
	if err != nil {
		return nil, err
	}
	finished := time.Now().UTC()
	return &models.OptimizationRun{
		ID:          uuid.NewString(),
		Status:      models.OptimizationRunStatusCompleted,
		RequestHash: hash,
		Request:     types.JSONText(request),
		Score:       resp.Score,
		Lines:       lines,
		Schedule:    schedule,
		Evaluated:   resp.Evaluated,
		Exhaustive:  resp.Exhaustive,
		FinishedAt:  &finished,
	}, nil
}

func encodeResult(resp *dto.OptimizeResponse) (types.JSONText, types.JSONText, error) {
	lines, err := json.Marshal(resp.Lines)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := json.Marshal(resp.Schedule)
	if err != nil {
		return nil, nil, err
	}
	return types.JSONText(lines), types.JSONText(schedule), nil
}

// GetRun returns a stored run.
func (s *OptimizerService) GetRun(ctx context.Context, id string) (*models.OptimizationRun, error) {
	if s.runs == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "run persistence is not configured")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid run id")
	}
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "optimization run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load optimization run")
	}
	return run, nil
}

// ListRuns pages through stored runs, newest first.
func (s *OptimizerService) ListRuns(ctx context.Context, query dto.OptimizationRunQuery) ([]models.OptimizationRun, *models.Pagination, error) {
	if s.runs == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnavailable, "run persistence is not configured")
	}
	status := models.OptimizationRunStatus(strings.ToUpper(strings.TrimSpace(query.Status)))
	switch status {
	case "", models.OptimizationRunStatusQueued, models.OptimizationRunStatusRunning,
		models.OptimizationRunStatusCompleted, models.OptimizationRunStatusFailed:
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown run status")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	runs, total, err := s.runs.List(ctx, repository.OptimizationRunFilter{Status: status, Page: page, PageSize: size})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list optimization runs")
	}
	return runs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// PurgeCache drops memoised results.
func (s *OptimizerService) PurgeCache(ctx context.Context) error {
	if err := s.cache.Purge(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge optimization cache")
	}
	return nil
}
