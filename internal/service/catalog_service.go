package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

type catalogStore interface {
	catalogReader
	ReplaceSubjects(ctx context.Context, catalog models.Catalog) error
}

// CatalogService imports prepared catalogs into the store and reads them back.
type CatalogService struct {
	store  catalogStore
	logger *zap.Logger
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(store catalogStore, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, logger: logger}
}

// Import validates the catalog and replaces the stored subjects it names.
func (s *CatalogService) Import(ctx context.Context, catalog models.Catalog) error {
	if s.store == nil {
		return appErrors.Clone(appErrors.ErrUnavailable, "catalog store is not configured")
	}
	if len(catalog.Subjects) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "catalog has no subjects")
	}
	if err := ValidateCatalog(catalog); err != nil {
		return err
	}
	if err := s.store.ReplaceSubjects(ctx, catalog); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import catalog")
	}
	s.logger.Info("catalog imported",
		zap.Strings("subjects", catalog.SubjectCodes()),
		zap.Int("activities", catalog.ActivityCount()),
	)
	return nil
}

// Get returns the stored subjects among codes.
func (s *CatalogService) Get(ctx context.Context, codes []string) (models.Catalog, error) {
	if s.store == nil {
		return models.Catalog{}, appErrors.Clone(appErrors.ErrUnavailable, "catalog store is not configured")
	}
	if len(codes) == 0 {
		return models.Catalog{}, appErrors.Clone(appErrors.ErrValidation, "at least one subject code is required")
	}
	catalog, err := s.store.ListBySubjects(ctx, codes)
	if err != nil {
		return models.Catalog{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	return catalog, nil
}
