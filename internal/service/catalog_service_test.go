package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

func TestCatalogServiceImport(t *testing.T) {
	store := &stubCatalogStore{}
	svc := NewCatalogService(store, nil)

	require.NoError(t, svc.Import(context.Background(), lectureTutorialCatalog(t)))
	require.Len(t, store.replaced, 1)
	assert.Equal(t, []string{"COMP1"}, store.replaced[0].SubjectCodes())

	err := svc.Import(context.Background(), models.Catalog{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	invalid := lectureTutorialCatalog(t)
	invalid.Subjects[0].Activities[0].Day = "Noday"
	err = svc.Import(context.Background(), invalid)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Len(t, store.replaced, 1)

	store.err = errors.New("db down")
	err = svc.Import(context.Background(), lectureTutorialCatalog(t))
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCatalogServiceGet(t *testing.T) {
	store := &stubCatalogStore{subjects: map[string]models.Subject{"COMP1": lectureTutorialCatalog(t).Subjects[0]}}
	svc := NewCatalogService(store, nil)

	catalog, err := svc.Get(context.Background(), []string{"COMP1", "NONE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"COMP1"}, catalog.SubjectCodes())

	_, err = svc.Get(context.Background(), nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCatalogServiceWithoutStore(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	assert.True(t, errors.Is(svc.Import(context.Background(), lectureTutorialCatalog(t)), appErrors.ErrUnavailable))
	_, err := svc.Get(context.Background(), []string{"COMP1"})
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
}
