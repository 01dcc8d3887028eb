package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func newPostgresMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

var catalogColumns = []string{"subject_code", "subject_description", "group_code", "activity_code", "day_of_week", "start_time", "duration_minutes", "activity_type", "location", "campus", "position"}

func TestCatalogRepositoryListBySubjects(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows(catalogColumns).
		AddRow("ART", "Studio Art", "Studio", "01", "Mon", "09:00", 180, "Workshop", "B12", "City", 0).
		AddRow("MATH", "Calculus", "Lecture", "01", "Tue", "10:00", 120, "Lecture", "A1", "City", 0).
		AddRow("MATH", "Calculus", "Tutorial", "02", "Thu", "14:30", 60, "Tutorial", "A2", "City", 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_activities WHERE subject_code IN ($1, $2, $3) ORDER BY subject_code ASC, position ASC")).
		WithArgs("MATH", "ART", "NONE").
		WillReturnRows(rows)

	catalog, err := repo.ListBySubjects(context.Background(), []string{"MATH", "ART", "NONE"})
	require.NoError(t, err)

	assert.Equal(t, []string{"MATH", "ART"}, catalog.SubjectCodes())
	math := catalog.Subjects[0]
	assert.Equal(t, "Calculus", math.Description)
	require.Len(t, math.Activities, 2)
	assert.Equal(t, models.WeekdayThursday, math.Activities[1].Day)
	assert.Equal(t, "14:30", math.Activities[1].Start.String())
	assert.Equal(t, 60, math.Activities[1].Duration)
	assert.Equal(t, "MATH", math.Activities[1].SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListBySubjectsRejectsBadRows(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery("FROM catalog_activities").
		WillReturnRows(sqlmock.NewRows(catalogColumns).AddRow("ART", "", "Studio", "01", "Someday", "09:00", 60, "", "", "", 0))

	_, err := repo.ListBySubjects(context.Background(), []string{"ART"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject ART activity Studio/01")
}

func TestCatalogRepositoryListBySubjectsEmpty(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	catalog, err := repo.ListBySubjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, catalog.Subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryReplaceSubjects(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	start, err := models.ParseClockTime("09:00")
	require.NoError(t, err)
	catalog := models.Catalog{Subjects: []models.Subject{{
		Code:        "ART",
		Description: "Studio Art",
		Activities: []models.Activity{
			{GroupCode: "Studio", ActivityCode: "01", Day: models.WeekdayMonday, Start: start, Duration: 180},
			{GroupCode: "Studio", ActivityCode: "02", Day: models.WeekdayFriday, Start: start, Duration: 180},
		},
	}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM catalog_activities WHERE subject_code = $1")).
		WithArgs("ART").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO catalog_activities").
		WithArgs("ART", "Studio Art", "Studio", "01", "Mon", "09:00", 180, "", "", "", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO catalog_activities").
		WithArgs("ART", "Studio Art", "Studio", "02", "Fri", "09:00", 180, "", "", "", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceSubjects(context.Background(), catalog))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryReplaceSubjectsRollsBack(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM catalog_activities").
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.ReplaceSubjects(context.Background(), models.Catalog{Subjects: []models.Subject{{Code: "ART"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear subject ART")
	assert.NoError(t, mock.ExpectationsWereMet())
}
