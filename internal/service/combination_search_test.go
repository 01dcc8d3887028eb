package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func TestSearchBestScheduleTieKeepsFirstCandidate(t *testing.T) {
	index := BuildCatalogIndex(lectureTutorialCatalog(t))
	prefs := models.Preferences{AvoidDays: []models.Weekday{models.WeekdayTuesday}}

	result := SearchBestSchedule(context.Background(), index, prefs, SearchBudget{})

	require.Len(t, result.Schedule, 2)
	assert.Equal(t, "Lecture", result.Schedule[0].GroupCode)
	assert.Equal(t, "Tutorial", result.Schedule[1].GroupCode)
	assert.Equal(t, "01", result.Schedule[1].ActivityCode)
	assert.Equal(t, "10:00", result.Schedule[1].Start.String())
	assert.True(t, result.Exhaustive)
	assert.Equal(t, index.CombinationCount(), result.Evaluated)
}

func TestSearchBestSchedulePrefersAllowedDays(t *testing.T) {
	catalog := models.Catalog{Subjects: []models.Subject{{
		Code: "COMP1",
		Activities: []models.Activity{
			mockActivity(t, "COMP1", "Lecture", "01", models.WeekdayTuesday, "09:00", 60),
			mockActivity(t, "COMP1", "Lecture", "02", models.WeekdayThursday, "09:00", 60),
		},
	}}}
	prefs := models.Preferences{AvoidDays: []models.Weekday{models.WeekdayTuesday}}

	result := SearchBestSchedule(context.Background(), BuildCatalogIndex(catalog), prefs, SearchBudget{})

	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "02", result.Schedule[0].ActivityCode)
	assert.InDelta(t, 1.0, result.Score.Total, 1e-9)
}

func TestSearchBestScheduleAvoidsClashes(t *testing.T) {
	catalog := models.Catalog{Subjects: []models.Subject{
		{Code: "A", Activities: []models.Activity{
			mockActivity(t, "A", "Lecture", "01", models.WeekdayWednesday, "09:00", 60),
		}},
		{Code: "B", Activities: []models.Activity{
			mockActivity(t, "B", "Lecture", "01", models.WeekdayWednesday, "09:30", 60),
			mockActivity(t, "B", "Lecture", "02", models.WeekdayWednesday, "10:00", 60),
		}},
	}}

	result := SearchBestSchedule(context.Background(), BuildCatalogIndex(catalog), models.Preferences{}, SearchBudget{})

	require.Len(t, result.Schedule, 2)
	assert.Equal(t, "02", result.Schedule[1].ActivityCode)
	assert.Equal(t, 1.0, result.Score.Clash)
}

func TestSearchBestScheduleVisitsEveryCombination(t *testing.T) {
	catalog := models.Catalog{Subjects: []models.Subject{
		{Code: "A", Activities: []models.Activity{
			mockActivity(t, "A", "L", "1", models.WeekdayMonday, "09:00", 60),
			mockActivity(t, "A", "L", "2", models.WeekdayMonday, "10:00", 60),
			mockActivity(t, "A", "T", "1", models.WeekdayTuesday, "09:00", 60),
			mockActivity(t, "A", "T", "2", models.WeekdayTuesday, "10:00", 60),
			mockActivity(t, "A", "T", "3", models.WeekdayTuesday, "11:00", 60),
		}},
		{Code: "B", Activities: []models.Activity{
			mockActivity(t, "B", "L", "1", models.WeekdayFriday, "09:00", 60),
			mockActivity(t, "B", "L", "2", models.WeekdayFriday, "10:00", 60),
		}},
	}}
	index := BuildCatalogIndex(catalog)

	result := SearchBestSchedule(context.Background(), index, models.Preferences{}, SearchBudget{})

	assert.Equal(t, int64(12), index.CombinationCount())
	assert.Equal(t, int64(12), result.Evaluated)
	assert.Len(t, result.Schedule, index.GroupCount())
	assert.True(t, result.Exhaustive)
}

func TestSearchBestScheduleIsDeterministic(t *testing.T) {
	index := BuildCatalogIndex(lectureTutorialCatalog(t))
	prefs := models.Preferences{TimeWindow: mockWindow(t, "09:00", "11:00")}

	first := SearchBestSchedule(context.Background(), index, prefs, SearchBudget{})
	second := SearchBestSchedule(context.Background(), index, prefs, SearchBudget{})

	assert.Equal(t, first, second)
}

func TestSearchBestScheduleEmptyCatalog(t *testing.T) {
	result := SearchBestSchedule(context.Background(), BuildCatalogIndex(models.Catalog{}), models.Preferences{}, SearchBudget{})

	assert.Empty(t, result.Schedule)
	assert.True(t, math.IsInf(result.Score.Total, -1))
	assert.True(t, result.Exhaustive)
	assert.Empty(t, FormatSchedule(result.Schedule))
}

func TestSearchBestScheduleStopsAtBudget(t *testing.T) {
	index := BuildCatalogIndex(lectureTutorialCatalog(t))

	result := SearchBestSchedule(context.Background(), index, models.Preferences{}, SearchBudget{MaxEvaluations: 1})

	assert.False(t, result.Exhaustive)
	assert.Equal(t, int64(1), result.Evaluated)
	require.Len(t, result.Schedule, 2)
	assert.Equal(t, "01", result.Schedule[1].ActivityCode)
}

func TestSearchBestScheduleStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := SearchBestSchedule(ctx, BuildCatalogIndex(lectureTutorialCatalog(t)), models.Preferences{}, SearchBudget{})

	assert.False(t, result.Exhaustive)
	assert.Equal(t, int64(0), result.Evaluated)
	assert.Empty(t, result.Schedule)
}
