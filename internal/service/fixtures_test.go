package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func mockActivity(t *testing.T, subject, group, code string, day models.Weekday, start string, minutes int) models.Activity {
	t.Helper()
	clock, err := models.ParseClockTime(start)
	require.NoError(t, err)
	return models.Activity{
		SubjectCode:  subject,
		GroupCode:    group,
		ActivityCode: code,
		Day:          day,
		Start:        clock,
		Duration:     minutes,
	}
}

func mockWindow(t *testing.T, start, end string) *models.TimeWindow {
	t.Helper()
	from, err := models.ParseClockTime(start)
	require.NoError(t, err)
	to, err := models.ParseClockTime(end)
	require.NoError(t, err)
	return &models.TimeWindow{Start: from, End: to}
}

// lectureTutorialCatalog is a single subject with one lecture and two
// tutorial candidates on Tuesday.
func lectureTutorialCatalog(t *testing.T) models.Catalog {
	return models.Catalog{Subjects: []models.Subject{{
		Code: "COMP1",
		Activities: []models.Activity{
			mockActivity(t, "COMP1", "Lecture", "01", models.WeekdayMonday, "09:00", 60),
			mockActivity(t, "COMP1", "Tutorial", "01", models.WeekdayTuesday, "10:00", 60),
			mockActivity(t, "COMP1", "Tutorial", "02", models.WeekdayTuesday, "11:30", 30),
		},
	}}}
}
