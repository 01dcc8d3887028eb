package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

func TestScoreAvoidDays(t *testing.T) {
	prefs := models.Preferences{AvoidDays: []models.Weekday{models.WeekdayTuesday}}

	assert.Equal(t, 0.0, ScoreAvoidDays(mockActivity(t, "A", "L", "1", models.WeekdayTuesday, "09:00", 60), prefs))
	assert.Equal(t, 1.0, ScoreAvoidDays(mockActivity(t, "A", "L", "1", models.WeekdayMonday, "09:00", 60), prefs))
	assert.Equal(t, 1.0, ScoreAvoidDays(mockActivity(t, "A", "L", "1", models.WeekdayTuesday, "09:00", 60), models.Preferences{}))
}

func TestScoreTimeWindow(t *testing.T) {
	prefs := models.Preferences{TimeWindow: mockWindow(t, "06:00", "18:00")}

	tests := []struct {
		name     string
		start    string
		minutes  int
		expected float64
	}{
		{name: "inside", start: "09:00", minutes: 60, expected: 1},
		{name: "touching both edges", start: "06:00", minutes: 720, expected: 1},
		{name: "ends late", start: "17:00", minutes: 120, expected: 1 - 60.0/1440},
		{name: "starts early", start: "05:00", minutes: 120, expected: 1 - 60.0/1440},
		{name: "entirely before", start: "04:00", minutes: 60, expected: 1 - 180.0/1440},
		{name: "entirely after", start: "19:00", minutes: 60, expected: 1 - 180.0/1440},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := ScoreTimeWindow(mockActivity(t, "A", "L", "1", models.WeekdayMonday, tc.start, tc.minutes), prefs)
			assert.InDelta(t, tc.expected, score, 1e-9)
		})
	}
}

func TestScoreTimeWindowClampsAtZero(t *testing.T) {
	prefs := models.Preferences{TimeWindow: mockWindow(t, "24:00", "24:00")}
	activity := mockActivity(t, "A", "L", "1", models.WeekdayMonday, "00:00", 60)

	assert.Equal(t, 0.0, ScoreTimeWindow(activity, prefs))
}

func TestScoreTimeWindowDefaultsToFullDay(t *testing.T) {
	activity := mockActivity(t, "A", "L", "1", models.WeekdayMonday, "23:00", 60)
	assert.Equal(t, 1.0, ScoreTimeWindow(activity, models.Preferences{}))
}

func TestCheckClash(t *testing.T) {
	first := mockActivity(t, "A", "L", "1", models.WeekdayWednesday, "09:00", 60)
	overlapping := mockActivity(t, "B", "L", "1", models.WeekdayWednesday, "09:30", 60)
	adjacent := mockActivity(t, "B", "L", "2", models.WeekdayWednesday, "10:00", 60)
	otherDay := mockActivity(t, "B", "L", "3", models.WeekdayThursday, "09:00", 60)

	assert.True(t, CheckClash(first, overlapping))
	assert.True(t, CheckClash(overlapping, first))
	assert.False(t, CheckClash(first, adjacent))
	assert.False(t, CheckClash(first, otherDay))
}

func TestScoreClashes(t *testing.T) {
	first := mockActivity(t, "A", "L", "1", models.WeekdayWednesday, "09:00", 60)
	second := mockActivity(t, "B", "L", "1", models.WeekdayWednesday, "09:30", 60)
	third := mockActivity(t, "C", "L", "1", models.WeekdayFriday, "09:00", 60)

	assert.Equal(t, 1.0, ScoreClashes(nil))
	assert.Equal(t, 1.0, ScoreClashes([]models.Activity{first}))
	assert.Equal(t, 0.0, ScoreClashes([]models.Activity{first, second}))
	assert.InDelta(t, 2.0/3.0, ScoreClashes([]models.Activity{first, second, third}), 1e-9)
}

func TestScoreCombination(t *testing.T) {
	prefs := models.Preferences{AvoidDays: []models.Weekday{models.WeekdayTuesday}}
	activities := []models.Activity{
		mockActivity(t, "A", "L", "1", models.WeekdayMonday, "09:00", 60),
		mockActivity(t, "A", "T", "1", models.WeekdayTuesday, "10:00", 60),
	}

	score := ScoreCombination(activities, prefs)

	assert.InDelta(t, 0.5, score.DayAvoidance, 1e-9)
	assert.InDelta(t, 1.0, score.TimeWindow, 1e-9)
	assert.InDelta(t, 1.0, score.Clash, 1e-9)
	assert.InDelta(t, 0.5*0.5+0.3+0.2, score.Total, 1e-9)
	assert.True(t, score.Finite())
}

func TestScoreCombinationEmptyIsNegativeInfinity(t *testing.T) {
	score := ScoreCombination(nil, models.Preferences{})

	assert.True(t, math.IsInf(score.Total, -1))
	assert.False(t, score.Finite())
	assert.Nil(t, score.TotalPtr())
}

func TestScoreCombinationIgnoresToggles(t *testing.T) {
	activities := []models.Activity{
		mockActivity(t, "A", "L", "1", models.WeekdayWednesday, "09:00", 60),
		mockActivity(t, "B", "L", "1", models.WeekdayWednesday, "09:30", 60),
	}
	toggled := models.Preferences{MinimizeClashes: true, CrampClasses: true, SpreadClasses: true}

	assert.Equal(t, ScoreCombination(activities, models.Preferences{}), ScoreCombination(activities, toggled))
}
