package service

import (
	"math"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// Score weights in priority order: day preference, then time window, then
// clash avoidance.
const (
	AvoidDaysWeight  = 0.5
	TimeWindowWeight = 0.3
	ClashWeight      = 0.2
)

// ScoreAvoidDays returns 0 when the activity falls on an avoided day, else 1.
func ScoreAvoidDays(activity models.Activity, prefs models.Preferences) float64 {
	if prefs.Avoids(activity.Day) {
		return 0.0
	}
	return 1.0
}

// ScoreTimeWindow measures how far the activity's start and end fall outside
// the preferred window, normalised by a full day. Inside the window scores 1.
func ScoreTimeWindow(activity models.Activity, prefs models.Preferences) float64 {
	window := prefs.Window()
	allowedStart := window.Start.Minutes()
	allowedEnd := window.End.Minutes()
	start := activity.Start.Minutes()
	end := activity.End()

	startDeviation := max(0, allowedStart-start) + max(0, start-allowedEnd)
	endDeviation := max(0, allowedStart-end) + max(0, end-allowedEnd)

	score := 1.0 - float64(startDeviation+endDeviation)/float64(models.MinutesPerDay)
	return math.Max(0, score)
}

// CheckClash reports whether two activities overlap on the same weekday.
// Intervals are half-open, so back-to-back activities do not clash.
func CheckClash(a, b models.Activity) bool {
	if a.Day != b.Day {
		return false
	}
	return !(a.End() <= b.Start.Minutes() || b.End() <= a.Start.Minutes())
}

// ScoreClashes returns 1 - clashing pairs / possible pairs, or 1 when there
// are fewer than two activities.
func ScoreClashes(activities []models.Activity) float64 {
	n := len(activities)
	pairs := n * (n - 1) / 2
	if pairs == 0 {
		return 1.0
	}
	clashes := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if CheckClash(activities[i], activities[j]) {
				clashes++
			}
		}
	}
	return 1.0 - float64(clashes)/float64(pairs)
}

// ScoreCombination combines the three components into the weighted total.
// An empty selection scores negative infinity so it never wins.
func ScoreCombination(activities []models.Activity, prefs models.Preferences) models.ScoreBreakdown {
	if len(activities) == 0 {
		return models.ScoreBreakdown{Total: math.Inf(-1)}
	}
	var daySum, timeSum float64
	for _, activity := range activities {
		daySum += ScoreAvoidDays(activity, prefs)
		timeSum += ScoreTimeWindow(activity, prefs)
	}
	count := float64(len(activities))
	breakdown := models.ScoreBreakdown{
		DayAvoidance: daySum / count,
		TimeWindow:   timeSum / count,
		Clash:        ScoreClashes(activities),
	}
	breakdown.Total = AvoidDaysWeight*breakdown.DayAvoidance +
		TimeWindowWeight*breakdown.TimeWindow +
		ClashWeight*breakdown.Clash
	return breakdown
}
