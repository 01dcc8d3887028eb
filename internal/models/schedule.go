package models

import "math"

// Schedule is an ordered selection of one activity per activity group.
type Schedule []Activity

// ScoreBreakdown exposes the individual fitness components of a schedule.
type ScoreBreakdown struct {
	DayAvoidance float64 `json:"dayAvoidance"`
	TimeWindow   float64 `json:"timeWindow"`
	Clash        float64 `json:"clash"`
	Total        float64 `json:"-"`
}

// Finite reports whether the total is a real score rather than the
// negative infinity assigned to an empty selection.
func (s ScoreBreakdown) Finite() bool {
	return !math.IsInf(s.Total, 0) && !math.IsNaN(s.Total)
}

// TotalPtr returns the total for JSON/SQL output, nil when not finite.
func (s ScoreBreakdown) TotalPtr() *float64 {
	if !s.Finite() {
		return nil
	}
	total := s.Total
	return &total
}
