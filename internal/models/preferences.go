package models

// TimeWindow is the preferred daily band for activities.
type TimeWindow struct {
	Start ClockTime `json:"start" yaml:"start"`
	End   ClockTime `json:"end" yaml:"end"`
}

// FullDayWindow never penalises an activity.
var FullDayWindow = TimeWindow{Start: 0, End: MinutesPerDay}

// Preferences configures the soft constraints of an optimization run.
//
// Only AvoidDays and TimeWindow feed the score, together with the fixed clash
// weight. The remaining toggles are accepted so callers can send the full
// preference payload, but they do not change the result.
type Preferences struct {
	AvoidDays  []Weekday   `json:"avoidDays" yaml:"avoidDays"`
	TimeWindow *TimeWindow `json:"timeWindow,omitempty" yaml:"timeWindow,omitempty"`

	MinimizeClashes bool `json:"minimizeClashes,omitempty" yaml:"minimizeClashes,omitempty"`
	ClashLectures   bool `json:"clashLectures,omitempty" yaml:"clashLectures,omitempty"`
	CrampClasses    bool `json:"crampClasses,omitempty" yaml:"crampClasses,omitempty"`
	AllocateBreaks  bool `json:"allocateBreaks,omitempty" yaml:"allocateBreaks,omitempty"`
	SpreadClasses   bool `json:"spreadClasses,omitempty" yaml:"spreadClasses,omitempty"`
}

// Window returns the configured time window or the full day when unset.
func (p Preferences) Window() TimeWindow {
	if p.TimeWindow == nil {
		return FullDayWindow
	}
	return *p.TimeWindow
}

// Avoids reports whether the weekday is in the avoid set.
func (p Preferences) Avoids(day Weekday) bool {
	for _, avoided := range p.AvoidDays {
		if avoided == day {
			return true
		}
	}
	return false
}

// HasIgnoredToggles reports whether any non-scoring toggle was set.
func (p Preferences) HasIgnoredToggles() bool {
	return p.MinimizeClashes || p.ClashLectures || p.CrampClasses || p.AllocateBreaks || p.SpreadClasses
}
