package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay bounds every ClockTime and normalises time-window deviation.
const MinutesPerDay = 24 * 60

// Weekday is the symbolic day an activity runs on.
type Weekday string

const (
	WeekdayMonday    Weekday = "Mon"
	WeekdayTuesday   Weekday = "Tue"
	WeekdayWednesday Weekday = "Wed"
	WeekdayThursday  Weekday = "Thu"
	WeekdayFriday    Weekday = "Fri"
	WeekdaySaturday  Weekday = "Sat"
	WeekdaySunday    Weekday = "Sun"
)

var weekdayPrefixes = map[string]Weekday{
	"mon": WeekdayMonday,
	"tue": WeekdayTuesday,
	"wed": WeekdayWednesday,
	"thu": WeekdayThursday,
	"fri": WeekdayFriday,
	"sat": WeekdaySaturday,
	"sun": WeekdaySunday,
}

// ParseWeekday matches the first three letters case-insensitively, so "tue",
// "Tuesday" and "TUESDAY" all resolve to WeekdayTuesday.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < 3 {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	day, ok := weekdayPrefixes[value[:3]]
	if !ok {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// Valid reports whether the weekday is one of the seven canonical values.
func (d Weekday) Valid() bool {
	for _, day := range weekdayPrefixes {
		if day == d {
			return true
		}
	}
	return false
}

// UnmarshalJSON normalises any accepted spelling to the canonical short form.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekday must be a string: %w", err)
	}
	day, err := ParseWeekday(raw)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// UnmarshalText lets YAML and CSV decoders share the weekday parsing rules.
func (d *Weekday) UnmarshalText(text []byte) error {
	day, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// ClockTime is a time of day stored as minutes since midnight.
type ClockTime int

// ClockTimeUnset marks an activity decoded without a start time.
const ClockTimeUnset ClockTime = -1

// ParseClockTime parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseClockTime(raw string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	value := ClockTime(hours*60 + minutes)
	if !value.Valid() {
		return 0, fmt.Errorf("time %q is outside 00:00-24:00", raw)
	}
	return value, nil
}

// Valid reports whether the value lies within a single day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// Minutes returns the offset since midnight.
func (t ClockTime) Minutes() int {
	return int(t)
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON renders the value as "HH:MM".
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts "HH:MM" or a bare number of whole hours.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := ParseClockTime(raw)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var hours float64
	if err := json.Unmarshal(data, &hours); err != nil {
		return fmt.Errorf("time must be \"HH:MM\" or hours: %w", err)
	}
	return t.setHours(hours)
}

// UnmarshalText accepts the same forms as UnmarshalJSON for YAML sources.
func (t *ClockTime) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if !strings.Contains(raw, ":") {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid time %q: expected HH:MM or hours", raw)
		}
		return t.setHours(hours)
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *ClockTime) setHours(hours float64) error {
	value := ClockTime(hours * 60)
	if !value.Valid() {
		return fmt.Errorf("time %v hours is outside 0-24", hours)
	}
	*t = value
	return nil
}

// Activity is one concrete timed offering of an activity group.
type Activity struct {
	SubjectCode  string    `json:"subjectCode" yaml:"subjectCode"`
	GroupCode    string    `json:"groupCode" yaml:"groupCode"`
	ActivityCode string    `json:"activityCode" yaml:"activityCode"`
	Day          Weekday   `json:"day" yaml:"day"`
	Start        ClockTime `json:"start" yaml:"start"`
	Duration     int       `json:"duration" yaml:"duration"`

	ActivityType string `json:"activityType,omitempty" yaml:"activityType,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	Campus       string `json:"campus,omitempty" yaml:"campus,omitempty"`
}

// UnmarshalJSON leaves Start as ClockTimeUnset when the field is absent so
// validation can tell a missing start from midnight.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type plain Activity
	decoded := plain{Start: ClockTimeUnset}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = Activity(decoded)
	return nil
}

// UnmarshalYAML applies the same missing-start rule as UnmarshalJSON.
func (a *Activity) UnmarshalYAML(value *yaml.Node) error {
	type plain Activity
	decoded := plain{Start: ClockTimeUnset}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*a = Activity(decoded)
	return nil
}

// End returns the minute offset at which the activity finishes.
func (a Activity) End() int {
	return a.Start.Minutes() + a.Duration
}

// GroupKey identifies the activity group an activity belongs to.
func (a Activity) GroupKey() GroupKey {
	return GroupKey{SubjectCode: a.SubjectCode, GroupCode: a.GroupCode}
}

// GroupKey is the (subject, group) identity of an activity group.
type GroupKey struct {
	SubjectCode string
	GroupCode   string
}
