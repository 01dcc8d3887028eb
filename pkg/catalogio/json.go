package catalogio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

type jsonDocument struct {
	Subjects     []json.RawMessage      `json:"subjects"`
	Preferences  *models.Preferences    `json:"preferences"`
	Optimization *timetableOptimization `json:"optimization"`
}

// timetableSubject is the subject shape published by the university
// timetable service: activities keyed "SUBJECT|Group|Code".
type timetableSubject struct {
	SubjectCode string          `json:"subject_code"`
	Description string          `json:"description"`
	Activities  json.RawMessage `json:"activities"`
}

type keyedActivity struct {
	key      string
	activity timetableActivity
}

type timetableActivity struct {
	SubjectCode  string      `json:"subject_code"`
	GroupCode    string      `json:"activity_group_code"`
	ActivityCode string      `json:"activity_code"`
	ActivityType string      `json:"activity_type"`
	Description  string      `json:"description"`
	DayOfWeek    string      `json:"day_of_week"`
	StartTime    string      `json:"start_time"`
	Duration     json.Number `json:"duration"`
	Location     string      `json:"location"`
	Campus       string      `json:"campus"`
}

type timetableOptimization struct {
	AvoidDays        []string `json:"avoidDays"`
	TimeRestrictions *struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"timeRestrictions"`
	Preferences struct {
		MinimizeClashes bool `json:"minimizeClashes"`
		ClashLectures   bool `json:"clashLectures"`
		CrampClasses    bool `json:"crampClasses"`
		AllocateBreaks  bool `json:"allocateBreaks"`
		SpreadClasses   bool `json:"spreadClasses"`
	} `json:"preferences"`
}

func decodeJSON(r io.Reader) (*Document, error) {
	var raw jsonDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json catalog: %w", err)
	}

	doc := &Document{Preferences: raw.Preferences}
	positions := make(map[string]int, len(raw.Subjects))
	for i, subjectRaw := range raw.Subjects {
		var probe struct {
			Activities json.RawMessage `json:"activities"`
		}
		if err := json.Unmarshal(subjectRaw, &probe); err != nil {
			return nil, fmt.Errorf("parse subject #%d: %w", i+1, err)
		}

		if first := firstByte(probe.Activities); first == '{' {
			if err := appendTimetableSubject(&doc.Catalog, positions, subjectRaw); err != nil {
				return nil, fmt.Errorf("subject #%d: %w", i+1, err)
			}
			continue
		}

		var subject models.Subject
		if err := json.Unmarshal(subjectRaw, &subject); err != nil {
			return nil, fmt.Errorf("parse subject #%d: %w", i+1, err)
		}
		if idx, ok := positions[subject.Code]; ok {
			merged := &doc.Catalog.Subjects[idx]
			merged.Activities = append(merged.Activities, subject.Activities...)
			merged.RequiredGroups = append(merged.RequiredGroups, subject.RequiredGroups...)
			continue
		}
		positions[subject.Code] = len(doc.Catalog.Subjects)
		doc.Catalog.Subjects = append(doc.Catalog.Subjects, subject)
	}

	if raw.Optimization != nil {
		prefs, err := raw.Optimization.preferences()
		if err != nil {
			return nil, err
		}
		if doc.Preferences == nil {
			doc.Preferences = prefs
		}
	}
	return doc, nil
}

func appendTimetableSubject(catalog *models.Catalog, positions map[string]int, raw json.RawMessage) error {
	var subject timetableSubject
	if err := json.Unmarshal(raw, &subject); err != nil {
		return err
	}

	entries, err := decodeKeyedActivities(subject.Activities)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		code := subject.SubjectCode
		if code == "" {
			code = entry.activity.SubjectCode
		}
		activity, err := entry.activity.toActivity(code)
		if err != nil {
			return fmt.Errorf("activity %s: %w", entry.key, err)
		}
		appendActivity(catalog, positions, code, subject.Description, activity)
	}
	return nil
}

// decodeKeyedActivities walks the activities object token by token so entries
// keep their document order; a Go map would lose it.
func decodeKeyedActivities(raw json.RawMessage) ([]keyedActivity, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse activities: %w", err)
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("activities must be an object")
	}

	var entries []keyedActivity
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse activities: %w", err)
		}
		key, _ := tok.(string)
		var activity timetableActivity
		if err := dec.Decode(&activity); err != nil {
			return nil, fmt.Errorf("activity %s: %w", key, err)
		}
		entries = append(entries, keyedActivity{key: key, activity: activity})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse activities: %w", err)
	}
	return entries, nil
}

func (a timetableActivity) toActivity(subjectCode string) (models.Activity, error) {
	day, err := models.ParseWeekday(a.DayOfWeek)
	if err != nil {
		return models.Activity{}, err
	}
	start, err := models.ParseClockTime(a.StartTime)
	if err != nil {
		return models.Activity{}, err
	}
	duration, err := strconv.Atoi(a.Duration.String())
	if err != nil {
		return models.Activity{}, fmt.Errorf("invalid duration %q", a.Duration)
	}
	return models.Activity{
		SubjectCode:  subjectCode,
		GroupCode:    a.GroupCode,
		ActivityCode: a.ActivityCode,
		Day:          day,
		Start:        start,
		Duration:     duration,
		ActivityType: a.ActivityType,
		Description:  a.Description,
		Location:     a.Location,
		Campus:       a.Campus,
	}, nil
}

func (o timetableOptimization) preferences() (*models.Preferences, error) {
	prefs := &models.Preferences{
		MinimizeClashes: o.Preferences.MinimizeClashes,
		ClashLectures:   o.Preferences.ClashLectures,
		CrampClasses:    o.Preferences.CrampClasses,
		AllocateBreaks:  o.Preferences.AllocateBreaks,
		SpreadClasses:   o.Preferences.SpreadClasses,
	}
	for _, value := range o.AvoidDays {
		day, err := models.ParseWeekday(value)
		if err != nil {
			return nil, fmt.Errorf("avoid days: %w", err)
		}
		prefs.AvoidDays = append(prefs.AvoidDays, day)
	}
	if o.TimeRestrictions != nil {
		window := models.TimeWindow{
			Start: models.ClockTime(o.TimeRestrictions.Start * 60),
			End:   models.ClockTime(o.TimeRestrictions.End * 60),
		}
		if !window.Start.Valid() || !window.End.Valid() {
			return nil, fmt.Errorf("time restrictions must lie within 0-24 hours")
		}
		prefs.TimeWindow = &window
	}
	return prefs, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
