package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

// ValidateCatalog rejects malformed activities and zero-candidate groups
// before any search starts. An empty catalog is valid.
func ValidateCatalog(catalog models.Catalog) error {
	for i, subject := range catalog.Subjects {
		if strings.TrimSpace(subject.Code) == "" {
			return catalogError("subject #%d has no subject code", i+1)
		}
		if len(subject.Activities) == 0 {
			return catalogError("subject %s has no activities", subject.Code)
		}
		seen := make(map[string]bool, len(subject.Activities))
		for j, activity := range subject.Activities {
			if err := validateActivity(subject.Code, j, activity); err != nil {
				return err
			}
			seen[activity.GroupCode] = true
		}
		for _, group := range subject.RequiredGroups {
			if !seen[group] {
				return catalogError("subject %s group %s has no candidate activities", subject.Code, group)
			}
		}
	}
	return nil
}

func validateActivity(subjectCode string, pos int, activity models.Activity) error {
	if strings.TrimSpace(activity.GroupCode) == "" {
		return catalogError("subject %s activity #%d has no group code", subjectCode, pos+1)
	}
	ref := fmt.Sprintf("subject %s group %s activity %s", subjectCode, activity.GroupCode, activity.ActivityCode)
	if strings.TrimSpace(activity.ActivityCode) == "" {
		return catalogError("subject %s group %s activity #%d has no activity code", subjectCode, activity.GroupCode, pos+1)
	}
	if activity.SubjectCode != "" && activity.SubjectCode != subjectCode {
		return catalogError("%s declares subject code %s", ref, activity.SubjectCode)
	}
	if !activity.Day.Valid() {
		return catalogError("%s has invalid weekday %q", ref, activity.Day)
	}
	if activity.Start == models.ClockTimeUnset {
		return catalogError("%s has no start time", ref)
	}
	if !activity.Start.Valid() {
		return catalogError("%s has start time outside the day", ref)
	}
	if activity.Duration <= 0 {
		return catalogError("%s has non-positive duration %d", ref, activity.Duration)
	}
	return nil
}

func catalogError(format string, args ...interface{}) error {
	return appErrors.Clonef(appErrors.ErrValidation, format, args...)
}

// ValidatePreferences rejects unknown avoid days and inverted or out-of-day
// time windows.
func ValidatePreferences(prefs models.Preferences) error {
	for _, day := range prefs.AvoidDays {
		if !day.Valid() {
			return catalogError("avoid day %q is not a weekday", day)
		}
	}
	if prefs.TimeWindow == nil {
		return nil
	}
	window := *prefs.TimeWindow
	if !window.Start.Valid() || !window.End.Valid() {
		return catalogError("time window must lie within 00:00-24:00")
	}
	if window.Start > window.End {
		return catalogError("time window start %s is after end %s", window.Start, window.End)
	}
	return nil
}
