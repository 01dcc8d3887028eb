package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// FormatActivity renders one activity as a fixed-order display line.
func FormatActivity(activity models.Activity) string {
	return fmt.Sprintf("%s | %s | Activity %s | %s %s (%d mins)",
		activity.SubjectCode,
		activity.GroupCode,
		activity.ActivityCode,
		activity.Day,
		activity.Start,
		activity.Duration,
	)
}

// FormatSchedule renders every activity and sorts the lines, so the output
// does not depend on search order.
func FormatSchedule(schedule models.Schedule) []string {
	lines := make([]string, 0, len(schedule))
	for _, activity := range schedule {
		lines = append(lines, FormatActivity(activity))
	}
	sort.Strings(lines)
	return lines
}
