package service

import (
	"math"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// ActivityGroup holds the interchangeable candidates of one group.
type ActivityGroup struct {
	Code       string
	Candidates []models.Activity
}

// SubjectGroups holds the groups of one subject in catalog order.
type SubjectGroups struct {
	Code   string
	Groups []ActivityGroup
}

// CatalogIndex is the subject -> group -> candidates lookup driving the search.
// Subjects and groups keep first-appearance order; search order and therefore
// tie-breaking depend on it.
type CatalogIndex struct {
	Subjects []SubjectGroups
	lookup   map[models.GroupKey]int
	subjects map[string]int
}

// BuildCatalogIndex reshapes the catalog's flat per-subject activity lists.
// Activities are keyed by their enclosing subject, which also fills a missing
// activity subject code; subjects sharing a code are merged.
func BuildCatalogIndex(catalog models.Catalog) CatalogIndex {
	index := CatalogIndex{
		lookup:   make(map[models.GroupKey]int),
		subjects: make(map[string]int),
	}
	for _, subject := range catalog.Subjects {
		subjectPos, ok := index.subjects[subject.Code]
		if !ok {
			subjectPos = len(index.Subjects)
			index.subjects[subject.Code] = subjectPos
			index.Subjects = append(index.Subjects, SubjectGroups{Code: subject.Code})
		}
		for _, activity := range subject.Activities {
			if activity.SubjectCode == "" {
				activity.SubjectCode = subject.Code
			}
			key := models.GroupKey{SubjectCode: subject.Code, GroupCode: activity.GroupCode}
			groupPos, ok := index.lookup[key]
			if !ok {
				groupPos = len(index.Subjects[subjectPos].Groups)
				index.lookup[key] = groupPos
				index.Subjects[subjectPos].Groups = append(index.Subjects[subjectPos].Groups, ActivityGroup{Code: activity.GroupCode})
			}
			group := &index.Subjects[subjectPos].Groups[groupPos]
			group.Candidates = append(group.Candidates, activity)
		}
	}
	return index
}

// Groups returns the group codes of a subject in catalog order.
func (idx CatalogIndex) Groups(subjectCode string) []string {
	pos, ok := idx.subjects[subjectCode]
	if !ok {
		return nil
	}
	groups := idx.Subjects[pos].Groups
	codes := make([]string, 0, len(groups))
	for _, group := range groups {
		codes = append(codes, group.Code)
	}
	return codes
}

// Candidates returns the ordered candidates of a (subject, group) pair.
func (idx CatalogIndex) Candidates(subjectCode, groupCode string) []models.Activity {
	subjectPos, ok := idx.subjects[subjectCode]
	if !ok {
		return nil
	}
	groupPos, ok := idx.lookup[models.GroupKey{SubjectCode: subjectCode, GroupCode: groupCode}]
	if !ok {
		return nil
	}
	return idx.Subjects[subjectPos].Groups[groupPos].Candidates
}

// GroupCount returns the number of groups, which equals the length of every
// complete schedule.
func (idx CatalogIndex) GroupCount() int {
	total := 0
	for _, subject := range idx.Subjects {
		total += len(subject.Groups)
	}
	return total
}

// CombinationCount returns the number of complete schedules the search will
// enumerate: the product of every group's candidate count, saturating at
// math.MaxInt64. The empty product is 1: an empty catalog yields exactly one
// (empty) schedule.
func (idx CatalogIndex) CombinationCount() int64 {
	var total int64 = 1
	for _, subject := range idx.Subjects {
		for _, group := range subject.Groups {
			n := int64(len(group.Candidates))
			if n == 0 {
				return 0
			}
			if total > math.MaxInt64/n {
				return math.MaxInt64
			}
			total *= n
		}
	}
	return total
}
