package models

// Subject is a unit of study that owns one or more activity groups.
type Subject struct {
	Code        string     `json:"subjectCode" yaml:"subjectCode"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Activities  []Activity `json:"activities" yaml:"activities"`
	// RequiredGroups lists group codes the catalog declares for the subject
	// even when no activity is currently published for them.
	RequiredGroups []string `json:"requiredGroups,omitempty" yaml:"requiredGroups,omitempty"`
}

// Catalog is the read-only input of one optimization run.
type Catalog struct {
	Subjects []Subject `json:"subjects" yaml:"subjects"`
}

// ActivityCount returns the number of activities across all subjects.
func (c Catalog) ActivityCount() int {
	total := 0
	for _, subject := range c.Subjects {
		total += len(subject.Activities)
	}
	return total
}

// SubjectCodes returns subject codes in catalog order.
func (c Catalog) SubjectCodes() []string {
	codes := make([]string, 0, len(c.Subjects))
	for _, subject := range c.Subjects {
		codes = append(codes, subject.Code)
	}
	return codes
}
