package catalogio

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

type yamlDocument struct {
	Subjects    []models.Subject    `yaml:"subjects"`
	Preferences *models.Preferences `yaml:"preferences"`
}

func decodeYAML(r io.Reader) (*Document, error) {
	var raw yamlDocument
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml catalog: %w", err)
	}

	doc := &Document{Preferences: raw.Preferences}
	positions := make(map[string]int, len(raw.Subjects))
	for _, subject := range raw.Subjects {
		if idx, ok := positions[subject.Code]; ok {
			merged := &doc.Catalog.Subjects[idx]
			merged.Activities = append(merged.Activities, subject.Activities...)
			merged.RequiredGroups = append(merged.RequiredGroups, subject.RequiredGroups...)
			continue
		}
		positions[subject.Code] = len(doc.Catalog.Subjects)
		doc.Catalog.Subjects = append(doc.Catalog.Subjects, subject)
	}
	return doc, nil
}
