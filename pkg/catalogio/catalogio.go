// Package catalogio decodes activity catalogs prepared outside the service.
package catalogio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// Format identifies a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Document is a decoded catalog plus the preferences embedded alongside it, if any.
type Document struct {
	Catalog     models.Catalog
	Preferences *models.Preferences
}

// ParseFormat accepts a format name, file extension or media type.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	normalized = strings.TrimPrefix(normalized, ".")
	switch normalized {
	case "json", "application/json":
		return FormatJSON, nil
	case "yaml", "yml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, nil
	case "csv", "text/csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported catalog format %q", value)
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode reads a catalog document in the given format.
func Decode(r io.Reader, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatCSV:
		return decodeCSV(r, ',')
	}
	return nil, fmt.Errorf("unsupported catalog format %q", format)
}

// Load opens and decodes a catalog file, picking the format from its extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	doc, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return doc, nil
}

// appendActivity adds activity to the subject named code, creating the
// subject on first sight so first-appearance order is kept.
func appendActivity(catalog *models.Catalog, positions map[string]int, code, description string, activity models.Activity) {
	idx, ok := positions[code]
	if !ok {
		idx = len(catalog.Subjects)
		positions[code] = idx
		catalog.Subjects = append(catalog.Subjects, models.Subject{Code: code, Description: description})
	}
	if catalog.Subjects[idx].Description == "" {
		catalog.Subjects[idx].Description = description
	}
	catalog.Subjects[idx].Activities = append(catalog.Subjects[idx].Activities, activity)
}
