package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// CatalogRepository reads and writes the normalised activity catalog produced
// by the data-preparation pipeline.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type catalogActivityRow struct {
	SubjectCode        string `db:"subject_code"`
	SubjectDescription string `db:"subject_description"`
	GroupCode          string `db:"group_code"`
	ActivityCode       string `db:"activity_code"`
	DayOfWeek          string `db:"day_of_week"`
	StartTime          string `db:"start_time"`
	DurationMinutes    int    `db:"duration_minutes"`
	ActivityType       string `db:"activity_type"`
	Location           string `db:"location"`
	Campus             string `db:"campus"`
	Position           int    `db:"position"`
}

func (r catalogActivityRow) toActivity() (models.Activity, error) {
	day, err := models.ParseWeekday(r.DayOfWeek)
	if err != nil {
		return models.Activity{}, fmt.Errorf("subject %s activity %s/%s: %w", r.SubjectCode, r.GroupCode, r.ActivityCode, err)
	}
	start, err := models.ParseClockTime(r.StartTime)
	if err != nil {
		return models.Activity{}, fmt.Errorf("subject %s activity %s/%s: %w", r.SubjectCode, r.GroupCode, r.ActivityCode, err)
	}
	return models.Activity{
		SubjectCode:  r.SubjectCode,
		GroupCode:    r.GroupCode,
		ActivityCode: r.ActivityCode,
		Day:          day,
		Start:        start,
		Duration:     r.DurationMinutes,
		ActivityType: r.ActivityType,
		Location:     r.Location,
		Campus:       r.Campus,
	}, nil
}

// ListBySubjects loads the activities of the given subjects. Subjects come
// back in the order requested and activities in stored position order;
// unknown codes are omitted.
func (r *CatalogRepository) ListBySubjects(ctx context.Context, codes []string) (models.Catalog, error) {
	if len(codes) == 0 {
		return models.Catalog{}, nil
	}
	query, args, err := sqlx.In(`SELECT subject_code, subject_description, group_code, activity_code, day_of_week, start_time, duration_minutes, activity_type, location, campus, position
FROM catalog_activities WHERE subject_code IN (?) ORDER BY subject_code ASC, position ASC`, codes)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("build catalog query: %w", err)
	}
	var rows []catalogActivityRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return models.Catalog{}, fmt.Errorf("list catalog activities: %w", err)
	}

	bySubject := make(map[string]*models.Subject, len(codes))
	for _, row := range rows {
		activity, err := row.toActivity()
		if err != nil {
			return models.Catalog{}, err
		}
		subject, ok := bySubject[row.SubjectCode]
		if !ok {
			subject = &models.Subject{Code: row.SubjectCode, Description: row.SubjectDescription}
			bySubject[row.SubjectCode] = subject
		}
		subject.Activities = append(subject.Activities, activity)
	}

	catalog := models.Catalog{Subjects: make([]models.Subject, 0, len(bySubject))}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		if subject, ok := bySubject[code]; ok {
			catalog.Subjects = append(catalog.Subjects, *subject)
		}
	}
	return catalog, nil
}

// ReplaceSubjects stores the catalog, replacing any previous activities of
// the same subjects, inside one transaction.
func (r *CatalogRepository) ReplaceSubjects(ctx context.Context, catalog models.Catalog) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteQuery = `DELETE FROM catalog_activities WHERE subject_code = $1`
	const insertQuery = `
INSERT INTO catalog_activities (subject_code, subject_description, group_code, activity_code, day_of_week, start_time, duration_minutes, activity_type, location, campus, position)
VALUES (:subject_code, :subject_description, :group_code, :activity_code, :day_of_week, :start_time, :duration_minutes, :activity_type, :location, :campus, :position)`

	for _, subject := range catalog.Subjects {
		if _, err = tx.ExecContext(ctx, deleteQuery, subject.Code); err != nil {
			return fmt.Errorf("clear subject %s: %w", subject.Code, err)
		}
		for pos, activity := range subject.Activities {
			row := catalogActivityRow{
				SubjectCode:        subject.Code,
				SubjectDescription: subject.Description,
				GroupCode:          activity.GroupCode,
				ActivityCode:       activity.ActivityCode,
				DayOfWeek:          string(activity.Day),
				StartTime:          activity.Start.String(),
				DurationMinutes:    activity.Duration,
				ActivityType:       activity.ActivityType,
				Location:           activity.Location,
				Campus:             activity.Campus,
				Position:           pos,
			}
			if _, err = tx.NamedExecContext(ctx, insertQuery, row); err != nil {
				return fmt.Errorf("insert subject %s activity %s/%s: %w", subject.Code, activity.GroupCode, activity.ActivityCode, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog transaction: %w", err)
	}
	return nil
}
