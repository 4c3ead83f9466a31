// Package attendance holds the submission buffer, the aggregation pass that
// collapses buffered submissions into one record per student and date, and
// the scheduling around it.
package attendance

import (
	"context"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

// UpsertOutcome tags whether an upsert created a new record or replaced an
// existing one.
type UpsertOutcome int

const (
	OutcomeInserted UpsertOutcome = iota
	OutcomeUpdated
)

// Store is the persistence boundary: a transient submissions collection and
// a permanent records collection, both addressed by (student_id, date).
type Store interface {
	InsertSubmissions(ctx context.Context, subs []models.AttendanceSubmission) (int, error)
	SubmissionsByDate(ctx context.Context, date string) ([]models.AttendanceSubmission, error)
	CountSubmissionsByDate(ctx context.Context, date string) (int64, error)
	DeleteSubmissionsByDate(ctx context.Context, date string) (int64, error)
	BufferedDates(ctx context.Context) ([]string, error)

	UpsertRecord(ctx context.Context, rec models.AttendanceRecord) (UpsertOutcome, error)
	RecordsByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error)
}
