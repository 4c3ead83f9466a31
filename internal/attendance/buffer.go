package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

// Buffer accepts facilitator marking passes and appends them to the
// transient submissions collection. It never merges at write time; conflict
// resolution belongs entirely to the aggregator.
type Buffer struct {
	store Store
}

func NewBuffer(store Store) *Buffer {
	return &Buffer{store: store}
}

// Submit stamps each entry with a fresh submission ID and a timestamp
// (caller-supplied timestamps are honored) and appends them under the given
// date. It reports the accepted count and whether the buffer for that date
// was empty before this call, so the caller can arm the aggregation timer
// exactly once per date.
func (b *Buffer) Submit(ctx context.Context, date string, entries []models.AttendanceSubmission) (int, bool, error) {
	existing, err := b.store.CountSubmissionsByDate(ctx, date)
	if err != nil {
		return 0, false, err
	}

	now := time.Now().UTC()
	subs := make([]models.AttendanceSubmission, len(entries))
	for i, entry := range entries {
		entry.Date = date
		entry.SubmissionID = uuid.NewString()
		if entry.Timestamp.IsZero() {
			entry.Timestamp = now
		}
		subs[i] = entry
	}

	count, err := b.store.InsertSubmissions(ctx, subs)
	if err != nil {
		return 0, false, err
	}
	return count, existing == 0, nil
}
