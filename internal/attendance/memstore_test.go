package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

// memStore is an in-memory Store used by the tests in this package.
type memStore struct {
	mu   sync.Mutex
	subs []models.AttendanceSubmission
	recs map[string]models.AttendanceRecord

	upsertErr   error
	upsertDelay time.Duration
	deleteCalls int
	upsertCalls int
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]models.AttendanceRecord)}
}

func recordKey(studentID, date string) string {
	return studentID + "|" + date
}

func (m *memStore) InsertSubmissions(_ context.Context, subs []models.AttendanceSubmission) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, subs...)
	return len(subs), nil
}

func (m *memStore) SubmissionsByDate(_ context.Context, date string) ([]models.AttendanceSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AttendanceSubmission
	for _, sub := range m.subs {
		if sub.Date == date {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *memStore) CountSubmissionsByDate(_ context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, sub := range m.subs {
		if sub.Date == date {
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteSubmissionsByDate(_ context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	var kept []models.AttendanceSubmission
	var deleted int64
	for _, sub := range m.subs {
		if sub.Date == date {
			deleted++
			continue
		}
		kept = append(kept, sub)
	}
	m.subs = kept
	return deleted, nil
}

func (m *memStore) BufferedDates(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var dates []string
	for _, sub := range m.subs {
		if !seen[sub.Date] {
			seen[sub.Date] = true
			dates = append(dates, sub.Date)
		}
	}
	return dates, nil
}

func (m *memStore) UpsertRecord(_ context.Context, rec models.AttendanceRecord) (UpsertOutcome, error) {
	if m.upsertDelay > 0 {
		time.Sleep(m.upsertDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return OutcomeUpdated, m.upsertErr
	}
	key := recordKey(rec.StudentID, rec.Date)
	_, exists := m.recs[key]
	m.recs[key] = rec
	if exists {
		return OutcomeUpdated, nil
	}
	return OutcomeInserted, nil
}

func (m *memStore) RecordsByDate(_ context.Context, date string) ([]models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range m.recs {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) record(studentID, date string) (models.AttendanceRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[recordKey(studentID, date)]
	return rec, ok
}
