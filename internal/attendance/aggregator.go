package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

// Result reports what an aggregation pass wrote.
type Result struct {
	InsertedCount int `json:"inserted_count"`
	UpdatedCount  int `json:"updated_count"`
}

// Aggregator collapses all buffered submissions for a date into one record
// per student. Passes are serialized per date: at most one runs at a time
// for any given date.
type Aggregator struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// priority ranks a claim: present beats permission beats absent, regardless
// of submission order.
func priority(sub models.AttendanceSubmission) int {
	switch {
	case sub.Present:
		return 2
	case sub.HasPermission:
		return 1
	default:
		return 0
	}
}

// Resolve picks the authoritative claim from one student's submissions:
// highest priority first, ties broken by the most recent timestamp.
func Resolve(subs []models.AttendanceSubmission) models.AttendanceRecord {
	sorted := make([]models.AttendanceSubmission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := priority(sorted[i]), priority(sorted[j])
		if pi != pj {
			return pi > pj
		}
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	top := sorted[0]
	return models.AttendanceRecord{
		StudentID:     top.StudentID,
		Date:          top.Date,
		Present:       top.Present,
		HasPermission: top.HasPermission,
		Reason:        top.Reason,
		MarkedBy:      top.MarkedBy,
		Timestamp:     top.Timestamp,
	}
}

// Run aggregates one date: group by student, resolve each group, upsert
// every resolved record, then clear the buffer. The buffer is deleted only
// after every upsert succeeded, so a failed pass leaves it intact for a
// retry; re-running on an already-empty buffer is a no-op.
func (a *Aggregator) Run(ctx context.Context, date string) (Result, error) {
	lock := a.lockFor(date)
	lock.Lock()
	defer lock.Unlock()

	subs, err := a.store.SubmissionsByDate(ctx, date)
	if err != nil {
		return Result{}, fmt.Errorf("read buffered submissions for %s: %w", date, err)
	}
	if len(subs) == 0 {
		return Result{}, nil
	}

	groups := make(map[string][]models.AttendanceSubmission)
	for _, sub := range subs {
		groups[sub.StudentID] = append(groups[sub.StudentID], sub)
	}

	var res Result
	for studentID, group := range groups {
		outcome, err := a.store.UpsertRecord(ctx, Resolve(group))
		if err != nil {
			return res, fmt.Errorf("upsert record for student %s on %s: %w", studentID, date, err)
		}
		if outcome == OutcomeInserted {
			res.InsertedCount++
		} else {
			res.UpdatedCount++
		}
	}

	if _, err := a.store.DeleteSubmissionsByDate(ctx, date); err != nil {
		// Upserts are keyed, so a retry over the surviving buffer is safe.
		return res, fmt.Errorf("clear buffer for %s: %w", date, err)
	}
	return res, nil
}

func (a *Aggregator) lockFor(date string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[date] = lock
	}
	return lock
}
