package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

const testDate = "10 Meskerem 2017"

func sub(studentID string, present, hasPermission bool, ts time.Time) models.AttendanceSubmission {
	return models.AttendanceSubmission{
		StudentID:     studentID,
		Date:          testDate,
		Present:       present,
		HasPermission: hasPermission,
		MarkedBy:      "facilitator-1",
		Timestamp:     ts,
	}
}

func TestResolvePresentBeatsAbsent(t *testing.T) {
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	absent := sub("S1", false, false, t1)
	present := sub("S1", true, false, t2)

	// Input order must not matter.
	rec := Resolve([]models.AttendanceSubmission{absent, present})
	assert.True(t, rec.Present)
	rec = Resolve([]models.AttendanceSubmission{present, absent})
	assert.True(t, rec.Present)
}

func TestResolvePresentBeatsLaterAbsent(t *testing.T) {
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	// An earlier present claim still wins over a later absent one.
	present := sub("S1", true, false, t1)
	absent := sub("S1", false, false, t1.Add(time.Hour))
	rec := Resolve([]models.AttendanceSubmission{absent, present})
	assert.True(t, rec.Present)
}

func TestResolvePermissionBeatsAbsent(t *testing.T) {
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	absent := sub("S1", false, false, t1.Add(time.Hour))
	excused := sub("S1", false, true, t1)
	excused.Reason = "sick"

	rec := Resolve([]models.AttendanceSubmission{absent, excused})
	assert.False(t, rec.Present)
	assert.True(t, rec.HasPermission)
	assert.Equal(t, "sick", rec.Reason)
}

func TestResolveTieBreakByTimestamp(t *testing.T) {
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	early := sub("S1", true, false, t1)
	early.MarkedBy = "facilitator-1"
	late := sub("S1", true, false, t1.Add(10*time.Minute))
	late.MarkedBy = "facilitator-2"

	rec := Resolve([]models.AttendanceSubmission{early, late})
	assert.Equal(t, "facilitator-2", rec.MarkedBy)
	rec = Resolve([]models.AttendanceSubmission{late, early})
	assert.Equal(t, "facilitator-2", rec.MarkedBy)
}

func TestResolveAbsentOnly(t *testing.T) {
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	first := sub("S1", false, false, t1)
	first.Reason = "unknown"
	second := sub("S1", false, false, t1.Add(time.Minute))
	second.Reason = "travelled"

	rec := Resolve([]models.AttendanceSubmission{first, second})
	assert.False(t, rec.Present)
	assert.Equal(t, "travelled", rec.Reason)
}

func TestRunAggregatesPerStudent(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store)
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	store.subs = []models.AttendanceSubmission{
		sub("S1", false, false, t1),
		sub("S1", true, false, t1.Add(time.Minute)),
		sub("S2", false, true, t1),
	}

	res, err := agg.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, Result{InsertedCount: 2, UpdatedCount: 0}, res)

	rec, ok := store.record("S1", testDate)
	require.True(t, ok)
	assert.True(t, rec.Present)

	rec, ok = store.record("S2", testDate)
	require.True(t, ok)
	assert.True(t, rec.HasPermission)

	n, err := store.CountSubmissionsByDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Zero(t, n, "buffer must be cleared after the pass")
}

func TestRunOverwritesExistingRecord(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store)
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	store.recs[recordKey("S1", testDate)] = models.AttendanceRecord{
		StudentID: "S1", Date: testDate, Present: false,
	}
	store.subs = []models.AttendanceSubmission{sub("S1", true, false, t1)}

	res, err := agg.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, Result{InsertedCount: 0, UpdatedCount: 1}, res)

	rec, _ := store.record("S1", testDate)
	assert.True(t, rec.Present)
}

func TestRunIsIdempotentOnEmptyBuffer(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store)

	res, err := agg.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Zero(t, store.upsertCalls)
	assert.Zero(t, store.deleteCalls)
}

func TestRunKeepsBufferOnUpsertFailure(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store)
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	store.subs = []models.AttendanceSubmission{sub("S1", true, false, t1)}
	store.upsertErr = errors.New("store unavailable")

	_, err := agg.Run(context.Background(), testDate)
	require.Error(t, err)
	assert.Zero(t, store.deleteCalls, "buffer must survive a failed pass")

	n, err := store.CountSubmissionsByDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Retry after the store recovers.
	store.upsertErr = nil
	res, err := agg.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, Result{InsertedCount: 1, UpdatedCount: 0}, res)
}

func TestRunSerializesPerDate(t *testing.T) {
	store := newMemStore()
	store.upsertDelay = 10 * time.Millisecond
	agg := NewAggregator(store)
	t1 := time.Date(2024, 9, 22, 9, 0, 0, 0, time.UTC)

	store.subs = []models.AttendanceSubmission{
		sub("S1", true, false, t1),
		sub("S2", true, false, t1),
	}

	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := agg.Run(context.Background(), testDate)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	// One pass does the work; the rest find an empty buffer. Serialization
	// means no pass can observe (and re-upsert) submissions another pass is
	// halfway through deleting.
	var total Result
	for _, res := range results {
		total.InsertedCount += res.InsertedCount
		total.UpdatedCount += res.UpdatedCount
	}
	assert.Equal(t, Result{InsertedCount: 2, UpdatedCount: 0}, total)
	assert.Equal(t, 2, store.upsertCalls)
}
