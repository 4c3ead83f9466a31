package attendance

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler debounces aggregation per date: the first submission for a date
// arms a one-shot timer, and later submissions within the window do not
// reschedule it, so near-simultaneous facilitators are merged in one pass.
type Scheduler struct {
	aggregator *Aggregator
	delay      time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler(aggregator *Aggregator, delay time.Duration) *Scheduler {
	return &Scheduler{
		aggregator: aggregator,
		delay:      delay,
		timers:     make(map[string]*time.Timer),
	}
}

// Schedule arms aggregation for the date unless a timer is already pending.
// It reports whether a new timer was armed.
func (s *Scheduler) Schedule(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[date]; ok {
		return false
	}
	s.timers[date] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, date)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		res, err := s.aggregator.Run(ctx, date)
		if err != nil {
			log.Printf("Scheduled aggregation for %s failed: %v", date, err)
			return
		}
		log.Printf("Aggregated attendance for %s: %d inserted, %d updated", date, res.InsertedCount, res.UpdatedCount)
	})
	return true
}

// Stop cancels all pending timers. Buffered submissions stay put; the sweep
// or a manual run picks them up later.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for date, timer := range s.timers {
		timer.Stop()
		delete(s.timers, date)
	}
}
