package attendance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSweep runs a cron job that aggregates every date still holding
// buffered submissions. In-process timers die with the process; the sweep is
// what keeps a restart from stranding un-aggregated submissions.
func StartSweep(store Store, aggregator *Aggregator, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		dates, err := store.BufferedDates(ctx)
		if err != nil {
			log.Printf("Aggregation sweep: listing buffered dates failed: %v", err)
			return
		}
		for _, date := range dates {
			res, err := aggregator.Run(ctx, date)
			if err != nil {
				log.Printf("Aggregation sweep for %s failed: %v", date, err)
				continue
			}
			log.Printf("Aggregation sweep for %s: %d inserted, %d updated", date, res.InsertedCount, res.UpdatedCount)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
