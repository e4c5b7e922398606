package cron

import (
	"context"
	"log/slog"
	"time"
)

const HousekeepingJobName = "housekeeping"

// Pruner drops expired in-process state and reports how many items it removed.
type Pruner func() int

// RegisterHousekeepingJobs runs every pruner once per interval.
func RegisterHousekeepingJobs(s *Scheduler, interval time.Duration, pruners map[string]Pruner) error {
	return s.AddJob(HousekeepingJobName, interval, func(ctx context.Context) error {
		for name, prune := range pruners {
			if err := ctx.Err(); err != nil {
				return err
			}
			if removed := prune(); removed > 0 {
				slog.Debug("Housekeeping pruned entries", "target", name, "removed", removed)
			}
		}
		return nil
	})
}
