// Package scheduler runs background aggregator syncs: a time-of-day trigger
// feeding a bounded worker pool, one job per connected user.
package scheduler

import "context"

// Job is a unit of background work executed by the worker pool.
type Job interface {
	// Execute runs the job. The context carries the per-job timeout.
	Execute(ctx context.Context) error

	// UserID identifies whose data the job touches, for logging.
	UserID() string

	// Description is a human-readable label for logging.
	Description() string
}
