package ports

import "time"

// CommitScheduler runs fn once, after delay. Jobs sharing a key run in the
// order they were scheduled. A scheduled job is never cancelled.
type CommitScheduler interface {
	Schedule(key string, delay time.Duration, fn func())
}
