package model

import "time"

// JobKind names a recompute job handled by the worker pool.
type JobKind string

// Job kinds.
const (
	JobAggregate JobKind = "aggregate"
)

// Job is a unit of asynchronous recompute work.
type Job struct {
	Kind       JobKind
	Key        string // coalescing key; at most one pending job per key
	EnqueuedAt time.Time
}
