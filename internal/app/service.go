// Package service orchestrates the squad pipeline: rating aggregation, team
// generation and award tabulation, plus the sign-up and submission flows that
// feed them.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/squadup/internal/adapters/mq/queue"
	"github.com/okian/squadup/internal/adapters/mq/worker"
	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/domain/aggregate"
	"github.com/okian/squadup/internal/domain/dedupe"
	"github.com/okian/squadup/internal/domain/ledger"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/resolve"
	"github.com/okian/squadup/pkg/logger"
	"github.com/okian/squadup/pkg/metrics"
)

const aggregateKey = "aggregate"

// Service implements every operation exposed by the HTTP API and the CLI.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	queue     *queue.InMemoryQueue
	coalescer dedupe.Coalescer
	pool      *worker.Pool
	resolver  *resolve.Resolver
	table     ledger.Table
	tracer    trace.Tracer

	workerCount     int
	queueSize       int
	dedupeSize      int
	autoAggregate   bool
	decay           float64
	maxProfileLimit int
	now             func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. The default is an in-memory store.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithWorkerCount sets the number of background workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of tracked pending job keys.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithAutoAggregate makes every accepted rating schedule a background aggregation.
func WithAutoAggregate(on bool) Option {
	return func(s *Service) { s.autoAggregate = on }
}

// WithModifierDecay sets the factor applied to the ledger on each award run.
func WithModifierDecay(f float64) Option {
	return func(s *Service) {
		if f > 0 && f <= 1 {
			s.decay = f
		}
	}
}

// WithDefaultAttribute sets the value used for players without a profile.
func WithDefaultAttribute(v float64) Option {
	return func(s *Service) { s.resolver = resolve.New(resolve.WithDefault(v)) }
}

// WithDeltaTable replaces the award delta tables.
func WithDeltaTable(t ledger.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithMaxProfileLimit caps the standings page size.
func WithMaxProfileLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxProfileLimit = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     max(1, runtime.NumCPU()/2),
		queueSize:       64,
		dedupeSize:      1024,
		decay:           ledger.DefaultDecay,
		maxProfileLimit: 100,
		resolver:        resolve.New(),
		table:           ledger.DefaultTable(),
		tracer:          otel.Tracer("squadup/service"),
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Start launches the job queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.coalescer = dedupe.New(dedupe.WithMaxKeys(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.RunnerFunc(s.RunJob),
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithReleaser(s.coalescer),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "squad service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Bool("auto_aggregate", s.autoAggregate),
	)
	return nil
}

// Stop drains the workers and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.started {
		_ = s.queue.Close()
		if err := s.pool.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
		s.started = false
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	s.logger.Info(ctx, "squad service stopped")
	return errors.Join(errs...)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	stats := map[string]any{
		"started":        s.started,
		"worker_count":   s.workerCount,
		"queue_size":     s.queueSize,
		"auto_aggregate": s.autoAggregate,
		"records":        counts,
	}
	if s.started {
		n := s.queue.Len(ctx)
		stats["queue_length"] = n
		stats["pending_jobs"] = s.coalescer.Pending()
		metrics.UpdateQueueSize(n)
	}
	return stats, nil
}

// RunJob executes a background job.
func (s *Service) RunJob(ctx context.Context, job model.Job) error {
	switch job.Kind {
	case model.JobAggregate:
		_, err := s.AggregateSkillProfiles(ctx)
		if errors.Is(err, aggregate.ErrNoData) {
			s.logger.Warn(ctx, "aggregation skipped", logger.Error(err))
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// scheduleAggregate enqueues an aggregation unless one is already pending.
func (s *Service) scheduleAggregate(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return
	}
	if s.coalescer.Claim(ctx, aggregateKey) {
		metrics.RecordQueueCoalesced()
		return
	}
	job := model.Job{Kind: model.JobAggregate, Key: aggregateKey, EnqueuedAt: s.now()}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.coalescer.Release(ctx, aggregateKey)
		s.logger.Warn(ctx, "failed to schedule aggregation", logger.Error(err))
	}
}

// span starts a traced operation. end records err on the span.
func (s *Service) span(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, sp := s.tracer.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, err.Error())
		} else {
			sp.SetStatus(codes.Ok, "")
		}
		sp.End()
	}
}
