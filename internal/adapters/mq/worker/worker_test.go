package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/adapters/mq/worker"
	"github.com/okian/squadup/internal/domain/dedupe"
	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/pkg/logger"
)

type mockQueue struct {
	jobs chan worker.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan worker.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan worker.Job { return mq.jobs }

func (mq *mockQueue) add(key string) {
	mq.jobs <- model.Job{Kind: model.JobAggregate, Key: key, EnqueuedAt: time.Now()}
}

type recordingRunner struct {
	mu   sync.Mutex
	runs []string
	err  error
	seen chan string
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{seen: make(chan string, 10)}
}

func (r *recordingRunner) RunJob(_ context.Context, job worker.Job) error {
	r.mu.Lock()
	r.runs = append(r.runs, job.Key)
	err := r.err
	r.mu.Unlock()
	r.seen <- job.Key
	return err
}

func (r *recordingRunner) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func waitFor(ch <-chan string) (string, bool) {
	select {
	case k := <-ch:
		return k, true
	case <-time.After(2 * time.Second):
		return "", false
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker with a coalescer", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		runner := newRecordingRunner()
		pending := dedupe.New()
		w := worker.NewInMemoryWorker(q, runner,
			worker.WithName("test-worker"),
			worker.WithLogger(logger.Discard()),
			worker.WithReleaser(pending),
		)
		go w.Run(ctx)

		convey.Convey("When a claimed job is processed", func() {
			convey.So(pending.Claim(ctx, "aggregate"), convey.ShouldBeFalse)
			q.add("aggregate")
			key, ok := waitFor(runner.seen)

			convey.Convey("Then the runner sees it and the key is released", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(key, convey.ShouldEqual, "aggregate")
				convey.So(pending.Pending(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the runner fails", func() {
			runner.fail(errors.New("no ratings"))
			q.add("aggregate")
			_, ok := waitFor(runner.seen)
			q.add("aggregate")
			_, again := waitFor(runner.seen)

			convey.Convey("Then the worker keeps consuming", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(again, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			err := w.Shutdown(context.Background())

			convey.Convey("Then it stops without error and a second call is safe", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose queue closes", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, newRecordingRunner(), worker.WithLogger(logger.Discard()))
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()
		close(q.jobs)

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(2 * time.Second):
				convey.So("worker still running", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of three workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		var count atomic.Int64
		seen := make(chan string, 10)
		runner := worker.RunnerFunc(func(_ context.Context, job worker.Job) error {
			count.Add(1)
			seen <- job.Key
			return nil
		})
		pool := worker.NewPool(3, q, runner, worker.WithLogger(logger.Discard()))
		pool.Start(ctx)

		convey.Convey("When several jobs are queued", func() {
			for _, k := range []string{"a", "b", "c", "d"} {
				q.add(k)
			}
			for i := 0; i < 4; i++ {
				_, ok := waitFor(seen)
				convey.So(ok, convey.ShouldBeTrue)
			}

			convey.Convey("Then each job runs exactly once", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 3)
				convey.So(count.Load(), convey.ShouldEqual, 4)
			})

			convey.Convey("And the pool stops cleanly", func() {
				convey.So(pool.Stop(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), worker.RunnerFunc(func(context.Context, worker.Job) error { return nil }),
			worker.WithLogger(logger.Discard()))

		convey.Convey("Then one worker is created", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 1)
		})
	})
}
