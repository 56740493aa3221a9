package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/bootstrap"
	"github.com/okian/squadup/internal/config"
)

func TestBootstrap(t *testing.T) {
	Convey("Given the default config", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.LogFile = filepath.Join(t.TempDir(), "logs", "squadup.log")

		Convey("When the logger is initialized", func() {
			log, err := bootstrap.Logger(ctx, cfg)

			Convey("Then it is usable", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				log.Info(ctx, "bootstrap test")
			})

			Convey("Then without a DSN the store is in memory", func() {
				store, err := bootstrap.Store(ctx, cfg, log)
				So(err, ShouldBeNil)
				_, ok := store.(*repository.MemStore)
				So(ok, ShouldBeTrue)

				Convey("And the service is built over it", func() {
					svc := bootstrap.Service(cfg, store, log)
					stats, err := svc.Stats(ctx)
					So(err, ShouldBeNil)
					So(stats["worker_count"], ShouldEqual, cfg.WorkerCount)
				})
			})
		})

		Convey("When the log level is invalid", func() {
			cfg.LogLevel = "loud"
			_, err := bootstrap.Logger(ctx, cfg)

			Convey("Then it falls back instead of failing", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
