package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/squadup/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, max(1, runtime.NumCPU()/2))
			convey.So(cfg.ModifierDecay, convey.ShouldEqual, 0.98)
			convey.So(cfg.DefaultAttribute, convey.ShouldEqual, 3.0)
			convey.So(cfg.DatabaseDSN, convey.ShouldBeEmpty)
			convey.So(cfg.AutoAggregate, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = "" },
			"zero decay":        func(c *config.Config) { c.ModifierDecay = 0 },
			"decay above one":   func(c *config.Config) { c.ModifierDecay = 1.5 },
			"default below one": func(c *config.Config) { c.DefaultAttribute = 0.5 },
			"zero queue":        func(c *config.Config) { c.QueueSize = 0 },
			"zero workers":      func(c *config.Config) { c.WorkerCount = 0 },
			"zero limit":        func(c *config.Config) { c.MaxProfileLimit = 0 },
			"zero attempts":     func(c *config.Config) { c.DBConnectAttempts = 0 },
		}

		convey.Convey("Then each one is rejected as invalid", func() {
			for _, mutate := range cases {
				cfg := config.New(context.Background())
				mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}
