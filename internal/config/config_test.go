package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/radar/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.TargetMax, convey.ShouldEqual, 10)
			convey.So(cfg.Locale, convey.ShouldEqual, "en")
			convey.So(cfg.Palette, convey.ShouldHaveLength, 5)
			convey.So(cfg.DatasourceDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.FetchTimeout().Milliseconds(), convey.ShouldEqual, 3000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given invalid values", t, func() {
		mutations := []func(*config.Config){
			func(c *config.Config) { c.Addr = " " },
			func(c *config.Config) { c.TargetMax = 0 },
			func(c *config.Config) { c.FetchTimeoutMS = -1 },
			func(c *config.Config) { c.FetchRetries = -1 },
			func(c *config.Config) { c.MaxCompare = 0 },
			func(c *config.Config) { c.LogFormat = "xml" },
			func(c *config.Config) { c.DatasourceDriver = "mysql" },
		}

		convey.Convey("Then each one fails validation", func() {
			for _, mutate := range mutations {
				cfg := config.New(context.Background())
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}
