package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openscore/scorenight/internal/adapters/http/api"
	"github.com/openscore/scorenight/internal/adapters/http/swagger"
	"github.com/openscore/scorenight/internal/adapters/ws"
	"github.com/openscore/scorenight/internal/app"
	"github.com/openscore/scorenight/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SCORENIGHT_ADDR", ":8080")
			_ = os.Setenv("SCORENIGHT_QUEUE_SIZE", "1000")
			defer func() {
				_ = os.Unsetenv("SCORENIGHT_ADDR")
				_ = os.Unsetenv("SCORENIGHT_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithQueueSize(2000),
					app.WithSubscriberBuffer(64),
					app.WithRevealDBPath(""),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop when the context is cancelled", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			_ = os.Setenv("SCORENIGHT_ADDR", ":8080")
			_ = os.Setenv("SCORENIGHT_QUEUE_SIZE", "1000")
			_ = os.Setenv("SCORENIGHT_REVEAL_DB_PATH", filepath.Join(t.TempDir(), "reveal.db"))
			defer func() {
				_ = os.Unsetenv("SCORENIGHT_ADDR")
				_ = os.Unsetenv("SCORENIGHT_QUEUE_SIZE")
				_ = os.Unsetenv("SCORENIGHT_REVEAL_DB_PATH")
			}()

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				svc := app.New(
					app.WithQueueSize(cfg.QueueSize),
					app.WithSubscriberBuffer(cfg.SubscriberBuffer),
					app.WithRevealDBPath(cfg.RevealDBPath),
				)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop(context.Background())

				server := api.NewServer(svc, svc, ws.NewHandler(svc.Hub()))
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				server.Register(ctx, mux)
				swagger.Register(ctx, mux)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("SCORENIGHT_QUEUE_SIZE", "-5")
			defer func() { _ = os.Unsetenv("SCORENIGHT_QUEUE_SIZE") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := app.New(
					app.WithQueueSize(0),
					app.WithSubscriberBuffer(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationResourceCleanup(t *testing.T) {
	convey.Convey("Given main application resource cleanup", t, func() {
		convey.Convey("When creating services without starting", func() {
			convey.Convey("Then stats should still be available", func() {
				for i := 0; i < 3; i++ {
					svc := app.New()
					convey.So(svc, convey.ShouldNotBeNil)

					stats := svc.GetStats()
					convey.So(stats, convey.ShouldNotBeNil)
				}
			})
		})
	})
}
