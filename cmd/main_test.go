package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/campnav/internal/app"
	"github.com/okian/campnav/internal/config"
	"github.com/okian/campnav/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CAMPNAV_ADDR", ":8080")
			_ = os.Setenv("CAMPNAV_QUEUE_SIZE", "1000")
			defer func() {
				_ = os.Unsetenv("CAMPNAV_ADDR")
				_ = os.Unsetenv("CAMPNAV_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When building the service from a config", func() {
			dir := t.TempDir()
			convey.So(os.WriteFile(filepath.Join(dir, "floorA.pdf"), []byte("%PDF-1.4"), 0o600), convey.ShouldBeNil)

			cfg := config.New()
			cfg.FloorPlanDir = dir
			cfg.FetchOnStart = false
			cfg.QueueSize = 8
			svc, err := buildService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the floor plan directory and queue size are used", func() {
				_, doc, err := svc.FloorPlan(context.Background(), "Wallace Library")
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(doc), convey.ShouldEqual, "%PDF-1.4")
				convey.So(svc.GetStats()["queueCapacity"], convey.ShouldEqual, 8)
				convey.So(svc.GetStats()["kafka"], convey.ShouldEqual, false)
			})
		})

		convey.Convey("When MinIO is configured without a bucket", func() {
			cfg := config.New()
			cfg.MinIOEndpoint = "localhost:9000"
			cfg.MinIOBucket = ""

			convey.Convey("Then building the service fails", func() {
				_, err := buildService(cfg, logger.Get())
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestConfigureMetrics(t *testing.T) {
	convey.Convey("Given a config with metric naming", t, func() {
		cfg := config.New()
		cfg.MetricsNamespace = "rit"
		cfg.MetricsLabels = map[string]string{"campus": "henrietta"}
		configureMetrics(cfg)
		defer configureMetrics(config.New())

		convey.Convey("When /healthz is scraped after a request", func() {
			mux := newMux(context.Background(), app.New())
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", http.NoBody))
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

			convey.Convey("Then the series use the configured names and labels", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `rit_core_http_requests_total{campus="henrietta"`)
				convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "campnav_core_http_requests_total")
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the full route table", t, func() {
		ctx := context.Background()
		svc := app.New()
		mux := newMux(ctx, svc)

		for _, path := range []string{"/healthz", "/stats", "/location", "/buildings", "/settings", "/emergency", "/openapi.yaml", "/api-docs"} {
			convey.Convey("Then GET "+path+" answers 200", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing the metric updates directly", func() {
			convey.Convey("Then they should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("CAMPNAV_QUEUE_SIZE", "0")
			defer func() { _ = os.Unsetenv("CAMPNAV_QUEUE_SIZE") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When run is given an address that cannot be bound", func() {
			cfg := config.New()
			cfg.Addr = "256.0.0.1:bad"
			cfg.FetchOnStart = false
			cfg.ShutdownTimeout = time.Second

			convey.Convey("Then it returns the listen error", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				convey.So(run(ctx, cfg, logger.Get()), convey.ShouldNotBeNil)
			})
		})
	})
}
