package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/campnav/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 10*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CAMPNAV_ADDR", ":8080")
			_ = os.Setenv("CAMPNAV_QUEUE_SIZE", "64")
			_ = os.Setenv("CAMPNAV_FETCH_TIMEOUT", "2s")
			_ = os.Setenv("CAMPNAV_FETCH_ON_START", "false")
			_ = os.Setenv("CAMPNAV_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
			_ = os.Setenv("CAMPNAV_KAFKA_TOPIC", "device-updates")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.FetchOnStart, convey.ShouldBeFalse)
				convey.So(cfg.KafkaBrokers, convey.ShouldResemble, []string{"kafka-1:9092", "kafka-2:9092"})
				convey.So(cfg.KafkaEnabled(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# campus staging
addr: ":9090"
events_url: "https://events.example.edu/api/events"
fetch_timeout: 5s
queue_size: 256
minio_endpoint: "minio:9000"
minio_bucket: "campus-assets"
metrics_subsystem: "staging"
metrics_latency_buckets: [5, 50, 500]
metrics_labels:
  campus: henrietta
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CAMPNAV_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.EventsURL, convey.ShouldEqual, "https://events.example.edu/api/events")
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.MinIOEnabled(), convey.ShouldBeTrue)
				convey.So(cfg.MinIOBucket, convey.ShouldEqual, "campus-assets")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "campnav")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "staging")
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{5, 50, 500})
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"campus": "henrietta"})
			})
		})

		convey.Convey("When metric naming comes from the environment", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CAMPNAV_METRICS_NAMESPACE", "rit")
			_ = os.Setenv("CAMPNAV_METRICS_LATENCY_BUCKETS", "1, 10,100")
			_ = os.Setenv("CAMPNAV_METRICS_LABELS", "campus=henrietta, env = prod,broken")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then lists and label pairs are parsed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "rit")
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{1, 10, 100})
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"campus": "henrietta", "env": "prod"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 256
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CAMPNAV_CONFIG", tmpFile)
			_ = os.Setenv("CAMPNAV_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 256) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CAMPNAV_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CAMPNAV_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When values fail validation", func() {
			cases := map[string]string{
				"CAMPNAV_QUEUE_SIZE":              "0",
				"CAMPNAV_EVENTS_URL":              "ftp://129.21.63.14/events",
				"CAMPNAV_FETCH_TIMEOUT":           "-1s",
				"CAMPNAV_METRICS_LATENCY_BUCKETS": "10,5",
			}
			for key, value := range cases {
				clearConfigEnvVars()
				_ = os.Setenv(key, value)

				cfg, err := config.Load(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			}
			clearConfigEnvVars()
		})

		convey.Convey("When the YAML file empties addr", func() {
			tmpFile := createTempConfigFile("addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CAMPNAV_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CAMPNAV_CONFIG",
		"CAMPNAV_ADDR",
		"CAMPNAV_QUEUE_SIZE",
		"CAMPNAV_EVENTS_URL",
		"CAMPNAV_FETCH_TIMEOUT",
		"CAMPNAV_FETCH_ON_START",
		"CAMPNAV_KAFKA_BROKERS",
		"CAMPNAV_KAFKA_TOPIC",
		"CAMPNAV_METRICS_NAMESPACE",
		"CAMPNAV_METRICS_LATENCY_BUCKETS",
		"CAMPNAV_METRICS_LABELS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "campnav-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
