// Package config defines service configuration and how it is loaded.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// EventsURL is the remote campus events endpoint.
	EventsURL string `koanf:"events_url"`
	// FetchTimeout bounds one events fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	// FetchOnStart fetches events once when the service starts.
	FetchOnStart bool `koanf:"fetch_on_start"`

	// QueueSize bounds the device update queue.
	QueueSize int `koanf:"queue_size"`
	// CommandBuffer bounds the commands kept for the device shell.
	CommandBuffer int `koanf:"command_buffer"`

	// Metric naming. Labels are added to every series, e.g. campus=henrietta.
	MetricsNamespace      string            `koanf:"metrics_namespace"`
	MetricsSubsystem      string            `koanf:"metrics_subsystem"`
	MetricsLatencyBuckets []float64         `koanf:"metrics_latency_buckets"`
	MetricsLabels         map[string]string `koanf:"metrics_labels"`

	// Kafka device source; disabled unless brokers and topic are set.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
	KafkaGroupID string   `koanf:"kafka_group_id"`

	// FloorPlanDir is the bundled floor plan directory, used when no
	// MinIO endpoint is configured.
	FloorPlanDir string `koanf:"floorplan_dir"`

	MinIOEndpoint  string `koanf:"minio_endpoint"`
	MinIOAccessKey string `koanf:"minio_access_key"`
	MinIOSecretKey string `koanf:"minio_secret_key"`
	MinIOUseSSL    bool   `koanf:"minio_use_ssl"`
	MinIORegion    string `koanf:"minio_region"`
	MinIOBucket    string `koanf:"minio_bucket"`
	MinIOPrefix    string `koanf:"minio_prefix"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ShutdownTimeout:  30 * time.Second,
		EventsURL:        "http://129.21.63.14:3000/api/events",
		FetchTimeout:     10 * time.Second,
		FetchOnStart:     true,
		QueueSize:        1024,
		CommandBuffer:    256,
		MetricsNamespace: "campnav",
		MetricsSubsystem: "core",
		KafkaGroupID:     "campnav",
		FloorPlanDir:     "assets/floorplans",
		MinIOBucket:      "floorplans",
	}
}

// KafkaEnabled reports whether the Kafka device source should run.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

// MinIOEnabled reports whether floor plans come from MinIO.
func (c *Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != ""
}
