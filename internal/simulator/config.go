package simulator

import (
	"time"

	"github.com/okian/campnav/internal/domain/model"
)

// Config holds configuration for a simulated device session.
type Config struct {
	BaseURL  string                    // Base URL of the service
	Status   model.AuthorizationStatus // Authorization the device reports
	Points   int                       // Positions walked around campus
	Interval time.Duration             // Pause between reported positions
	Timeout  time.Duration             // HTTP request and settle timeout
	Verbose  bool                      // Log every step
}

// DefaultConfig returns the flag defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "http://localhost:9080",
		Status:   model.StatusAuthorizedWhenInUse,
		Points:   20,
		Interval: 50 * time.Millisecond,
		Timeout:  10 * time.Second,
	}
}

// Snapshot mirrors GET /location.
type Snapshot struct {
	Permission      model.PermissionState `json:"permission"`
	Alert           bool                  `json:"alert"`
	Updating        bool                  `json:"updating"`
	Position        *model.Coordinate     `json:"position,omitempty"`
	Camera          *model.Camera         `json:"camera,omitempty"`
	LocationUpdates int64                 `json:"locationUpdates"`
	CameraMoves     int64                 `json:"cameraMoves"`
}

// LocateResponse mirrors POST /location/locate.
type LocateResponse struct {
	Outcome  string   `json:"outcome"`
	Snapshot Snapshot `json:"snapshot"`
}

// Command mirrors one entry of GET /device/commands.
type Command struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats holds session statistics.
type Stats struct {
	PositionsReported int
	PositionsRejected int
	Commands          []string
	Outcome           string
	StartTime         time.Time
	Duration          time.Duration
}
