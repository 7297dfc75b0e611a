// Package location tracks the device's location permission and last known
// position, and turns the user's "locate me" intent into platform calls or
// a camera move.
//
// The coordinator never reads from the platform. Permission and position
// callbacks are applied by whoever consumes the device update queue, in
// arrival order.
package location

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// Platform is the device location service.
type Platform interface {
	RequestPermission(ctx context.Context) error
	StartUpdates(ctx context.Context) error
	StopUpdates(ctx context.Context) error
}

// SettingsOpener is implemented by platforms that can deep-link into the
// system settings page.
type SettingsOpener interface {
	OpenSettings(ctx context.Context) error
}

// Outcome is what a locate tap resulted in.
type Outcome string

const (
	OutcomePermissionRequested Outcome = "permission_requested"
	OutcomeAlertShown          Outcome = "alert_shown"
	OutcomeCameraMoved         Outcome = "camera_moved"
	OutcomeUpdatesStarted      Outcome = "updates_started"
)

// Snapshot is a read-only copy of the coordinator state.
type Snapshot struct {
	Permission      model.PermissionState `json:"permission"`
	Alert           bool                  `json:"alert"`
	AlertsRaised    int                   `json:"alertsRaised"`
	Updating        bool                  `json:"updating"`
	Position        *model.Coordinate     `json:"position,omitempty"`
	Camera          *model.Camera         `json:"camera,omitempty"`
	LocationUpdates int64                 `json:"locationUpdates"`
	CameraMoves     int64                 `json:"cameraMoves"`
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used by the coordinator.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// Coordinator owns the permission state and last known position.
// All methods are safe for concurrent use.
type Coordinator struct {
	platform Platform
	log      logger.Logger

	mu              sync.Mutex
	closed          bool
	permission      model.PermissionState
	alert           bool
	alertsRaised    int
	updating        bool
	position        *model.Coordinate
	camera          *model.Camera
	locationUpdates int64
	cameraMoves     int64
}

// New creates a coordinator in the unknown state.
func New(platform Platform, opts ...Option) *Coordinator {
	c := &Coordinator{
		platform:   platform,
		log:        logger.Nop(),
		permission: model.PermissionUnknown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestPermission acts on the current permission: prompt when unknown,
// alert when denied, start updates when granted.
func (c *Coordinator) RequestPermission(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	switch c.permission {
	case model.PermissionGranted:
		return c.startLocked(ctx)
	case model.PermissionDenied:
		c.raiseAlertLocked(ctx)
		return nil
	default:
		return c.promptLocked(ctx)
	}
}

// OnPermissionChanged applies a platform authorization callback.
// A callback that maps to the current state is ignored.
func (c *Coordinator) OnPermissionChanged(ctx context.Context, status model.AuthorizationStatus) error {
	next := model.PermissionFromStatus(status)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if next == c.permission {
		return nil
	}

	prev := c.permission
	c.permission = next
	metrics.RecordPermissionTransition(string(next))
	c.log.Info(ctx, "location permission changed",
		logger.String("from", string(prev)),
		logger.String("to", string(next)),
		logger.String("status", string(status)),
	)

	switch next {
	case model.PermissionGranted:
		return c.startLocked(ctx)
	case model.PermissionDenied:
		c.raiseAlertLocked(ctx)
		return c.stopLocked(ctx)
	}
	return nil
}

// OnLocationUpdate overwrites the last known position with the last
// element of locs. An empty batch is ignored and reports false.
func (c *Coordinator) OnLocationUpdate(locs []model.Coordinate) (bool, error) {
	if len(locs) == 0 {
		return false, nil
	}
	last := locs[len(locs)-1]

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	c.position = &last
	c.locationUpdates++
	metrics.RecordLocationUpdate()
	return true, nil
}

// HandleLocateTap dispatches the locate button on the current permission.
// When granted without a known position it starts updates and returns; the
// user has to tap again once a position arrives.
func (c *Coordinator) HandleLocateTap(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}

	var (
		out Outcome
		err error
	)
	switch c.permission {
	case model.PermissionUnknown:
		out, err = OutcomePermissionRequested, c.promptLocked(ctx)
	case model.PermissionDenied:
		c.raiseAlertLocked(ctx)
		out = OutcomeAlertShown
	default:
		if c.position != nil {
			cam := model.UserCamera(*c.position)
			c.camera = &cam
			c.cameraMoves++
			metrics.RecordCameraMove()
			out = OutcomeCameraMoved
		} else {
			out, err = OutcomeUpdatesStarted, c.startLocked(ctx)
		}
	}
	if err != nil {
		return "", err
	}
	metrics.RecordLocateTap(string(out))
	c.log.Debug(ctx, "locate tapped", logger.String("outcome", string(out)))
	return out, nil
}

// DismissAlert clears the alert flag.
func (c *Coordinator) DismissAlert() {
	c.mu.Lock()
	c.alert = false
	c.mu.Unlock()
}

// OpenSettings clears the alert and deep-links into the system settings
// when the platform supports it. It reports whether the link was opened.
func (c *Coordinator) OpenSettings(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	c.alert = false

	opener, ok := c.platform.(SettingsOpener)
	if !ok {
		return false, nil
	}
	if err := opener.OpenSettings(ctx); err != nil {
		return false, fmt.Errorf("open settings: %w: %w", ErrPlatform, err)
	}
	metrics.RecordPlatformCommand("open_settings")
	return true, nil
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Permission:      c.permission,
		Alert:           c.alert,
		AlertsRaised:    c.alertsRaised,
		Updating:        c.updating,
		LocationUpdates: c.locationUpdates,
		CameraMoves:     c.cameraMoves,
	}
	if c.position != nil {
		p := *c.position
		s.Position = &p
	}
	if c.camera != nil {
		cam := *c.camera
		s.Camera = &cam
	}
	return s
}

// Close stops location updates if they are running. Later calls fail
// with ErrClosed.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.stopLocked(ctx)
}

func (c *Coordinator) promptLocked(ctx context.Context) error {
	if err := c.platform.RequestPermission(ctx); err != nil {
		return fmt.Errorf("request permission: %w: %w", ErrPlatform, err)
	}
	metrics.RecordPlatformCommand("request_permission")
	return nil
}

func (c *Coordinator) startLocked(ctx context.Context) error {
	if c.updating {
		return nil
	}
	if err := c.platform.StartUpdates(ctx); err != nil {
		return fmt.Errorf("start updates: %w: %w", ErrPlatform, err)
	}
	c.updating = true
	metrics.RecordPlatformCommand("start_updates")
	return nil
}

func (c *Coordinator) stopLocked(ctx context.Context) error {
	if !c.updating {
		return nil
	}
	if err := c.platform.StopUpdates(ctx); err != nil {
		return fmt.Errorf("stop updates: %w: %w", ErrPlatform, err)
	}
	c.updating = false
	metrics.RecordPlatformCommand("stop_updates")
	return nil
}

func (c *Coordinator) raiseAlertLocked(ctx context.Context) {
	c.alert = true
	c.alertsRaised++
	metrics.RecordPermissionAlert()
	c.log.Warn(ctx, "location access denied, showing alert")
}
