// Package device connects the coordinator to the phone's location service.
//
// Commands the coordinator issues are recorded for the device shell to
// drain; callbacks the shell reports are validated and enqueued.
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
)

const defaultMaxPending = 256

// Command names.
const (
	CommandRequestPermission = "request_permission"
	CommandStartUpdates      = "start_updates"
	CommandStopUpdates       = "stop_updates"
	CommandOpenSettings      = "open_settings"
)

// Command is an instruction for the device shell.
type Command struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Enqueuer accepts device updates.
type Enqueuer interface {
	Enqueue(ctx context.Context, u model.Update) error
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithMaxPending bounds the commands kept for the shell. The oldest are
// dropped first.
func WithMaxPending(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.maxPending = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// Bridge implements location.Platform and location.SettingsOpener.
type Bridge struct {
	queue      Enqueuer
	log        logger.Logger
	maxPending int

	mu      sync.Mutex
	pending []Command
	dropped int
}

// NewBridge creates a bridge that enqueues reports on q.
func NewBridge(q Enqueuer, opts ...Option) *Bridge {
	b := &Bridge{
		queue:      q,
		log:        logger.Nop(),
		maxPending: defaultMaxPending,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) RequestPermission(ctx context.Context) error {
	return b.issue(ctx, CommandRequestPermission)
}

func (b *Bridge) StartUpdates(ctx context.Context) error {
	return b.issue(ctx, CommandStartUpdates)
}

func (b *Bridge) StopUpdates(ctx context.Context) error {
	return b.issue(ctx, CommandStopUpdates)
}

func (b *Bridge) OpenSettings(ctx context.Context) error {
	return b.issue(ctx, CommandOpenSettings)
}

func (b *Bridge) issue(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) >= b.maxPending {
		b.pending = b.pending[1:]
		b.dropped++
	}
	b.pending = append(b.pending, Command{
		ID:       uuid.NewString(),
		Name:     name,
		IssuedAt: time.Now(),
	})
	b.log.Debug(ctx, "device command issued", logger.String("command", name))
	return nil
}

// Drain returns and clears the pending commands, oldest first.
func (b *Bridge) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Dropped returns how many commands were discarded because the shell did
// not drain them in time.
func (b *Bridge) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// ReportAuthorization enqueues an authorization callback.
func (b *Bridge) ReportAuthorization(ctx context.Context, status model.AuthorizationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := b.queue.Enqueue(ctx, model.AuthorizationUpdate(status)); err != nil {
		return fmt.Errorf("enqueue authorization: %w", err)
	}
	return nil
}

// ReportLocations enqueues a location batch. Every coordinate must be in
// range; only the last one will be used.
func (b *Bridge) ReportLocations(ctx context.Context, locs []model.Coordinate) error {
	if len(locs) == 0 {
		return ErrEmptyBatch
	}
	for i, c := range locs {
		if !c.Valid() {
			return fmt.Errorf("%w: index %d (%v, %v)", ErrInvalidCoordinate, i, c.Latitude, c.Longitude)
		}
	}
	if err := b.queue.Enqueue(ctx, model.LocationsUpdate(locs)); err != nil {
		return fmt.Errorf("enqueue locations: %w", err)
	}
	return nil
}
