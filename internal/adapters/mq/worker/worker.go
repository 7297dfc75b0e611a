// Package worker applies device updates to the location coordinator.
//
// There is exactly one consumer so that updates are applied in the order
// they arrived; the last location wins.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// ErrUnknownUpdate is returned for updates of an unrecognized kind.
var ErrUnknownUpdate = errors.New("unknown update kind")

// Applier receives platform callbacks.
type Applier interface {
	OnPermissionChanged(ctx context.Context, status model.AuthorizationStatus) error
	OnLocationUpdate(locs []model.Coordinate) (bool, error)
}

// Queue defines how the dispatcher receives updates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Update
}

// Dispatcher drains the queue into the Applier.
type Dispatcher struct {
	queue   Queue
	applier Applier
	name    string
	logger  logger.Logger

	processed atomic.Int64
	failed    atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDispatcher creates a dispatcher. Call Run to start it.
func NewDispatcher(q Queue, a Applier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:   q,
		applier: a,
		name:    "dispatcher",
		logger:  logger.Nop(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run applies updates until the queue is closed and drained, ctx is
// canceled, or Shutdown gives up waiting.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	updates := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := d.apply(ctx, u); err != nil {
				d.logger.Error(ctx, "error applying update",
					logger.String("dispatcher", d.name),
					logger.String("kind", string(u.Kind)),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown waits for Run to drain the queue. The queue must be closed
// first. If ctx ends before that, Run is stopped and pending updates are
// dropped.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.stopOnce.Do(func() { close(d.stop) })
		d.logger.Warn(ctx, "dispatcher shutdown timed out", logger.String("dispatcher", d.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Processed returns the number of updates applied without error.
func (d *Dispatcher) Processed() int64 { return d.processed.Load() }

// Failed returns the number of updates that failed to apply.
func (d *Dispatcher) Failed() int64 { return d.failed.Load() }

func (d *Dispatcher) apply(ctx context.Context, u model.Update) error {
	start := time.Now()
	defer func() {
		metrics.RecordDispatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var err error
	switch u.Kind {
	case model.UpdateAuthorization:
		err = d.applier.OnPermissionChanged(ctx, u.Status)
	case model.UpdateLocations:
		_, err = d.applier.OnLocationUpdate(u.Locations)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownUpdate, u.Kind)
	}
	if err != nil {
		d.failed.Add(1)
		metrics.RecordDispatchError()
		return err
	}
	d.processed.Add(1)
	return nil
}
