package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	queue "github.com/okian/campnav/internal/adapters/mq/queue"
	worker "github.com/okian/campnav/internal/adapters/mq/worker"
	"github.com/okian/campnav/internal/domain/location"
	model "github.com/okian/campnav/internal/domain/model"
)

type nopPlatform struct {
	mu     sync.Mutex
	starts int
}

func (p *nopPlatform) RequestPermission(context.Context) error { return nil }
func (p *nopPlatform) StopUpdates(context.Context) error       { return nil }
func (p *nopPlatform) StartUpdates(context.Context) error {
	p.mu.Lock()
	p.starts++
	p.mu.Unlock()
	return nil
}

// recordingApplier keeps the order updates were applied in.
type recordingApplier struct {
	mu   sync.Mutex
	seen []float64
}

func (r *recordingApplier) OnPermissionChanged(context.Context, model.AuthorizationStatus) error {
	return nil
}

func (r *recordingApplier) OnLocationUpdate(locs []model.Coordinate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, locs[len(locs)-1].Latitude)
	return true, nil
}

func TestDispatcherAppliesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a dispatcher over a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		applier := &recordingApplier{}
		d := worker.NewDispatcher(q, applier, worker.WithName("test"))
		ctx := context.Background()
		go d.Run(ctx)

		convey.Convey("When many location batches are enqueued then the queue closes", func() {
			for i := range 200 {
				err := q.Enqueue(ctx, model.LocationsUpdate([]model.Coordinate{{Latitude: float64(i)}}))
				convey.So(err, convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			convey.So(d.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then every update was applied in arrival order", func() {
				convey.So(applier.seen, convey.ShouldHaveLength, 200)
				for i, lat := range applier.seen {
					convey.So(lat, convey.ShouldEqual, float64(i))
				}
				convey.So(d.Processed(), convey.ShouldEqual, 200)
				convey.So(d.Failed(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestDispatcherDrivesCoordinator(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a dispatcher feeding a coordinator", t, func() {
		q := queue.NewInMemoryQueue()
		platform := &nopPlatform{}
		coord := location.New(platform)
		d := worker.NewDispatcher(q, coord)
		ctx := context.Background()
		go d.Run(ctx)

		convey.Convey("When authorization and locations arrive", func() {
			updates := []model.Update{
				model.AuthorizationUpdate(model.StatusAuthorizedWhenInUse),
				model.LocationsUpdate([]model.Coordinate{{Latitude: 43.08, Longitude: -77.67}}),
				model.AuthorizationUpdate(model.StatusAuthorizedAlways),
				model.LocationsUpdate([]model.Coordinate{{Latitude: 43.09, Longitude: -77.68}, {Latitude: 43.0861, Longitude: -77.6705}}),
				model.LocationsUpdate(nil),
			}
			for _, u := range updates {
				convey.So(q.Enqueue(ctx, u), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			<-d.Done()

			convey.Convey("Then the coordinator holds the last coordinate and started once", func() {
				s := coord.Snapshot()
				convey.So(s.Permission, convey.ShouldEqual, model.PermissionGranted)
				convey.So(*s.Position, convey.ShouldResemble, model.Coordinate{Latitude: 43.0861, Longitude: -77.6705})
				convey.So(platform.starts, convey.ShouldEqual, 1)
				convey.So(d.Processed(), convey.ShouldEqual, 5)
			})
		})
	})
}

func TestDispatcherErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a dispatcher over a closed coordinator", t, func() {
		q := queue.NewInMemoryQueue()
		coord := location.New(&nopPlatform{})
		convey.So(coord.Close(context.Background()), convey.ShouldBeNil)
		d := worker.NewDispatcher(q, coord)
		ctx := context.Background()
		go d.Run(ctx)

		convey.Convey("When updates arrive, including an unknown kind", func() {
			convey.So(q.Enqueue(ctx, model.LocationsUpdate([]model.Coordinate{{}})), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, model.Update{Kind: "heading"}), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			<-d.Done()

			convey.Convey("Then both are counted as failures and the loop keeps going", func() {
				convey.So(d.Failed(), convey.ShouldEqual, 2)
				convey.So(d.Processed(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestDispatcherShutdownTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a running dispatcher whose queue stays open", t, func() {
		q := queue.NewInMemoryQueue()
		d := worker.NewDispatcher(q, &recordingApplier{})
		ctx, cancel := context.WithCancel(context.Background())
		go d.Run(ctx)

		convey.Convey("When shutdown gives up", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer stop()
			err := d.Shutdown(shutdownCtx)

			convey.Convey("Then it reports the timeout and Run returns", func() {
				convey.So(err, convey.ShouldNotBeNil)
				<-d.Done()
				cancel()
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})
	})
}
