package device_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/campnav/internal/adapters/device"
	"github.com/okian/campnav/internal/adapters/mq/queue"
	"github.com/okian/campnav/internal/domain/location"
	"github.com/okian/campnav/internal/domain/model"
)

var (
	_ location.Platform       = (*device.Bridge)(nil)
	_ location.SettingsOpener = (*device.Bridge)(nil)
)

func names(cmds []device.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func TestBridgeCommands(t *testing.T) {
	ctx := context.Background()

	Convey("Given a coordinator driving a bridge", t, func() {
		b := device.NewBridge(queue.NewInMemoryQueue())
		c := location.New(b)

		Convey("When the user taps locate, grants access, then revokes it", func() {
			_, err := c.HandleLocateTap(ctx)
			So(err, ShouldBeNil)
			So(c.OnPermissionChanged(ctx, model.StatusAuthorizedWhenInUse), ShouldBeNil)
			So(c.OnPermissionChanged(ctx, model.StatusDenied), ShouldBeNil)
			_, err = c.OpenSettings(ctx)
			So(err, ShouldBeNil)

			Convey("Then the shell drains the commands in order, once", func() {
				cmds := b.Drain()
				So(names(cmds), ShouldResemble, []string{
					device.CommandRequestPermission,
					device.CommandStartUpdates,
					device.CommandStopUpdates,
					device.CommandOpenSettings,
				})
				So(cmds[0].ID, ShouldNotEqual, cmds[1].ID)
				So(b.Drain(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a bridge that keeps two commands", t, func() {
		b := device.NewBridge(queue.NewInMemoryQueue(), device.WithMaxPending(2))

		Convey("When three commands are issued before a drain", func() {
			So(b.RequestPermission(ctx), ShouldBeNil)
			So(b.StartUpdates(ctx), ShouldBeNil)
			So(b.StopUpdates(ctx), ShouldBeNil)

			Convey("Then the oldest is dropped", func() {
				So(names(b.Drain()), ShouldResemble, []string{device.CommandStartUpdates, device.CommandStopUpdates})
				So(b.Dropped(), ShouldEqual, 1)
			})
		})
	})
}

func TestBridgeReports(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bridge over a small queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		b := device.NewBridge(q)

		Convey("When a valid authorization is reported", func() {
			So(b.ReportAuthorization(ctx, model.StatusRestricted), ShouldBeNil)

			Convey("Then it is queued", func() {
				So(q.Len(), ShouldEqual, 1)
			})

			Convey("And a second report finds the queue full", func() {
				err := b.ReportLocations(ctx, []model.Coordinate{model.CampusCenter})
				So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
			})
		})

		Convey("When an unknown status is reported", func() {
			err := b.ReportAuthorization(ctx, "maybe")
			So(errors.Is(err, device.ErrInvalidStatus), ShouldBeTrue)
			So(q.Len(), ShouldEqual, 0)
		})

		Convey("When a batch holds an out of range coordinate", func() {
			err := b.ReportLocations(ctx, []model.Coordinate{model.CampusCenter, {Latitude: 120}})
			So(errors.Is(err, device.ErrInvalidCoordinate), ShouldBeTrue)
			So(q.Len(), ShouldEqual, 0)
		})

		Convey("When an empty batch is reported", func() {
			So(errors.Is(b.ReportLocations(ctx, nil), device.ErrEmptyBatch), ShouldBeTrue)
		})
	})
}
