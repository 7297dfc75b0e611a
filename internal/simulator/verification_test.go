package simulator

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/campnav/internal/domain/model"
)

func TestVerifyLocate(t *testing.T) {
	Convey("Given a last reported position", t, func() {
		last := model.Coordinate{Latitude: 43.0850, Longitude: -77.6740}
		cam := model.UserCamera(last)

		Convey("Then a camera on that position passes", func() {
			resp := LocateResponse{Outcome: OutcomeCameraMoved, Snapshot: Snapshot{Camera: &cam}}
			So(verifyLocate(resp, model.StatusAuthorizedAlways, &last), ShouldBeNil)
		})

		Convey("Then a camera elsewhere fails", func() {
			off := model.UserCamera(model.CampusCenter)
			resp := LocateResponse{Outcome: OutcomeCameraMoved, Snapshot: Snapshot{Camera: &off}}
			So(errors.Is(verifyLocate(resp, model.StatusAuthorizedAlways, &last), ErrVerification), ShouldBeTrue)
		})

		Convey("Then a wrong pitch fails", func() {
			tilted := cam
			tilted.Pitch = 60
			resp := LocateResponse{Outcome: OutcomeCameraMoved, Snapshot: Snapshot{Camera: &tilted}}
			So(errors.Is(verifyLocate(resp, model.StatusAuthorizedWhenInUse, &last), ErrVerification), ShouldBeTrue)
		})

		Convey("Then an unexpected outcome fails", func() {
			resp := LocateResponse{Outcome: OutcomeAlertShown, Snapshot: Snapshot{Alert: true}}
			So(errors.Is(verifyLocate(resp, model.StatusAuthorizedAlways, &last), ErrVerification), ShouldBeTrue)
		})

		Convey("Then a denied tap needs the alert flag", func() {
			resp := LocateResponse{Outcome: OutcomeAlertShown}
			So(errors.Is(verifyLocate(resp, model.StatusRestricted, &last), ErrVerification), ShouldBeTrue)
			resp.Snapshot.Alert = true
			So(verifyLocate(resp, model.StatusRestricted, &last), ShouldBeNil)
		})
	})

	Convey("Given each authorization status", t, func() {
		So(ExpectedOutcome(model.StatusAuthorizedAlways), ShouldEqual, OutcomeCameraMoved)
		So(ExpectedOutcome(model.StatusAuthorizedWhenInUse), ShouldEqual, OutcomeCameraMoved)
		So(ExpectedOutcome(model.StatusDenied), ShouldEqual, OutcomeAlertShown)
		So(ExpectedOutcome(model.StatusRestricted), ShouldEqual, OutcomeAlertShown)
		So(ExpectedOutcome(model.StatusNotDetermined), ShouldEqual, OutcomePermissionRequested)
	})
}
