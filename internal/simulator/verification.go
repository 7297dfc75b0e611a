package simulator

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/campnav/internal/domain/model"
)

// ErrVerification is returned when the service did not behave like the
// device expected.
var ErrVerification = errors.New("verification failed")

const coordTolerance = 1e-9

// ExpectedOutcome is what a locate tap should do once the service has
// applied status and at least one position.
func ExpectedOutcome(status model.AuthorizationStatus) string {
	switch model.PermissionFromStatus(status) {
	case model.PermissionGranted:
		return OutcomeCameraMoved
	case model.PermissionDenied:
		return OutcomeAlertShown
	default:
		return OutcomePermissionRequested
	}
}

// verifyLocate checks the tap answer against the reported status and the
// last accepted position.
func verifyLocate(resp LocateResponse, status model.AuthorizationStatus, last *model.Coordinate) error {
	want := ExpectedOutcome(status)
	if want == OutcomeCameraMoved && last == nil {
		want = OutcomeUpdatesStarted
	}
	if resp.Outcome != want {
		return fmt.Errorf("%w: outcome %q, want %q", ErrVerification, resp.Outcome, want)
	}

	switch want {
	case OutcomeCameraMoved:
		cam := resp.Snapshot.Camera
		if cam == nil {
			return fmt.Errorf("%w: camera missing after move", ErrVerification)
		}
		if !sameCoordinate(cam.Center, *last) {
			return fmt.Errorf("%w: camera at (%v, %v), last position (%v, %v)", ErrVerification,
				cam.Center.Latitude, cam.Center.Longitude, last.Latitude, last.Longitude)
		}
		if cam.Distance != model.CameraDistanceMeters || cam.Heading != model.CameraHeading || cam.Pitch != model.CameraPitch {
			return fmt.Errorf("%w: camera distance %v heading %v pitch %v", ErrVerification, cam.Distance, cam.Heading, cam.Pitch)
		}
	case OutcomeAlertShown:
		if !resp.Snapshot.Alert {
			return fmt.Errorf("%w: alert flag not set", ErrVerification)
		}
	}
	return nil
}

func sameCoordinate(a, b model.Coordinate) bool {
	return math.Abs(a.Latitude-b.Latitude) < coordTolerance &&
		math.Abs(a.Longitude-b.Longitude) < coordTolerance
}
