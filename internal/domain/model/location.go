// Package model contains domain models passed between layers.
package model

// PermissionState is the coordinator's view of location authorization.
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionGranted PermissionState = "granted"
	// PermissionDenied covers both denied and restricted.
	PermissionDenied PermissionState = "denied"
)

// AuthorizationStatus is the raw value reported by the platform.
type AuthorizationStatus string

const (
	StatusNotDetermined       AuthorizationStatus = "not_determined"
	StatusRestricted          AuthorizationStatus = "restricted"
	StatusDenied              AuthorizationStatus = "denied"
	StatusAuthorizedAlways    AuthorizationStatus = "authorized_always"
	StatusAuthorizedWhenInUse AuthorizationStatus = "authorized_when_in_use"
)

// Valid reports whether s is one of the known platform statuses.
func (s AuthorizationStatus) Valid() bool {
	switch s {
	case StatusNotDetermined, StatusRestricted, StatusDenied,
		StatusAuthorizedAlways, StatusAuthorizedWhenInUse:
		return true
	}
	return false
}

// PermissionFromStatus maps a platform status onto a PermissionState.
// Unrecognized values map to unknown.
func PermissionFromStatus(s AuthorizationStatus) PermissionState {
	switch s {
	case StatusAuthorizedAlways, StatusAuthorizedWhenInUse:
		return PermissionGranted
	case StatusDenied, StatusRestricted:
		return PermissionDenied
	default:
		return PermissionUnknown
	}
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether c lies within the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// CampusCenter is where the map opens before any position is known.
var CampusCenter = Coordinate{Latitude: 43.0844, Longitude: -77.6749} //nolint:gochecknoglobals // fixed map origin

// Fixed camera parameters used when centring on the user.
const (
	CameraDistanceMeters = 400.0
	CameraHeading        = 0.0
	CameraPitch          = 45.0
)

// Camera is a map camera position.
type Camera struct {
	Center   Coordinate `json:"center"`
	Distance float64    `json:"distance"`
	Heading  float64    `json:"heading"`
	Pitch    float64    `json:"pitch"`
}

// UserCamera returns the camera centred on c with the fixed user-locate parameters.
func UserCamera(c Coordinate) Camera {
	return Camera{
		Center:   c,
		Distance: CameraDistanceMeters,
		Heading:  CameraHeading,
		Pitch:    CameraPitch,
	}
}
