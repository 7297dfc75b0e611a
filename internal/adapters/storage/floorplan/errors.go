package floorplan

import "errors"

// Sentinel kinds for floor plan lookups.
var (
	ErrNotFound        = errors.New("floor plan not found")
	ErrUnknownBuilding = errors.New("unknown building")
	ErrInvalidName     = errors.New("invalid floor plan name")
)
