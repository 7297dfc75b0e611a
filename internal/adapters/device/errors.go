package device

import "errors"

// Sentinel kinds for device report errors.
var (
	ErrInvalidStatus     = errors.New("invalid authorization status")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrEmptyBatch        = errors.New("empty location batch")
)
