package location

import "errors"

// Sentinel kinds for coordinator errors.
var (
	ErrClosed   = errors.New("location coordinator closed")
	ErrPlatform = errors.New("location platform failure")
)
