package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrFull   = errors.New("device update queue full")
	ErrClosed = errors.New("device update queue closed")
)
