package feed

import "errors"

// Sentinel kinds for fetch errors. A failed fetch never touches the
// stored events.
var (
	ErrTransport = errors.New("events transport failure")
	ErrStatus    = errors.New("events unexpected status")
	ErrDecode    = errors.New("events decode failure")
)
