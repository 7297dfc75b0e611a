package kafka

import "errors"

// ErrInvalidMessage marks a device message that cannot be decoded into an
// update. Such messages are committed and skipped.
var ErrInvalidMessage = errors.New("invalid device message")
