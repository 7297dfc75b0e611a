package directory

import "errors"

// Sentinel kinds for directory errors.
var (
	ErrClubNotFound  = errors.New("club not found")
	ErrInvalidClub   = errors.New("invalid club")
	ErrEventNotFound = errors.New("event not found")
)
