package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/campnav/internal/adapters/device"
	"github.com/okian/campnav/internal/adapters/feed"
	"github.com/okian/campnav/internal/adapters/mq/queue"
	"github.com/okian/campnav/internal/adapters/storage/floorplan"
	"github.com/okian/campnav/internal/domain/directory"
	"github.com/okian/campnav/internal/domain/emergency"
	"github.com/okian/campnav/internal/domain/location"
	"github.com/okian/campnav/internal/domain/settings"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// NewKind tags kind with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind. Both stay reachable through errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, queue.ErrFull), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, device.ErrInvalidStatus),
		errors.Is(err, device.ErrInvalidCoordinate),
		errors.Is(err, device.ErrEmptyBatch),
		errors.Is(err, directory.ErrInvalidClub),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, emergency.ErrUnknownOption),
		errors.Is(err, floorplan.ErrInvalidName):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, directory.ErrClubNotFound),
		errors.Is(err, directory.ErrEventNotFound),
		errors.Is(err, floorplan.ErrUnknownBuilding):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, queue.ErrClosed), errors.Is(err, location.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, feed.ErrTransport), errors.Is(err, feed.ErrStatus), errors.Is(err, feed.ErrDecode):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
