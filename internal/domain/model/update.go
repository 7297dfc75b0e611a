package model

import "time"

// UpdateKind distinguishes device messages.
type UpdateKind string

const (
	UpdateAuthorization UpdateKind = "authorization"
	UpdateLocations     UpdateKind = "locations"
)

// Update is one callback from the device location platform.
// Authorization updates carry Status; location updates carry Locations,
// of which only the last element is used.
type Update struct {
	Kind       UpdateKind          `json:"kind"`
	Status     AuthorizationStatus `json:"status,omitempty"`
	Locations  []Coordinate        `json:"locations,omitempty"`
	ReceivedAt time.Time           `json:"receivedAt"`
}

// AuthorizationUpdate builds an authorization Update.
func AuthorizationUpdate(s AuthorizationStatus) Update {
	return Update{Kind: UpdateAuthorization, Status: s, ReceivedAt: time.Now()}
}

// LocationsUpdate builds a location batch Update.
func LocationsUpdate(locs []Coordinate) Update {
	return Update{Kind: UpdateLocations, Locations: locs, ReceivedAt: time.Now()}
}
