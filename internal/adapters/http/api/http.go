// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/campnav/internal/adapters/device"
	"github.com/okian/campnav/internal/domain/directory"
	"github.com/okian/campnav/internal/domain/emergency"
	"github.com/okian/campnav/internal/domain/location"
	"github.com/okian/campnav/internal/domain/model"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// LocationDependencies drives the location coordinator.
type LocationDependencies interface {
	LocationSnapshot() location.Snapshot
	RequestPermission(ctx context.Context) error
	LocateTap(ctx context.Context) (location.Outcome, error)
	DismissAlert()
	OpenSettings(ctx context.Context) (bool, error)
}

// DeviceDependencies connects the device shell.
type DeviceDependencies interface {
	ReportAuthorization(ctx context.Context, status model.AuthorizationStatus) error
	ReportLocations(ctx context.Context, locs []model.Coordinate) error
	DrainCommands() []device.Command
}

// FeedDependencies exposes the remote campus events.
type FeedDependencies interface {
	CampusEvents() []model.CampusEvent
	RefreshEvents(ctx context.Context) ([]model.CampusEvent, error)
}

// DirectoryDependencies exposes clubs and sample events.
type DirectoryDependencies interface {
	Events(category string) []model.Event
	Clubs(category, search string) []model.Club
	CreateClub(ctx context.Context, draft model.ClubDraft) (model.Club, error)
	ToggleJoin(ctx context.Context, id string) (model.Club, error)
	ToggleReminder(ctx context.Context, id string) (directory.Reminder, error)
}

// AssetDependencies covers floor plans, settings and the emergency screen.
type AssetDependencies interface {
	Buildings() []model.Building
	FloorPlan(ctx context.Context, building string) (model.Building, []byte, error)
	Settings() model.Settings
	UpdateSettings(ctx context.Context, change func(*model.Settings) error) (model.Settings, error)
	EmergencyInfo() emergency.Info
	RaiseEmergency(ctx context.Context, kind string) (emergency.Ack, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LocationDependencies
	DeviceDependencies
	FeedDependencies
	DirectoryDependencies
	AssetDependencies
}

// Server wires HTTP routes for the campnav API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	locationHandler  *LocationHandler
	deviceHandler    *DeviceHandler
	feedHandler      *FeedHandler
	directoryHandler *DirectoryHandler
	assetsHandler    *AssetsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		locationHandler:  NewLocationHandler(deps),
		deviceHandler:    NewDeviceHandler(deps),
		feedHandler:      NewFeedHandler(deps),
		directoryHandler: NewDirectoryHandler(deps),
		assetsHandler:    NewAssetsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /location", "location", s.locationHandler.HandleSnapshot)
	route("POST /location/permission", "location_permission", s.locationHandler.HandleRequestPermission)
	route("POST /location/locate", "location_locate", s.locationHandler.HandleLocate)
	route("POST /location/alert/dismiss", "location_alert_dismiss", s.locationHandler.HandleDismissAlert)
	route("POST /location/settings", "location_settings", s.locationHandler.HandleOpenSettings)

	route("POST /device/authorization", "device_authorization", s.deviceHandler.HandleAuthorization)
	route("POST /device/locations", "device_locations", s.deviceHandler.HandleLocations)
	route("GET /device/commands", "device_commands", s.deviceHandler.HandleCommands)

	route("GET /feed", "feed", s.feedHandler.HandleList)
	route("POST /feed/refresh", "feed_refresh", s.feedHandler.HandleRefresh)

	route("GET /events", "events", s.directoryHandler.HandleEvents)
	route("POST /events/{id}/remind", "events_remind", s.directoryHandler.HandleToggleReminder)
	route("GET /clubs", "clubs", s.directoryHandler.HandleClubs)
	route("POST /clubs", "clubs_create", s.directoryHandler.HandleCreateClub)
	route("POST /clubs/{id}/join", "clubs_join", s.directoryHandler.HandleToggleJoin)

	route("GET /buildings", "buildings", s.assetsHandler.HandleBuildings)
	route("GET /floorplans/{building}", "floorplans", s.assetsHandler.HandleFloorPlan)
	route("GET /settings", "settings", s.assetsHandler.HandleGetSettings)
	route("PUT /settings", "settings_save", s.assetsHandler.HandleSaveSettings)
	route("GET /emergency", "emergency", s.assetsHandler.HandleEmergency)
	route("POST /emergency/alert", "emergency_alert", s.assetsHandler.HandleEmergencyAlert)
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	noteErrorCode(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure answers with the status that matches err.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(r *http.Request, op string, v any) error {
	return decodeFrom(io.LimitReader(r.Body, maxBodyBytes), op, v)
}

func decodeFrom(rd io.Reader, op string, v any) error {
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("decode body: %w", err))
	}
	return nil
}
