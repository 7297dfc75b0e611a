package api

import (
	"net/http"

	"github.com/okian/campnav/internal/adapters/device"
	"github.com/okian/campnav/internal/domain/model"
)

// DeviceHandler accepts callbacks from the device shell and hands it the
// commands issued by the coordinator.
type DeviceHandler struct {
	deps DeviceDependencies
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(deps DeviceDependencies) *DeviceHandler {
	return &DeviceHandler{deps: deps}
}

type authorizationRequest struct {
	Status model.AuthorizationStatus `json:"status"`
}

type locationsRequest struct {
	Locations []model.Coordinate `json:"locations"`
}

type commandsResponse struct {
	Commands []device.Command `json:"commands"`
}

// HandleAuthorization handles POST /device/authorization requests.
func (h *DeviceHandler) HandleAuthorization(w http.ResponseWriter, r *http.Request) {
	const op = "api.device_authorization"
	var req authorizationRequest
	if err := decodeJSON(r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := h.deps.ReportAuthorization(r.Context(), req.Status); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleLocations handles POST /device/locations requests.
func (h *DeviceHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	const op = "api.device_locations"
	var req locationsRequest
	if err := decodeJSON(r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := h.deps.ReportLocations(r.Context(), req.Locations); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleCommands handles GET /device/commands requests. Returned commands
// are removed.
func (h *DeviceHandler) HandleCommands(w http.ResponseWriter, _ *http.Request) {
	cmds := h.deps.DrainCommands()
	if cmds == nil {
		cmds = []device.Command{}
	}
	writeJSON(w, http.StatusOK, commandsResponse{Commands: cmds})
}
