package api

import (
	"net/http"

	"github.com/okian/campnav/internal/domain/location"
)

// LocationHandler serves the locate button and the permission alert.
type LocationHandler struct {
	deps LocationDependencies
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(deps LocationDependencies) *LocationHandler {
	return &LocationHandler{deps: deps}
}

type locateResponse struct {
	Outcome  location.Outcome  `json:"outcome"`
	Snapshot location.Snapshot `json:"snapshot"`
}

type openSettingsResponse struct {
	Opened bool `json:"opened"`
}

// HandleSnapshot handles GET /location requests.
func (h *LocationHandler) HandleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.LocationSnapshot())
}

// HandleRequestPermission handles POST /location/permission requests.
func (h *LocationHandler) HandleRequestPermission(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RequestPermission(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, h.deps.LocationSnapshot())
}

// HandleLocate handles POST /location/locate requests.
func (h *LocationHandler) HandleLocate(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.LocateTap(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locateResponse{Outcome: out, Snapshot: h.deps.LocationSnapshot()})
}

// HandleDismissAlert handles POST /location/alert/dismiss requests.
func (h *LocationHandler) HandleDismissAlert(w http.ResponseWriter, _ *http.Request) {
	h.deps.DismissAlert()
	writeJSON(w, http.StatusOK, h.deps.LocationSnapshot())
}

// HandleOpenSettings handles POST /location/settings requests.
func (h *LocationHandler) HandleOpenSettings(w http.ResponseWriter, r *http.Request) {
	opened, err := h.deps.OpenSettings(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, openSettingsResponse{Opened: opened})
}
