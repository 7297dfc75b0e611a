package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/campnav/internal/adapters/storage/floorplan"
	"github.com/okian/campnav/internal/domain/model"
)

// AssetsHandler serves buildings, floor plans, settings and the emergency
// screen.
type AssetsHandler struct {
	deps AssetDependencies
}

// NewAssetsHandler creates a new assets handler.
func NewAssetsHandler(deps AssetDependencies) *AssetsHandler {
	return &AssetsHandler{deps: deps}
}

type buildingsResponse struct {
	Buildings []model.Building `json:"buildings"`
}

type emergencyAlertRequest struct {
	Kind string `json:"kind"`
}

// HandleBuildings handles GET /buildings requests.
func (h *AssetsHandler) HandleBuildings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildingsResponse{Buildings: nonNil(h.deps.Buildings())})
}

// HandleFloorPlan handles GET /floorplans/{building} requests. A known
// building whose document is missing answers 204.
func (h *AssetsHandler) HandleFloorPlan(w http.ResponseWriter, r *http.Request) {
	b, doc, err := h.deps.FloorPlan(r.Context(), r.PathValue("building"))
	switch {
	case errors.Is(err, floorplan.ErrNotFound):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.Header().Set("Content-Disposition", `inline; filename="`+b.FloorPlan+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// HandleGetSettings handles GET /settings requests.
func (h *AssetsHandler) HandleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Settings())
}

// HandleSaveSettings handles PUT /settings requests. The body is merged
// onto the current settings; omitted fields keep their value.
func (h *AssetsHandler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_settings"
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("read body: %w", err)))
		return
	}
	saved, err := h.deps.UpdateSettings(r.Context(), func(cur *model.Settings) error {
		return decodeFrom(bytes.NewReader(body), op, cur)
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleEmergency handles GET /emergency requests.
func (h *AssetsHandler) HandleEmergency(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.EmergencyInfo())
}

// HandleEmergencyAlert handles POST /emergency/alert requests.
func (h *AssetsHandler) HandleEmergencyAlert(w http.ResponseWriter, r *http.Request) {
	const op = "api.emergency_alert"
	var req emergencyAlertRequest
	if err := decodeJSON(r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	ack, err := h.deps.RaiseEmergency(r.Context(), req.Kind)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}
