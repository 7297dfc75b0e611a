package api

import (
	"net/http"

	"github.com/okian/campnav/internal/domain/model"
)

// FeedHandler serves the events fetched from the campus endpoint.
type FeedHandler struct {
	deps FeedDependencies
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies) *FeedHandler {
	return &FeedHandler{deps: deps}
}

type feedResponse struct {
	Events []model.CampusEvent `json:"events"`
}

// HandleList handles GET /feed requests.
func (h *FeedHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, feedResponse{Events: nonNil(h.deps.CampusEvents())})
}

// HandleRefresh handles POST /feed/refresh requests. On failure the
// previous list is kept and the error is reported as 502.
func (h *FeedHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.RefreshEvents(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{Events: nonNil(events)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
