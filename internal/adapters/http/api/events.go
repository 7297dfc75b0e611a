package api

import (
	"net/http"
	"strings"

	"github.com/okian/campnav/internal/domain/directory"
	"github.com/okian/campnav/internal/domain/model"
)

// DirectoryHandler serves the event and club listings.
type DirectoryHandler struct {
	deps DirectoryDependencies
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(deps DirectoryDependencies) *DirectoryHandler {
	return &DirectoryHandler{deps: deps}
}

type eventsResponse struct {
	Category   string        `json:"category"`
	Categories []string      `json:"categories"`
	Events     []model.Event `json:"events"`
}

type clubsResponse struct {
	Category   string       `json:"category"`
	Categories []string     `json:"categories"`
	Clubs      []model.Club `json:"clubs"`
}

func categoryParam(r *http.Request) string {
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		return c
	}
	return directory.AllCategories
}

// HandleEvents handles GET /events?category= requests.
func (h *DirectoryHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	category := categoryParam(r)
	writeJSON(w, http.StatusOK, eventsResponse{
		Category:   category,
		Categories: directory.EventCategories(),
		Events:     nonNil(h.deps.Events(category)),
	})
}

// HandleClubs handles GET /clubs?category=&q= requests.
func (h *DirectoryHandler) HandleClubs(w http.ResponseWriter, r *http.Request) {
	category := categoryParam(r)
	writeJSON(w, http.StatusOK, clubsResponse{
		Category:   category,
		Categories: directory.ClubCategories(),
		Clubs:      nonNil(h.deps.Clubs(category, r.URL.Query().Get("q"))),
	})
}

// HandleCreateClub handles POST /clubs requests.
func (h *DirectoryHandler) HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_club"
	var draft model.ClubDraft
	if err := decodeJSON(r, op, &draft); err != nil {
		writeFailure(w, err)
		return
	}
	club, err := h.deps.CreateClub(r.Context(), draft)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, club)
}

// HandleToggleJoin handles POST /clubs/{id}/join requests.
func (h *DirectoryHandler) HandleToggleJoin(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_join"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	club, err := h.deps.ToggleJoin(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// HandleToggleReminder handles POST /events/{id}/remind requests.
func (h *DirectoryHandler) HandleToggleReminder(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_reminder"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	reminder, err := h.deps.ToggleReminder(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}
