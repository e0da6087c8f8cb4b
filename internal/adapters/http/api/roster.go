package api

import (
	"encoding/json"
	"net/http"

	"github.com/openscore/scorenight/internal/app"
)

// RosterHandler handles roster seeding. Administrators load teams,
// users, sessions and the custom bonus catalog before an event night.
type RosterHandler struct {
	deps Dependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps Dependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandlePostRoster handles POST /roster. Entities are upserted by id so
// reloading an updated roster is safe.
func (h *RosterHandler) HandlePostRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var in app.RosterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	summary, err := h.deps.SeedRoster(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}
