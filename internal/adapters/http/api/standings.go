package api

import "net/http"

// StandingsHandler serves the read-side standings endpoints.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleStandings handles GET /standings: the full, ungated weekly
// standings the referee sees.
func (h *StandingsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	standings, err := h.deps.Standings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleLiveStandings handles GET /standings/live: the reveal-gated
// standings matching what the audience displays show.
func (h *StandingsHandler) HandleLiveStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	standings, err := h.deps.LiveStandings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleSeason handles GET /season: cumulative totals over every
// closed, non-archived session.
func (h *StandingsHandler) HandleSeason(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SeasonTotals(r.Context()))
}
