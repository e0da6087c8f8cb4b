package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openscore/scorenight/internal/app"
	"github.com/openscore/scorenight/internal/domain/display"
)

// CommandsHandler handles the referee console command endpoints under
// /commands/. Every command is a POST whose response echoes either the
// broadcast message or the mutated session.
type CommandsHandler struct {
	deps Dependencies
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(deps Dependencies) *CommandsHandler {
	return &CommandsHandler{deps: deps}
}

type commandRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	TeamID    string `json:"team_id"`
	BonusID   string `json:"bonus_id"`
	AwardedBy string `json:"awarded_by"`
	Archived  bool   `json:"archived"`
	Confirm   bool   `json:"confirm"`
}

type finalizeResponse struct {
	WinnerTeamID string `json:"winner_team_id,omitempty"`
	Total        int    `json:"total,omitempty"`
	Tie          bool   `json:"tie"`
}

// HandleCommand dispatches POST /commands/{name}.
func (h *CommandsHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req commandRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
	}

	ctx := r.Context()
	name := strings.TrimPrefix(r.URL.Path, "/commands/")

	switch name {
	case "select-session":
		sess, err := h.deps.SelectSession(ctx, req.SessionID)
		h.respond(w, sess, err)
	case "reopen-session":
		sess, err := h.deps.ReopenSession(ctx, req.SessionID)
		h.respond(w, sess, err)
	case "set-archived":
		sess, err := h.deps.SetArchived(ctx, req.SessionID, req.Archived)
		h.respond(w, sess, err)
	case "exclude-user":
		sess, err := h.deps.ExcludeUser(ctx, req.UserID)
		h.respond(w, sess, err)
	case "include-user":
		sess, err := h.deps.IncludeUser(ctx, req.UserID)
		h.respond(w, sess, err)
	case "display-user":
		h.message(w)(h.deps.DisplayUser(ctx, req.UserID))
	case "display-stats":
		h.message(w)(h.deps.DisplayStats(ctx, req.UserID))
	case "display-leaderboard":
		h.message(w)(h.deps.DisplayTeamLeaderboard(ctx))
	case "display-team-bonus":
		h.message(w)(h.deps.DisplayTeamBonus(ctx, req.TeamID))
	case "award-bonus":
		h.message(w)(h.deps.AwardCustomBonus(ctx, app.AwardBonusInput{
			UserID: req.UserID, BonusID: req.BonusID, AwardedBy: req.AwardedBy,
		}))
	case "award-team-bonus":
		h.message(w)(h.deps.AwardTeamBonus(ctx, app.TeamBonusInput{
			TeamID: req.TeamID, BonusID: req.BonusID, AwardedBy: req.AwardedBy,
		}))
	case "celebrate-winner":
		h.message(w)(h.deps.CelebrateWinningTeam(ctx))
	case "clear":
		h.message(w)(h.deps.ClearDisplay(ctx))
	case "reset-reveal":
		h.message(w)(h.deps.ResetReveal(ctx))
	case "season-standings":
		h.message(w)(h.deps.ShowSeasonStandings(ctx))
	case "finalize":
		winner, won, err := h.deps.FinalizeWeek(ctx, req.Confirm)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := finalizeResponse{Tie: !won}
		if won {
			resp.WinnerTeamID = winner.TeamID
			resp.Total = winner.Total()
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeError(w, http.StatusNotFound, "unknown_command", ErrUnknownCmd)
	}
}

func (h *CommandsHandler) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CommandsHandler) message(w http.ResponseWriter) func(display.Message, error) {
	return func(m display.Message, err error) {
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}
