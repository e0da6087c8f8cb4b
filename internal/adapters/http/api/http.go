// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openscore/scorenight/internal/app"
	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/types"
)

// Dependencies bundles the console operations HTTP handlers call. Using
// an interface bundle keeps the handler layer loosely coupled to the
// app package.
type Dependencies interface {
	SelectSession(ctx context.Context, sessionID string) (model.Session, error)
	ReopenSession(ctx context.Context, sessionID string) (model.Session, error)
	SetArchived(ctx context.Context, sessionID string, archived bool) (model.Session, error)
	ExcludeUser(ctx context.Context, userID string) (model.Session, error)
	IncludeUser(ctx context.Context, userID string) (model.Session, error)

	SubmitScore(ctx context.Context, in app.SubmitScoreInput) (model.Score, error)
	SeedRoster(ctx context.Context, in app.RosterInput) (app.RosterSummary, error)

	DisplayUser(ctx context.Context, userID string) (display.Message, error)
	DisplayStats(ctx context.Context, userID string) (display.Message, error)
	DisplayTeamLeaderboard(ctx context.Context) (display.Message, error)
	DisplayTeamBonus(ctx context.Context, teamID string) (display.Message, error)
	AwardCustomBonus(ctx context.Context, in app.AwardBonusInput) (display.Message, error)
	AwardTeamBonus(ctx context.Context, in app.TeamBonusInput) (display.Message, error)
	CelebrateWinningTeam(ctx context.Context) (display.Message, error)
	ClearDisplay(ctx context.Context) (display.Message, error)
	ResetReveal(ctx context.Context) (display.Message, error)
	ShowSeasonStandings(ctx context.Context) (display.Message, error)

	FinalizeWeek(ctx context.Context, confirm bool) (types.TeamStanding, bool, error)

	Standings(ctx context.Context) ([]types.TeamStanding, error)
	LiveStandings(ctx context.Context) ([]types.TeamStanding, error)
	SeasonTotals(ctx context.Context) types.SeasonTotals
}

// Server wires HTTP routes for the console API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	scoresHandler    *ScoresHandler
	rosterHandler    *RosterHandler
	commandsHandler  *CommandsHandler
	standingsHandler *StandingsHandler
	consoleHandler   *consoleHandler
	liveHandler      http.Handler
}

// NewServer creates a new API server with all handlers. The live
// handler is the websocket endpoint displays connect to.
func NewServer(deps Dependencies, statsProvider StatsProvider, live http.Handler) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		scoresHandler:    NewScoresHandler(deps),
		rosterHandler:    NewRosterHandler(deps),
		commandsHandler:  NewCommandsHandler(deps),
		standingsHandler: NewStandingsHandler(deps),
		consoleHandler:   newConsoleHandler(),
		liveHandler:      live,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/console", s.consoleHandler.HandleConsole)
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandlePostRoster, "roster"))
	mux.HandleFunc("/commands/", MetricsMiddleware(s.commandsHandler.HandleCommand, "commands"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleStandings, "standings"))
	mux.HandleFunc("/standings/live", MetricsMiddleware(s.standingsHandler.HandleLiveStandings, "standings_live"))
	mux.HandleFunc("/season", MetricsMiddleware(s.standingsHandler.HandleSeason, "season"))
	if s.liveHandler != nil {
		mux.Handle("/live", s.liveHandler)
	}
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
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
