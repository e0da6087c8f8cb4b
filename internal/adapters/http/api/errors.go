package api

import (
	"errors"
	"net/http"

	"github.com/openscore/scorenight/internal/adapters/repository"
	"github.com/openscore/scorenight/internal/app"
	"github.com/openscore/scorenight/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrUnknownCmd = errors.New("unknown command")
)

// statusFor translates controller and repository errors into HTTP
// status codes and stable error codes for clients.
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, app.ErrConfirmationRequired):
		return http.StatusBadRequest, "confirmation_required"
	case errors.Is(err, app.ErrInvalidRoster):
		return http.StatusBadRequest, "invalid_roster"
	case errors.Is(err, app.ErrNoActiveSession):
		return http.StatusConflict, "no_active_session"
	case errors.Is(err, app.ErrNoWinner):
		return http.StatusConflict, "no_winner"
	case errors.Is(err, model.ErrDuplicateAward):
		return http.StatusConflict, "duplicate_award"
	case errors.Is(err, model.ErrBonusArchived):
		return http.StatusConflict, "bonus_archived"
	case errors.Is(err, model.ErrSessionClosed):
		return http.StatusConflict, "session_closed"
	case errors.Is(err, model.ErrSessionNotClosed):
		return http.StatusConflict, "session_not_closed"
	case errors.Is(err, app.ErrBonusNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrTeamNotFound),
		errors.Is(err, repository.ErrScoreNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
