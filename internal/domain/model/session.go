package model

// SessionStatus is the lifecycle state of a weekly session.
type SessionStatus string

// Session lifecycle: draft -> open -> closed, with closed -> open
// permitted (reopen). Archived is an orthogonal flag.
const (
	StatusDraft  SessionStatus = "draft"
	StatusOpen   SessionStatus = "open"
	StatusClosed SessionStatus = "closed"
)

// Session is one scoring week within a season.
type Session struct {
	ID                string            `json:"id"`
	SeasonID          string            `json:"seasonId"`
	Name              string            `json:"name"`
	Status            SessionStatus     `json:"status"`
	Archived          bool              `json:"archived"`
	ExcludedUserIDs   []string          `json:"excludedUserIds"`
	TeamCustomBonuses []TeamCustomBonus `json:"teamCustomBonuses"`
	WinnerTeamID      string            `json:"winnerTeamId,omitempty"`
}

// Open transitions a draft session to open. Opening an open session is a
// no-op; a closed session must be reopened explicitly.
func (s *Session) Open() error {
	if s.Status == StatusClosed {
		return ErrSessionClosed
	}
	s.Status = StatusOpen
	return nil
}

// Close marks the session closed. Closing twice is rejected so that
// finalization stays idempotent-guarded.
func (s *Session) Close() error {
	if s.Status == StatusClosed {
		return ErrSessionClosed
	}
	s.Status = StatusClosed
	return nil
}

// Reopen transitions closed -> open and clears the recorded winner.
func (s *Session) Reopen() error {
	if s.Status != StatusClosed {
		return ErrSessionNotClosed
	}
	s.Status = StatusOpen
	s.WinnerTeamID = ""
	return nil
}

// IsExcluded reports whether the user sits out bonus eligibility this week.
func (s *Session) IsExcluded(userID string) bool {
	for _, id := range s.ExcludedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ExcludeUser adds the user to the week's exclusion list. Idempotent.
func (s *Session) ExcludeUser(userID string) {
	if s.IsExcluded(userID) {
		return
	}
	s.ExcludedUserIDs = append(s.ExcludedUserIDs, userID)
}

// IncludeUser removes the user from the week's exclusion list.
func (s *Session) IncludeUser(userID string) {
	out := s.ExcludedUserIDs[:0]
	for _, id := range s.ExcludedUserIDs {
		if id != userID {
			out = append(out, id)
		}
	}
	s.ExcludedUserIDs = out
}

// TeamBonuses returns the custom bonuses granted to one team this session.
func (s *Session) TeamBonuses(teamID string) []TeamCustomBonus {
	var out []TeamCustomBonus
	for _, b := range s.TeamCustomBonuses {
		if b.TeamID == teamID {
			out = append(out, b)
		}
	}
	return out
}
