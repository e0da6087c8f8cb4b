package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/openscore/scorenight/internal/domain/model"
)

// EventStore holds the season's users, teams, sessions, scores and
// scoring settings. All reads return deep copies so callers can hand
// data to goroutines or mutate it freely before writing back.
type EventStore struct {
	mu       sync.RWMutex
	users    map[string]model.User
	teams    map[string]model.Team
	sessions map[string]model.Session
	scores   map[string]model.Score
	settings model.Settings
}

// NewEventStore builds an empty store with default scoring settings.
func NewEventStore() *EventStore {
	return &EventStore{
		users:    make(map[string]model.User),
		teams:    make(map[string]model.Team),
		sessions: make(map[string]model.Session),
		scores:   make(map[string]model.Score),
		settings: model.DefaultSettings(),
	}
}

// PutUser inserts or replaces a user.
func (s *EventStore) PutUser(_ context.Context, u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// User looks up a user by id.
func (s *EventStore) User(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// Users returns every user ordered by id.
func (s *EventStore) Users(_ context.Context) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutTeam inserts or replaces a team.
func (s *EventStore) PutTeam(_ context.Context, t model.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

// Team looks up a team by id.
func (s *EventStore) Team(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return model.Team{}, ErrTeamNotFound
	}
	return t, nil
}

// Teams returns every team ordered by id.
func (s *EventStore) Teams(_ context.Context) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutSession inserts or replaces a session.
func (s *EventStore) PutSession(_ context.Context, sess model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = cloneSession(sess)
}

// Session looks up a session by id.
func (s *EventStore) Session(_ context.Context, id string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

// Sessions returns every session ordered by id.
func (s *EventStore) Sessions(_ context.Context) []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateSession applies fn to the session under the write lock so that
// read-modify-write sequences from concurrent commands cannot interleave.
func (s *EventStore) UpdateSession(_ context.Context, id string, fn func(*model.Session) error) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	updated := cloneSession(sess)
	if err := fn(&updated); err != nil {
		return model.Session{}, err
	}
	s.sessions[id] = cloneSession(updated)
	return updated, nil
}

// UpsertScore inserts or replaces a score.
func (s *EventStore) UpsertScore(_ context.Context, sc model.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[sc.ID] = sc.Clone()
}

// ScoreByID looks up a score by its own id.
func (s *EventStore) ScoreByID(_ context.Context, id string) (model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scores[id]
	if !ok {
		return model.Score{}, ErrScoreNotFound
	}
	return sc.Clone(), nil
}

// ScoreByUser finds a user's score within a session.
func (s *EventStore) ScoreByUser(_ context.Context, sessionID, userID string) (model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.scores {
		if sc.SessionID == sessionID && sc.UserID == userID {
			return sc.Clone(), nil
		}
	}
	return model.Score{}, ErrScoreNotFound
}

// Scores returns the session's scores ordered by user id. An empty
// sessionID selects every score across all sessions.
func (s *EventStore) Scores(_ context.Context, sessionID string) []model.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Score
	for _, sc := range s.scores {
		if sessionID != "" && sc.SessionID != sessionID {
			continue
		}
		out = append(out, sc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionID != out[j].SessionID {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// UpdateScore applies fn to the score under the write lock.
func (s *EventStore) UpdateScore(_ context.Context, id string, fn func(*model.Score) error) (model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scores[id]
	if !ok {
		return model.Score{}, ErrScoreNotFound
	}
	updated := sc.Clone()
	if err := fn(&updated); err != nil {
		return model.Score{}, err
	}
	s.scores[id] = updated.Clone()
	return updated, nil
}

// SetSettings replaces the season scoring settings.
func (s *EventStore) SetSettings(_ context.Context, settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneSettings(settings)
}

// Settings returns the season scoring settings.
func (s *EventStore) Settings(_ context.Context) model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

func cloneSession(sess model.Session) model.Session {
	out := sess
	out.ExcludedUserIDs = append([]string(nil), sess.ExcludedUserIDs...)
	out.TeamCustomBonuses = append([]model.TeamCustomBonus(nil), sess.TeamCustomBonuses...)
	return out
}

func cloneSettings(settings model.Settings) model.Settings {
	out := settings
	out.PointValues = make(model.PointValues, len(settings.PointValues))
	for k, v := range settings.PointValues {
		out.PointValues[k] = v
	}
	out.BonusValues = make(model.BonusValues, len(settings.BonusValues))
	for k, v := range settings.BonusValues {
		out.BonusValues[k] = v
	}
	out.CustomBonuses = append([]model.CustomBonus(nil), settings.CustomBonuses...)
	return out
}
