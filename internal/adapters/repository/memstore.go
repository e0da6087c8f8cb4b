package repository

import (
	"context"
	"sync"

	"github.com/openscore/scorenight/internal/domain/display"
)

// MemRevealStore is a RevealStore without durability. Suitable for
// tests and rehearsals where losing progress on restart is acceptable.
type MemRevealStore struct {
	mu     sync.Mutex
	states map[string]display.RevealState
}

// NewMemRevealStore builds an empty in-memory reveal store.
func NewMemRevealStore() *MemRevealStore {
	return &MemRevealStore{states: make(map[string]display.RevealState)}
}

func (s *MemRevealStore) Close() error { return nil }

func (s *MemRevealStore) Get(_ context.Context, sessionID string) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).Clone(), nil
}

func (s *MemRevealStore) ShowUser(_ context.Context, sessionID, userID string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.AddShown(userID) })
}

func (s *MemRevealStore) SetShownUsers(_ context.Context, sessionID string, userIDs []string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.SetShown(userIDs) })
}

func (s *MemRevealStore) ClearShown(_ context.Context, sessionID string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.ClearShown() })
}

func (s *MemRevealStore) RevealTeamBonus(_ context.Context, sessionID, teamID string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.AddRevealed(teamID) })
}

func (s *MemRevealStore) SetRevealedTeams(_ context.Context, sessionID string, teamIDs []string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.SetRevealed(teamIDs) })
}

func (s *MemRevealStore) ClearRevealed(_ context.Context, sessionID string) (display.RevealState, error) {
	return s.mutate(sessionID, func(r *display.RevealState) { r.ClearRevealed() })
}

func (s *MemRevealStore) Reset(_ context.Context, sessionID string) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := display.NewRevealState(sessionID)
	s.states[sessionID] = state
	return state.Clone(), nil
}

func (s *MemRevealStore) mutate(sessionID string, fn func(*display.RevealState)) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.get(sessionID)
	fn(&state)
	s.states[sessionID] = state
	return state.Clone(), nil
}

// get must be called with s.mu held.
func (s *MemRevealStore) get(sessionID string) display.RevealState {
	if state, ok := s.states[sessionID]; ok {
		return state
	}
	state := display.NewRevealState(sessionID)
	s.states[sessionID] = state
	return state
}
