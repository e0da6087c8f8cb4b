// Package repository provides the reveal-state store and the in-memory
// event store backing the console.
package repository

import (
	"context"

	"github.com/openscore/scorenight/internal/domain/display"
)

// RevealStore persists per-session reveal state so a reload resumes
// progress. The console controller is the single writer; the durable
// copy is last-writer-wins. Every mutation returns the updated state.
type RevealStore interface {
	// Get returns the session's reveal state, creating an empty one on
	// first access.
	Get(ctx context.Context, sessionID string) (display.RevealState, error)

	ShowUser(ctx context.Context, sessionID, userID string) (display.RevealState, error)
	// SetShownUsers replaces the shown set wholesale; used to
	// resynchronize after an external update. Idempotent.
	SetShownUsers(ctx context.Context, sessionID string, userIDs []string) (display.RevealState, error)
	ClearShown(ctx context.Context, sessionID string) (display.RevealState, error)

	RevealTeamBonus(ctx context.Context, sessionID, teamID string) (display.RevealState, error)
	SetRevealedTeams(ctx context.Context, sessionID string, teamIDs []string) (display.RevealState, error)
	ClearRevealed(ctx context.Context, sessionID string) (display.RevealState, error)

	// Reset discards the session's reveal state entirely.
	Reset(ctx context.Context, sessionID string) (display.RevealState, error)

	Close() error
}
