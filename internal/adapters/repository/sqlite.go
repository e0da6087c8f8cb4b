package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openscore/scorenight/internal/domain/display"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reveal_state (
	session_id        TEXT PRIMARY KEY,
	shown_user_ids    TEXT NOT NULL,
	revealed_team_ids TEXT NOT NULL,
	updated_at        INTEGER NOT NULL
);`

// SQLiteRevealStore is a durable RevealStore backed by a single SQLite
// file. State is cached in memory and written through on every
// mutation; with exactly one writer role there is no conflict to
// resolve.
type SQLiteRevealStore struct {
	mu    sync.Mutex
	db    *sql.DB
	cache map[string]display.RevealState
}

// OpenSQLiteRevealStore opens (and migrates) the reveal-state database.
func OpenSQLiteRevealStore(path string) (*SQLiteRevealStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("reveal store path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate reveal store: %w", err)
	}

	return &SQLiteRevealStore{
		db:    db,
		cache: make(map[string]display.RevealState),
	}, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteRevealStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteRevealStore) Get(ctx context.Context, sessionID string) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return display.RevealState{}, err
	}
	return state.Clone(), nil
}

func (s *SQLiteRevealStore) ShowUser(ctx context.Context, sessionID, userID string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.AddShown(userID)
	})
}

func (s *SQLiteRevealStore) SetShownUsers(ctx context.Context, sessionID string, userIDs []string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.SetShown(userIDs)
	})
}

func (s *SQLiteRevealStore) ClearShown(ctx context.Context, sessionID string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.ClearShown()
	})
}

func (s *SQLiteRevealStore) RevealTeamBonus(ctx context.Context, sessionID, teamID string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.AddRevealed(teamID)
	})
}

func (s *SQLiteRevealStore) SetRevealedTeams(ctx context.Context, sessionID string, teamIDs []string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.SetRevealed(teamIDs)
	})
}

func (s *SQLiteRevealStore) ClearRevealed(ctx context.Context, sessionID string) (display.RevealState, error) {
	return s.mutate(ctx, sessionID, func(r *display.RevealState) {
		r.ClearRevealed()
	})
}

func (s *SQLiteRevealStore) Reset(ctx context.Context, sessionID string) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := display.NewRevealState(sessionID)
	if err := s.persist(ctx, state); err != nil {
		return display.RevealState{}, err
	}
	s.cache[sessionID] = state
	return state.Clone(), nil
}

// mutate applies fn under the lock and writes the result through.
func (s *SQLiteRevealStore) mutate(ctx context.Context, sessionID string, fn func(*display.RevealState)) (display.RevealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return display.RevealState{}, err
	}
	fn(&state)
	if err := s.persist(ctx, state); err != nil {
		return display.RevealState{}, err
	}
	s.cache[sessionID] = state
	return state.Clone(), nil
}

// load must be called with s.mu held.
func (s *SQLiteRevealStore) load(ctx context.Context, sessionID string) (display.RevealState, error) {
	if state, ok := s.cache[sessionID]; ok {
		return state, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT shown_user_ids, revealed_team_ids FROM reveal_state WHERE session_id = ?`,
		sessionID,
	)
	var shownJSON, revealedJSON string
	switch err := row.Scan(&shownJSON, &revealedJSON); {
	case err == sql.ErrNoRows:
		state := display.NewRevealState(sessionID)
		s.cache[sessionID] = state
		return state, nil
	case err != nil:
		return display.RevealState{}, fmt.Errorf("load reveal state: %w", err)
	}

	state := display.NewRevealState(sessionID)
	var shown, revealed []string
	if err := json.Unmarshal([]byte(shownJSON), &shown); err != nil {
		return display.RevealState{}, fmt.Errorf("decode shown set: %w", err)
	}
	if err := json.Unmarshal([]byte(revealedJSON), &revealed); err != nil {
		return display.RevealState{}, fmt.Errorf("decode revealed set: %w", err)
	}
	state.SetShown(shown)
	state.SetRevealed(revealed)
	s.cache[sessionID] = state
	return state, nil
}

// persist must be called with s.mu held.
func (s *SQLiteRevealStore) persist(ctx context.Context, state display.RevealState) error {
	shownJSON, err := json.Marshal(state.ShownUserIDs)
	if err != nil {
		return fmt.Errorf("encode shown set: %w", err)
	}
	revealedJSON, err := json.Marshal(state.RevealedBonusTeamIDs)
	if err != nil {
		return fmt.Errorf("encode revealed set: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reveal_state (session_id, shown_user_ids, revealed_team_ids, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   shown_user_ids = excluded.shown_user_ids,
		   revealed_team_ids = excluded.revealed_team_ids,
		   updated_at = excluded.updated_at`,
		state.SessionID, string(shownJSON), string(revealedJSON), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("persist reveal state: %w", err)
	}
	return nil
}
