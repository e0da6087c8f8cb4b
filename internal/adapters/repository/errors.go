package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrScoreNotFound   = errors.New("score not found")
)
