package model

import "errors"

// Sentinel error kinds for domain state transitions. Callers use
// errors.Is to translate these into operator-facing responses.
var (
	ErrDuplicateAward   = errors.New("bonus already awarded to this score")
	ErrBonusArchived    = errors.New("bonus is archived")
	ErrSessionClosed    = errors.New("session is already closed")
	ErrSessionNotClosed = errors.New("session is not closed")
)
