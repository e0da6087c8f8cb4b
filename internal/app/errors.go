package app

import "errors"

// Sentinel kinds for controller errors.
var (
	// ErrConfirmationRequired guards finalization against accidental
	// clicks. The caller must retry with the confirm flag set.
	ErrConfirmationRequired = errors.New("finalization requires confirmation")

	// ErrNoActiveSession means no session has been selected yet.
	ErrNoActiveSession = errors.New("no active session selected")

	// ErrNoWinner means the top weekly totals are exactly tied.
	ErrNoWinner = errors.New("no single winning team")

	// ErrBonusNotFound means the custom bonus id is not defined.
	ErrBonusNotFound = errors.New("custom bonus not found")

	// ErrInvalidRoster means a seeded roster entity is malformed.
	ErrInvalidRoster = errors.New("invalid roster entity")
)
