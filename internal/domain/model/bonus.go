package model

import "time"

// CustomBonus is an operator-defined, non-metric point award. Archived
// bonuses stay referenced by existing awards but cannot be granted again.
type CustomBonus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Archived bool   `json:"archived"`
}

// AwardedCustomBonus is one application of a CustomBonus to a score.
// A given bonus id may be awarded to a given score at most once.
type AwardedCustomBonus struct {
	BonusID   string    `json:"bonusId"`
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	AwardedBy string    `json:"awardedBy"`
	AwardedAt time.Time `json:"awardedAt"`
}

// TeamCustomBonus is a custom bonus granted to an entire team for a
// session. It lives on the session, not on individual scores, and is not
// gated by full participation.
type TeamCustomBonus struct {
	BonusID   string    `json:"bonusId"`
	TeamID    string    `json:"teamId"`
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	AwardedBy string    `json:"awardedBy"`
	AwardedAt time.Time `json:"awardedAt"`
}
