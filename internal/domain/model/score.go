package model

// Score is one participant's submitted results for one session.
//
// TeamID is captured at scoring time and may differ from the user's
// present team; weekly team totals group by this historical value.
// TotalPoints is always re-derivable via Recompute, never only patched
// incrementally.
type Score struct {
	ID            string               `json:"id"`
	SessionID     string               `json:"sessionId"`
	UserID        string               `json:"userId"`
	TeamID        string               `json:"teamId"`
	Metrics       Metrics              `json:"metrics"`
	CustomBonuses []AwardedCustomBonus `json:"customBonuses"`
	TotalPoints   int                  `json:"totalPoints"`
}

// Recompute derives TotalPoints from metrics and awarded bonuses.
// Metrics are normalized first, so negative inputs never contribute.
func (s *Score) Recompute(points PointValues) {
	s.Metrics = s.Metrics.Normalize()
	total := 0
	for cat, count := range s.Metrics {
		total += count * points[cat]
	}
	for _, b := range s.CustomBonuses {
		total += b.Points
	}
	s.TotalPoints = total
}

// HasBonus reports whether the given bonus id is already awarded.
func (s *Score) HasBonus(bonusID string) bool {
	for _, b := range s.CustomBonuses {
		if b.BonusID == bonusID {
			return true
		}
	}
	return false
}

// Award applies a custom bonus to the score. A duplicate bonus id is
// rejected with ErrDuplicateAward and leaves the score unchanged.
// The caller is responsible for recomputing the total afterwards.
func (s *Score) Award(b AwardedCustomBonus) error {
	if s.HasBonus(b.BonusID) {
		return ErrDuplicateAward
	}
	s.CustomBonuses = append(s.CustomBonuses, b)
	return nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (s *Score) Clone() Score {
	out := *s
	out.Metrics = make(Metrics, len(s.Metrics))
	for k, v := range s.Metrics {
		out.Metrics[k] = v
	}
	out.CustomBonuses = append([]AwardedCustomBonus(nil), s.CustomBonuses...)
	return out
}
