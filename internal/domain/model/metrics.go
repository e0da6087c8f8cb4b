// Package model contains domain models passed between layers.
package model

// Metric category names. The set is fixed; unknown categories are dropped
// during normalization.
const (
	CategoryAttendance = "attendance"
	CategoryOneOnOnes  = "one_on_ones"
	CategoryReferrals  = "referrals"
	CategoryTYFCB      = "tyfcb"
	CategoryVisitors   = "visitors"
)

// Categories returns the fixed metric category list in display order.
func Categories() []string {
	return []string{
		CategoryAttendance,
		CategoryOneOnOnes,
		CategoryReferrals,
		CategoryTYFCB,
		CategoryVisitors,
	}
}

// Metrics holds the per-category counters submitted for one score.
// Attendance is boolean-like and capped at 1.
type Metrics map[string]int

// Normalize returns a copy restricted to known categories, with negative
// values clamped to 0 and attendance capped at 1. Missing categories are
// filled with 0 so callers can iterate the full set.
func (m Metrics) Normalize() Metrics {
	out := make(Metrics, len(Categories()))
	for _, cat := range Categories() {
		v := m[cat]
		if v < 0 {
			v = 0
		}
		if cat == CategoryAttendance && v > 1 {
			v = 1
		}
		out[cat] = v
	}
	return out
}

// Get returns the counter for a category, 0 when absent.
func (m Metrics) Get(category string) int {
	return m[category]
}

// PointValues maps a metric category to its individual point weight.
type PointValues map[string]int

// BonusValues maps a metric category to its team all-in bonus weight.
type BonusValues map[string]int

// DefaultPointValues returns the standard individual scoring weights.
func DefaultPointValues() PointValues {
	return PointValues{
		CategoryAttendance: 10,
		CategoryOneOnOnes:  5,
		CategoryReferrals:  10,
		CategoryTYFCB:      10,
		CategoryVisitors:   15,
	}
}

// DefaultBonusValues returns the standard team all-in bonus weights.
func DefaultBonusValues() BonusValues {
	return BonusValues{
		CategoryAttendance: 25,
		CategoryOneOnOnes:  25,
		CategoryReferrals:  50,
		CategoryTYFCB:      50,
		CategoryVisitors:   75,
	}
}
