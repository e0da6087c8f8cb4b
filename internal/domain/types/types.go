// Package types contains read shapes shared across the application.
package types

// TeamStanding is one team's computed weekly result.
type TeamStanding struct {
	TeamID               string   `json:"team_id"`
	Rank                 int      `json:"rank"`
	MemberPoints         int      `json:"member_points"`
	BonusPoints          int      `json:"bonus_points"`
	QualifyingCategories []string `json:"qualifying_categories"`
}

// Total returns the team's weekly total.
func (s TeamStanding) Total() int {
	return s.MemberPoints + s.BonusPoints
}

// UserTotal is a user's cumulative season result.
type UserTotal struct {
	UserID     string         `json:"user_id"`
	Total      int            `json:"total"`
	Weeks      int            `json:"weeks"`
	Average    float64        `json:"average"`
	BestWeek   int            `json:"best_week"`
	ByCategory map[string]int `json:"by_category"`
}

// TeamTotal is a team's cumulative season result.
type TeamTotal struct {
	TeamID   string  `json:"team_id"`
	Total    int     `json:"total"`
	Weeks    int     `json:"weeks"`
	Average  float64 `json:"average"`
	BestWeek int     `json:"best_week"`
	Wins     int     `json:"wins"`
}

// WeeklyWin records which team won a finalized session. Sessions whose
// top totals tie produce no entry.
type WeeklyWin struct {
	SessionID string `json:"session_id"`
	TeamID    string `json:"team_id"`
	Total     int    `json:"total"`
}

// SeasonTotals aggregates all closed, non-archived sessions of a season.
type SeasonTotals struct {
	UserTotals    []UserTotal `json:"user_totals"`
	TeamTotals    []TeamTotal `json:"team_totals"`
	WeeklyWinners []WeeklyWin `json:"weekly_winners"`
}
