package model

// Role is a user's membership role within their team.
type Role string

const (
	RoleMember     Role = "member"
	RoleTeamLeader Role = "team-leader"
	RoleAdmin      Role = "admin"
	RoleGuest      Role = "guest"
)

// User is a participant in the season.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TeamID   string `json:"teamId"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"isActive"`
}

// CountsForRoster reports whether the user belongs to a team's current
// roster for membership resolution. Guests never count.
func (u User) CountsForRoster() bool {
	if !u.IsActive {
		return false
	}
	switch u.Role {
	case RoleMember, RoleTeamLeader, RoleAdmin:
		return true
	default:
		return false
	}
}

// Team groups participants for weekly bonus scoring.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Settings carries the scoring configuration for a season.
type Settings struct {
	PointValues   PointValues   `json:"pointValues"`
	BonusValues   BonusValues   `json:"bonusValues"`
	CustomBonuses []CustomBonus `json:"customBonuses"`
}

// FindCustomBonus looks up a custom bonus definition by id.
func (s Settings) FindCustomBonus(bonusID string) (CustomBonus, bool) {
	for _, b := range s.CustomBonuses {
		if b.ID == bonusID {
			return b, true
		}
	}
	return CustomBonus{}, false
}

// DefaultSettings returns the standard season scoring configuration.
func DefaultSettings() Settings {
	return Settings{
		PointValues: DefaultPointValues(),
		BonusValues: DefaultBonusValues(),
	}
}
