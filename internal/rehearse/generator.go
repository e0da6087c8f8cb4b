package rehearse

import (
	"fmt"
	"math/rand"

	"github.com/openscore/scorenight/internal/domain/model"
)

// Generation bounds for per-category counters.
const (
	maxOneOnOnes = 4
	maxReferrals = 3
	maxTYFCB     = 3
	maxVisitors  = 2
)

var teamPalette = []string{"crimson", "cobalt", "emerald", "amber", "violet", "teal", "coral", "slate"}

// Script is one generated event night: the roster to seed and the
// metrics each participant turns in.
type Script struct {
	SessionID string
	Teams     []model.Team
	Users     []model.User
	Bonuses   []model.CustomBonus
	Metrics   map[string]model.Metrics
}

// Generate builds a deterministic synthetic night from the seed. The
// same seed always produces the same roster and metrics, so a failing
// rehearsal can be replayed exactly.
func Generate(cfg *Config) *Script {
	rng := rand.New(rand.NewSource(cfg.Seed))

	script := &Script{
		SessionID: fmt.Sprintf("rehearsal-%d", cfg.Seed),
		Metrics:   make(map[string]model.Metrics),
	}

	for t := 0; t < cfg.Teams; t++ {
		color := teamPalette[t%len(teamPalette)]
		team := model.Team{
			ID:    fmt.Sprintf("team-%02d", t+1),
			Name:  fmt.Sprintf("Team %s", color),
			Color: color,
		}
		script.Teams = append(script.Teams, team)

		for u := 0; u < cfg.TeamSize; u++ {
			role := model.RoleMember
			if u == 0 {
				role = model.RoleTeamLeader
			}
			user := model.User{
				ID:       fmt.Sprintf("%s-p%02d", team.ID, u+1),
				Name:     fmt.Sprintf("Player %02d-%02d", t+1, u+1),
				TeamID:   team.ID,
				Role:     role,
				IsActive: true,
			}
			script.Users = append(script.Users, user)
			script.Metrics[user.ID] = randomMetrics(rng)
		}
	}

	script.Bonuses = []model.CustomBonus{
		{ID: "mvp", Name: "Most Valuable Player", Points: 30},
		{ID: "spirit", Name: "Team Spirit", Points: 20},
	}

	return script
}

// randomMetrics rolls one participant's counters. Attendance is biased
// heavily towards present so full-participation bonuses stay reachable.
func randomMetrics(rng *rand.Rand) model.Metrics {
	attendance := 1
	if rng.Intn(10) == 0 {
		attendance = 0
	}
	return model.Metrics{
		model.CategoryAttendance: attendance,
		model.CategoryOneOnOnes:  rng.Intn(maxOneOnOnes + 1),
		model.CategoryReferrals:  rng.Intn(maxReferrals + 1),
		model.CategoryTYFCB:      rng.Intn(maxTYFCB + 1),
		model.CategoryVisitors:   rng.Intn(maxVisitors + 1),
	}
}
