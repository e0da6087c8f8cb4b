package rehearse

import (
	"github.com/openscore/scorenight/internal/domain/model"
)

// teamExpectation is the locally computed result for one team.
type teamExpectation struct {
	MemberPoints int
	BonusPoints  int
}

// expectedStandings recomputes the weekly standings from the generated
// script, independently of the service, using the default scoring
// weights. userAwards maps user id to custom bonus points awarded to
// them; teamAwards maps team id to team custom bonus points.
func expectedStandings(script *Script, userAwards, teamAwards map[string]int) map[string]teamExpectation {
	points := model.DefaultPointValues()
	bonuses := model.DefaultBonusValues()

	expected := make(map[string]teamExpectation, len(script.Teams))

	membersByTeam := make(map[string][]model.User)
	for _, u := range script.Users {
		membersByTeam[u.TeamID] = append(membersByTeam[u.TeamID], u)
	}

	for _, team := range script.Teams {
		var exp teamExpectation
		members := membersByTeam[team.ID]

		for _, u := range members {
			metrics := script.Metrics[u.ID].Normalize()
			for _, cat := range model.Categories() {
				exp.MemberPoints += metrics.Get(cat) * points[cat]
			}
			exp.MemberPoints += userAwards[u.ID]
		}

		// Full-participation bonus: every member has a nonzero counter
		// in the category.
		for _, cat := range model.Categories() {
			qualified := len(members) > 0
			for _, u := range members {
				if script.Metrics[u.ID].Normalize().Get(cat) == 0 {
					qualified = false
					break
				}
			}
			if qualified {
				exp.BonusPoints += bonuses[cat]
			}
		}

		exp.BonusPoints += teamAwards[team.ID]
		expected[team.ID] = exp
	}

	return expected
}
