// Package roster reconciles a team's historical and current membership.
//
// A team must never be short-counted because members changed teams
// mid-season, nor because a current member simply hasn't scored yet, so
// resolved membership is the union of both views. Weekly exclusions are
// applied by callers; the raw resolved set stays reusable for display.
package roster

import (
	"sort"

	"github.com/openscore/scorenight/internal/domain/model"
)

// Resolve returns the resolved member ids for a team within one session:
// every user who scored under the team this session (historical), plus
// every active rostered user currently on the team. The result is sorted
// for deterministic output.
func Resolve(teamID string, scores []model.Score, users []model.User) []string {
	seen := make(map[string]struct{})

	for _, s := range scores {
		if s.TeamID == teamID {
			seen[s.UserID] = struct{}{}
		}
	}
	for _, u := range users {
		if u.TeamID == teamID && u.CountsForRoster() {
			seen[u.ID] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Without returns members minus the excluded ids, preserving order.
func Without(members []string, excluded []string) []string {
	drop := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(members))
	for _, id := range members {
		if _, skip := drop[id]; !skip {
			out = append(out, id)
		}
	}
	return out
}
