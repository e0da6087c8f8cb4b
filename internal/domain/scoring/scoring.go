// Package scoring computes weekly and season point totals from scores
// and bonus rules.
//
// Two computation paths share one implementation: TeamWeeklyTotal is the
// ungated final truth used by finalization and season totals, while
// LiveTeamTotal is gated by the operator's progressive reveal. They must
// stay separate named entry points; mid-event disagreement between them
// is intended (suspense vs. final truth).
package scoring

import (
	"sort"

	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/roster"
	"github.com/openscore/scorenight/internal/domain/types"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithPointValues sets the individual scoring weights. An explicit
// empty map zeroes every category; only nil keeps the defaults.
func WithPointValues(points model.PointValues) Option {
	return func(a *Aggregator) {
		if points != nil {
			a.points = points
		}
	}
}

// WithBonusValues sets the team all-in bonus weights. An explicit
// empty map disables categorical bonuses; only nil keeps the defaults.
func WithBonusValues(bonus model.BonusValues) Option {
	return func(a *Aggregator) {
		if bonus != nil {
			a.bonus = bonus
		}
	}
}

// Aggregator computes totals. All methods are pure: identical inputs
// yield identical outputs and no external state is read, so they are
// safe to re-run on every display refresh.
type Aggregator struct {
	points model.PointValues
	bonus  model.BonusValues
}

// New constructs an Aggregator with default weights.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		points: model.DefaultPointValues(),
		bonus:  model.DefaultBonusValues(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScoreTotal computes one score's points: metric counts times point
// weights plus awarded custom bonus points. Negative metric inputs are
// clamped to 0 before use.
func (a *Aggregator) ScoreTotal(metrics model.Metrics, bonuses []model.AwardedCustomBonus) int {
	normalized := metrics.Normalize()
	total := 0
	for cat, count := range normalized {
		total += count * a.points[cat]
	}
	for _, b := range bonuses {
		total += b.Points
	}
	return total
}

// TeamWeeklyTotal computes a team's full, ungated weekly standing. This
// is the path finalization and season totals use.
func (a *Aggregator) TeamWeeklyTotal(
	teamID string,
	scores []model.Score,
	members []string,
	teamBonuses []model.TeamCustomBonus,
	excluded []string,
) types.TeamStanding {
	return a.teamTotal(teamID, scores, members, teamBonuses, excluded, nil)
}

// LiveTeamTotal computes a team's standing as currently revealed on the
// live display. Member points come only from shown users, and the
// categorical bonus is credited only once every resolved, non-excluded
// member has been shown.
func (a *Aggregator) LiveTeamTotal(
	teamID string,
	scores []model.Score,
	members []string,
	teamBonuses []model.TeamCustomBonus,
	excluded []string,
	shown []string,
) types.TeamStanding {
	visible := make(map[string]struct{}, len(shown))
	for _, id := range shown {
		visible[id] = struct{}{}
	}
	return a.teamTotal(teamID, scores, members, teamBonuses, excluded, visible)
}

// teamTotal is the shared computation. A nil visible set means ungated.
func (a *Aggregator) teamTotal(
	teamID string,
	scores []model.Score,
	members []string,
	teamBonuses []model.TeamCustomBonus,
	excluded []string,
	visible map[string]struct{},
) types.TeamStanding {
	standing := types.TeamStanding{TeamID: teamID, QualifyingCategories: []string{}}

	excludedSet := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = struct{}{}
	}
	shownOnly := func(userID string) bool {
		if visible == nil {
			return true
		}
		_, ok := visible[userID]
		return ok
	}

	// Member points: non-excluded scores captured under this team id,
	// restricted to shown users on the live path.
	scoreByUser := make(map[string]model.Score)
	for _, s := range scores {
		if s.TeamID != teamID {
			continue
		}
		if _, skip := excludedSet[s.UserID]; skip {
			continue
		}
		scoreByUser[s.UserID] = s
		if shownOnly(s.UserID) {
			standing.MemberPoints += s.TotalPoints
		}
	}

	nonExcluded := roster.Without(members, excluded)

	// Full participation gate: every non-excluded member must have a
	// score, and on the live path must also have been shown.
	eligible := len(nonExcluded) > 0 && len(scoreByUser) == len(nonExcluded)
	if eligible {
		for _, id := range nonExcluded {
			if _, scored := scoreByUser[id]; !scored || !shownOnly(id) {
				eligible = false
				break
			}
		}
	}

	bonusPoints := 0
	if eligible {
		for _, cat := range model.Categories() {
			allPositive := true
			for _, id := range nonExcluded {
				if scoreByUser[id].Metrics.Get(cat) <= 0 {
					allPositive = false
					break
				}
			}
			if allPositive && a.bonus[cat] > 0 {
				bonusPoints += a.bonus[cat]
				standing.QualifyingCategories = append(standing.QualifyingCategories, cat)
			}
		}
	}

	// Custom team bonuses are not gated by participation.
	for _, b := range teamBonuses {
		if b.TeamID == teamID {
			bonusPoints += b.Points
		}
	}

	standing.BonusPoints = bonusPoints
	return standing
}

// Standings computes ranked weekly standings for every team. Teams with
// equal totals share a rank; ordering within a tie is by team id.
func (a *Aggregator) Standings(
	teams []model.Team,
	scores []model.Score,
	users []model.User,
	session model.Session,
) []types.TeamStanding {
	out := make([]types.TeamStanding, 0, len(teams))
	for _, t := range teams {
		members := roster.Resolve(t.ID, scores, users)
		out = append(out, a.TeamWeeklyTotal(t.ID, scores, members, session.TeamCustomBonuses, session.ExcludedUserIDs))
	}
	rank(out)
	return out
}

// LiveStandings is the reveal-gated counterpart of Standings.
func (a *Aggregator) LiveStandings(
	teams []model.Team,
	scores []model.Score,
	users []model.User,
	session model.Session,
	shown []string,
) []types.TeamStanding {
	out := make([]types.TeamStanding, 0, len(teams))
	for _, t := range teams {
		members := roster.Resolve(t.ID, scores, users)
		out = append(out, a.LiveTeamTotal(t.ID, scores, members, session.TeamCustomBonuses, session.ExcludedUserIDs, shown))
	}
	rank(out)
	return out
}

func rank(standings []types.TeamStanding) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total() != standings[j].Total() {
			return standings[i].Total() > standings[j].Total()
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	for i := range standings {
		if i > 0 && standings[i].Total() == standings[i-1].Total() {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
}

// WeeklyWinner returns the team with the strictly greatest total. An
// exact tie at the top yields no winner; the strict comparison is
// deliberate source behavior, not a bug to fix.
func WeeklyWinner(standings []types.TeamStanding) (types.TeamStanding, bool) {
	if len(standings) == 0 {
		return types.TeamStanding{}, false
	}
	best := standings[0]
	tied := false
	for _, s := range standings[1:] {
		switch {
		case s.Total() > best.Total():
			best = s
			tied = false
		case s.Total() == best.Total():
			tied = true
		}
	}
	if tied {
		return types.TeamStanding{}, false
	}
	return best, true
}

// SeasonTotals aggregates per-user and per-team cumulative results over
// every closed, non-archived session.
func (a *Aggregator) SeasonTotals(
	sessions []model.Session,
	scoresBySession map[string][]model.Score,
	users []model.User,
	teams []model.Team,
) types.SeasonTotals {
	userAcc := make(map[string]*types.UserTotal)
	teamAcc := make(map[string]*types.TeamTotal)
	var winners []types.WeeklyWin

	for _, session := range sessions {
		if session.Status != model.StatusClosed || session.Archived {
			continue
		}
		scores := scoresBySession[session.ID]

		for _, s := range scores {
			ut := userAcc[s.UserID]
			if ut == nil {
				ut = &types.UserTotal{UserID: s.UserID, ByCategory: make(map[string]int)}
				userAcc[s.UserID] = ut
			}
			ut.Total += s.TotalPoints
			ut.Weeks++
			if s.TotalPoints > ut.BestWeek {
				ut.BestWeek = s.TotalPoints
			}
			for _, cat := range model.Categories() {
				ut.ByCategory[cat] += s.Metrics.Get(cat)
			}
		}

		standings := a.Standings(teams, scores, users, session)
		for _, st := range standings {
			tt := teamAcc[st.TeamID]
			if tt == nil {
				tt = &types.TeamTotal{TeamID: st.TeamID}
				teamAcc[st.TeamID] = tt
			}
			tt.Total += st.Total()
			tt.Weeks++
			if st.Total() > tt.BestWeek {
				tt.BestWeek = st.Total()
			}
		}

		if winner, ok := WeeklyWinner(standings); ok {
			teamAcc[winner.TeamID].Wins++
			winners = append(winners, types.WeeklyWin{
				SessionID: session.ID,
				TeamID:    winner.TeamID,
				Total:     winner.Total(),
			})
		}
	}

	out := types.SeasonTotals{WeeklyWinners: winners}
	for _, ut := range userAcc {
		if ut.Weeks > 0 {
			ut.Average = float64(ut.Total) / float64(ut.Weeks)
		}
		out.UserTotals = append(out.UserTotals, *ut)
	}
	for _, tt := range teamAcc {
		if tt.Weeks > 0 {
			tt.Average = float64(tt.Total) / float64(tt.Weeks)
		}
		out.TeamTotals = append(out.TeamTotals, *tt)
	}

	sort.Slice(out.UserTotals, func(i, j int) bool {
		if out.UserTotals[i].Total != out.UserTotals[j].Total {
			return out.UserTotals[i].Total > out.UserTotals[j].Total
		}
		return out.UserTotals[i].UserID < out.UserTotals[j].UserID
	})
	sort.Slice(out.TeamTotals, func(i, j int) bool {
		if out.TeamTotals[i].Total != out.TeamTotals[j].Total {
			return out.TeamTotals[i].Total > out.TeamTotals[j].Total
		}
		return out.TeamTotals[i].TeamID < out.TeamTotals[j].TeamID
	})

	return out
}
