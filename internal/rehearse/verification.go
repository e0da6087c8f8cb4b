package rehearse

import (
	"context"
	"fmt"
	"sort"

	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/internal/domain/types"
	"github.com/openscore/scorenight/pkg/logger"
)

// verifyStandings fetches /standings and compares every team's member
// and bonus points against the locally recomputed expectation.
func verifyStandings(ctx context.Context, client *httpClient, cfg *Config, script *Script, userAwards, teamAwards map[string]int) error {
	var standings []types.TeamStanding
	if err := client.GetJSON(ctx, cfg.BaseURL+"/standings", &standings); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}

	expected := expectedStandings(script, userAwards, teamAwards)
	if len(standings) != len(expected) {
		return fmt.Errorf("%w: got %d standings, expected %d", ErrVerification, len(standings), len(expected))
	}

	for _, st := range standings {
		exp, ok := expected[st.TeamID]
		if !ok {
			return fmt.Errorf("%w: unexpected team %q in standings", ErrVerification, st.TeamID)
		}
		if st.MemberPoints != exp.MemberPoints {
			return fmt.Errorf("%w: team %s member points %d, expected %d",
				ErrVerification, st.TeamID, st.MemberPoints, exp.MemberPoints)
		}
		if st.BonusPoints != exp.BonusPoints {
			return fmt.Errorf("%w: team %s bonus points %d, expected %d",
				ErrVerification, st.TeamID, st.BonusPoints, exp.BonusPoints)
		}
		if st.Total() != st.MemberPoints+st.BonusPoints {
			return fmt.Errorf("%w: team %s total does not balance", ErrVerification, st.TeamID)
		}
	}

	logger.Get().Info(ctx, "standings verified",
		logger.Int("teams", len(standings)))
	return nil
}

// verifyDisplays checks that every attached display converged on the
// same final scene, and that a freshly connected display receives a
// snapshot equivalent to it (same mode, same reveal sets).
func verifyDisplays(ctx context.Context, clients []*DisplayClient, fresh *DisplayClient) error {
	if len(clients) == 0 {
		return nil
	}

	ref, refCount := clients[0].Last()
	if refCount == 0 {
		return fmt.Errorf("%w: display %s received no scenes", ErrVerification, clients[0].ID)
	}

	for _, c := range clients[1:] {
		last, count := c.Last()
		if count == 0 {
			return fmt.Errorf("%w: display %s received no scenes", ErrVerification, c.ID)
		}
		if last.ID != ref.ID {
			return fmt.Errorf("%w: display %s ended on scene %s, display %s on %s",
				ErrVerification, c.ID, last.ID, clients[0].ID, ref.ID)
		}
	}

	if fresh != nil {
		snapshot, _ := fresh.Last()
		if snapshot.Type != ref.Type {
			return fmt.Errorf("%w: reconnect snapshot mode %q, expected %q",
				ErrVerification, snapshot.Type, ref.Type)
		}
		if err := compareReveal(snapshot.Reveal, ref.Reveal); err != nil {
			return fmt.Errorf("%w: reconnect snapshot reveal mismatch: %v", ErrVerification, err)
		}
	}

	logger.Get().Info(ctx, "displays verified",
		logger.Int("displays", len(clients)),
		logger.String("finalScene", string(ref.Type)))
	return nil
}

func compareReveal(a, b *display.RevealState) error {
	if (a == nil) != (b == nil) {
		return fmt.Errorf("one snapshot carries reveal state, the other does not")
	}
	if a == nil {
		return nil
	}
	if err := compareSets("shown users", a.ShownUserIDs, b.ShownUserIDs); err != nil {
		return err
	}
	return compareSets("revealed teams", a.RevealedBonusTeamIDs, b.RevealedBonusTeamIDs)
}

func compareSets(what string, a, b []string) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s differ: %d vs %d", what, len(a), len(b))
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return fmt.Errorf("%s differ at %q vs %q", what, as[i], bs[i])
		}
	}
	return nil
}
