// Package display defines the reveal state and the self-contained
// messages pushed to audience displays.
package display

import "sort"

// RevealState is the operator-controlled record of what the audience has
// been shown for one session. It grows monotonically under normal
// operation; only explicit clears shrink it. State is strictly
// per-session and never leaks across sessions.
type RevealState struct {
	SessionID            string   `json:"sessionId"`
	ShownUserIDs         []string `json:"shownUserIds"`
	RevealedBonusTeamIDs []string `json:"revealedBonusTeamIds"`
}

// NewRevealState returns an empty reveal state for a session.
func NewRevealState(sessionID string) RevealState {
	return RevealState{
		SessionID:            sessionID,
		ShownUserIDs:         []string{},
		RevealedBonusTeamIDs: []string{},
	}
}

// Clone returns a deep copy safe to hand across goroutines.
func (r RevealState) Clone() RevealState {
	out := r
	out.ShownUserIDs = append([]string{}, r.ShownUserIDs...)
	out.RevealedBonusTeamIDs = append([]string{}, r.RevealedBonusTeamIDs...)
	return out
}

// HasShown reports whether the user has been revealed.
func (r RevealState) HasShown(userID string) bool {
	return contains(r.ShownUserIDs, userID)
}

// HasRevealed reports whether the team's bonus has been revealed.
func (r RevealState) HasRevealed(teamID string) bool {
	return contains(r.RevealedBonusTeamIDs, teamID)
}

// AddShown adds a user to the shown set. Returns false if already present.
func (r *RevealState) AddShown(userID string) bool {
	if contains(r.ShownUserIDs, userID) {
		return false
	}
	r.ShownUserIDs = insertSorted(r.ShownUserIDs, userID)
	return true
}

// SetShown replaces the shown set wholesale. Idempotent: applying the
// same ids twice yields the same state.
func (r *RevealState) SetShown(userIDs []string) {
	r.ShownUserIDs = dedupeSorted(userIDs)
}

// ClearShown empties the shown set.
func (r *RevealState) ClearShown() {
	r.ShownUserIDs = []string{}
}

// AddRevealed adds a team to the revealed-bonus set.
func (r *RevealState) AddRevealed(teamID string) bool {
	if contains(r.RevealedBonusTeamIDs, teamID) {
		return false
	}
	r.RevealedBonusTeamIDs = insertSorted(r.RevealedBonusTeamIDs, teamID)
	return true
}

// SetRevealed replaces the revealed-bonus set wholesale.
func (r *RevealState) SetRevealed(teamIDs []string) {
	r.RevealedBonusTeamIDs = dedupeSorted(teamIDs)
}

// ClearRevealed empties the revealed-bonus set.
func (r *RevealState) ClearRevealed() {
	r.RevealedBonusTeamIDs = []string{}
}

func contains(ids []string, id string) bool {
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func dedupeSorted(ids []string) []string {
	out := append([]string{}, ids...)
	sort.Strings(out)
	n := 0
	for i, id := range out {
		if i == 0 || out[n-1] != id {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
