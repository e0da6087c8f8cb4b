package display

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/types"
)

// Mode tags a display message variant. Consumers match exhaustively on
// the tag and must ignore unknown extra fields for additive evolution.
type Mode string

const (
	ModeShowUser        Mode = "show_user"
	ModeShowStats       Mode = "show_stats"
	ModeTeamLeaderboard Mode = "team_leaderboard"
	ModeTeamBonus       Mode = "team_bonus"
	ModeCustomBonus     Mode = "custom_bonus"
	ModeCelebrateWinner Mode = "celebrate_winner"
	ModeClear           Mode = "clear"
	ModeSeasonStandings Mode = "season_standings"
)

// ErrUnknownMode signals a message variant this consumer does not know.
var ErrUnknownMode = errors.New("unknown display mode")

// Message is the tagged union pushed to displays. Every message is
// self-contained: it carries the full data needed to render, never a
// diff against unknown prior state, so a dropped or reordered message is
// corrected by the next one. Reveal carries the current reveal sets for
// passive resync.
type Message struct {
	ID     string    `json:"id"`
	Type   Mode      `json:"type"`
	SentAt time.Time `json:"sentAt"`

	User        *UserPayload        `json:"user,omitempty"`
	Stats       *StatsPayload       `json:"stats,omitempty"`
	Leaderboard *LeaderboardPayload `json:"leaderboard,omitempty"`
	TeamBonus   *TeamBonusPayload   `json:"teamBonus,omitempty"`
	CustomBonus *CustomBonusPayload `json:"customBonus,omitempty"`
	Winner      *WinnerPayload      `json:"winner,omitempty"`
	Standings   *StandingsPayload   `json:"standings,omitempty"`

	Reveal *RevealState `json:"reveal,omitempty"`
}

// UserPayload renders one participant's reveal.
type UserPayload struct {
	User   model.User  `json:"user"`
	Score  model.Score `json:"score"`
	NextUp *model.User `json:"nextUp,omitempty"`
}

// StatsPayload renders a participant's per-category breakdown.
type StatsPayload struct {
	User       model.User     `json:"user"`
	Score      model.Score    `json:"score"`
	ByCategory map[string]int `json:"byCategory"`
}

// LeaderboardPayload carries the full snapshot a display needs to
// self-compute partial totals from the reveal sets.
type LeaderboardPayload struct {
	Standings []types.TeamStanding `json:"standings"`
	Teams     []model.Team         `json:"teams"`
	Users     []model.User         `json:"users"`
	Scores    []model.Score        `json:"scores"`
	Settings  model.Settings       `json:"settings"`
}

// TeamBonusPayload renders a team bonus celebration.
type TeamBonusPayload struct {
	Team     model.Team         `json:"team"`
	Category string             `json:"category,omitempty"`
	Points   int                `json:"points"`
	Standing types.TeamStanding `json:"standing"`
}

// CustomBonusPayload renders an ad hoc bonus award.
type CustomBonusPayload struct {
	Bonus    model.AwardedCustomBonus `json:"bonus"`
	User     model.User               `json:"user"`
	NewTotal int                      `json:"newTotal"`
}

// WinnerPayload renders the winning team celebration.
type WinnerPayload struct {
	Team     model.Team         `json:"team"`
	Standing types.TeamStanding `json:"standing"`
}

// StandingsPayload renders cumulative season standings.
type StandingsPayload struct {
	Totals types.SeasonTotals `json:"totals"`
	Teams  []model.Team       `json:"teams"`
	Users  []model.User       `json:"users"`
}

// New creates a message of the given mode with a fresh id and timestamp.
func New(mode Mode) Message {
	return Message{
		ID:     uuid.NewString(),
		Type:   mode,
		SentAt: time.Now().UTC(),
	}
}

// Known reports whether the message's mode is one this build understands.
func (m Message) Known() bool {
	switch m.Type {
	case ModeShowUser, ModeShowStats, ModeTeamLeaderboard, ModeTeamBonus,
		ModeCustomBonus, ModeCelebrateWinner, ModeClear, ModeSeasonStandings:
		return true
	default:
		return false
	}
}

// Decode parses a wire message. Unknown extra fields are ignored;
// unknown variants are rejected with ErrUnknownMode rather than crashing
// the consumer.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	if !m.Known() {
		return Message{}, ErrUnknownMode
	}
	return m, nil
}
