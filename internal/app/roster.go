package app

import (
	"context"
	"fmt"

	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/pkg/logger"
	"github.com/openscore/scorenight/pkg/metrics"
)

// RosterInput carries the entities an administrator loads before an
// event night: teams, participants, the week's sessions and the season's
// custom bonus catalog.
type RosterInput struct {
	Teams    []model.Team        `json:"teams"`
	Users    []model.User        `json:"users"`
	Sessions []model.Session     `json:"sessions"`
	Bonuses  []model.CustomBonus `json:"bonuses"`
}

// RosterSummary reports what a seed call stored.
type RosterSummary struct {
	Teams    int `json:"teams"`
	Users    int `json:"users"`
	Sessions int `json:"sessions"`
	Bonuses  int `json:"bonuses"`
}

// SeedRoster loads teams, users, sessions and custom bonus definitions
// into the event store. Entities are upserted by id, so reloading an
// updated roster file is safe. Sessions arrive as drafts unless they
// already carry a status.
func (s *Service) SeedRoster(ctx context.Context, in RosterInput) (RosterSummary, error) {
	metrics.RecordCommand("seed-roster")

	if s.store == nil {
		metrics.RecordCommandError("seed-roster", "not_started")
		return RosterSummary{}, fmt.Errorf("service not started")
	}

	for _, t := range in.Teams {
		if t.ID == "" {
			metrics.RecordCommandError("seed-roster", "invalid_team")
			return RosterSummary{}, fmt.Errorf("%w: team id must not be empty", ErrInvalidRoster)
		}
		s.store.PutTeam(ctx, t)
	}
	for _, u := range in.Users {
		if u.ID == "" {
			metrics.RecordCommandError("seed-roster", "invalid_user")
			return RosterSummary{}, fmt.Errorf("%w: user id must not be empty", ErrInvalidRoster)
		}
		s.store.PutUser(ctx, u)
	}
	for _, sess := range in.Sessions {
		if sess.ID == "" {
			metrics.RecordCommandError("seed-roster", "invalid_session")
			return RosterSummary{}, fmt.Errorf("%w: session id must not be empty", ErrInvalidRoster)
		}
		if sess.Status == "" {
			sess.Status = model.StatusDraft
		}
		s.store.PutSession(ctx, sess)
	}

	if len(in.Bonuses) > 0 {
		settings := s.store.Settings(ctx)
		if len(settings.PointValues) == 0 {
			settings.PointValues = s.points
		}
		if len(settings.BonusValues) == 0 {
			settings.BonusValues = s.bonus
		}
		for _, b := range in.Bonuses {
			if b.ID == "" {
				metrics.RecordCommandError("seed-roster", "invalid_bonus")
				return RosterSummary{}, fmt.Errorf("%w: bonus id must not be empty", ErrInvalidRoster)
			}
			settings.CustomBonuses = upsertBonus(settings.CustomBonuses, b)
		}
		s.store.SetSettings(ctx, settings)
	}

	summary := RosterSummary{
		Teams:    len(in.Teams),
		Users:    len(in.Users),
		Sessions: len(in.Sessions),
		Bonuses:  len(in.Bonuses),
	}
	s.logger.Info(ctx, "roster seeded",
		logger.Int("teams", summary.Teams),
		logger.Int("users", summary.Users),
		logger.Int("sessions", summary.Sessions),
		logger.Int("bonuses", summary.Bonuses),
	)
	return summary, nil
}

func upsertBonus(list []model.CustomBonus, b model.CustomBonus) []model.CustomBonus {
	for i := range list {
		if list[i].ID == b.ID {
			list[i] = b
			return list
		}
	}
	return append(list, b)
}
