package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/roster"
	"github.com/openscore/scorenight/internal/domain/scoring"
	"github.com/openscore/scorenight/internal/domain/types"
	"github.com/openscore/scorenight/pkg/logger"
	"github.com/openscore/scorenight/pkg/metrics"
)

// SubmitScoreInput carries one score submission.
type SubmitScoreInput struct {
	UserID  string        `json:"user_id"`
	Metrics model.Metrics `json:"metrics"`
}

// AwardBonusInput carries a custom bonus award for one user.
type AwardBonusInput struct {
	UserID    string `json:"user_id"`
	BonusID   string `json:"bonus_id"`
	AwardedBy string `json:"awarded_by"`
}

// TeamBonusInput carries a custom bonus award for a whole team.
type TeamBonusInput struct {
	TeamID    string `json:"team_id"`
	BonusID   string `json:"bonus_id"`
	AwardedBy string `json:"awarded_by"`
}

// SelectSession makes the session current. A draft session is opened;
// a closed one stays closed until explicitly reopened.
func (s *Service) SelectSession(ctx context.Context, sessionID string) (model.Session, error) {
	sess, err := s.store.Session(ctx, sessionID)
	if err != nil {
		metrics.RecordCommandError("select_session", "not_found")
		return model.Session{}, err
	}

	if sess.Status == model.StatusDraft {
		sess, err = s.store.UpdateSession(ctx, sessionID, func(in *model.Session) error {
			return in.Open()
		})
		if err != nil {
			metrics.RecordCommandError("select_session", "open")
			return model.Session{}, err
		}
	}

	s.mu.Lock()
	s.currentSessionID = sessionID
	s.mu.Unlock()

	metrics.RecordCommand("select_session")
	s.logger.Info(ctx, "session selected",
		logger.String("session", sessionID),
		logger.String("status", string(sess.Status)),
	)
	return sess, nil
}

// ReopenSession transitions a closed session back to open, clearing its
// recorded winner so finalization can run again.
func (s *Service) ReopenSession(ctx context.Context, sessionID string) (model.Session, error) {
	sess, err := s.store.UpdateSession(ctx, sessionID, func(in *model.Session) error {
		return in.Reopen()
	})
	if err != nil {
		metrics.RecordCommandError("reopen_session", "reopen")
		return model.Session{}, err
	}

	metrics.RecordCommand("reopen_session")
	s.logger.Info(ctx, "session reopened", logger.String("session", sessionID))
	return sess, nil
}

// SetArchived toggles a session's archived flag. Archived sessions are
// kept but drop out of season totals.
func (s *Service) SetArchived(ctx context.Context, sessionID string, archived bool) (model.Session, error) {
	sess, err := s.store.UpdateSession(ctx, sessionID, func(in *model.Session) error {
		in.Archived = archived
		return nil
	})
	if err != nil {
		metrics.RecordCommandError("set_archived", "not_found")
		return model.Session{}, err
	}

	metrics.RecordCommand("set_archived")
	return sess, nil
}

// ExcludeUser removes a user from this week's bonus eligibility.
func (s *Service) ExcludeUser(ctx context.Context, userID string) (model.Session, error) {
	return s.updateCurrentSession(ctx, "exclude_user", func(in *model.Session) error {
		in.ExcludeUser(userID)
		return nil
	})
}

// IncludeUser restores a previously excluded user.
func (s *Service) IncludeUser(ctx context.Context, userID string) (model.Session, error) {
	return s.updateCurrentSession(ctx, "include_user", func(in *model.Session) error {
		in.IncludeUser(userID)
		return nil
	})
}

// SubmitScore records or replaces a user's results for the current
// session. The user's team is captured at submission time, so later
// roster moves do not rewrite history.
func (s *Service) SubmitScore(ctx context.Context, in SubmitScoreInput) (model.Score, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("submit_score", "session")
		return model.Score{}, err
	}
	if sess.Status == model.StatusClosed {
		metrics.RecordCommandError("submit_score", "closed")
		return model.Score{}, model.ErrSessionClosed
	}

	user, err := s.store.User(ctx, in.UserID)
	if err != nil {
		metrics.RecordCommandError("submit_score", "not_found")
		return model.Score{}, err
	}

	score, err := s.store.ScoreByUser(ctx, sess.ID, in.UserID)
	if err != nil {
		score = model.Score{
			ID:        sess.ID + "/" + in.UserID,
			SessionID: sess.ID,
			UserID:    in.UserID,
			TeamID:    user.TeamID,
		}
	}
	score.Metrics = in.Metrics
	score.Recompute(s.points)
	s.store.UpsertScore(ctx, score)

	metrics.RecordCommand("submit_score")
	metrics.RecordScoreSubmission()
	s.logger.Info(ctx, "score submitted",
		logger.String("session", sess.ID),
		logger.String("user", in.UserID),
		logger.Int("total", score.TotalPoints),
	)
	return score, nil
}

// DisplayUser reveals one participant's score on the displays and marks
// them shown.
func (s *Service) DisplayUser(ctx context.Context, userID string) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("display_user", "session")
		return display.Message{}, err
	}
	user, err := s.store.User(ctx, userID)
	if err != nil {
		metrics.RecordCommandError("display_user", "not_found")
		return display.Message{}, err
	}
	score, err := s.store.ScoreByUser(ctx, sess.ID, userID)
	if err != nil {
		metrics.RecordCommandError("display_user", "score_missing")
		return display.Message{}, err
	}

	state, err := s.reveal.ShowUser(ctx, sess.ID, userID)
	if err != nil {
		metrics.RecordCommandError("display_user", "reveal")
		return display.Message{}, err
	}
	metrics.RecordRevealMutation("show_user")

	m := display.New(display.ModeShowUser)
	m.User = &display.UserPayload{
		User:   user,
		Score:  score,
		NextUp: s.nextUp(ctx, sess.ID, state),
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("display_user")
	return m, nil
}

// DisplayStats shows a participant's per-category breakdown without
// changing reveal progress.
func (s *Service) DisplayStats(ctx context.Context, userID string) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("display_stats", "session")
		return display.Message{}, err
	}
	user, err := s.store.User(ctx, userID)
	if err != nil {
		metrics.RecordCommandError("display_stats", "not_found")
		return display.Message{}, err
	}
	score, err := s.store.ScoreByUser(ctx, sess.ID, userID)
	if err != nil {
		metrics.RecordCommandError("display_stats", "score_missing")
		return display.Message{}, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("display_stats", "reveal")
		return display.Message{}, err
	}

	byCategory := make(map[string]int, len(model.Categories()))
	for _, cat := range model.Categories() {
		byCategory[cat] = score.Metrics.Get(cat)
	}

	m := display.New(display.ModeShowStats)
	m.Stats = &display.StatsPayload{User: user, Score: score, ByCategory: byCategory}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("display_stats")
	return m, nil
}

// DisplayTeamLeaderboard pushes the reveal-gated team standings along
// with the full dataset a display needs to render them.
func (s *Service) DisplayTeamLeaderboard(ctx context.Context) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("display_leaderboard", "session")
		return display.Message{}, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("display_leaderboard", "reveal")
		return display.Message{}, err
	}

	teams := s.store.Teams(ctx)
	users := s.store.Users(ctx)
	scores := s.store.Scores(ctx, sess.ID)
	standings := s.aggregator.LiveStandings(teams, scores, users, sess, state.ShownUserIDs)

	m := display.New(display.ModeTeamLeaderboard)
	m.Leaderboard = &display.LeaderboardPayload{
		Standings: standings,
		Teams:     teams,
		Users:     users,
		Scores:    scores,
		Settings:  s.store.Settings(ctx),
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("display_leaderboard")
	return m, nil
}

// DisplayTeamBonus reveals a team's bonus points on the displays and
// marks the team revealed.
func (s *Service) DisplayTeamBonus(ctx context.Context, teamID string) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("display_team_bonus", "session")
		return display.Message{}, err
	}
	team, err := s.store.Team(ctx, teamID)
	if err != nil {
		metrics.RecordCommandError("display_team_bonus", "not_found")
		return display.Message{}, err
	}

	state, err := s.reveal.RevealTeamBonus(ctx, sess.ID, teamID)
	if err != nil {
		metrics.RecordCommandError("display_team_bonus", "reveal")
		return display.Message{}, err
	}
	metrics.RecordRevealMutation("reveal_team_bonus")

	scores := s.store.Scores(ctx, sess.ID)
	users := s.store.Users(ctx)
	members := roster.Resolve(teamID, scores, users)
	standing := s.aggregator.LiveTeamTotal(teamID, scores, members,
		sess.TeamCustomBonuses, sess.ExcludedUserIDs, state.ShownUserIDs)

	m := display.New(display.ModeTeamBonus)
	m.TeamBonus = &display.TeamBonusPayload{
		Team:     team,
		Points:   standing.BonusPoints,
		Standing: standing,
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("display_team_bonus")
	return m, nil
}

// AwardCustomBonus applies a defined custom bonus to one user's score.
// The same bonus cannot land on the same score twice; a duplicate is
// rejected and nothing is published.
func (s *Service) AwardCustomBonus(ctx context.Context, in AwardBonusInput) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("award_bonus", "session")
		return display.Message{}, err
	}
	bonus, ok := s.store.Settings(ctx).FindCustomBonus(in.BonusID)
	if !ok {
		metrics.RecordCommandError("award_bonus", "bonus_unknown")
		return display.Message{}, ErrBonusNotFound
	}
	if bonus.Archived {
		metrics.RecordCommandError("award_bonus", "bonus_archived")
		return display.Message{}, model.ErrBonusArchived
	}
	user, err := s.store.User(ctx, in.UserID)
	if err != nil {
		metrics.RecordCommandError("award_bonus", "not_found")
		return display.Message{}, err
	}
	score, err := s.store.ScoreByUser(ctx, sess.ID, in.UserID)
	if err != nil {
		metrics.RecordCommandError("award_bonus", "score_missing")
		return display.Message{}, err
	}

	if s.guard.SeenAndRecord(ctx, score.ID, in.BonusID) {
		metrics.RecordDuplicateAward()
		metrics.RecordCommandError("award_bonus", "duplicate")
		return display.Message{}, model.ErrDuplicateAward
	}

	awarded := model.AwardedCustomBonus{
		BonusID:   bonus.ID,
		Name:      bonus.Name,
		Points:    bonus.Points,
		AwardedBy: in.AwardedBy,
		AwardedAt: time.Now().UTC(),
	}
	updated, err := s.store.UpdateScore(ctx, score.ID, func(sc *model.Score) error {
		if err := sc.Award(awarded); err != nil {
			return err
		}
		sc.Recompute(s.points)
		return nil
	})
	if err != nil {
		s.guard.Unrecord(ctx, score.ID, in.BonusID)
		if errors.Is(err, model.ErrDuplicateAward) {
			metrics.RecordDuplicateAward()
		}
		metrics.RecordCommandError("award_bonus", "update")
		return display.Message{}, err
	}

	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("award_bonus", "reveal")
		return display.Message{}, err
	}

	m := display.New(display.ModeCustomBonus)
	m.CustomBonus = &display.CustomBonusPayload{
		Bonus:    awarded,
		User:     user,
		NewTotal: updated.TotalPoints,
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("award_bonus")
	s.logger.Info(ctx, "custom bonus awarded",
		logger.String("user", in.UserID),
		logger.String("bonus", in.BonusID),
		logger.Int("points", bonus.Points),
	)
	return m, nil
}

// AwardTeamBonus grants a defined custom bonus to a whole team for the
// current session. Team bonuses are unconditional: they do not require
// full participation.
func (s *Service) AwardTeamBonus(ctx context.Context, in TeamBonusInput) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("award_team_bonus", "session")
		return display.Message{}, err
	}
	bonus, ok := s.store.Settings(ctx).FindCustomBonus(in.BonusID)
	if !ok {
		metrics.RecordCommandError("award_team_bonus", "bonus_unknown")
		return display.Message{}, ErrBonusNotFound
	}
	if bonus.Archived {
		metrics.RecordCommandError("award_team_bonus", "bonus_archived")
		return display.Message{}, model.ErrBonusArchived
	}
	team, err := s.store.Team(ctx, in.TeamID)
	if err != nil {
		metrics.RecordCommandError("award_team_bonus", "not_found")
		return display.Message{}, err
	}

	granted := model.TeamCustomBonus{
		BonusID:   bonus.ID,
		TeamID:    in.TeamID,
		Name:      bonus.Name,
		Points:    bonus.Points,
		AwardedBy: in.AwardedBy,
		AwardedAt: time.Now().UTC(),
	}
	sess, err = s.store.UpdateSession(ctx, sess.ID, func(cur *model.Session) error {
		for _, b := range cur.TeamCustomBonuses {
			if b.BonusID == granted.BonusID && b.TeamID == granted.TeamID {
				return model.ErrDuplicateAward
			}
		}
		cur.TeamCustomBonuses = append(cur.TeamCustomBonuses, granted)
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateAward) {
			metrics.RecordDuplicateAward()
			metrics.RecordCommandError("award_team_bonus", "duplicate")
		} else {
			metrics.RecordCommandError("award_team_bonus", "update")
		}
		return display.Message{}, err
	}

	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("award_team_bonus", "reveal")
		return display.Message{}, err
	}

	scores := s.store.Scores(ctx, sess.ID)
	users := s.store.Users(ctx)
	members := roster.Resolve(in.TeamID, scores, users)
	standing := s.aggregator.LiveTeamTotal(in.TeamID, scores, members,
		sess.TeamCustomBonuses, sess.ExcludedUserIDs, state.ShownUserIDs)

	m := display.New(display.ModeTeamBonus)
	m.TeamBonus = &display.TeamBonusPayload{
		Team:     team,
		Points:   granted.Points,
		Standing: standing,
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("award_team_bonus")
	return m, nil
}

// CelebrateWinningTeam pushes the winner celebration. The winner is the
// team with the strictly greatest ungated total; an exact tie yields
// ErrNoWinner instead of picking one arbitrarily.
func (s *Service) CelebrateWinningTeam(ctx context.Context) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("celebrate_winner", "session")
		return display.Message{}, err
	}

	standings := s.weeklyStandings(ctx, sess)
	winner, ok := scoring.WeeklyWinner(standings)
	if !ok {
		metrics.RecordCommandError("celebrate_winner", "tie")
		return display.Message{}, ErrNoWinner
	}
	team, err := s.store.Team(ctx, winner.TeamID)
	if err != nil {
		metrics.RecordCommandError("celebrate_winner", "not_found")
		return display.Message{}, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("celebrate_winner", "reveal")
		return display.Message{}, err
	}

	m := display.New(display.ModeCelebrateWinner)
	m.Winner = &display.WinnerPayload{Team: team, Standing: winner}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("celebrate_winner")
	return m, nil
}

// ClearDisplay pushes an empty scene. Reveal progress is kept, so a
// later leaderboard still renders the revealed subset.
func (s *Service) ClearDisplay(ctx context.Context) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("clear_display", "session")
		return display.Message{}, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("clear_display", "reveal")
		return display.Message{}, err
	}

	m := display.New(display.ModeClear)
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("clear_display")
	return m, nil
}

// ResetReveal discards the current session's reveal progress and clears
// the displays.
func (s *Service) ResetReveal(ctx context.Context) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("reset_reveal", "session")
		return display.Message{}, err
	}
	state, err := s.reveal.Reset(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("reset_reveal", "reveal")
		return display.Message{}, err
	}
	metrics.RecordRevealMutation("reset")

	m := display.New(display.ModeClear)
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("reset_reveal")
	return m, nil
}

// ShowSeasonStandings pushes cumulative season results to the displays.
func (s *Service) ShowSeasonStandings(ctx context.Context) (display.Message, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("season_standings", "session")
		return display.Message{}, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		metrics.RecordCommandError("season_standings", "reveal")
		return display.Message{}, err
	}

	m := display.New(display.ModeSeasonStandings)
	m.Standings = &display.StandingsPayload{
		Totals: s.SeasonTotals(ctx),
		Teams:  s.store.Teams(ctx),
		Users:  s.store.Users(ctx),
	}
	m = s.publish(ctx, m, state)

	metrics.RecordCommand("season_standings")
	return m, nil
}

// FinalizeWeek closes the current session and records the winner, if
// there is a single one. The confirm flag must be set; finalizing an
// already closed session is rejected.
func (s *Service) FinalizeWeek(ctx context.Context, confirm bool) (types.TeamStanding, bool, error) {
	if !confirm {
		metrics.RecordCommandError("finalize_week", "unconfirmed")
		return types.TeamStanding{}, false, ErrConfirmationRequired
	}
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError("finalize_week", "session")
		return types.TeamStanding{}, false, err
	}

	standings := s.weeklyStandings(ctx, sess)
	winner, won := scoring.WeeklyWinner(standings)

	_, err = s.store.UpdateSession(ctx, sess.ID, func(in *model.Session) error {
		if err := in.Close(); err != nil {
			return err
		}
		if won {
			in.WinnerTeamID = winner.TeamID
		}
		return nil
	})
	if err != nil {
		metrics.RecordCommandError("finalize_week", "close")
		return types.TeamStanding{}, false, err
	}

	metrics.RecordCommand("finalize_week")
	metrics.RecordFinalization()
	s.logger.Info(ctx, "week finalized",
		logger.String("session", sess.ID),
		logger.String("winner", winner.TeamID),
		logger.Bool("tie", !won),
	)
	return winner, won, nil
}

// Standings returns the current session's full, ungated standings.
func (s *Service) Standings(ctx context.Context) ([]types.TeamStanding, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.weeklyStandings(ctx, sess), nil
}

// LiveStandings returns the current session's reveal-gated standings,
// exactly what the audience can derive from the displays.
func (s *Service) LiveStandings(ctx context.Context) ([]types.TeamStanding, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.reveal.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.LiveStandings(
		s.store.Teams(ctx),
		s.store.Scores(ctx, sess.ID),
		s.store.Users(ctx),
		sess,
		state.ShownUserIDs,
	), nil
}

// SeasonTotals aggregates every closed, non-archived session.
func (s *Service) SeasonTotals(ctx context.Context) types.SeasonTotals {
	sessions := s.store.Sessions(ctx)
	scoresBySession := make(map[string][]model.Score)
	for _, sc := range s.store.Scores(ctx, "") {
		scoresBySession[sc.SessionID] = append(scoresBySession[sc.SessionID], sc)
	}
	return s.aggregator.SeasonTotals(sessions, scoresBySession, s.store.Users(ctx), s.store.Teams(ctx))
}

func (s *Service) weeklyStandings(ctx context.Context, sess model.Session) []types.TeamStanding {
	return s.aggregator.Standings(
		s.store.Teams(ctx),
		s.store.Scores(ctx, sess.ID),
		s.store.Users(ctx),
		sess,
	)
}

func (s *Service) updateCurrentSession(ctx context.Context, command string, fn func(*model.Session) error) (model.Session, error) {
	sess, err := s.currentSession(ctx)
	if err != nil {
		metrics.RecordCommandError(command, "session")
		return model.Session{}, err
	}
	updated, err := s.store.UpdateSession(ctx, sess.ID, fn)
	if err != nil {
		metrics.RecordCommandError(command, "update")
		return model.Session{}, err
	}
	metrics.RecordCommand(command)
	return updated, nil
}

// nextUp picks the next scored participant not yet shown, giving the
// operator a preview of who to reveal next.
func (s *Service) nextUp(ctx context.Context, sessionID string, state display.RevealState) *model.User {
	scores := s.store.Scores(ctx, sessionID)
	sort.Slice(scores, func(i, j int) bool { return scores[i].UserID < scores[j].UserID })
	for _, sc := range scores {
		if state.HasShown(sc.UserID) {
			continue
		}
		user, err := s.store.User(ctx, sc.UserID)
		if err != nil {
			continue
		}
		return &user
	}
	return nil
}

// publish stamps the reveal state onto the message, updates the hub's
// connect snapshot, and hands the message to the queue. The stamped
// copy is returned so callers echo the same reveal sets the displays
// receive. A full queue drops the message; the next command re-carries
// the complete scene, so the drop is logged, not retried.
func (s *Service) publish(ctx context.Context, m display.Message, state display.RevealState) display.Message {
	reveal := state.Clone()
	m.Reveal = &reveal
	s.hub.SetReveal(state)
	if !s.queue.Enqueue(ctx, m) {
		s.logger.Warn(ctx, "display queue full, message dropped",
			logger.String("type", string(m.Type)),
			logger.String("id", m.ID),
		)
	}
	return m
}
