package rehearse

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/pkg/logger"
)

// Runner pacing constants.
const (
	scoreWorkers    = 8
	quiesceInterval = 50 * time.Millisecond
	quiesceSettle   = 300 * time.Millisecond
	quiesceTimeout  = 5 * time.Second
)

// Run executes a complete rehearsal against a running service.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting rehearsal",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("teams", cfg.Teams),
		logger.Int("teamSize", cfg.TeamSize),
		logger.Int("displays", cfg.Displays),
		logger.Any("seed", cfg.Seed),
		logger.Bool("finalize", cfg.Finalize))

	client := newHTTPClient(cfg.Timeout)

	if err := checkServiceHealth(ctx, client, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrHealthCheck, err)
	}

	script := Generate(cfg)

	if err := seedRoster(ctx, client, cfg, script, stats); err != nil {
		return fmt.Errorf("%w: %v", ErrSeed, err)
	}

	if err := client.PostJSON(ctx, cfg.BaseURL+"/commands/select-session",
		map[string]string{"session_id": script.SessionID}, nil, http.StatusOK); err != nil {
		return fmt.Errorf("%w: select-session: %v", ErrScript, err)
	}

	clients, err := attachDisplays(ctx, cfg, stats)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range clients {
			c.Close()
		}
	}()

	if err := submitScores(ctx, client, cfg, script, stats); err != nil {
		return err
	}

	userAwards, teamAwards, err := runScript(ctx, client, cfg, script, stats)
	if err != nil {
		return err
	}

	waitForQuiesce(ctx, clients)

	// A fresh display simulates a reconnect: its snapshot must match
	// the scene the long-lived displays ended on.
	fresh, err := AttachDisplay(ctx, cfg.BaseURL, "display-reconnect")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	defer fresh.Close()
	snapCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := fresh.WaitForScenes(snapCtx, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}

	if err := verifyDisplays(ctx, clients, fresh); err != nil {
		return err
	}
	if err := verifyStandings(ctx, client, cfg, script, userAwards, teamAwards); err != nil {
		return err
	}

	if cfg.Finalize {
		if err := finalizeNight(ctx, client, cfg, stats); err != nil {
			return err
		}
	}

	for _, c := range clients {
		_, count := c.Last()
		stats.MessagesReceived += count
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "rehearsal completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, cfg *Config) error {
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// seedRoster loads the generated roster through the admin endpoint.
func seedRoster(ctx context.Context, client *httpClient, cfg *Config, script *Script, stats *Stats) error {
	payload := map[string]interface{}{
		"teams":    script.Teams,
		"users":    script.Users,
		"bonuses":  script.Bonuses,
		"sessions": []model.Session{{ID: script.SessionID, Name: "Rehearsal Night"}},
	}
	if err := client.PostJSON(ctx, cfg.BaseURL+"/roster", payload, nil, http.StatusCreated); err != nil {
		return err
	}

	stats.TeamsSeeded = len(script.Teams)
	stats.UsersSeeded = len(script.Users)
	logger.Get().Info(ctx, "roster seeded",
		logger.Int("teams", stats.TeamsSeeded),
		logger.Int("users", stats.UsersSeeded))
	return nil
}

// attachDisplays connects the configured number of websocket clients.
func attachDisplays(ctx context.Context, cfg *Config, stats *Stats) ([]*DisplayClient, error) {
	clients := make([]*DisplayClient, 0, cfg.Displays)
	for i := 0; i < cfg.Displays; i++ {
		c, err := AttachDisplay(ctx, cfg.BaseURL, fmt.Sprintf("display-%02d", i+1))
		if err != nil {
			for _, open := range clients {
				open.Close()
			}
			return nil, fmt.Errorf("%w: %v", ErrScript, err)
		}
		clients = append(clients, c)
	}
	stats.DisplaysAttached = len(clients)
	logger.Get().Info(ctx, "displays attached", logger.Int("count", len(clients)))
	return clients, nil
}

// submitScores posts every participant's metrics through a worker pool.
func submitScores(ctx context.Context, client *httpClient, cfg *Config, script *Script, stats *Stats) error {
	logger.Get().Info(ctx, "submitting scores", logger.Int("count", len(script.Users)))

	var submitted, failed int64

	userChan := make(chan model.User, scoreWorkers*2)
	var wg sync.WaitGroup

	workers := scoreWorkers
	if len(script.Users) < workers {
		workers = len(script.Users)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range userChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				body := map[string]interface{}{
					"user_id": u.ID,
					"metrics": script.Metrics[u.ID],
				}
				err := client.PostJSON(ctx, cfg.BaseURL+"/scores", body, nil, http.StatusAccepted)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "score submission failed",
							logger.String("userID", u.ID), logger.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(userChan)
		for _, u := range script.Users {
			select {
			case <-ctx.Done():
				return
			case userChan <- u:
			}
		}
	}()

	wg.Wait()

	stats.ScoresSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresFailed = int(atomic.LoadInt64(&failed))
	if stats.ScoresFailed > 0 {
		return fmt.Errorf("%w: %d of %d score submissions failed",
			ErrScript, stats.ScoresFailed, stats.ScoresSubmitted)
	}
	logger.Get().Info(ctx, "scores submitted", logger.Int("count", stats.ScoresSubmitted))
	return nil
}

// runScript replays the referee's command order: reveal every
// participant, show the leaderboard, hand out bonuses, reveal each
// team's bonus and celebrate. Returns the custom bonus points handed
// out, keyed by user and team, for the standings verification.
func runScript(ctx context.Context, client *httpClient, cfg *Config, script *Script, stats *Stats) (map[string]int, map[string]int, error) {
	userAwards := make(map[string]int)
	teamAwards := make(map[string]int)

	send := func(name string, body interface{}) error {
		stats.CommandsSent++
		err := client.PostJSON(ctx, cfg.BaseURL+"/commands/"+name, body, nil, http.StatusOK)
		if err != nil {
			stats.CommandsFailed++
			return fmt.Errorf("%w: %s: %v", ErrScript, name, err)
		}
		if cfg.Verbose {
			logger.Get().Debug(ctx, "command sent", logger.String("command", name))
		}
		return nil
	}

	for _, u := range script.Users {
		if err := send("display-user", map[string]string{"user_id": u.ID}); err != nil {
			return nil, nil, err
		}
	}

	if len(script.Users) > 0 {
		first := script.Users[0]
		if err := send("display-stats", map[string]string{"user_id": first.ID}); err != nil {
			return nil, nil, err
		}
		if err := send("award-bonus", map[string]string{
			"user_id": first.ID, "bonus_id": "mvp", "awarded_by": "rehearsal",
		}); err != nil {
			return nil, nil, err
		}
		userAwards[first.ID] = script.Bonuses[0].Points
	}

	if err := send("display-leaderboard", nil); err != nil {
		return nil, nil, err
	}

	if len(script.Teams) > 0 {
		firstTeam := script.Teams[0]
		if err := send("award-team-bonus", map[string]string{
			"team_id": firstTeam.ID, "bonus_id": "spirit", "awarded_by": "rehearsal",
		}); err != nil {
			return nil, nil, err
		}
		teamAwards[firstTeam.ID] = script.Bonuses[1].Points
	}

	for _, team := range script.Teams {
		if err := send("display-team-bonus", map[string]string{"team_id": team.ID}); err != nil {
			return nil, nil, err
		}
	}

	if err := send("display-leaderboard", nil); err != nil {
		return nil, nil, err
	}

	// A tie is a legitimate outcome of a random night.
	stats.CommandsSent++
	if err := client.PostJSON(ctx, cfg.BaseURL+"/commands/celebrate-winner", nil, nil, http.StatusOK); err != nil {
		logger.Get().Info(ctx, "no winner to celebrate", logger.Error(err))
		if err := send("display-leaderboard", nil); err != nil {
			return nil, nil, err
		}
	}

	logger.Get().Info(ctx, "command script completed",
		logger.Int("commands", stats.CommandsSent))
	return userAwards, teamAwards, nil
}

// finalizeNight confirms finalization and logs the recorded winner.
func finalizeNight(ctx context.Context, client *httpClient, cfg *Config, stats *Stats) error {
	var result struct {
		WinnerTeamID string `json:"winner_team_id"`
		Total        int    `json:"total"`
		Tie          bool   `json:"tie"`
	}
	stats.CommandsSent++
	if err := client.PostJSON(ctx, cfg.BaseURL+"/commands/finalize",
		map[string]bool{"confirm": true}, &result, http.StatusOK); err != nil {
		stats.CommandsFailed++
		return fmt.Errorf("%w: finalize: %v", ErrScript, err)
	}

	if result.Tie {
		logger.Get().Info(ctx, "week finalized with a tie")
	} else {
		logger.Get().Info(ctx, "week finalized",
			logger.String("winner", result.WinnerTeamID),
			logger.Int("total", result.Total))
	}
	return nil
}

// waitForQuiesce polls the displays until their scene counts stop
// changing, so verification sees the final scene rather than a
// mid-script one.
func waitForQuiesce(ctx context.Context, clients []*DisplayClient) {
	deadline := time.Now().Add(quiesceTimeout)
	lastTotal, stableSince := -1, time.Now()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(quiesceInterval):
		}

		total := 0
		for _, c := range clients {
			_, count := c.Last()
			total += count
		}
		if total != lastTotal {
			lastTotal = total
			stableSince = time.Now()
			continue
		}
		if time.Since(stableSince) >= quiesceSettle {
			return
		}
	}
}

// displayFinalStats prints the final rehearsal statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("teamsSeeded", stats.TeamsSeeded),
		logger.Int("usersSeeded", stats.UsersSeeded),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("commandsSent", stats.CommandsSent),
		logger.Int("commandsFailed", stats.CommandsFailed),
		logger.Int("displaysAttached", stats.DisplaysAttached),
		logger.Int("messagesReceived", stats.MessagesReceived),
		logger.String("duration", stats.Duration.String()))
}
