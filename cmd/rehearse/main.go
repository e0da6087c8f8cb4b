package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/openscore/scorenight/internal/rehearse"
)

// Default configuration constants.
const (
	defaultTeams     = 4
	defaultTeamSize  = 6
	defaultDisplays  = 3
	defaultSeed      = 1
	defaultTimeout   = 10 * time.Second
	rehearsalTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		teams    = flag.Int("teams", defaultTeams, "Number of teams to generate")
		teamSize = flag.Int("team-size", defaultTeamSize, "Participants per team")
		displays = flag.Int("displays", defaultDisplays, "Number of websocket display clients")
		seed     = flag.Int64("seed", defaultSeed, "Random seed for the generated night")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		finalize = flag.Bool("finalize", false, "Close the session at the end of the script")
		logFile  = flag.String("log", "", "Log file for rehearsal output (default: rehearsal_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rehearse.ShowHelp()
		return
	}

	if err := rehearse.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rehearsalTimeout)
	defer cancel()

	config := &rehearse.Config{
		BaseURL:  *baseURL,
		Teams:    *teams,
		TeamSize: *teamSize,
		Displays: *displays,
		Seed:     *seed,
		Timeout:  *timeout,
		Finalize: *finalize,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	if err := rehearse.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Rehearsal failed: " + err.Error() + "\n")
		return
	}
}
