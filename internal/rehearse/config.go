// Package rehearse drives a full synthetic event night against a running
// service: it seeds a roster, submits scores, replays the referee's
// command script, attaches websocket display clients and verifies that
// every display converges on the authoritative scene and that standings
// balance.
package rehearse

import (
	"time"
)

// Config holds configuration for a rehearsal run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Teams    int           // Number of teams to generate
	TeamSize int           // Participants per team
	Displays int           // Number of websocket display clients
	Seed     int64         // Random seed for the generated night
	Timeout  time.Duration // HTTP request timeout
	Finalize bool          // Close the session at the end of the script
	LogFile  string        // Log file for rehearsal output
	Verbose  bool          // Enable verbose logging
}

// Stats holds rehearsal statistics.
type Stats struct {
	TeamsSeeded      int
	UsersSeeded      int
	ScoresSubmitted  int
	ScoresFailed     int
	CommandsSent     int
	CommandsFailed   int
	DisplaysAttached int
	MessagesReceived int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
