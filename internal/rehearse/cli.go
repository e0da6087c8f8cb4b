package rehearse

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/openscore/scorenight/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "rehearsal_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the rehearsal tool.
func ShowHelp() {
	os.Stdout.WriteString(`Score Night Rehearsal Tool
==========================

Drives a synthetic event night against a running service: seeds a
roster, submits scores, replays the referee command script, attaches
display clients and verifies convergence.

Usage:
  go run cmd/rehearse/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -teams int
        Number of teams to generate (default 4)
  -team-size int
        Participants per team (default 6)
  -displays int
        Number of websocket display clients (default 3)
  -seed int
        Random seed for the generated night (default 1)
  -timeout duration
        HTTP request timeout (default 10s)
  -finalize
        Close the session at the end of the script
  -log string
        Log file for rehearsal output (default: rehearsal_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Rehearse with default settings
  go run cmd/rehearse/main.go

  # A bigger night with more displays
  go run cmd/rehearse/main.go -teams 8 -team-size 10 -displays 6

  # Full dress rehearsal including finalization
  go run cmd/rehearse/main.go -finalize -verbose
`)
}
