package api

import (
	"net/http"
)

// consoleHandler handles referee console page requests
type consoleHandler struct{}

// newConsoleHandler creates a new console handler
func newConsoleHandler() *consoleHandler {
	return &consoleHandler{}
}

// HandleConsole handles GET /console requests.
// Returns the operator page that drives the command endpoints.
func (h *consoleHandler) HandleConsole(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, consoleFS, "console.html")
}
