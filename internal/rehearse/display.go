package rehearse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openscore/scorenight/internal/domain/display"
)

// displayCloseWait bounds how long Close waits for the read loop.
const displayCloseWait = 2 * time.Second

// DisplayClient is one simulated audience display: a websocket
// subscriber that records every scene it receives.
type DisplayClient struct {
	ID string

	conn *websocket.Conn
	done chan struct{}

	mu    sync.Mutex
	last  display.Message
	count int
}

// AttachDisplay dials the /live endpoint and starts collecting scenes.
// The first recorded scene is the snapshot the hub sends on connect.
func AttachDisplay(ctx context.Context, baseURL, id string) (*DisplayClient, error) {
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/live"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("display %s failed to connect: %w", id, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c := &DisplayClient{
		ID:   id,
		conn: conn,
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *DisplayClient) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg display.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		c.mu.Lock()
		c.last = msg
		c.count++
		c.mu.Unlock()
	}
}

// Last returns the most recent scene and the number of scenes received.
func (c *DisplayClient) Last() (display.Message, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.count
}

// WaitForScenes blocks until the client has received at least n scenes
// or the context expires.
func (c *DisplayClient) WaitForScenes(ctx context.Context, n int) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, count := c.Last(); count >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			_, count := c.Last()
			return fmt.Errorf("display %s received %d/%d scenes: %w", c.ID, count, n, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close disconnects the display and waits briefly for the read loop.
func (c *DisplayClient) Close() {
	_ = c.conn.Close()
	select {
	case <-c.done:
	case <-time.After(displayCloseWait):
	}
}
