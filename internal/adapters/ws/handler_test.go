package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openscore/scorenight/internal/adapters/broadcast"
	"github.com/openscore/scorenight/internal/adapters/ws"
	"github.com/openscore/scorenight/internal/domain/display"
	. "github.com/smartystreets/goconvey/convey"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) display.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m display.Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func waitForSubscribers(hub *broadcast.Hub, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount() == n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestWebsocketHandler(t *testing.T) {
	Convey("Given a websocket endpoint over a hub", t, func() {
		hub := broadcast.New()
		server := httptest.NewServer(ws.NewHandler(hub))
		Reset(func() {
			server.Close()
			hub.Close()
		})

		Convey("When a display connects", func() {
			conn := dial(t, server)
			Reset(func() { _ = conn.Close() })

			Convey("Then it immediately receives a snapshot", func() {
				snap := readMessage(t, conn)
				So(snap.Type, ShouldEqual, display.ModeClear)
				So(snap.Reveal, ShouldNotBeNil)
			})

			Convey("And subsequent broadcasts arrive in order", func() {
				readMessage(t, conn) // snapshot

				first := display.New(display.ModeShowUser)
				second := display.New(display.ModeTeamBonus)
				So(waitForSubscribers(hub, 1, time.Second), ShouldBeTrue)
				hub.Broadcast(first)
				hub.Broadcast(second)

				So(readMessage(t, conn).ID, ShouldEqual, first.ID)
				So(readMessage(t, conn).ID, ShouldEqual, second.ID)
			})
		})

		Convey("When a display reconnects after a scene change", func() {
			first := dial(t, server)
			readMessage(t, first) // snapshot
			So(waitForSubscribers(hub, 1, time.Second), ShouldBeTrue)

			scene := display.New(display.ModeShowUser)
			reveal := display.NewRevealState("week-1")
			reveal.AddShown("ana")
			scene.Reveal = &reveal
			hub.Broadcast(scene)
			readMessage(t, first)
			_ = first.Close()

			second := dial(t, server)
			Reset(func() { _ = second.Close() })

			Convey("Then the fresh connection resumes from the current scene", func() {
				snap := readMessage(t, second)
				So(snap.ID, ShouldEqual, scene.ID)
				So(snap.Reveal.HasShown("ana"), ShouldBeTrue)
			})
		})

		Convey("When a display disconnects", func() {
			conn := dial(t, server)
			readMessage(t, conn)
			So(waitForSubscribers(hub, 1, time.Second), ShouldBeTrue)

			_ = conn.Close()

			Convey("Then the hub drops the subscription", func() {
				So(waitForSubscribers(hub, 0, 2*time.Second), ShouldBeTrue)
			})
		})
	})
}
