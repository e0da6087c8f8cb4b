package broadcast_test

import (
	"testing"

	"github.com/openscore/scorenight/internal/adapters/broadcast"
	"github.com/openscore/scorenight/internal/domain/display"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHubBroadcast(t *testing.T) {
	Convey("Given a hub with two subscribers", t, func() {
		hub := broadcast.New()
		Reset(hub.Close)

		subA, snapA := hub.Subscribe()
		subB, snapB := hub.Subscribe()

		Convey("Then before any broadcast the snapshot is a clear scene", func() {
			So(snapA.Type, ShouldEqual, display.ModeClear)
			So(snapB.Type, ShouldEqual, display.ModeClear)
			So(snapA.Reveal, ShouldNotBeNil)
			So(hub.SubscriberCount(), ShouldEqual, 2)
		})

		Convey("When a message is broadcast", func() {
			msg := display.New(display.ModeShowUser)
			delivered := hub.Broadcast(msg)

			Convey("Then every subscriber receives it", func() {
				So(delivered, ShouldEqual, 2)
				So((<-subA.C).ID, ShouldEqual, msg.ID)
				So((<-subB.C).ID, ShouldEqual, msg.ID)
			})

			Convey("And a late joiner gets it as its snapshot", func() {
				_, snap := hub.Subscribe()
				So(snap.ID, ShouldEqual, msg.ID)
				So(snap.Type, ShouldEqual, display.ModeShowUser)
			})
		})

		Convey("When messages are broadcast in sequence", func() {
			first := display.New(display.ModeShowUser)
			second := display.New(display.ModeTeamBonus)
			hub.Broadcast(first)
			hub.Broadcast(second)

			Convey("Then each subscriber observes them in order", func() {
				So((<-subA.C).ID, ShouldEqual, first.ID)
				So((<-subA.C).ID, ShouldEqual, second.ID)
			})
		})

		Convey("When a subscriber unsubscribes", func() {
			hub.Unsubscribe(subA.ID)

			Convey("Then its channel closes and broadcasts skip it", func() {
				_, ok := <-subA.C
				So(ok, ShouldBeFalse)
				So(hub.Broadcast(display.New(display.ModeClear)), ShouldEqual, 1)
				So(hub.SubscriberCount(), ShouldEqual, 1)
			})

			Convey("And unsubscribing twice is harmless", func() {
				hub.Unsubscribe(subA.ID)
				So(hub.SubscriberCount(), ShouldEqual, 1)
			})
		})
	})
}

func TestHubSlowSubscriber(t *testing.T) {
	Convey("Given a hub with a one-slot subscriber buffer", t, func() {
		hub := broadcast.New(broadcast.WithSubscriberBuffer(1))
		Reset(hub.Close)

		slow, _ := hub.Subscribe()

		Convey("When more messages arrive than the subscriber drains", func() {
			kept := display.New(display.ModeShowUser)
			dropped := display.New(display.ModeTeamBonus)
			So(hub.Broadcast(kept), ShouldEqual, 1)
			So(hub.Broadcast(dropped), ShouldEqual, 0)

			Convey("Then the overflow is dropped, not queued", func() {
				So((<-slow.C).ID, ShouldEqual, kept.ID)
				select {
				case m := <-slow.C:
					t.Fatalf("unexpected message %s", m.ID)
				default:
				}
			})

			Convey("And the snapshot still reflects the newest scene", func() {
				So(hub.Snapshot().ID, ShouldEqual, dropped.ID)
			})
		})
	})
}

func TestHubReveal(t *testing.T) {
	Convey("Given a hub with reveal progress", t, func() {
		hub := broadcast.New()
		Reset(hub.Close)

		state := display.NewRevealState("week-1")
		state.AddShown("ana")
		state.AddRevealed("red")
		hub.SetReveal(state)

		Convey("Then snapshots carry the reveal sets", func() {
			snap := hub.Snapshot()
			So(snap.Reveal, ShouldNotBeNil)
			So(snap.Reveal.HasShown("ana"), ShouldBeTrue)
			So(snap.Reveal.HasRevealed("red"), ShouldBeTrue)
		})

		Convey("When a message without reveal data is broadcast", func() {
			sub, _ := hub.Subscribe()
			hub.Broadcast(display.New(display.ModeClear))

			Convey("Then the hub stamps the current reveal state onto it", func() {
				got := <-sub.C
				So(got.Reveal, ShouldNotBeNil)
				So(got.Reveal.HasShown("ana"), ShouldBeTrue)
			})
		})

		Convey("When a broadcast carries newer reveal data", func() {
			newer := display.NewRevealState("week-1")
			newer.AddShown("bo")
			msg := display.New(display.ModeShowUser)
			msg.Reveal = &newer
			hub.Broadcast(msg)

			Convey("Then the hub adopts it for future snapshots", func() {
				snap := hub.Snapshot()
				So(snap.Reveal.HasShown("bo"), ShouldBeTrue)
				So(snap.Reveal.HasShown("ana"), ShouldBeFalse)
			})
		})

		Convey("When SetReveal runs after a broadcast", func() {
			hub.Broadcast(display.New(display.ModeShowUser))
			later := display.NewRevealState("week-1")
			later.AddShown("cy")
			hub.SetReveal(later)

			Convey("Then the retained scene is refreshed too", func() {
				snap := hub.Snapshot()
				So(snap.Type, ShouldEqual, display.ModeShowUser)
				So(snap.Reveal.HasShown("cy"), ShouldBeTrue)
			})
		})
	})
}
