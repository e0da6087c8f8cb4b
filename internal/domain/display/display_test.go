package display_test

import (
	"encoding/json"
	"testing"

	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRevealState(t *testing.T) {
	Convey("Given a fresh reveal state", t, func() {
		r := display.NewRevealState("week-1")

		Convey("When users are shown", func() {
			So(r.AddShown("bo"), ShouldBeTrue)
			So(r.AddShown("ana"), ShouldBeTrue)

			Convey("Then the set is sorted and queries succeed", func() {
				So(r.ShownUserIDs, ShouldResemble, []string{"ana", "bo"})
				So(r.HasShown("ana"), ShouldBeTrue)
				So(r.HasShown("cy"), ShouldBeFalse)
			})

			Convey("And showing an already-shown user reports no change", func() {
				So(r.AddShown("ana"), ShouldBeFalse)
				So(len(r.ShownUserIDs), ShouldEqual, 2)
			})

			Convey("And clearing empties only the shown set", func() {
				r.AddRevealed("red")
				r.ClearShown()
				So(r.ShownUserIDs, ShouldBeEmpty)
				So(r.RevealedBonusTeamIDs, ShouldResemble, []string{"red"})
			})
		})

		Convey("When SetShown is applied twice with the same ids", func() {
			r.SetShown([]string{"cy", "ana", "cy"})
			first := r.Clone()
			r.SetShown([]string{"cy", "ana", "cy"})

			Convey("Then the operation is idempotent and deduplicated", func() {
				So(r, ShouldResemble, first)
				So(r.ShownUserIDs, ShouldResemble, []string{"ana", "cy"})
			})
		})

		Convey("When the state is cloned", func() {
			r.AddShown("ana")
			clone := r.Clone()
			clone.AddShown("bo")

			Convey("Then mutations do not leak back", func() {
				So(r.HasShown("bo"), ShouldBeFalse)
				So(clone.HasShown("bo"), ShouldBeTrue)
			})
		})
	})
}

func TestMessageDecode(t *testing.T) {
	Convey("Given wire messages", t, func() {
		Convey("When a known variant is decoded", func() {
			msg := display.New(display.ModeShowUser)
			msg.User = &display.UserPayload{User: model.User{ID: "ana"}}
			data, err := json.Marshal(msg)
			So(err, ShouldBeNil)

			decoded, err := display.Decode(data)

			Convey("Then the round trip preserves the variant", func() {
				So(err, ShouldBeNil)
				So(decoded.Type, ShouldEqual, display.ModeShowUser)
				So(decoded.User.User.ID, ShouldEqual, "ana")
			})
		})

		Convey("When the payload carries unknown extra fields", func() {
			data := []byte(`{"id":"1","type":"clear","confetti":true}`)
			decoded, err := display.Decode(data)

			Convey("Then they are ignored", func() {
				So(err, ShouldBeNil)
				So(decoded.Type, ShouldEqual, display.ModeClear)
			})
		})

		Convey("When the variant is unknown", func() {
			_, err := display.Decode([]byte(`{"id":"1","type":"hologram"}`))

			Convey("Then it is rejected gracefully", func() {
				So(err, ShouldEqual, display.ErrUnknownMode)
			})
		})

		Convey("When the payload is not JSON", func() {
			_, err := display.Decode([]byte(`{nope`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewMessage(t *testing.T) {
	Convey("Given the message constructor", t, func() {
		a := display.New(display.ModeClear)
		b := display.New(display.ModeClear)

		Convey("Then ids are unique and timestamps set", func() {
			So(a.ID, ShouldNotEqual, b.ID)
			So(a.SentAt.IsZero(), ShouldBeFalse)
			So(a.Known(), ShouldBeTrue)
		})
	})
}
