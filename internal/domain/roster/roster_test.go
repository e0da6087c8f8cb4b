package roster_test

import (
	"testing"

	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given scores and a current roster", t, func() {
		scores := []model.Score{
			{UserID: "ana", TeamID: "red"},
			{UserID: "bo", TeamID: "red"},
			{UserID: "cy", TeamID: "blue"},
		}
		users := []model.User{
			{ID: "ana", TeamID: "blue", Role: model.RoleMember, IsActive: true},   // moved teams mid-season
			{ID: "bo", TeamID: "red", Role: model.RoleTeamLeader, IsActive: true}, // still on red
			{ID: "dee", TeamID: "red", Role: model.RoleMember, IsActive: true},    // hasn't scored yet
			{ID: "eli", TeamID: "red", Role: model.RoleGuest, IsActive: true},     // guests don't count
			{ID: "fay", TeamID: "red", Role: model.RoleMember, IsActive: false},   // inactive
		}

		Convey("When resolving the red team", func() {
			members := roster.Resolve("red", scores, users)

			Convey("Then it unions historical and current members", func() {
				So(members, ShouldResemble, []string{"ana", "bo", "dee"})
			})

			Convey("And it omits guests and inactive users", func() {
				So(members, ShouldNotContain, "eli")
				So(members, ShouldNotContain, "fay")
			})
		})

		Convey("When resolving the blue team", func() {
			members := roster.Resolve("blue", scores, users)

			Convey("Then a mid-season mover counts for both teams", func() {
				So(members, ShouldResemble, []string{"ana", "cy"})
			})
		})

		Convey("When resolving a team with no members anywhere", func() {
			So(roster.Resolve("green", scores, users), ShouldBeEmpty)
		})
	})
}

func TestWithout(t *testing.T) {
	Convey("Given a resolved member list", t, func() {
		members := []string{"ana", "bo", "dee"}

		Convey("When exclusions are applied", func() {
			So(roster.Without(members, []string{"bo"}), ShouldResemble, []string{"ana", "dee"})
		})

		Convey("When no exclusions apply", func() {
			So(roster.Without(members, nil), ShouldResemble, members)
		})

		Convey("When an excluded id is not a member", func() {
			So(roster.Without(members, []string{"zz"}), ShouldResemble, members)
		})
	})
}
