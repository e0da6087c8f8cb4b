package model_test

import (
	"testing"
	"time"

	"github.com/openscore/scorenight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsNormalize(t *testing.T) {
	Convey("Given submitted metrics", t, func() {
		Convey("When values are negative", func() {
			m := model.Metrics{
				model.CategoryReferrals: -3,
				model.CategoryVisitors:  2,
			}
			n := m.Normalize()

			Convey("Then negatives are clamped to 0", func() {
				So(n[model.CategoryReferrals], ShouldEqual, 0)
				So(n[model.CategoryVisitors], ShouldEqual, 2)
			})
		})

		Convey("When attendance exceeds 1", func() {
			n := model.Metrics{model.CategoryAttendance: 5}.Normalize()

			Convey("Then attendance is capped at 1", func() {
				So(n[model.CategoryAttendance], ShouldEqual, 1)
			})
		})

		Convey("When unknown categories are present", func() {
			n := model.Metrics{"handshakes": 9}.Normalize()

			Convey("Then they are dropped", func() {
				So(n, ShouldNotContainKey, "handshakes")
			})
		})

		Convey("Then every known category is present after normalization", func() {
			n := model.Metrics{}.Normalize()
			for _, cat := range model.Categories() {
				So(n, ShouldContainKey, cat)
			}
		})
	})
}

func TestScoreRecompute(t *testing.T) {
	Convey("Given a score with metrics and custom bonuses", t, func() {
		points := model.PointValues{
			model.CategoryAttendance: 10,
			model.CategoryReferrals:  10,
			model.CategoryVisitors:   15,
		}
		s := model.Score{
			UserID: "u1",
			TeamID: "t1",
			Metrics: model.Metrics{
				model.CategoryAttendance: 1,
				model.CategoryReferrals:  2,
				model.CategoryVisitors:   1,
			},
			CustomBonuses: []model.AwardedCustomBonus{
				{BonusID: "spirit", Points: 20},
			},
		}

		Convey("When the total is recomputed", func() {
			s.Recompute(points)

			Convey("Then it equals the metric sum plus bonus points", func() {
				So(s.TotalPoints, ShouldEqual, 10+20+15+20)
			})

			Convey("And recomputing again yields the same total", func() {
				s.Recompute(points)
				So(s.TotalPoints, ShouldEqual, 65)
			})
		})

		Convey("When metrics contain negatives", func() {
			s.Metrics[model.CategoryReferrals] = -4
			s.Recompute(points)

			Convey("Then the negative category contributes nothing", func() {
				So(s.TotalPoints, ShouldEqual, 10+0+15+20)
			})
		})
	})
}

func TestScoreAward(t *testing.T) {
	Convey("Given a score with one awarded bonus", t, func() {
		points := model.DefaultPointValues()
		s := model.Score{UserID: "u1", Metrics: model.Metrics{model.CategoryAttendance: 1}}
		s.Recompute(points)
		before := s.TotalPoints

		award := model.AwardedCustomBonus{
			BonusID:   "x",
			Points:    25,
			AwardedBy: "referee",
			AwardedAt: time.Now().UTC(),
		}
		So(s.Award(award), ShouldBeNil)
		s.Recompute(points)

		Convey("When the same bonus id is awarded again", func() {
			err := s.Award(award)

			Convey("Then the second award is rejected", func() {
				So(err, ShouldEqual, model.ErrDuplicateAward)
			})

			Convey("And the total is unchanged by the rejected award", func() {
				s.Recompute(points)
				So(s.TotalPoints, ShouldEqual, before+25)
				So(len(s.CustomBonuses), ShouldEqual, 1)
			})
		})

		Convey("When a different bonus id is awarded", func() {
			err := s.Award(model.AwardedCustomBonus{BonusID: "y", Points: 10})

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
				So(len(s.CustomBonuses), ShouldEqual, 2)
			})
		})
	})
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a draft session", t, func() {
		s := model.Session{ID: "week-1", Status: model.StatusDraft}

		Convey("When opened", func() {
			So(s.Open(), ShouldBeNil)
			So(s.Status, ShouldEqual, model.StatusOpen)

			Convey("And closed", func() {
				So(s.Close(), ShouldBeNil)
				So(s.Status, ShouldEqual, model.StatusClosed)

				Convey("Then closing again is rejected", func() {
					So(s.Close(), ShouldEqual, model.ErrSessionClosed)
				})

				Convey("And reopening clears the winner and reopens", func() {
					s.WinnerTeamID = "t1"
					So(s.Reopen(), ShouldBeNil)
					So(s.Status, ShouldEqual, model.StatusOpen)
					So(s.WinnerTeamID, ShouldBeEmpty)
				})
			})
		})

		Convey("When reopening a session that is not closed", func() {
			So(s.Reopen(), ShouldEqual, model.ErrSessionNotClosed)
		})

		Convey("When excluding a user twice", func() {
			s.ExcludeUser("u1")
			s.ExcludeUser("u1")

			Convey("Then the exclusion list holds one entry", func() {
				So(s.ExcludedUserIDs, ShouldResemble, []string{"u1"})
				So(s.IsExcluded("u1"), ShouldBeTrue)
			})

			Convey("And including removes it", func() {
				s.IncludeUser("u1")
				So(s.IsExcluded("u1"), ShouldBeFalse)
			})
		})
	})
}
