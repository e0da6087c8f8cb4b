package logger

import (
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an uninitialized logger package", t, func() {
		Convey("When Init is called", func() {
			err := Init()

			Convey("Then it should succeed and Get should return a logger", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
			})

			Convey("And Named should return a distinct child logger", func() {
				child := Named("hub")
				So(child, ShouldNotBeNil)
				So(child, ShouldNotEqual, Get())
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When valid levels are set", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO  "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When an unknown level is set", func() {
			err := SetLevelString("chatty")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			So(levelVar.Level(), ShouldEqual, slog.LevelError)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field helpers", t, func() {
		Convey("They should carry key and value through", func() {
			So(String("a", "b").Key, ShouldEqual, "a")
			So(String("a", "b").Value, ShouldEqual, "b")
			So(Int("n", 3).Value, ShouldEqual, 3)
			So(Bool("ok", true).Value, ShouldEqual, true)
			So(Error(nil).Key, ShouldEqual, "error")
		})
	})
}
