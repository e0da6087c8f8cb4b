package awards_test

import (
	"context"
	"sync"
	"testing"

	"github.com/openscore/scorenight/internal/domain/awards"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGuard(t *testing.T) {
	Convey("Given a fresh award guard", t, func() {
		ctx := context.Background()
		g := awards.NewInMemoryGuard(awards.WithInitialCapacity(16))

		Convey("When a pair is recorded for the first time", func() {
			seen := g.SeenAndRecord(ctx, "score-1", "bonus-x")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And recording the same pair again reports a duplicate", func() {
				So(g.SeenAndRecord(ctx, "score-1", "bonus-x"), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And the same bonus on a different score is new", func() {
				So(g.SeenAndRecord(ctx, "score-2", "bonus-x"), ShouldBeFalse)
				So(g.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a pair is unrecorded", func() {
			g.SeenAndRecord(ctx, "score-1", "bonus-x")
			g.Unrecord(ctx, "score-1", "bonus-x")

			Convey("Then it can be recorded again", func() {
				So(g.SeenAndRecord(ctx, "score-1", "bonus-x"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown pair", func() {
			g.Unrecord(ctx, "nope", "nothing")

			Convey("Then the size is untouched", func() {
				So(g.Size(), ShouldEqual, 0)
			})
		})

		Convey("When many goroutines record the same pair", func() {
			var wg sync.WaitGroup
			var dupes atomic32
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if g.SeenAndRecord(ctx, "score-9", "bonus-z") {
						dupes.inc()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one recording wins", func() {
				So(dupes.load(), ShouldEqual, 49)
				So(g.Size(), ShouldEqual, 1)
			})
		})
	})
}

type atomic32 struct {
	mu sync.Mutex
	n  int
}

func (a *atomic32) inc() {
	a.mu.Lock()
	a.n++
	a.mu.Unlock()
}

func (a *atomic32) load() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}
