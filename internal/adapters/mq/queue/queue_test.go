package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/openscore/scorenight/internal/adapters/mq/queue"
	"github.com/openscore/scorenight/internal/domain/display"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bounded in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		Reset(func() { _ = q.Close() })

		Convey("When messages are enqueued within capacity", func() {
			a := display.New(display.ModeClear)
			b := display.New(display.ModeShowUser)
			So(q.Enqueue(ctx, a), ShouldBeTrue)
			So(q.Enqueue(ctx, b), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then further enqueues are rejected, not blocked", func() {
				So(q.Enqueue(ctx, display.New(display.ModeClear)), ShouldBeFalse)
			})

			Convey("And dequeue yields messages in order", func() {
				ch := q.Dequeue(ctx)
				first := <-ch
				second := <-ch
				So(first.ID, ShouldEqual, a.ID)
				So(second.ID, ShouldEqual, b.ID)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, display.New(display.ModeClear)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)

			Convey("Then enqueue is refused and close is idempotent", func() {
				So(q.Enqueue(ctx, display.New(display.ModeClear)), ShouldBeFalse)
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains then closes", func() {
				ch := q.Dequeue(ctx)
				_, ok := <-ch
				So(ok, ShouldBeTrue)

				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})

		Convey("When the dequeue context is cancelled", func() {
			dequeueCtx, cancel := context.WithCancel(ctx)
			So(q.Enqueue(ctx, display.New(display.ModeClear)), ShouldBeTrue)
			ch := q.Dequeue(dequeueCtx)
			cancel()

			select {
			case <-ch:
			case <-time.After(time.Second):
				t.Fatal("dequeue channel did not release")
			}
		})
	})
}
