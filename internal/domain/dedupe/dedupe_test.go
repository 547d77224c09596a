package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cylin-ms/scenara-sub003/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithCapacityHint(16))
		ctx := context.Background()

		Convey("Then it should start empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a record id is new", func() {
			seen := d.SeenAndRecord(ctx, "evt-1")

			Convey("Then it should return false and record the id", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a record id repeats", func() {
			d.SeenAndRecord(ctx, "evt-1")
			seen := d.SeenAndRecord(ctx, "evt-1")

			Convey("Then it should return true without growing", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When records carry no id", func() {
			first := d.SeenAndRecord(ctx, "")
			second := d.SeenAndRecord(ctx, "")

			Convey("Then they should never count as duplicates", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When many goroutines record overlapping ids", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id should be new exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
