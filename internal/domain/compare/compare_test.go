package compare_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/compare"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShallowEqual(t *testing.T) {
	Convey("Given shallow equality", t, func() {
		Convey("When comparing a value with itself", func() {
			shared := map[string]any{"x": 1}

			Convey("Then identity should hold for every shape", func() {
				So(compare.ShallowEqual(nil, nil), ShouldBeTrue)
				So(compare.ShallowEqual(42, 42), ShouldBeTrue)
				So(compare.ShallowEqual("s", "s"), ShouldBeTrue)
				So(compare.ShallowEqual(shared, shared), ShouldBeTrue)
			})
		})

		Convey("When comparing containers entry-wise", func() {
			nested := map[string]any{"deep": true}

			Convey("Then identical key sets with identical values should be equal", func() {
				a := map[string]any{"n": 1, "ref": nested}
				b := map[string]any{"n": 1, "ref": nested}
				So(compare.ShallowEqual(a, b), ShouldBeTrue)
			})

			Convey("And a different nested reference should break equality", func() {
				a := map[string]any{"ref": nested}
				b := map[string]any{"ref": map[string]any{"deep": true}}
				So(compare.ShallowEqual(a, b), ShouldBeFalse)
			})

			Convey("And differing key sets should be unequal", func() {
				So(compare.ShallowEqual(map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}), ShouldBeFalse)
				So(compare.ShallowEqual(map[string]any{"a": 1}, map[string]any{"b": 1}), ShouldBeFalse)
			})

			Convey("And slices should compare element-wise by identity", func() {
				So(compare.ShallowEqual([]any{1, "x"}, []any{1, "x"}), ShouldBeTrue)
				So(compare.ShallowEqual([]any{1}, []any{2}), ShouldBeFalse)
				So(compare.ShallowEqual([]any{1}, []any{1, 2}), ShouldBeFalse)
			})
		})

		Convey("When shapes mismatch", func() {
			Convey("Then container vs non-container should be false", func() {
				So(compare.ShallowEqual(map[string]any{}, 1), ShouldBeFalse)
				So(compare.ShallowEqual([]any{}, map[string]any{}), ShouldBeFalse)
				So(compare.ShallowEqual(nil, map[string]any{}), ShouldBeFalse)
			})
		})
	})
}

func TestDeepEqual(t *testing.T) {
	Convey("Given deep equality", t, func() {
		Convey("When comparing primitives", func() {
			So(compare.DeepEqual(1, 1), ShouldBeTrue)
			So(compare.DeepEqual(1, 2), ShouldBeFalse)
			So(compare.DeepEqual("a", "a"), ShouldBeTrue)
			So(compare.DeepEqual(nil, nil), ShouldBeTrue)
			So(compare.DeepEqual(nil, 1), ShouldBeFalse)
		})

		Convey("When comparing nested structures", func() {
			a := map[string]any{"list": []any{1, map[string]any{"k": "v"}}}
			b := map[string]any{"list": []any{1, map[string]any{"k": "v"}}}
			c := map[string]any{"list": []any{1, map[string]any{"k": "other"}}}

			So(compare.DeepEqual(a, b), ShouldBeTrue)
			So(compare.DeepEqual(a, c), ShouldBeFalse)
		})

		Convey("When comparing special values", func() {
			instant := time.Unix(1700000000, 0)

			Convey("Then timestamps compare by instant", func() {
				So(compare.DeepEqual(instant, instant.In(time.FixedZone("X", 3600))), ShouldBeTrue)
				So(compare.DeepEqual(instant, instant.Add(time.Nanosecond)), ShouldBeFalse)
			})

			Convey("And patterns compare by text", func() {
				So(compare.DeepEqual(regexp.MustCompile(`a+`), regexp.MustCompile(`a+`)), ShouldBeTrue)
				So(compare.DeepEqual(regexp.MustCompile(`a+`), regexp.MustCompile(`(?i)a+`)), ShouldBeFalse)
			})

			Convey("And functions compare only by identity", func() {
				f := func() {}
				g := func() {}
				So(compare.DeepEqual(f, f), ShouldBeTrue)
				So(compare.DeepEqual(f, g), ShouldBeFalse)
			})
		})

		Convey("When the inputs are symmetric", func() {
			a := map[string]any{"x": []any{1, 2}}
			b := map[string]any{"x": []any{1, 2}}
			So(compare.DeepEqual(a, b), ShouldEqual, compare.DeepEqual(b, a))
		})

		Convey("When structures are self-referential", func() {
			a := map[string]any{}
			a["self"] = a
			b := map[string]any{}
			b["self"] = b

			Convey("Then comparison must terminate without panicking", func() {
				So(func() { compare.DeepEqual(a, b) }, ShouldNotPanic)
				So(func() { compare.DeepEqual(a, a) }, ShouldNotPanic)
			})
		})
	})
}

func TestComputeDiff(t *testing.T) {
	Convey("Given structural diffs", t, func() {
		Convey("When diffing a snapshot against itself", func() {
			x := map[string]any{"a": 1, "ref": map[string]any{"k": 1}}
			d := compare.ComputeDiff(x, x)

			Convey("Then the diff should be empty", func() {
				So(d.Empty(), ShouldBeTrue)
				So(d.Added, ShouldBeEmpty)
				So(d.Removed, ShouldBeEmpty)
				So(d.Changed, ShouldBeEmpty)
			})
		})

		Convey("When keys appear and disappear", func() {
			before := map[string]any{"gone": 1, "kept": "same"}
			after := map[string]any{"new": 2, "kept": "same"}
			d := compare.ComputeDiff(before, after)

			Convey("Then added and removed should be populated", func() {
				So(d.Added, ShouldContainKey, "new")
				So(d.Removed, ShouldContainKey, "gone")
				So(d.Changed, ShouldBeEmpty)
			})
		})

		Convey("When a value reference changes", func() {
			from := map[string]any{"k": 1}
			to := map[string]any{"k": 1}
			d := compare.ComputeDiff(map[string]any{"obj": from}, map[string]any{"obj": to})

			Convey("Then the change should distinguish content drift from re-allocation", func() {
				change, ok := d.Changed["obj"]
				So(ok, ShouldBeTrue)
				So(change.SameReference, ShouldBeFalse)
				So(change.DeepEqual, ShouldBeTrue)
			})
		})

		Convey("When a value genuinely drifts", func() {
			d := compare.ComputeDiff(map[string]any{"n": 1}, map[string]any{"n": 2})

			change, ok := d.Changed["n"]
			So(ok, ShouldBeTrue)
			So(change.DeepEqual, ShouldBeFalse)
			So(change.From, ShouldEqual, 1)
			So(change.To, ShouldEqual, 2)
		})

		Convey("When values are reference-identical", func() {
			shared := map[string]any{"k": 1}
			d := compare.ComputeDiff(map[string]any{"obj": shared}, map[string]any{"obj": shared})

			Convey("Then the key should be omitted entirely", func() {
				So(d.Changed, ShouldNotContainKey, "obj")
				So(d.Empty(), ShouldBeTrue)
			})
		})
	})
}

func TestSameContentDifferentRef(t *testing.T) {
	Convey("Given reference/content discrimination", t, func() {
		Convey("Then distinct references with equal content should match", func() {
			So(compare.SameContentDifferentRef(map[string]any{"a": 1}, map[string]any{"a": 1}), ShouldBeTrue)
			So(compare.SameContentDifferentRef([]any{1, 2}, []any{1, 2}), ShouldBeTrue)
		})

		Convey("Then the same reference should not match", func() {
			shared := map[string]any{"a": 1}
			So(compare.SameContentDifferentRef(shared, shared), ShouldBeFalse)
		})

		Convey("Then primitives, nils and mismatched types should not match", func() {
			So(compare.SameContentDifferentRef(1, 1), ShouldBeFalse)
			So(compare.SameContentDifferentRef(nil, map[string]any{}), ShouldBeFalse)
			So(compare.SameContentDifferentRef(map[string]any{"a": 1}, []any{1}), ShouldBeFalse)
			So(compare.SameContentDifferentRef(map[string]any{"a": 1}, map[string]any{"a": 2}), ShouldBeFalse)
		})
	})
}
