package sequence

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given ordered clip references", t, func() {
		clips := []*ClipRef{
			{Locator: "intro.mp4", Title: "Intro"},
			{Locator: "act-one.mp4"},
			{Locator: "finale.mp4"},
		}

		Convey("When every locator is present", func() {
			seq, err := New("Opening Night", clips)
			So(err, ShouldBeNil)
			So(seq.Len(), ShouldEqual, 3)
			So(seq.Name(), ShouldEqual, "Opening Night")

			Convey("Indexes are normalized to position", func() {
				for i := 0; i < seq.Len(); i++ {
					So(seq.At(i).Index, ShouldEqual, i)
				}
			})

			Convey("NextIndex wraps past the last step", func() {
				So(seq.NextIndex(0), ShouldEqual, 1)
				So(seq.NextIndex(2), ShouldEqual, 0)
			})

			Convey("The sequence owns its clips", func() {
				clips[0].Locator = "mutated.mp4"
				So(seq.At(0).Locator, ShouldEqual, "intro.mp4")
			})
		})

		Convey("When a locator is blank it fails with IncompleteSequenceError", func() {
			clips[1].Locator = "  "
			_, err := New("Opening Night", clips)

			var incomplete *IncompleteSequenceError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Missing, ShouldResemble, []int{2})
		})

		Convey("When the list is empty it fails", func() {
			_, err := New("Opening Night", nil)

			var incomplete *IncompleteSequenceError
			So(errors.As(err, &incomplete), ShouldBeTrue)
		})
	})
}

func TestClipRefString(t *testing.T) {
	Convey("ClipRef String", t, func() {
		So((&ClipRef{Index: 0, Title: "Intro"}).String(), ShouldEqual, "Intro")
		So((&ClipRef{Index: 4}).String(), ShouldEqual, "Step 5")
	})
}
