package sequence

import (
	"errors"
	"testing"

	"github.com/reelcue-cli/reelcue/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func writeManifest(path, contents string) {
	_ = filesystem.API().WriteFile(path, []byte(contents), 0644)
}

func TestLoadManifest(t *testing.T) {
	Convey("Given a show manifest on disk", t, func() {
		writeManifest("/shows/gala.json", `{
			"name": "Gala",
			"steps": [
				{"step": 2, "clip": "act-one.mp4"},
				{"step": 1, "clip": "intro.mp4", "title": "Intro"},
				{"step": 3, "clip": "/media/finale.mp4"}
			]
		}`)

		m, err := LoadManifest("/shows/gala.json")
		So(err, ShouldBeNil)
		So(m.Name, ShouldEqual, "Gala")
		So(m.Path(), ShouldEqual, "/shows/gala.json")

		Convey("Sequence orders steps and resolves relative clips", func() {
			seq, err := m.Sequence()
			So(err, ShouldBeNil)
			So(seq.Len(), ShouldEqual, 3)
			So(seq.At(0).Title, ShouldEqual, "Intro")
			So(seq.At(0).Locator, ShouldEqual, "/shows/intro.mp4")
			So(seq.At(1).Locator, ShouldEqual, "/shows/act-one.mp4")

			Convey("Absolute locators are untouched", func() {
				So(seq.At(2).Locator, ShouldEqual, "/media/finale.mp4")
			})
		})

		Convey("A missing name falls back to the file stem", func() {
			writeManifest("/shows/unnamed.json", `{"steps":[{"step":1,"clip":"a.mp4"}]}`)
			m, err := LoadManifest("/shows/unnamed.json")
			So(err, ShouldBeNil)
			So(m.Name, ShouldEqual, "unnamed")
		})
	})

	Convey("Given a manifest with an unassigned step", t, func() {
		// Step 3 of 4 has no clip bound.
		writeManifest("/shows/broken.json", `{
			"name": "Broken",
			"steps": [
				{"step": 1, "clip": "a.mp4"},
				{"step": 2, "clip": "b.mp4"},
				{"step": 4, "clip": "d.mp4"}
			]
		}`)

		m, err := LoadManifest("/shows/broken.json")
		So(err, ShouldBeNil)

		Convey("Sequence fails with IncompleteSequenceError naming the step", func() {
			_, err := m.Sequence()

			var incomplete *IncompleteSequenceError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Missing, ShouldResemble, []int{3})
		})
	})

	Convey("Given a manifest with no steps", t, func() {
		writeManifest("/shows/empty.json", `{"name": "Empty", "steps": []}`)

		m, err := LoadManifest("/shows/empty.json")
		So(err, ShouldBeNil)

		_, err = m.Sequence()
		var incomplete *IncompleteSequenceError
		So(errors.As(err, &incomplete), ShouldBeTrue)
	})

	Convey("Given an unreadable path", t, func() {
		_, err := LoadManifest("/shows/nope.json")
		So(err, ShouldNotBeNil)
	})
}
