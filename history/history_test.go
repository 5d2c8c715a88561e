package history

import (
	"encoding/json"
	"testing"

	"github.com/reelcue-cli/reelcue/filesystem"
	"github.com/reelcue-cli/reelcue/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func writeManifest(path string, m *sequence.Manifest) {
	raw, _ := json.Marshal(m)
	_ = filesystem.API().WriteFile(path, raw, 0655)
}

func loadShow(path string) (*sequence.Manifest, *sequence.Sequence) {
	manifest, err := sequence.LoadManifest(path)
	So(err, ShouldBeNil)
	seq, err := manifest.Sequence()
	So(err, ShouldBeNil)
	return manifest, seq
}

func TestHistory(t *testing.T) {
	Convey("Given a show loaded from a manifest", t, func() {
		writeManifest("/shows/gala.json", &sequence.Manifest{
			Name: "gala night",
			Steps: []sequence.ManifestStep{
				{Step: 1, Clip: "opening.mp4"},
				{Step: 2, Clip: "keynote.mp4"},
				{Step: 3, Clip: "finale.mp4"},
			},
		})
		manifest, seq := loadShow("/shows/gala.json")

		Convey("When saving progress at step 2", func() {
			err := Save(manifest, seq, 1)

			Convey("Then the record is retrievable by manifest path", func() {
				So(err, ShouldBeNil)

				shows, err := Get()
				So(err, ShouldBeNil)
				So(len(shows), ShouldBeGreaterThan, 0)

				record := shows["/shows/gala.json"]
				So(record, ShouldNotBeNil)
				So(record.Name, ShouldEqual, "gala night")
				So(record.Step, ShouldEqual, 1)
				So(record.StepsTotal, ShouldEqual, 3)
			})

			Convey("And saving again updates the entry in place", func() {
				So(Save(manifest, seq, 2), ShouldBeNil)

				shows, err := Get()
				So(err, ShouldBeNil)
				So(shows["/shows/gala.json"].Step, ShouldEqual, 2)
			})

			Convey("And Last returns the most recent show", func() {
				writeManifest("/shows/matinee.json", &sequence.Manifest{
					Steps: []sequence.ManifestStep{{Step: 1, Clip: "solo.mp4"}},
				})
				other, otherSeq := loadShow("/shows/matinee.json")

				record, _ := Get()
				record["/shows/gala.json"].UpdatedAt = 1 // force the older timestamp
				So(cacher.Set(record), ShouldBeNil)
				So(Save(other, otherSeq, 0), ShouldBeNil)

				last, err := Last()
				So(err, ShouldBeNil)
				So(last.Path, ShouldEqual, "/shows/matinee.json")
			})

			Convey("And Remove deletes the record", func() {
				shows, _ := Get()
				So(Remove(shows["/shows/gala.json"]), ShouldBeNil)

				shows, err := Get()
				So(err, ShouldBeNil)
				So(shows["/shows/gala.json"], ShouldBeNil)
			})
		})
	})
}
