package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "step", "steps"), ShouldEqual, "1 step")
		So(Quantify(0, "step", "steps"), ShouldEqual, "0 steps")
		So(Quantify(7, "step", "steps"), ShouldEqual, "7 steps")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/shows/opening-night.json"), ShouldEqual, "opening-night")
		So(FileStem("finale.show.json"), ShouldEqual, "finale.show")
		So(FileStem("bare"), ShouldEqual, "bare")
	})
}
