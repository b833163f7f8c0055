package color

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPalette(t *testing.T) {
	Convey("Given the CLI palette", t, func() {
		Convey("Then ANSI colors should follow the terminal codes", func() {
			So(string(Red), ShouldEqual, "1")
			So(string(Cyan), ShouldEqual, "6")
			So(string(HiPurple), ShouldEqual, "13")
		})

		Convey("Then titles should stay readable on their background", func() {
			So(TitleFg, ShouldNotEqual, TitleBg)
			So(string(Accent), ShouldStartWith, "#")
		})
	})
}
