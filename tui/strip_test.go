package tui

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playback"
	"github.com/tunedeck/tunedeck/playlist"
)

func TestLayoutStrip(t *testing.T) {
	Convey("Given a full strip 80 cells wide", t, func() {
		state := playback.Initial(1)
		st := layoutStrip(2, 20, 80, control.Full, state, playlist.Sequential)

		Convey("Then every full control should be laid out in order", func() {
			So(st.segments, ShouldHaveLength, len(control.Full.Controls()))
			for i, c := range control.Full.Controls() {
				So(st.segments[i].control, ShouldEqual, c)
			}
		})

		Convey("Then the strip should span the whole width", func() {
			last := st.segments[len(st.segments)-1]
			So(st.segments[0].x, ShouldEqual, 2)
			So(last.x+last.w, ShouldEqual, 82)
		})

		Convey("Then the seek bar should take the remaining cells", func() {
			seg, ok := st.find(control.SeekBar)
			So(ok, ShouldBeTrue)
			So(seg.w, ShouldBeGreaterThan, minSeekBarWidth)
		})

		Convey("When hit-testing", func() {
			seg, _ := st.find(control.SeekBar)

			Convey("Then a cell on the bar should resolve to it", func() {
				got, ok := st.at(seg.x+1, 20)
				So(ok, ShouldBeTrue)
				So(got.control, ShouldEqual, control.SeekBar)
			})

			Convey("Then another row should miss", func() {
				_, ok := st.at(seg.x+1, 19)
				So(ok, ShouldBeFalse)
			})

			Convey("Then a separator should miss", func() {
				_, ok := st.at(seg.x-1, 20)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Then a full strip should have no popover anchor", func() {
			_, ok := st.anchor()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a compact strip", t, func() {
		st := layoutStrip(0, 10, 40, control.Compact, playback.Initial(1), playlist.Sequential)

		Convey("Then prev, next and mode should be absent", func() {
			for _, c := range []control.Control{control.PrevButton, control.NextButton, control.ModeButton} {
				_, ok := st.find(c)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Then the volume button should anchor the popover at the right edge", func() {
			anchor, ok := st.anchor()
			So(ok, ShouldBeTrue)
			So(anchor.Right(), ShouldEqual, 40*cellWidthPx)
			So(anchor.Top, ShouldEqual, 10*cellHeightPx)
			So(anchor.Height, ShouldEqual, cellHeightPx)
		})
	})

	Convey("Given a strip narrower than its fixed controls", t, func() {
		st := layoutStrip(0, 0, 10, control.Full, playback.Initial(1), playlist.Sequential)

		Convey("Then the seek bar should keep its minimum width", func() {
			seg, _ := st.find(control.SeekBar)
			So(seg.w, ShouldEqual, minSeekBarWidth)
		})
	})
}

func TestSegment(t *testing.T) {
	Convey("Given an 11 cell segment at column 5", t, func() {
		seg := segment{x: 5, w: 11}

		Convey("Then its ends should map to 0 and 1", func() {
			So(seg.fraction(5), ShouldEqual, 0)
			So(seg.fraction(15), ShouldEqual, 1)
			So(seg.fraction(10), ShouldAlmostEqual, 0.5)
		})

		Convey("Then points outside should clamp", func() {
			So(seg.fraction(0), ShouldEqual, 0)
			So(seg.fraction(99), ShouldEqual, 1)
		})
	})

	Convey("Given a one cell segment", t, func() {
		Convey("Then the fraction should be 0", func() {
			So(segment{x: 3, w: 1}.fraction(3), ShouldEqual, 0)
		})
	})
}

func TestCellGeometry(t *testing.T) {
	Convey("Given a cell box", t, func() {
		r := cellRect(3, 4, 5, 2)

		Convey("Then it should convert to placement units", func() {
			So(r, ShouldResemble, placement.Rect{Left: 24, Top: 64, Width: 40, Height: 32})
		})

		Convey("Then it should convert back to the same cells", func() {
			x, y, w, h := cellBox(r)
			So([]int{x, y, w, h}, ShouldResemble, []int{3, 4, 5, 2})
		})

		Convey("Then a cell center should lie inside it", func() {
			px, py := cellCenter(3, 4)
			So(r.Contains(px, py), ShouldBeTrue)
		})
	})
}

func TestBar(t *testing.T) {
	Convey("Given a gauge", t, func() {
		Convey("Then a zero width should render nothing", func() {
			So(bar(0, 50, 50, false), ShouldBeEmpty)
		})

		Convey("Then the rendered width should match", func() {
			So(lipgloss.Width(bar(20, 30, 60, false)), ShouldEqual, 20)
			So(lipgloss.Width(bar(20, 130, math.NaN(), true)), ShouldEqual, 20)
		})
	})
}

func TestComputeLayout(t *testing.T) {
	Convey("Given a wide terminal", t, func() {
		l := computeLayout(120, 40)

		Convey("Then both panes should have the same height", func() {
			So(l.wide, ShouldBeTrue)
			So(l.listH, ShouldEqual, l.infoH)
			So(l.listH, ShouldEqual, l.bodyH)
		})

		Convey("Then the strip and help rows should follow the body", func() {
			So(l.stripY, ShouldEqual, l.bodyY+l.bodyH)
			So(l.helpY, ShouldEqual, 40-2)
		})
	})

	Convey("Given a narrow terminal", t, func() {
		l := computeLayout(80, 30)

		Convey("Then the player pane should sit above the list", func() {
			So(l.wide, ShouldBeFalse)
			So(l.infoH, ShouldEqual, narrowInfoRows)
			So(l.listH, ShouldEqual, l.bodyH-narrowInfoRows)
			So(l.listW, ShouldEqual, l.innerW)
		})
	})

	Convey("Given a tiny terminal", t, func() {
		l := computeLayout(10, 3)

		Convey("Then sizes should stay non-negative", func() {
			So(l.bodyH, ShouldBeGreaterThanOrEqualTo, 1)
			So(l.listH, ShouldBeGreaterThanOrEqualTo, 0)
			So(l.innerW, ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}
