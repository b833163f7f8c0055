package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/icon"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playback"
	"github.com/tunedeck/tunedeck/playlist"
	"github.com/tunedeck/tunedeck/style"
	"github.com/tunedeck/tunedeck/timefmt"
)

// A terminal cell measured in the pixel units placement works with.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

const (
	inlineVolumeWidth = 12
	minSeekBarWidth   = 4
)

// segment is the horizontal span of one control on the strip row.
type segment struct {
	control control.Control
	x, w    int
}

func (s segment) contains(x int) bool {
	return x >= s.x && x < s.x+s.w
}

// fraction maps column x within the segment to [0, 1].
func (s segment) fraction(x int) float64 {
	if s.w <= 1 {
		return 0
	}
	return math.Max(0, math.Min(1, float64(x-s.x)/float64(s.w-1)))
}

// strip is the laid out control row.
type strip struct {
	x, y, width int
	segments    []segment
}

func modeIcon(m playlist.Mode) string {
	switch m {
	case playlist.SingleRepeat:
		return icon.Get(icon.SingleRepeat)
	case playlist.Shuffle:
		return icon.Get(icon.Shuffle)
	default:
		return icon.Get(icon.Sequential)
	}
}

func volumeIcon(s playback.State) string {
	if s.Muted || s.Volume == 0 {
		return icon.Get(icon.Muted)
	}
	return icon.Get(icon.Volume)
}

func playIcon(s playback.State) string {
	if s.Playing {
		return icon.Get(icon.Pause)
	}
	return icon.Get(icon.Play)
}

// controlLabel renders the fixed-width controls; bars return "".
func controlLabel(c control.Control, s playback.State, mode playlist.Mode) string {
	switch c {
	case control.PlayPause:
		return playIcon(s)
	case control.PrevButton:
		return icon.Get(icon.Prev)
	case control.NextButton:
		return icon.Get(icon.Next)
	case control.ModeButton:
		return modeIcon(mode)
	case control.CurrentTime:
		return timefmt.Format(s.DisplayTime())
	case control.TotalTime:
		return timefmt.Format(s.Duration)
	case control.VolumePopover:
		return volumeIcon(s)
	default:
		return ""
	}
}

// layoutStrip places the controls of p on row y starting at column x.
// The seek bar takes whatever the fixed controls leave.
func layoutStrip(x, y, width int, p control.Presentation, s playback.State, mode playlist.Mode) strip {
	controls := p.Controls()

	widths := make(map[control.Control]int, len(controls))
	fixed := 0
	for _, c := range controls {
		w := 0
		switch c {
		case control.SeekBar:
			continue
		case control.InlineVolume:
			w = inlineVolumeWidth
		case control.CurrentTime, control.TotalTime:
			w = lo.Max([]int{len(timefmt.Placeholder), lipgloss.Width(controlLabel(c, s, mode))})
		default:
			w = lipgloss.Width(controlLabel(c, s, mode))
		}
		widths[c] = w
		fixed += w + 1
	}
	widths[control.SeekBar] = lo.Max([]int{minSeekBarWidth, width - fixed})

	st := strip{x: x, y: y, width: width}
	cursor := x
	for _, c := range controls {
		st.segments = append(st.segments, segment{control: c, x: cursor, w: widths[c]})
		cursor += widths[c] + 1
	}
	return st
}

// at returns the control under the cell (x, y).
func (st strip) at(x, y int) (segment, bool) {
	if y != st.y {
		return segment{}, false
	}
	return lo.Find(st.segments, func(s segment) bool {
		return s.contains(x)
	})
}

func (st strip) find(c control.Control) (segment, bool) {
	return lo.Find(st.segments, func(s segment) bool {
		return s.control == c
	})
}

// anchor is the volume button in placement units.
func (st strip) anchor() (placement.Rect, bool) {
	seg, ok := st.find(control.VolumePopover)
	if !ok {
		return placement.Rect{}, false
	}
	return cellRect(seg.x, st.y, seg.w, 1), true
}

func cellRect(x, y, w, h int) placement.Rect {
	return placement.Rect{
		Left:   float64(x * cellWidthPx),
		Top:    float64(y * cellHeightPx),
		Width:  float64(w * cellWidthPx),
		Height: float64(h * cellHeightPx),
	}
}

// cellBox converts a placement rect back to whole cells, rounding inwards
// on the left and top.
func cellBox(r placement.Rect) (x, y, w, h int) {
	x = int(math.Ceil(r.Left / cellWidthPx))
	y = int(math.Ceil(r.Top / cellHeightPx))
	w = lo.Max([]int{1, int(math.Floor(r.Width / cellWidthPx))})
	h = lo.Max([]int{1, int(math.Floor(r.Height / cellHeightPx))})
	return
}

// cellCenter returns the placement point at the middle of a cell.
func cellCenter(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * cellWidthPx, (float64(y) + 0.5) * cellHeightPx
}

// bar renders a horizontal gauge: filled up to value percent, with the
// buffered range drawn fainter.
func bar(width int, value, buffered float64, active bool) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(value / 100 * float64(width)))
	loaded := int(math.Round(buffered / 100 * float64(width)))
	filled = lo.Clamp(filled, 0, width)
	loaded = lo.Clamp(loaded, filled, width)

	fg := style.AccentColor
	if active {
		fg = style.Peach
	}

	return style.Fg(fg)(strings.Repeat("━", filled)) +
		style.Fg(style.Subtext)(strings.Repeat("━", loaded-filled)) +
		style.Fg(style.Surface)(strings.Repeat("─", width-loaded))
}

// render draws the strip.
func (st strip) render(s playback.State, mode playlist.Mode) string {
	var sb strings.Builder

	for i, seg := range st.segments {
		if i > 0 {
			sb.WriteString(" ")
		}

		var cell string
		switch seg.control {
		case control.SeekBar:
			cell = bar(seg.w, s.DisplayPercent(), s.BufferedPercent(), s.Phase == playback.Dragging)
		case control.InlineVolume:
			level := s.Volume * 100
			if s.Muted {
				level = 0
			}
			head := volumeIcon(s) + " "
			cell = head + bar(seg.w-lipgloss.Width(head), level, 0, false)
		case control.CurrentTime:
			cell = lipgloss.NewStyle().Width(seg.w).Align(lipgloss.Right).Render(controlLabel(seg.control, s, mode))
		default:
			cell = lipgloss.NewStyle().Width(seg.w).Render(controlLabel(seg.control, s, mode))
		}
		sb.WriteString(cell)
	}

	return sb.String()
}
