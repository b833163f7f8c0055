// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/tunedeck/tunedeck/color"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/icon"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playback"
	"github.com/tunedeck/tunedeck/style"
	"github.com/tunedeck/tunedeck/timefmt"
	"github.com/tunedeck/tunedeck/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case tracksState:
		output = b.viewTracks()
	case scanState:
		output = b.viewScan()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + fmt.Sprintf("Fetching the %s playlist from %s", b.kind, b.client.Base()),
		},
	)
}

func (b *statefulBubble) header() string {
	parts := []string{style.Title("tunedeck"), style.Tag(style.Base, style.Lavender)(b.kind)}
	if b.offline {
		parts = append(parts, style.Tag(style.Base, style.Yellow)("offline"))
	}
	if b.loading {
		parts = append(parts, style.Faint("reloading..."))
	}
	if b.scanning {
		parts = append(parts, style.Faint("scanning..."))
	}
	return strings.Join(parts, " ")
}

func (b *statefulBubble) viewTracks() string {
	l := b.layout
	popover := b.popoverColumns()
	bodyW := util.Max(0, l.innerW-popover)

	box := func(w, h int) lipgloss.Style {
		return lipgloss.NewStyle().Width(w).Height(h).MaxWidth(w).MaxHeight(h)
	}

	var body string
	if l.wide {
		infoW := util.Max(0, bodyW-l.listW-2)
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			box(l.listW, l.listH).Render(b.tracksC.View()),
			"  ",
			box(infoW, l.infoH).Render(b.viewNowPlaying(infoW)),
		)
	} else {
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			box(bodyW, l.infoH).Render(b.viewNowPlaying(bodyW)),
			box(bodyW, l.listH).Render(b.tracksC.View()),
		)
	}
	body = box(bodyW, l.bodyH).Render(body)

	if popover > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, b.viewPopover())
	}

	state, mode := b.surface.State(), b.surface.Mode()
	lines := []string{
		b.header(),
		"",
		body,
		b.strip().render(state, mode),
		b.helpC.View(b.keymap),
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewNowPlaying(width int) string {
	clip := func(s string) string {
		return truncate.StringWithTail(s, uint(util.Max(0, width)), "…")
	}

	state := b.surface.State()
	lines := []string{style.Title("Now Playing"), ""}

	if t, ok := b.queue.Current().Get(); ok {
		lines = append(lines, clip(icon.Get(icon.Track)+" "+style.Bold(t.Title)))

		var meta []string
		if t.Artist != "" {
			meta = append(meta, t.Artist)
		}
		if t.Format != "" {
			meta = append(meta, strings.ToLower(t.Format))
		}
		meta = append(meta, b.surface.Path().String())
		lines = append(lines, clip(style.Faint(strings.Join(meta, " • "))))
	} else {
		lines = append(lines, style.Faint("nothing selected"), "")
	}

	lines = append(lines, "", clip(b.statusLine(state)), clip(b.settingsLine(state)))

	return strings.Join(lines, "\n")
}

func (b *statefulBubble) statusLine(s playback.State) string {
	var status string
	switch {
	case s.Phase == playback.Idle:
		status = style.Faint("idle")
	case !s.Ready:
		status = b.spinnerC.View() + " buffering"
	case s.Playing:
		status = style.Fg(style.Green)(icon.Get(icon.Play) + " playing")
	default:
		status = style.Fg(style.Yellow)(icon.Get(icon.Pause) + " paused")
	}

	status += "  " + timefmt.Pair(s.DisplayTime(), s.Duration)

	if s.Phase == playback.Dragging {
		status += "  " + style.Fg(style.Peach)("seek to "+timefmt.Format(s.DisplayTime()))
	}
	return status
}

func (b *statefulBubble) settingsLine(s playback.State) string {
	volume := fmt.Sprintf("%s %d%%", volumeIcon(s), int(math.Round(s.Volume*100)))
	if s.Muted {
		volume = icon.Get(icon.Muted) + " muted"
	}

	parts := []string{volume, b.surface.Presentation().String()}
	if b.surface.Presentation() == control.Full {
		parts = append([]string{modeIcon(b.surface.Mode()) + " " + b.surface.Mode().String()}, parts...)
	}
	return style.Faint(strings.Join(parts, "  "))
}

// panelSlider returns the first row and the row count of the popover slider.
func panelSlider(p *placement.Panel) (top, rows int) {
	if !p.IsOpen() {
		return 0, 0
	}

	_, y, _, h := cellBox(p.Rect())
	rows = util.Min(h-1, util.Max(1, int(p.Layout().SliderLength/cellHeightPx)))
	if rows <= 0 {
		return y, 0
	}
	return y + 1 + (h-1-rows)/2, rows
}

// inlineLevel maps column x on the inline volume bar to a level.
func inlineLevel(seg segment, x int, s playback.State) float64 {
	head := lipgloss.Width(volumeIcon(s) + " ")
	return segment{x: seg.x + head, w: seg.w - head}.fraction(x)
}

// viewPopover draws the volume popover column beside the body.
func (b *statefulBubble) viewPopover() string {
	panel := b.surface.Panel()
	state := b.surface.State()
	_, y, w, h := cellBox(panel.Rect())
	sliderTop, rows := panelSlider(panel)

	level := state.Volume
	if state.Muted {
		level = 0
	}
	filled := int(math.Round(level * float64(rows)))

	cell := lipgloss.NewStyle().Width(w).Background(style.Surface)
	column := make([]string, b.layout.bodyH)
	for i := range column {
		row := b.layout.bodyY + i
		switch {
		case row < y || row >= y+h:
			column[i] = strings.Repeat(" ", w)
		case row == y:
			column[i] = cell.Align(lipgloss.Center).Render(fmt.Sprintf("%d", int(math.Round(level*100))))
		case row >= sliderTop && row < sliderTop+rows:
			glyph := "│"
			if row >= sliderTop+rows-filled {
				glyph = style.Fg(style.AccentColor)("┃")
			}
			column[i] = cell.Align(lipgloss.Center).Render(glyph)
		default:
			column[i] = cell.Render("")
		}
	}

	return " " + strings.Join(column, "\n ")
}

func (b *statefulBubble) viewScan() string {
	title := style.Title(fmt.Sprintf("Scan - %s", b.kind))
	status := style.Faint(fmt.Sprintf("%d lines", b.logs.Len()))
	if b.scanning {
		status = b.spinnerC.View() + " " + status
	}

	return b.renderLines(
		true,
		[]string{
			title + " " + status,
			"",
			b.logsC.View(),
		},
	)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.HiRed).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError))
	errorMsg := wrap.String(errorBody, util.Max(1, b.layout.innerW))
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if inner := b.layout.height - 2; inner > h+1 {
			l += strings.Repeat("\n", inner-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
