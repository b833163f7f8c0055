// Package tui provides the primary terminal user interface implementation.
package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/internal/ui"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/util"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Process Ephemeral UI Notifications (captures `string` and `ui.ClearNotificationMsg`)
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		return b, tea.Batch(cmd, b.requestFrame())
	case frameMsg:
		b.flushFrame()
		return b, cmd
	case stateMsg:
		return b, tea.Batch(cmd, b.waitForState())
	case requestMsg:
		return b, tea.Batch(cmd, b.advance(msg.trigger), b.waitForRequest())
	case playingMsg:
		log.Infof("tui: playing %s via %s", msg.track, b.surface.Path())
		return b, cmd
	case scanLogMsg:
		b.logs.Append(string(msg))
		b.refreshLogs()
		return b, tea.Batch(cmd, b.waitForScan())
	case scanDoneMsg:
		return b, tea.Batch(cmd, b.onScanDone(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.stopScan()
			return b, tea.Quit
		}
	}

	var next tea.Cmd
	switch b.state {
	case loadingState:
		next = b.updateLoading(msg)
	case tracksState:
		next = b.updateTracks(msg)
	case scanState:
		next = b.updateScan(msg)
	case errorState:
		next = b.updateError(msg)
	}

	return b, tea.Batch(cmd, next)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tracksMsg:
		b.stopLoading()
		b.setState(tracksState)
		cmd = b.setTracks(msg)
		if msg.offline {
			cmd = tea.Batch(cmd, ui.Notify("offline: showing the cached playlist"))
		}
		return cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back) {
			return tea.Quit
		}
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateTracks(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tracksMsg:
		b.stopLoading()
		cmd = b.setTracks(msg)
		if msg.offline {
			cmd = tea.Batch(cmd, ui.Notify("offline: showing the cached playlist"))
		}
		return cmd
	case tea.MouseMsg:
		return b.handleMouse(tea.MouseEvent(msg))
	case tea.KeyMsg:
		if b.tracksC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.stopScan()
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.surface.Panel().IsOpen() {
				b.surface.Panel().Close()
				b.relayout()
				return nil
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if item, ok := b.tracksC.SelectedItem().(*listItem); ok {
				return b.play(item.track)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.tracksC.Items()); n > 0 && b.tracksC.Index() == 0 {
				b.tracksC.Select(n - 1)
				return nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.tracksC.Items()); n > 0 && b.tracksC.Index() == n-1 {
				b.tracksC.Select(0)
				return nil
			}
		case bubblesKey.Matches(msg, b.keymap.prev):
			if b.surface.Presentation() == control.Full {
				b.surface.Prev()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.next):
			if b.surface.Presentation() == control.Full {
				b.surface.Next()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.mode):
			if b.surface.Presentation() == control.Full {
				return ui.Notify("mode: " + b.surface.CycleMode().String())
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.presentation):
			b.surface.TogglePresentation()
			b.relayout()
			return nil
		case bubblesKey.Matches(msg, b.keymap.volumePanel):
			b.toggleVolumePanel()
			return nil
		case bubblesKey.Matches(msg, b.keymap.reload):
			return tea.Batch(b.startLoading(), b.loadTracks())
		case bubblesKey.Matches(msg, b.keymap.scan):
			b.newState(scanState)
			return b.startScan()
		case bubblesKey.Matches(msg, b.keymap.playPause, b.keymap.seekBack, b.keymap.seekForward,
			b.keymap.volumeUp, b.keymap.volumeDown, b.keymap.mute):
			b.surface.HandleKey(msg.String())
			return nil
		}
	}

	b.tracksC, cmd = b.tracksC.Update(msg)
	return cmd
}

// toggleVolumePanel opens or closes the compact volume popover.
func (b *statefulBubble) toggleVolumePanel() {
	if b.surface.Presentation() != control.Compact {
		return
	}

	anchor, boundary, viewport, ok := b.panelGeometry()
	if !ok {
		return
	}
	b.surface.Panel().Toggle(anchor, mo.Some(boundary), viewport)
	b.relayout()
}

// handleMouse implements drag-seek, the volume controls and outside clicks.
func (b *statefulBubble) handleMouse(ev tea.MouseEvent) tea.Cmd {
	st := b.strip()

	switch ev.Action {
	case tea.MouseActionMotion:
		if b.seeking {
			if seg, ok := st.find(control.SeekBar); ok {
				b.surface.MoveSeek(seg.fraction(ev.X) * 100)
			}
		}
		if b.adjustingLevel {
			b.setLevelFromPanel(ev.Y)
		}
		return nil

	case tea.MouseActionRelease:
		if b.seeking {
			b.seeking = false
			b.surface.CommitSeek()
		}
		b.adjustingLevel = false
		return nil
	}

	switch ev.Button {
	case tea.MouseButtonWheelUp:
		b.surface.AdjustVolume(b.surfaceVolumeStep())
		return nil
	case tea.MouseButtonWheelDown:
		b.surface.AdjustVolume(-b.surfaceVolumeStep())
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	panel := b.surface.Panel()
	if panel.IsOpen() {
		px, py := cellCenter(ev.X, ev.Y)
		if panel.Rect().Contains(px, py) {
			b.adjustingLevel = true
			b.setLevelFromPanel(ev.Y)
			return nil
		}
		if panel.Press(px, py) {
			b.relayout()
			return nil
		}
	}

	seg, ok := st.at(ev.X, ev.Y)
	if !ok {
		return nil
	}

	switch seg.control {
	case control.PlayPause:
		b.surface.TogglePlay()
	case control.PrevButton:
		b.surface.Prev()
	case control.NextButton:
		b.surface.Next()
	case control.ModeButton:
		return ui.Notify("mode: " + b.surface.CycleMode().String())
	case control.SeekBar:
		b.seeking = true
		b.surface.BeginSeek(seg.fraction(ev.X) * 100)
	case control.InlineVolume:
		b.surface.SetVolume(inlineLevel(seg, ev.X, b.surface.State()))
	case control.VolumePopover:
		b.toggleVolumePanel()
	}
	return nil
}

func (b *statefulBubble) surfaceVolumeStep() float64 {
	return viper.GetFloat64(key.PlayerVolumeStep)
}

// setLevelFromPanel maps row y on the popover slider to a level.
func (b *statefulBubble) setLevelFromPanel(y int) {
	top, rows := panelSlider(b.surface.Panel())
	if rows <= 0 {
		return
	}

	row := util.Min(util.Max(y-top, 0), rows-1)
	level := 1.0
	if rows > 1 {
		level = 1 - float64(row)/float64(rows-1)
	}
	b.surface.SetVolume(level)
}

func (b *statefulBubble) updateScan(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back, b.keymap.quit) {
			b.previousState()
			return nil
		}
	case tracksMsg:
		return b.setTracks(msg)
	}

	b.logsC, cmd = b.logsC.Update(msg)
	if b.scanning {
		var spin tea.Cmd
		b.spinnerC, spin = b.spinnerC.Update(msg)
		cmd = tea.Batch(cmd, spin)
	}
	return cmd
}

// onScanDone reports the outcome and reloads the playlist after a scan.
func (b *statefulBubble) onScanDone(msg scanDoneMsg) tea.Cmd {
	b.scanning = false
	b.drainScanLogs()
	b.refreshLogs()

	if msg.err != nil {
		log.Warnf("tui: scan: %v", msg.err)
		b.logs.Append(catalog.Describe(msg.err))
		b.refreshLogs()
		return ui.Notify(catalog.Describe(msg.err))
	}

	return tea.Batch(ui.Notify("scan finished"), b.loadTracks())
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return tea.Quit
			}
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	case tracksMsg:
		return b.setTracks(msg)
	}
	return nil
}
