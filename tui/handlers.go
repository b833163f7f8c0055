// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playlist"
)

type (
	tracksMsg struct {
		tracks  []catalog.Track
		offline bool
	}
	stateMsg   struct{}
	requestMsg struct {
		trigger playlist.Trigger
	}
	playingMsg struct {
		track catalog.Track
	}
	scanLogMsg  string
	scanDoneMsg struct {
		result catalog.ScanResult
		err    error
	}
	frameMsg struct{}
)

func (b *statefulBubble) timeout() time.Duration {
	return time.Duration(viper.GetInt(key.ServerTimeout)) * time.Second
}

// loadTracks fetches the playlist, falling back to the offline copy.
func (b *statefulBubble) loadTracks() tea.Cmd {
	client, kind, timeout := b.client, b.kind, b.timeout()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tracks, err := client.ListTracks(ctx, kind)
		if err == nil {
			return tracksMsg{tracks: tracks}
		}

		if cached, ok := client.Cached(kind); ok {
			log.Warnf("tui: %v, using cached playlist", err)
			return tracksMsg{tracks: cached, offline: true}
		}
		return err
	}
}

// setTracks replaces the queue contents and starts playback when the
// current track changed.
func (b *statefulBubble) setTracks(msg tracksMsg) tea.Cmd {
	previous := b.queue.Current()

	b.offline = msg.offline
	b.queue.SetItems(msg.tracks)

	if !b.started && b.options.Start != "" {
		if t, ok := catalog.Find(msg.tracks, b.options.Start).Get(); ok {
			b.queue.Select(t.ID)
		} else {
			log.Warnf("tui: no track matches %q", b.options.Start)
		}
	}

	cmds := []tea.Cmd{b.refreshItems()}

	current, ok := b.queue.Current().Get()
	switch {
	case !ok:
		if b.started {
			b.surface.Close()
		}
	case !b.started, previous.IsAbsent(), previous.MustGet().ID != current.ID:
		cmds = append(cmds, b.play(current))
	}
	b.started = true

	return tea.Batch(cmds...)
}

// refreshItems mirrors the queue in the track list.
func (b *statefulBubble) refreshItems() tea.Cmd {
	currentID := ""
	if t, ok := b.queue.Current().Get(); ok {
		currentID = t.ID
	}

	items := lo.Map(b.queue.Items(), func(t catalog.Track, _ int) list.Item {
		return &listItem{track: t, playing: t.ID == currentID}
	})
	cmd := b.tracksC.SetItems(items)

	if b.tracksC.FilterState() == list.Unfiltered {
		b.tracksC.Select(b.queue.Index())
	}
	return cmd
}

// loader orders source loads issued from commands, which bubbletea runs on
// their own goroutines. Only the latest ticket may load.
type loader struct {
	mu     sync.Mutex
	ticket atomic.Uint64
}

func (l *loader) next() uint64 {
	return l.ticket.Add(1)
}

// run calls load unless a newer ticket was issued. Loads never overlap.
func (l *loader) run(ticket uint64, load func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ticket.Load() != ticket {
		return false
	}
	load()
	return true
}

// play selects t and attaches its stream off the UI goroutine.
func (b *statefulBubble) play(t catalog.Track) tea.Cmd {
	b.queue.Select(t.ID)
	surface, url := b.surface, b.client.StreamURL(t)
	loads, ticket := b.loads, b.loads.next()

	return tea.Batch(b.refreshItems(), func() tea.Msg {
		if !loads.run(ticket, func() { surface.Load(url) }) {
			log.Debugf("tui: dropped stale load of %s", url)
			return nil
		}
		return playingMsg{track: t}
	})
}

// advance applies a prev, next or ended request to the queue.
func (b *statefulBubble) advance(trigger playlist.Trigger) tea.Cmd {
	next, ok := b.queue.Advance(b.surface.Mode(), trigger, b.rng).Get()
	if !ok {
		return nil
	}
	return b.play(next)
}

func (b *statefulBubble) waitForState() tea.Cmd {
	return func() tea.Msg {
		<-b.stateChannel
		return stateMsg{}
	}
}

func (b *statefulBubble) waitForRequest() tea.Cmd {
	return func() tea.Msg {
		return requestMsg{trigger: <-b.requestChannel}
	}
}

// startScan triggers a library scan, streaming its log lines to the UI.
func (b *statefulBubble) startScan() tea.Cmd {
	if b.scanning {
		return nil
	}

	b.scanning = true
	b.logs.Reset()
	b.refreshLogs()

	ctx, cancel := context.WithCancel(context.Background())
	b.scanCancel = cancel
	client, kind := b.client, b.kind

	go func() {
		defer cancel()

		result, err := client.Scan(ctx, kind, func(line string) {
			select {
			case b.scanLogChannel <- line:
			case <-ctx.Done():
			}
		})
		b.scanDoneChannel <- scanDoneMsg{result: result, err: err}
	}()

	return tea.Batch(b.spinnerC.Tick, b.waitForScan())
}

// waitForScan delivers the next log line or the scan outcome.
func (b *statefulBubble) waitForScan() tea.Cmd {
	return func() tea.Msg {
		select {
		case line := <-b.scanLogChannel:
			return scanLogMsg(line)
		case done := <-b.scanDoneChannel:
			return done
		}
	}
}

// drainScanLogs collects lines that arrived after the outcome.
func (b *statefulBubble) drainScanLogs() {
	for {
		select {
		case line := <-b.scanLogChannel:
			b.logs.Append(line)
		default:
			return
		}
	}
}

// stopScan abandons a running scan. The server keeps scanning.
func (b *statefulBubble) stopScan() {
	if b.scanCancel != nil {
		b.scanCancel()
	}
}

func (b *statefulBubble) refreshLogs() {
	if b.logs == nil {
		return
	}

	atBottom := b.logsC.AtBottom()
	b.logsC.SetContent(wrap.String(strings.Join(b.logs.Lines(), "\n"), max(b.logsC.Width, 1)))
	if atBottom {
		b.logsC.GotoBottom()
	}
}

// requestFrame schedules one flush per frame.
func (b *statefulBubble) requestFrame() tea.Cmd {
	if !b.frame.Request() {
		return nil
	}
	return tea.Tick(placement.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// flushFrame applies a pending resize to the layout and the volume popover.
func (b *statefulBubble) flushFrame() {
	if !b.frame.Flush() {
		return
	}

	b.relayout()

	anchor, boundary, viewport, ok := b.panelGeometry()
	if !ok {
		b.surface.Panel().Close()
		return
	}
	if b.surface.Panel().Resize(anchor, mo.Some(boundary), viewport) {
		b.surface.Panel().Flush()
		b.relayout()
	}
}
