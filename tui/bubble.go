// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/internal/ui"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/placement"
	"github.com/tunedeck/tunedeck/playback"
	"github.com/tunedeck/tunedeck/player"
	"github.com/tunedeck/tunedeck/playlist"
	"github.com/tunedeck/tunedeck/style"
	"github.com/tunedeck/tunedeck/util"
)

// Terminals at least this wide show the list and the player side by side.
const wideLayoutColumns = 100

// Narrow terminals give the player pane a fixed height above the list.
const narrowInfoRows = 7

// statefulBubble encapsulates the application state: the catalog, the
// playlist queue and the playback surface.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC spinner.Model
	tracksC  list.Model
	logsC    viewport.Model
	helpC    help.Model

	client  *catalog.Client
	kind    string
	offline bool

	queue   *playlist.Queue[catalog.Track]
	surface *control.Surface
	rng     playlist.Rand
	started bool
	loads   *loader

	logs       *catalog.LogBuffer
	scanning   bool
	scanCancel context.CancelFunc

	stateChannel    chan struct{}
	requestChannel  chan playlist.Trigger
	scanLogChannel  chan string
	scanDoneChannel chan scanDoneMsg

	frame  placement.Frame
	layout layout

	// pointer gestures in progress
	seeking        bool
	adjustingLevel bool

	lastError error
	notifier  *ui.Model

	width, height int

	options *Options
}

// layout is the row and column arithmetic of one frame, in cells.
type layout struct {
	width, height int

	innerX, innerW int
	headerY        int
	bodyY, bodyH   int
	stripY, helpY  int

	wide         bool
	listW, infoW int
	listH, infoH int
}

func computeLayout(width, height int) layout {
	l := layout{width: width, height: height}

	padX, padY := paddingStyle.GetHorizontalPadding()/2, paddingStyle.GetVerticalPadding()/2
	l.innerX = padX
	l.innerW = util.Max(0, width-2*padX)
	l.headerY = padY
	l.bodyY = l.headerY + 2
	l.bodyH = util.Max(1, height-padY-l.bodyY-2)
	l.stripY = l.bodyY + l.bodyH
	l.helpY = l.stripY + 1

	l.wide = width >= wideLayoutColumns
	if l.wide {
		l.listW = l.innerW / 2
		l.infoW = l.innerW - l.listW - 2
		l.listH = l.bodyH
		l.infoH = l.bodyH
	} else {
		l.listW = l.innerW
		l.infoW = l.innerW
		l.infoH = util.Min(narrowInfoRows, l.bodyH)
		l.listH = util.Max(0, l.bodyH-l.infoH)
	}

	return l
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState transitions to s, recording the previous state in the navigation history.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != loadingState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		s := b.statesHistory.Pop()
		b.setState(s)
	}
}

// relayout applies the current terminal size to every child component.
func (b *statefulBubble) relayout() {
	b.layout = computeLayout(b.width, b.height)

	b.tracksC.SetSize(b.listWidth(), b.layout.listH)
	b.tracksC.Help.Width = b.layout.listW

	b.logsC.Width = b.layout.innerW
	b.logsC.Height = util.Max(1, b.layout.bodyH-2)
	b.refreshLogs()

	b.helpC.Width = b.layout.innerW
}

// listWidth leaves room for the volume popover column while it is open.
func (b *statefulBubble) listWidth() int {
	if b.layout.wide {
		return b.layout.listW
	}
	return b.layout.listW - b.popoverColumns()
}

func (b *statefulBubble) popoverColumns() int {
	if !b.surface.Panel().IsOpen() {
		return 0
	}
	_, _, w, _ := cellBox(b.surface.Panel().Rect())
	return w + 1
}

// strip lays out the control row for the current state.
func (b *statefulBubble) strip() strip {
	return layoutStrip(
		b.layout.innerX,
		b.layout.stripY,
		b.layout.innerW,
		b.surface.Presentation(),
		b.surface.State(),
		b.surface.Mode(),
	)
}

// panelGeometry returns the popover anchor, its boundary and the viewport height.
func (b *statefulBubble) panelGeometry() (placement.Rect, placement.Rect, float64, bool) {
	anchor, ok := b.strip().anchor()
	boundary := cellRect(b.layout.innerX, b.layout.bodyY, b.layout.innerW, b.layout.bodyH)
	return anchor, boundary, float64(b.layout.height * cellHeightPx), ok
}

// startLoading enters a loading state and starts the visual indicators.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return tea.Batch(b.spinnerC.Tick, b.tracksC.StartSpinner())
}

// stopLoading exits the loading state.
func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.tracksC.StopSpinner()
}

// notifyState wakes the UI after a playback state change. Bursts coalesce
// into one message since the view always reads the latest state.
func (b *statefulBubble) notifyState(playback.State) {
	select {
	case b.stateChannel <- struct{}{}:
	default:
	}
}

// request hands a track change to the UI goroutine.
func (b *statefulBubble) request(trigger playlist.Trigger) func(playlist.Mode) {
	return func(playlist.Mode) {
		select {
		case b.requestChannel <- trigger:
		default:
			log.Warnf("tui: dropped %s request", trigger)
		}
	}
}

// surfaceOptions reads the playback settings.
func (b *statefulBubble) surfaceOptions() control.Options {
	opts := control.DefaultOptions()
	opts.Autoplay = viper.GetBool(key.PlayerAutoplay)
	opts.ForceEngine = !viper.GetBool(key.PlayerNativeHLS)
	opts.Volume = viper.GetFloat64(key.PlayerVolume)
	opts.SeekStep = viper.GetFloat64(key.PlayerSeekStep)
	opts.VolumeStep = viper.GetFloat64(key.PlayerVolumeStep)
	opts.Presentation = b.options.Presentation
	opts.Engine = b.options.Engine

	if mode, err := playlist.ParseMode(viper.GetString(key.PlayerMode)); err == nil {
		opts.Mode = mode
	} else {
		log.Warnf("tui: %v, using %s", err, playlist.Sequential)
	}

	opts.OnState = b.notifyState
	opts.OnPrev = b.request(playlist.Prev)
	opts.OnNext = b.request(playlist.Next)
	opts.OnEnded = b.request(playlist.Ended)
	opts.OnModeChange = func(m playlist.Mode) {
		log.Infof("tui: mode %s", m)
	}
	return opts
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options, client *catalog.Client, element player.Element) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		client: client,
		kind:   options.Kind,
		queue:  playlist.NewQueue[catalog.Track](nil),
		loads:  &loader{},
		logs:   catalog.NewLogBuffer(catalog.MaxLogLines),

		stateChannel:    make(chan struct{}, 1),
		requestChannel:  make(chan playlist.Trigger, 16),
		scanLogChannel:  make(chan string, 64),
		scanDoneChannel: make(chan scanDoneMsg, 1),

		notifier: &ui.Model{},
		options:  options,
	}

	bubble.surface = control.New(element, bubble.surfaceOptions())

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.tracksC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.tracksC.KeyMap = keymap.forList()
	bubble.tracksC.Title = fmt.Sprintf("Library - %s", options.Kind)
	bubble.tracksC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1)
	bubble.tracksC.Styles.NoItems = lipgloss.NewStyle().Padding(0, 2)
	bubble.tracksC.StatusMessageLifetime = time.Hour * 999
	bubble.tracksC.SetStatusBarItemName("track", "tracks")
	bubble.tracksC.SetShowHelp(false)

	bubble.logsC = viewport.New(0, 0)

	bubble.width, bubble.height = 80, 24
	if w, h, err := util.TerminalSize(); err == nil {
		bubble.width, bubble.height = w, h
	}
	bubble.relayout()

	return &bubble
}
