package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// errNotRunning is returned by commands issued before the first Load.
var errNotRunning = errors.New("mpv is not running")

// MPV implements Element using mpv's JSON-IPC protocol.
// The process is started lazily on the first Load and kept idle between tracks.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	video      bool
	source     string
	listener   *EventListener
	mu         sync.Mutex // Protects socket writes

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
	level   float64
	muted   bool
}

// NewMPV creates a new MPV element (does not start the process).
// When video is false mpv runs without a window.
func NewMPV(video bool) *MPV {
	exited := make(chan struct{})
	close(exited)

	return &MPV{
		exited: exited,
		video:  video,
		subs:   make(map[int]func(Event)),
		level:  1,
	}
}

// CanPlayType reports formats mpv demuxes by itself. HLS is handled by ffmpeg.
func (m *MPV) CanPlayType(mime string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case constant.HLSMimeType, "application/x-mpegurl", "audio/mpegurl":
		return true
	case "audio/mpeg", "audio/flac", "audio/ogg", "audio/wav", "video/mp4", "video/webm":
		return true
	default:
		return false
	}
}

// SetSource validates and stores the next media target.
func (m *MPV) SetSource(rawURL string) error {
	// Sanitize the URL to prevent flag injection from catalog entries
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.source = safeURL
	return nil
}

// Load replaces the current file with the pending source, starting mpv if needed.
func (m *MPV) Load() error {
	if m.source == "" {
		return errors.New("load: no source set")
	}

	if !m.IsRunning() {
		if err := m.start(); err != nil {
			return err
		}
	}

	_, err := m.sendCommand([]interface{}{"loadfile", m.source, "replace"})
	return err
}

// Play clears the pause flag.
func (m *MPV) Play() error {
	return m.Set("pause", false)
}

// Pause sets the pause flag.
func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendControl([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetVolume maps [0, 1] onto mpv's percentage scale.
func (m *MPV) SetVolume(level float64) error {
	return m.Set("volume", math.Round(clampUnit(level)*100))
}

// SetMuted sets the mute property.
func (m *MPV) SetMuted(muted bool) error {
	return m.Set("mute", muted)
}

// SetLoop toggles loop-file between "inf" and "no".
func (m *MPV) SetLoop(loop bool) error {
	if loop {
		return m.Set("loop-file", "inf")
	}
	return m.Set("loop-file", "no")
}

// Subscribe registers fn for translated mpv events.
func (m *MPV) Subscribe(fn func(Event)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

// start launches an idle mpv and connects the event listener.
func (m *MPV) start() error {
	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Tunedeck, randomBytes))
	}

	m.cmd = exec.Command("mpv", m.args()...)

	// Detach from parent process group so terminal signals stay with the TUI.
	m.cmd.SysProcAttr = sysProcAttr()

	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies
	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.dispatch)
	if err := m.listener.Start(); err != nil {
		return fmt.Errorf("mpv events: %w", err)
	}

	return nil
}

// args builds the mpv command line. Only IPC and window behaviour are
// forced; everything else is left to the user's mpv.conf.
func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", constant.Tunedeck),
		"--idle=yes",
		"--keep-open=yes",
		"--pause=yes",
	}

	if m.video {
		args = append(args, "--force-window=yes")
	} else {
		args = append(args, "--no-video")
	}

	return args
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}

	if m.socketPath == "" {
		return nil
	}

	select {
	case <-m.exited:
	default:
		// Try graceful quit via IPC
		_, _ = m.sendCommand([]interface{}{"quit"})

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendControl([]interface{}{"set_property", property, value})
	return err
}

// dispatch fans a raw mpv notification out to subscribers.
func (m *MPV) dispatch(name string, data interface{}) {
	event, ok := m.translate(name, data)
	if !ok {
		return
	}

	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// translate maps an mpv property change or event onto an element Event.
func (m *MPV) translate(name string, data interface{}) (Event, bool) {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			return Event{Kind: TimeUpdate, Value: v}, true
		}
	case "duration":
		if v, ok := data.(float64); ok {
			return Event{Kind: LoadedMetadata, Value: v}, true
		}
	case "demuxer-cache-time":
		if v, ok := data.(float64); ok {
			return Event{Kind: Progress, Value: v}, true
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			if paused {
				return Event{Kind: Pause}, true
			}
			return Event{Kind: Play}, true
		}
	case "volume", "mute":
		m.subMu.Lock()
		defer m.subMu.Unlock()

		switch v := data.(type) {
		case float64:
			m.level = clampUnit(v / 100)
		case bool:
			m.muted = v
		default:
			return Event{}, false
		}
		return Event{Kind: VolumeChange, Value: m.level, Muted: m.muted}, true
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			return Event{Kind: Ended}, true
		}
	case "file-loaded", "playback-restart":
		return Event{Kind: CanPlay}, true
	}

	return Event{}, false
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not start with - or mpv would read them as flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}
