package hls

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/network"
	"github.com/tunedeck/tunedeck/player"
)

// Config tunes an Engine.
type Config struct {
	// EnableWorker parses manifests on a background goroutine.
	EnableWorker bool
	// MaxBandwidth caps variant selection in bits per second. 0 means no cap.
	MaxBandwidth int
	// Client defaults to network.Client.
	Client *http.Client
	// OnManifestParsed reports readiness with the chosen variant.
	OnManifestParsed func(Variant)
	// OnError reports a failed load. The element is left untouched.
	OnError func(error)
}

// Engine resolves an HLS source and attaches the chosen media playlist to an element.
type Engine struct {
	cfg       Config
	estimator *Estimator

	mu        sync.Mutex
	source    string
	media     player.Element
	destroyed bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// Supported reports whether the engine can run in this process.
func Supported() bool {
	return true
}

// New creates an idle engine.
func New(cfg Config) *Engine {
	if cfg.Client == nil {
		cfg.Client = network.Client
	}

	return &Engine{
		cfg:       cfg,
		estimator: &Estimator{},
	}
}

// LoadSource sets the manifest URL. Loading begins once media is attached.
func (e *Engine) LoadSource(src string) {
	e.mu.Lock()
	e.source = src
	e.mu.Unlock()

	e.maybeStart()
}

// AttachMedia binds the element that receives the resolved playlist.
func (e *Engine) AttachMedia(media player.Element) {
	e.mu.Lock()
	e.media = media
	e.mu.Unlock()

	e.maybeStart()
}

// Destroy cancels any in-flight load and waits for the worker to exit. After it
// returns the engine never touches the element again.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}

	e.destroyed = true
	e.media = nil
	if e.cancel != nil {
		e.cancel()
	}
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (e *Engine) alive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.destroyed
}

func (e *Engine) maybeStart() {
	e.mu.Lock()
	if e.destroyed || e.source == "" || e.media == nil || e.cancel != nil {
		e.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	src, done := e.source, e.done
	e.mu.Unlock()

	if e.cfg.EnableWorker {
		go e.run(ctx, src, done)
		return
	}

	e.run(ctx, src, done)
}

func (e *Engine) run(ctx context.Context, src string, done chan struct{}) {
	variant, err := e.load(ctx, src)
	close(done)

	// Callbacks run after done is closed.
	switch {
	case err != nil:
		if ctx.Err() != nil || !e.alive() {
			return
		}
		log.Warnf("hls: load %s: %v", src, err)
		if e.cfg.OnError != nil {
			e.cfg.OnError(err)
		}
	case variant.URI != "" && e.alive():
		log.Debugf("hls: attached %s (%d bps)", variant.URI, variant.Bandwidth)
		if e.cfg.OnManifestParsed != nil {
			e.cfg.OnManifestParsed(variant)
		}
	}
}

// load resolves src and applies it. An empty variant means the engine was
// destroyed or the element refused the source.
func (e *Engine) load(ctx context.Context, src string) (Variant, error) {
	variant, err := e.resolve(ctx, src)
	if err != nil {
		return Variant{}, err
	}
	if !e.apply(ctx, variant.URI) {
		return Variant{}, nil
	}
	return variant, nil
}

// apply hands uri to the element unless the engine was destroyed meanwhile.
func (e *Engine) apply(ctx context.Context, uri string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed || ctx.Err() != nil || e.media == nil {
		return false
	}

	if err := e.media.SetSource(uri); err != nil {
		log.Warnf("hls: set source: %v", err)
		return false
	}
	if err := e.media.Load(); err != nil {
		log.Warnf("hls: load media: %v", err)
		return false
	}
	return true
}

// resolve fetches src and walks a master playlist down to one media playlist.
func (e *Engine) resolve(ctx context.Context, src string) (Variant, error) {
	pl, err := e.fetch(ctx, src)
	if err != nil {
		return Variant{}, err
	}

	if !pl.Master {
		return Variant{URI: src}, nil
	}

	variant := SelectVariant(pl.Variants, e.limit())
	variant.URI, err = resolveReference(src, variant.URI)
	if err != nil {
		return Variant{}, err
	}

	media, err := e.fetch(ctx, variant.URI)
	if err != nil {
		return Variant{}, fmt.Errorf("variant %s: %w", variant.URI, err)
	}
	if media.Master {
		return Variant{}, fmt.Errorf("variant %s is itself a master playlist", variant.URI)
	}

	return variant, nil
}

// limit combines the configured cap with the throughput estimate.
func (e *Engine) limit() int {
	limit := e.cfg.MaxBandwidth
	if est := e.estimator.Estimate(); est > 0 && (limit <= 0 || est < limit) {
		limit = est
	}
	return limit
}

func (e *Engine) fetch(ctx context.Context, src string) (*Playlist, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	start := time.Now()
	resp, err := e.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	e.estimator.Sample(len(body), time.Since(start))

	return Parse(bytes.NewReader(body))
}

// SelectVariant returns the highest-bandwidth variant within limit, or the
// lowest one when none fits. A non-positive limit selects the highest.
func SelectVariant(variants []Variant, limit int) Variant {
	if len(variants) == 0 {
		return Variant{}
	}

	sorted := append([]Variant(nil), variants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bandwidth < sorted[j].Bandwidth
	})

	if limit <= 0 {
		return sorted[len(sorted)-1]
	}

	chosen := sorted[0]
	for _, v := range sorted {
		if v.Bandwidth <= limit {
			chosen = v
		}
	}
	return chosen
}

func resolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
