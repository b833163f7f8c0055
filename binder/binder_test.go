package binder

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/player"
	"github.com/tunedeck/tunedeck/player/playertest"
)

type fakeEngine struct {
	pool    *enginePool
	source  string
	media   player.Element
	onReady func()
}

func (e *fakeEngine) LoadSource(url string)            { e.source = url }
func (e *fakeEngine) AttachMedia(media player.Element) { e.media = media }
func (e *fakeEngine) Destroy() {
	e.pool.destroyed++
	e.pool.live--
}

type enginePool struct {
	created   int
	destroyed int
	live      int
	maxLive   int
	engines   []*fakeEngine
}

func (p *enginePool) factory(onReady func()) Engine {
	p.created++
	p.live++
	if p.live > p.maxLive {
		p.maxLive = p.live
	}
	e := &fakeEngine{pool: p, onReady: onReady}
	p.engines = append(p.engines, e)
	return e
}

func TestBinderPaths(t *testing.T) {
	Convey("Given an element with native HLS support", t, func() {
		element := playertest.New(constant.HLSMimeType)
		pool := &enginePool{}
		b := New(element, Options{Engine: pool.factory})

		Convey("When a URL is attached", func() {
			b.Attach("http://host/hls/1/index.m3u8")

			Convey("Then the element should load it directly", func() {
				So(b.Path(), ShouldEqual, Native)
				So(element.Source, ShouldEqual, "http://host/hls/1/index.m3u8")
				So(element.Names(), ShouldResemble, []string{"source", "load"})
				So(pool.created, ShouldEqual, 0)
			})
		})

		Convey("When the engine is forced", func() {
			b = New(element, Options{Engine: pool.factory, ForceEngine: true})
			b.Attach("http://host/hls/1/index.m3u8")

			Convey("Then the engine should be used", func() {
				So(b.Path(), ShouldEqual, Adaptive)
				So(pool.created, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an element without native HLS support", t, func() {
		element := playertest.New()

		Convey("When an engine is available", func() {
			pool := &enginePool{}
			b := New(element, Options{Engine: pool.factory})
			b.Attach("http://host/hls/2/index.m3u8")

			Convey("Then the engine should receive the source and the element", func() {
				So(b.Path(), ShouldEqual, Adaptive)
				So(pool.engines, ShouldHaveLength, 1)
				So(pool.engines[0].source, ShouldEqual, "http://host/hls/2/index.m3u8")
				So(element.Calls(), ShouldBeEmpty)

				So(pool.engines[0].media.SetSource("http://host/hls/2/mid.m3u8"), ShouldBeNil)
				So(element.Source, ShouldEqual, "http://host/hls/2/mid.m3u8")
			})
		})

		Convey("When no engine is available", func() {
			b := New(element, Options{})
			b.Attach("http://host/hls/2/index.m3u8")

			Convey("Then the source should be assigned as is", func() {
				So(b.Path(), ShouldEqual, Fallback)
				So(element.Source, ShouldEqual, "http://host/hls/2/index.m3u8")
			})
		})
	})
}

func TestBinderLifecycle(t *testing.T) {
	Convey("Given a binder backed by an engine", t, func() {
		element := playertest.New()
		pool := &enginePool{}

		var attached []string
		var callsAtAttach []int
		b := New(element, Options{
			Engine: pool.factory,
			OnAttach: func(url string) {
				attached = append(attached, url)
				callsAtAttach = append(callsAtAttach, len(element.Calls()))
			},
		})

		Convey("When the URL changes N times and the surface closes", func() {
			for i := 0; i < 5; i++ {
				b.Attach(fmt.Sprintf("http://host/hls/%d/index.m3u8", i))
			}
			b.Detach()
			b.Detach()

			Convey("Then there should be N creations and N destructions, never two live", func() {
				So(pool.created, ShouldEqual, 5)
				So(pool.destroyed, ShouldEqual, 5)
				So(pool.maxLive, ShouldEqual, 1)
				So(pool.live, ShouldEqual, 0)
				So(b.Path(), ShouldEqual, None)
				So(b.URL(), ShouldEqual, "")
			})

			Convey("Then the session should be reset before the old file is paused", func() {
				So(attached, ShouldHaveLength, 5)
				So(callsAtAttach, ShouldResemble, []int{0, 0, 1, 2, 3})
			})

			Convey("Then every replaced source should be paused", func() {
				So(element.Names(), ShouldResemble, []string{"pause", "pause", "pause", "pause"})
			})

			Convey("Then no listener should remain", func() {
				So(element.Subscribers(), ShouldEqual, 0)
			})
		})
	})
}

func TestBinderEvents(t *testing.T) {
	Convey("Given a binder forwarding events", t, func() {
		element := playertest.New(constant.HLSMimeType)

		var received []player.Event
		b := New(element, Options{
			OnEvent: func(e player.Event) { received = append(received, e) },
		})

		Convey("When events arrive during a session", func() {
			b.Attach("http://host/a.m3u8")
			element.Emit(player.Event{Kind: player.TimeUpdate, Value: 3})

			Convey("Then they should be forwarded", func() {
				So(received, ShouldHaveLength, 1)
			})
		})

		Convey("When the source changes", func() {
			b.Attach("http://host/a.m3u8")
			b.Attach("http://host/b.m3u8")
			element.Emit(player.Event{Kind: player.TimeUpdate, Value: 3})

			Convey("Then each event should be delivered once", func() {
				So(received, ShouldHaveLength, 1)
				So(element.Subscribers(), ShouldEqual, 1)
			})
		})

		Convey("When detached", func() {
			b.Attach("http://host/a.m3u8")
			b.Detach()
			element.Emit(player.Event{Kind: player.Ended})

			Convey("Then nothing should be forwarded", func() {
				So(received, ShouldBeEmpty)
			})
		})
	})
}

func TestBinderAutoplay(t *testing.T) {
	Convey("Given autoplay on a native element", t, func() {
		element := playertest.New(constant.HLSMimeType)
		b := New(element, Options{Autoplay: true})

		Convey("When playback is rejected", func() {
			element.RejectPlay = true
			b.Attach("http://host/a.m3u8")

			Convey("Then the rejection should be swallowed", func() {
				So(element.Names(), ShouldResemble, []string{"source", "load", "play-rejected"})
				So(b.Path(), ShouldEqual, Native)
			})
		})
	})

	Convey("Given autoplay through the engine", t, func() {
		element := playertest.New()
		pool := &enginePool{}
		b := New(element, Options{Autoplay: true, Engine: pool.factory})

		Convey("When the current engine becomes ready", func() {
			b.Attach("http://host/a.m3u8")
			pool.engines[0].onReady()

			Convey("Then playback should be requested", func() {
				So(element.Names(), ShouldResemble, []string{"play"})
			})
		})

		Convey("When a replaced engine reports readiness late", func() {
			b.Attach("http://host/a.m3u8")
			b.Attach("http://host/b.m3u8")
			pool.engines[0].onReady()

			Convey("Then it should be ignored", func() {
				So(element.Names(), ShouldResemble, []string{"pause"})
			})
		})
	})
}

func TestBinderEnginePending(t *testing.T) {
	Convey("Given an engine session that is playing", t, func() {
		element := playertest.New()
		pool := &enginePool{}

		var received []player.Event
		b := New(element, Options{
			Engine:  pool.factory,
			OnEvent: func(e player.Event) { received = append(received, e) },
		})

		b.Attach("http://host/a.m3u8")
		So(pool.engines[0].media.SetSource("http://host/a/mid.m3u8"), ShouldBeNil)
		element.Emit(player.Event{Kind: player.TimeUpdate, Value: 199})
		So(received, ShouldHaveLength, 1)

		received = nil
		element.Reset()

		Convey("When the source changes and the new manifest is pending", func() {
			b.Attach("http://host/b.m3u8")
			element.Emit(player.Event{Kind: player.TimeUpdate, Value: 199.9})
			element.Emit(player.Event{Kind: player.Ended})

			Convey("Then the old file should be paused", func() {
				So(element.Names(), ShouldResemble, []string{"pause"})
			})

			Convey("Then its events should not reach the new session", func() {
				So(received, ShouldBeEmpty)
			})

			Convey("And the engine assigns the new source", func() {
				So(pool.engines[1].media.SetSource("http://host/b/mid.m3u8"), ShouldBeNil)
				element.Emit(player.Event{Kind: player.CanPlay})

				Convey("Then events should flow again", func() {
					So(received, ShouldResemble, []player.Event{{Kind: player.CanPlay}})
				})
			})

			Convey("And the replaced engine assigns its source late", func() {
				_ = pool.engines[0].media.SetSource("http://host/a/mid.m3u8")
				element.Emit(player.Event{Kind: player.Ended})

				Convey("Then the new session should stay gated", func() {
					So(received, ShouldBeEmpty)
				})
			})
		})
	})
}
