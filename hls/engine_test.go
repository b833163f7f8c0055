package hls

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tunedeck/tunedeck/player/playertest"
)

func TestEngine(t *testing.T) {
	Convey("Given a server with a master playlist", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/hls/1/master.m3u8", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, masterPlaylist)
		})
		for _, name := range []string{"low", "mid", "high"} {
			mux.HandleFunc("/hls/1/"+name+"/index.m3u8", func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, mediaPlaylist)
			})
		}
		srv := httptest.NewServer(mux)
		defer srv.Close()

		element := playertest.New()

		Convey("When the engine loads it on a worker", func() {
			ready := make(chan Variant, 1)
			engine := New(Config{
				EnableWorker:     true,
				MaxBandwidth:     500000,
				Client:           srv.Client(),
				OnManifestParsed: func(v Variant) { ready <- v },
			})
			engine.LoadSource(srv.URL + "/hls/1/master.m3u8")
			engine.AttachMedia(element)

			var variant Variant
			select {
			case variant = <-ready:
			case <-time.After(5 * time.Second):
			}

			Convey("Then the capped variant should be attached", func() {
				So(variant.URI, ShouldEqual, srv.URL+"/hls/1/mid/index.m3u8")
				So(element.Source, ShouldEqual, variant.URI)
				So(element.Names(), ShouldResemble, []string{"source", "load"})
			})
		})

		Convey("When the source is a media playlist", func() {
			engine := New(Config{Client: srv.Client()})
			engine.AttachMedia(element)
			engine.LoadSource(srv.URL + "/hls/1/low/index.m3u8")

			Convey("Then it should be attached as is", func() {
				So(element.Source, ShouldEqual, srv.URL+"/hls/1/low/index.m3u8")
			})
		})
	})

	Convey("Given a server that stalls", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			fmt.Fprint(w, mediaPlaylist)
		}))
		defer srv.Close()
		defer close(release)

		element := playertest.New()
		engine := New(Config{EnableWorker: true, Client: srv.Client()})
		engine.LoadSource(srv.URL + "/index.m3u8")
		engine.AttachMedia(element)

		Convey("When it is destroyed before the manifest arrives", func() {
			engine.Destroy()

			Convey("Then the worker should have exited", func() {
				engine.mu.Lock()
				done := engine.done
				engine.mu.Unlock()

				So(done, ShouldNotBeNil)
				select {
				case <-done:
				default:
					So("worker still running", ShouldBeEmpty)
				}
			})

			Convey("Then the element should never be touched", func() {
				So(element.Calls(), ShouldBeEmpty)
			})

			Convey("Then destroying again should return at once", func() {
				engine.Destroy()
				So(element.Calls(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a server that fails", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		var failure error
		engine := New(Config{
			Client:  srv.Client(),
			OnError: func(err error) { failure = err },
		})

		Convey("When a source is loaded", func() {
			engine.LoadSource(srv.URL + "/missing.m3u8")
			engine.AttachMedia(playertest.New())

			Convey("Then the error should be reported", func() {
				So(failure, ShouldNotBeNil)
				So(errors.Is(failure, ErrNotPlaylist), ShouldBeFalse)
			})
		})
	})
}
