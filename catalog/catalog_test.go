package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tunedeck/tunedeck/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

var sampleTracks = []Track{
	{ID: "a1", Artist: "Nujabes", Title: "Aruarian Dance", HLSURL: "/hls/music/a1/playlist.m3u8", HasHLS: true, Format: "flac"},
	{ID: "b2", Title: "Untitled", OriginalFile: "/media/music/b2.mp3", Format: "mp3"},
}

func TestTrack(t *testing.T) {
	Convey("Given tracks with and without HLS", t, func() {
		Convey("Then the stream path should prefer HLS", func() {
			So(sampleTracks[0].StreamPath(), ShouldEqual, "/hls/music/a1/playlist.m3u8")
			So(sampleTracks[1].StreamPath(), ShouldEqual, "/media/music/b2.mp3")
		})

		Convey("Then the label should include the artist when known", func() {
			So(sampleTracks[0].String(), ShouldEqual, "Nujabes - Aruarian Dance")
			So(sampleTracks[1].String(), ShouldEqual, "Untitled")
		})

		Convey("Then the id should be the key", func() {
			So(sampleTracks[0].Key(), ShouldEqual, "a1")
		})
	})
}

func TestListTracks(t *testing.T) {
	Convey("Given a server with a music playlist", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/music/playlist":
				_ = json.NewEncoder(w).Encode(sampleTracks)
			case "/api/video/playlist":
				fmt.Fprint(w, "null")
			default:
				http.Error(w, "boom", http.StatusInternalServerError)
			}
		}))
		defer srv.Close()

		client, err := New(srv.URL + "/")
		So(err, ShouldBeNil)

		Convey("When the music playlist is listed", func() {
			tracks, err := client.ListTracks(context.Background(), "music")

			Convey("Then every track should be decoded and cached", func() {
				So(err, ShouldBeNil)
				So(tracks, ShouldResemble, sampleTracks)

				cached, ok := client.Cached("music")
				So(ok, ShouldBeTrue)
				So(cached, ShouldResemble, sampleTracks)
			})

			Convey("Then stream URLs should resolve against the server", func() {
				So(client.StreamURL(tracks[0]), ShouldEqual, srv.URL+"/hls/music/a1/playlist.m3u8")
			})
		})

		Convey("When the server returns null", func() {
			tracks, err := client.ListTracks(context.Background(), "video")

			Convey("Then an empty list should be returned", func() {
				So(err, ShouldBeNil)
				So(tracks, ShouldNotBeNil)
				So(tracks, ShouldBeEmpty)
			})
		})

		Convey("When an unknown kind is listed", func() {
			_, err := client.ListTracks(context.Background(), "podcasts")

			Convey("Then it should fail before any request", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a server url with an unsupported scheme", t, func() {
		_, err := New("ftp://host")

		Convey("Then the client should not be created", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func wsServer(frames ...string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/scan/music" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		_, _, _ = conn.ReadMessage()
	}))
}

func TestScanWebsocket(t *testing.T) {
	Convey("Given a websocket that streams logs then finishes", t, func() {
		srv := wsServer(
			`{"type":"log","line":"scanning /music"}`,
			`not json`,
			`{"type":"log","line":"converted 2 files"}`,
			`{"type":"done","result":{"converted":2}}`,
		)
		defer srv.Close()

		client, _ := New(srv.URL)
		var lines []string

		Convey("When a scan is triggered", func() {
			result, err := client.Scan(context.Background(), "music", func(line string) {
				lines = append(lines, line)
			})

			Convey("Then every line and the result should be delivered", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldResemble, []string{"scanning /music", "converted 2 files"})
				So(string(result.Result), ShouldEqual, `{"converted":2}`)
			})
		})
	})

	Convey("Given a websocket that reports a running scan", t, func() {
		srv := wsServer(`{"type":"error","message":"music scan already running"}`)
		defer srv.Close()

		client, _ := New(srv.URL)

		Convey("When a scan is triggered", func() {
			_, err := client.Scan(context.Background(), "music", nil)

			Convey("Then ErrScanRunning should be returned", func() {
				So(errors.Is(err, ErrScanRunning), ShouldBeTrue)
			})
		})
	})

	Convey("Given a websocket that debounces", t, func() {
		srv := wsServer(`{"type":"error","message":"debounced, retry in ~12s"}`)
		defer srv.Close()

		client, _ := New(srv.URL)

		Convey("When a scan is triggered", func() {
			_, err := client.Scan(context.Background(), "music", nil)

			Convey("Then the retry hint should be parsed", func() {
				var debounced *DebouncedError
				So(errors.Is(err, ErrScanDebounced), ShouldBeTrue)
				So(errors.As(err, &debounced), ShouldBeTrue)
				So(debounced.RetryAfter, ShouldEqual, 12*time.Second)
				So(Describe(err), ShouldContainSubstring, "12 seconds")
			})
		})
	})
}

func TestScanFallback(t *testing.T) {
	Convey("Given a server without the websocket endpoint", t, func() {
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/scan/music" {
				http.NotFound(w, r)
				return
			}
			switch status {
			case http.StatusOK:
				fmt.Fprint(w, `{"result":{"converted":1},"logs":["one","two"]}`)
			case http.StatusTooManyRequests:
				http.Error(w, "scan debounced ~30s", status)
			default:
				http.Error(w, "busy", status)
			}
		}))
		defer srv.Close()

		client, _ := New(srv.URL)
		var lines []string
		onLog := func(line string) { lines = append(lines, line) }

		Convey("When a scan succeeds", func() {
			result, err := client.Scan(context.Background(), "music", onLog)

			Convey("Then the returned logs should be replayed", func() {
				So(err, ShouldBeNil)
				So(lines, ShouldResemble, []string{"one", "two"})
				So(result.Logs, ShouldHaveLength, 2)
			})
		})

		Convey("When the server answers 409", func() {
			status = http.StatusConflict
			_, err := client.Scan(context.Background(), "music", onLog)

			Convey("Then ErrScanRunning should be returned", func() {
				So(err, ShouldEqual, ErrScanRunning)
			})
		})

		Convey("When the server answers 429", func() {
			status = http.StatusTooManyRequests
			_, err := client.Scan(context.Background(), "music", onLog)

			Convey("Then a debounce with its hint should be returned", func() {
				var debounced *DebouncedError
				So(errors.As(err, &debounced), ShouldBeTrue)
				So(debounced.RetryAfter, ShouldEqual, 30*time.Second)
			})
		})

		Convey("When the server answers anything else", func() {
			status = http.StatusInternalServerError
			_, err := client.Scan(context.Background(), "music", onLog)

			Convey("Then the status should be in the error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "500")
				So(errors.Is(err, ErrScanRunning), ShouldBeFalse)
			})
		})
	})
}

func TestLogBuffer(t *testing.T) {
	Convey("Given a buffer of three lines", t, func() {
		b := NewLogBuffer(3)

		Convey("When five lines are appended", func() {
			for i := 1; i <= 5; i++ {
				b.Append(fmt.Sprintf("line %d", i))
			}

			Convey("Then only the last three should remain", func() {
				So(b.Lines(), ShouldResemble, []string{"line 3", "line 4", "line 5"})
				So(b.Len(), ShouldEqual, 3)
			})
		})

		Convey("When reset", func() {
			b.Append("x")
			b.Reset()

			Convey("Then it should be empty", func() {
				So(b.Lines(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a buffer with no limit", t, func() {
		Convey("Then the default limit should apply", func() {
			b := NewLogBuffer(0)
			for i := 0; i < MaxLogLines+10; i++ {
				b.Append(strings.Repeat("x", 1))
			}
			So(b.Len(), ShouldEqual, MaxLogLines)
		})
	})
}
