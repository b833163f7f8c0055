package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

var tracks = []catalog.Track{
	{ID: "a1", Artist: "Nujabes", Title: "Aruarian Dance", HLSURL: "/hls/music/a1/playlist.m3u8", HasHLS: true},
	{ID: "b2", Artist: "Nujabes", Title: "Feather", OriginalFile: "/media/music/b2.flac"},
	{ID: "c3", Artist: "Fat Jon", Title: "Your Purpose", OriginalFile: "/media/music/c3.mp3"},
}

func newServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tracks)
	}))
}

func TestRun(t *testing.T) {
	Convey("Given a library server", t, func() {
		srv := newServer()
		defer srv.Close()

		client := lo.Must(catalog.New(srv.URL))
		var buf bytes.Buffer

		Convey("When listing as plain text", func() {
			err := Run(context.Background(), &Options{Out: &buf, Client: client, Kind: constant.KindMusic})

			Convey("Then one line per track should be printed", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldEqual, "a1\tNujabes - Aruarian Dance\t"+srv.URL+"/hls/music/a1/playlist.m3u8")
			})
		})

		Convey("When listing as json with a query", func() {
			err := Run(context.Background(), &Options{Out: &buf, Client: client, Kind: constant.KindMusic, Query: "feather", Json: true})

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)

			Convey("Then only the match should be included", func() {
				So(err, ShouldBeNil)
				So(output.Kind, ShouldEqual, constant.KindMusic)
				So(output.Query, ShouldEqual, "feather")
				So(output.Offline, ShouldBeFalse)
				So(output.Result, ShouldHaveLength, 1)
				So(output.Result[0].Track.ID, ShouldEqual, "b2")
				So(output.Result[0].Stream, ShouldEqual, srv.URL+"/media/music/b2.flac")
			})
		})

		Convey("When a picker is set", func() {
			picker := lo.Must(ParsePicker("last", ""))
			err := Run(context.Background(), &Options{Out: &buf, Client: client, Kind: constant.KindMusic, Picker: mo.Some(picker)})

			Convey("Then only the picked track should be printed", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldStartWith, "c3\t")
				So(strings.Count(buf.String(), "\n"), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a server that went away", t, func() {
		srv := newServer()
		client := lo.Must(catalog.New(srv.URL))
		So(Run(context.Background(), &Options{Out: &bytes.Buffer{}, Client: client, Kind: constant.KindVideo}), ShouldBeNil)
		srv.Close()

		var buf bytes.Buffer

		Convey("When the offline copy is allowed", func() {
			err := Run(context.Background(), &Options{Out: &buf, Client: client, Kind: constant.KindVideo, Json: true, Cached: true})

			Convey("Then the cached listing should be marked offline", func() {
				So(err, ShouldBeNil)
				var output Output
				So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
				So(output.Offline, ShouldBeTrue)
				So(output.Result, ShouldHaveLength, 3)
			})
		})

		Convey("When the offline copy is not allowed", func() {
			err := Run(context.Background(), &Options{Out: &buf, Client: client, Kind: constant.KindVideo})

			Convey("Then the error should be returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestParsePicker(t *testing.T) {
	Convey("Given the picker kinds", t, func() {
		Convey("Then index should clamp to the last track", func() {
			picker := lo.Must(ParsePicker("index", "9"))
			So(picker(tracks).MustGet().ID, ShouldEqual, "c3")
		})

		Convey("Then id should match exactly", func() {
			picker := lo.Must(ParsePicker("id", "b2"))
			So(picker(tracks).MustGet().ID, ShouldEqual, "b2")
			So(picker(tracks[:1]).IsAbsent(), ShouldBeTrue)
		})

		Convey("Then first on an empty listing should pick nothing", func() {
			picker := lo.Must(ParsePicker("first", ""))
			So(picker(nil).IsAbsent(), ShouldBeTrue)
		})

		Convey("Then unknown kinds and bad indexes should fail", func() {
			_, err := ParsePicker("random", "")
			So(err, ShouldNotBeNil)
			_, err = ParsePicker("index", "x")
			So(err, ShouldNotBeNil)
		})
	})
}
