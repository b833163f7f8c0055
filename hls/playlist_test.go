package hls

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const masterPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=128000,CODECS="mp4a.40.2"
low/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=320000,CODECS="mp4a.40.2,avc1.64001f",RESOLUTION=640x360
mid/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2560000,RESOLUTION=1920x1080
high/index.m3u8
`

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.000,
seg0.ts
#EXTINF:9.500,
seg1.ts
#EXT-X-ENDLIST
`

func TestParse(t *testing.T) {
	Convey("Given a master playlist", t, func() {
		pl, err := Parse(strings.NewReader(masterPlaylist))

		Convey("Then every variant should be read in order", func() {
			So(err, ShouldBeNil)
			So(pl.Master, ShouldBeTrue)
			So(pl.Variants, ShouldHaveLength, 3)
			So(pl.Variants[0].URI, ShouldEqual, "low/index.m3u8")
			So(pl.Variants[1].Codecs, ShouldEqual, "mp4a.40.2,avc1.64001f")
			So(pl.Variants[1].Resolution, ShouldEqual, "640x360")
			So(pl.Variants[2].Bandwidth, ShouldEqual, 2560000)
		})
	})

	Convey("Given a media playlist", t, func() {
		pl, err := Parse(strings.NewReader(mediaPlaylist))

		Convey("Then segments and timing should be read", func() {
			So(err, ShouldBeNil)
			So(pl.Master, ShouldBeFalse)
			So(pl.Segments, ShouldHaveLength, 2)
			So(pl.TargetDuration, ShouldEqual, 10*time.Second)
			So(pl.TotalDuration, ShouldEqual, 19500*time.Millisecond)
			So(pl.IsVOD, ShouldBeTrue)
		})
	})

	Convey("Given input without the header", t, func() {
		_, err := Parse(strings.NewReader("<html></html>"))

		Convey("Then it should be rejected", func() {
			So(err, ShouldEqual, ErrNotPlaylist)
		})
	})

	Convey("Given empty input", t, func() {
		_, err := Parse(strings.NewReader(""))

		Convey("Then it should be rejected", func() {
			So(err, ShouldEqual, ErrNotPlaylist)
		})
	})

	Convey("Given a broken EXTINF", t, func() {
		_, err := Parse(strings.NewReader("#EXTM3U\n#EXTINF:abc,\nseg.ts\n"))

		Convey("Then an error should be returned", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSelectVariant(t *testing.T) {
	Convey("Given variants out of order", t, func() {
		variants := []Variant{
			{URI: "high", Bandwidth: 2560000},
			{URI: "low", Bandwidth: 128000},
			{URI: "mid", Bandwidth: 320000},
		}

		Convey("When there is no limit", func() {
			Convey("Then the highest should win", func() {
				So(SelectVariant(variants, 0).URI, ShouldEqual, "high")
			})
		})

		Convey("When the limit falls between variants", func() {
			Convey("Then the highest one under it should win", func() {
				So(SelectVariant(variants, 1000000).URI, ShouldEqual, "mid")
			})
		})

		Convey("When the limit is below every variant", func() {
			Convey("Then the lowest should win", func() {
				So(SelectVariant(variants, 1000).URI, ShouldEqual, "low")
			})
		})
	})
}

func TestEstimator(t *testing.T) {
	Convey("Given an estimator", t, func() {
		e := &Estimator{}

		Convey("When only tiny downloads are sampled", func() {
			e.Sample(512, time.Millisecond)

			Convey("Then no estimate should exist", func() {
				So(e.Estimate(), ShouldEqual, 0)
			})
		})

		Convey("When a large download is sampled", func() {
			e.Sample(125000, time.Second)

			Convey("Then the estimate should be its throughput", func() {
				So(e.Estimate(), ShouldEqual, 1000000)
			})
		})
	})
}
