package catalog

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilter(t *testing.T) {
	tracks := []Track{
		{ID: "1", Artist: "Nujabes", Title: "Aruarian Dance"},
		{ID: "2", Artist: "Nujabes", Title: "Feather"},
		{ID: "3", Artist: "Fat Jon", Title: "Your Purpose"},
	}

	Convey("Given a small catalog", t, func() {
		Convey("When the query is empty", func() {
			Convey("Then every track should be kept in order", func() {
				So(Filter(tracks, "  "), ShouldResemble, tracks)
			})
		})

		Convey("When the query matches one artist", func() {
			got := Filter(tracks, "NUJA")

			Convey("Then only that artist's tracks should be returned", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "1")
				So(got[1].ID, ShouldEqual, "2")
			})
		})

		Convey("When the query matches nothing", func() {
			Convey("Then the result should be empty", func() {
				So(Filter(tracks, "zzz"), ShouldBeEmpty)
			})
		})
	})
}

func TestFind(t *testing.T) {
	tracks := []Track{
		{ID: "feather", Title: "Aruarian Dance"},
		{ID: "2", Title: "Feather"},
	}

	Convey("Given a catalog", t, func() {
		Convey("Then an exact id should win over a title match", func() {
			So(Find(tracks, "feather").MustGet().Title, ShouldEqual, "Aruarian Dance")
		})

		Convey("Then a partial title should pick the closest track", func() {
			So(Find(tracks, "aruar").MustGet().ID, ShouldEqual, "feather")
		})

		Convey("Then no match should yield none", func() {
			So(Find(tracks, "nothing here").IsPresent(), ShouldBeFalse)
			So(Find(tracks, "").IsPresent(), ShouldBeFalse)
		})
	})
}
