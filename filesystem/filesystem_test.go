package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBackend(t *testing.T) {
	Convey("Given the backend switches", t, func() {
		Convey("Then the os filesystem should be the default", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Then the memory filesystem should be swappable", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given the gache adapter on memory", t, func() {
		SetMemMapFs()
		dir := filepath.Join("/", "cache", "catalog")
		path := filepath.Join(dir, "music.json")

		Convey("When a file is written through it", func() {
			So(GacheFs{}.MkdirAll(dir, 0o755), ShouldBeNil)
			f := lo.Must(GacheFs{}.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644))
			_, err := f.Write([]byte(`[]`))
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			Convey("Then the backend should see it", func() {
				So(string(lo.Must(API().ReadFile(path))), ShouldEqual, "[]")
			})
		})
	})
}
