package ui

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("When nothing was notified", func() {
			Convey("Then the view should be untouched", func() {
				So(m.View("a\nb"), ShouldEqual, "a\nb")
			})
		})

		Convey("When a notice arrives", func() {
			cmd := m.Update(Notify("scan started")())

			Convey("Then it should be shown on the last line", func() {
				So(cmd, ShouldNotBeNil)
				So(m.Current(), ShouldEqual, "scan started")
				lines := strings.Split(m.View("a\nb"), "\n")
				So(lines[0], ShouldEqual, "a")
				So(lines[1], ShouldContainSubstring, "scan started")
			})

			Convey("And a stale clear fires after a newer notice", func() {
				stale := ClearNotificationMsg{}
				m.Update("newer")
				m.Update(stale)

				Convey("Then the newer notice should stay", func() {
					So(m.Current(), ShouldEqual, "newer")
				})
			})

			Convey("And its own clear fires", func() {
				m.Update(ClearNotificationMsg{at: m.notifiedAt})

				Convey("Then the notice should be gone", func() {
					So(m.Current(), ShouldBeEmpty)
				})
			})
		})
	})
}
