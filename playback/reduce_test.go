package playback

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func run(s State, events ...Event) (State, []Effect) {
	var all []Effect
	for _, e := range events {
		var effects []Effect
		s, effects = Reduce(s, e)
		all = append(all, effects...)
	}
	return s, all
}

func playing(duration float64) State {
	s, _ := run(Initial(1),
		Attached{},
		MetadataLoaded{Duration: duration},
		CanPlay{},
		Played{},
		TimeUpdate{Time: 30},
	)
	return s
}

func TestAttach(t *testing.T) {
	Convey("Given a session with progress", t, func() {
		s := playing(200)
		s, _ = Reduce(s, VolumeChanged{Level: 0.4, Muted: true})

		Convey("When a new source is attached", func() {
			s, effects := Reduce(s, Attached{})

			Convey("Then per-source fields should be reset", func() {
				So(effects, ShouldBeEmpty)
				So(s.Phase, ShouldEqual, Live)
				So(s.Ready, ShouldBeFalse)
				So(s.Playing, ShouldBeFalse)
				So(s.CurrentTime, ShouldEqual, 0)
				So(math.IsNaN(s.Duration), ShouldBeTrue)
				So(s.BufferedEnd, ShouldEqual, 0)
			})

			Convey("Then volume and mute should survive", func() {
				So(s.Volume, ShouldEqual, 0.4)
				So(s.Muted, ShouldBeTrue)
			})
		})
	})

	Convey("Given an idle state", t, func() {
		s := Initial(1)

		Convey("When clock events arrive", func() {
			s, _ = run(s, MetadataLoaded{Duration: 10}, TimeUpdate{Time: 4}, Played{})

			Convey("Then they should be ignored", func() {
				So(s.Phase, ShouldEqual, Idle)
				So(s.CurrentTime, ShouldEqual, 0)
				So(s.Playing, ShouldBeFalse)
			})
		})
	})
}

func TestDisplayBeforeReady(t *testing.T) {
	Convey("Given a session whose clock runs before the source is ready", t, func() {
		s, _ := run(Initial(1), Attached{}, TimeUpdate{Time: 150})
		s.Duration = 200

		Convey("Then the bar should stay at the start", func() {
			So(s.Ready, ShouldBeFalse)
			So(s.DisplayPercent(), ShouldEqual, 0)
		})

		Convey("When the source becomes ready", func() {
			s, _ = Reduce(s, CanPlay{})

			Convey("Then the clock should show", func() {
				So(s.DisplayPercent(), ShouldEqual, 75)
			})
		})
	})
}

func TestDrag(t *testing.T) {
	Convey("Given a playing session of 200 seconds", t, func() {
		s := playing(200)

		Convey("When a drag starts", func() {
			s, effects := Reduce(s, DragStart{Percent: 10})

			Convey("Then playback should pause and the preview should show", func() {
				So(effects, ShouldResemble, []Effect{Pause{}})
				So(s.Phase, ShouldEqual, Dragging)
				So(s.Drag.WasPlaying, ShouldBeTrue)
				So(s.DisplayPercent(), ShouldEqual, 10)
			})

			Convey("And clock ticks arrive while dragging", func() {
				s, _ = run(s, TimeUpdate{Time: 31}, DragMove{Percent: 50}, TimeUpdate{Time: 32})

				Convey("Then every tick should be discarded", func() {
					So(s.CurrentTime, ShouldEqual, 30)
					So(s.DisplayPercent(), ShouldEqual, 50)
					So(s.DisplayTime(), ShouldEqual, 100)
				})
			})

			Convey("And the drag moves past the end", func() {
				s, _ = Reduce(s, DragMove{Percent: 180})

				Convey("Then the preview should clamp", func() {
					So(s.Drag.PreviewPercent, ShouldEqual, 100)
				})
			})

			Convey("And the drag commits", func() {
				s, _ = Reduce(s, DragMove{Percent: 50})
				s, effects = Reduce(s, DragCommit{})

				Convey("Then a seek should be followed by play", func() {
					So(effects, ShouldResemble, []Effect{Seek{Time: 100}, Play{}})
					So(s.Phase, ShouldEqual, Committing)
					So(s.CurrentTime, ShouldEqual, 100)
					So(s.DisplayPercent(), ShouldEqual, 50)
				})

				Convey("Then the position should not jump back once live", func() {
					s, _ = run(s, Committed{}, TimeUpdate{Time: 100.2})
					So(s.Phase, ShouldEqual, Live)
					So(s.Drag, ShouldResemble, Drag{})
					So(s.DisplayPercent(), ShouldAlmostEqual, 50.1)
				})
			})
		})
	})

	Convey("Given a paused session", t, func() {
		s, _ := Reduce(playing(200), Paused{})

		Convey("When a drag starts and commits", func() {
			s, started := Reduce(s, DragStart{Percent: 25})
			s, committed := Reduce(s, DragCommit{})

			Convey("Then it should seek without resuming", func() {
				So(started, ShouldBeEmpty)
				So(committed, ShouldResemble, []Effect{Seek{Time: 50}})
				So(s.Playing, ShouldBeFalse)
			})
		})
	})

	Convey("Given a playing session without a known duration", t, func() {
		s, _ := run(Initial(1), Attached{}, CanPlay{}, Played{})

		Convey("When a drag commits", func() {
			s, _ := Reduce(s, DragStart{Percent: 40})
			s, effects := Reduce(s, DragCommit{})

			Convey("Then the seek should be aborted, drag cleared, playback resumed", func() {
				So(effects, ShouldResemble, []Effect{Play{}})
				So(s.Phase, ShouldEqual, Live)
				So(s.Drag, ShouldResemble, Drag{})
			})
		})
	})

	Convey("Given a session that is not ready", t, func() {
		s, _ := run(Initial(1), Attached{})

		Convey("When a drag commits", func() {
			s, _ := Reduce(s, DragStart{Percent: 40})
			s, effects := Reduce(s, DragCommit{})

			Convey("Then nothing should be sent to the element", func() {
				So(effects, ShouldBeEmpty)
				So(s.Phase, ShouldEqual, Live)
			})
		})
	})

	Convey("Given no drag", t, func() {
		s := playing(200)

		Convey("When stray moves and commits arrive", func() {
			next, effects := run(s, DragMove{Percent: 90}, DragCommit{}, Committed{})

			Convey("Then nothing should change", func() {
				So(effects, ShouldBeEmpty)
				So(next, ShouldResemble, s)
			})
		})
	})
}

func TestStep(t *testing.T) {
	Convey("Given a session that is not ready", t, func() {
		s, _ := Reduce(Initial(1), Attached{})

		Convey("When stepping", func() {
			_, effects := Reduce(s, Step{Delta: 5})

			Convey("Then nothing should be sought", func() {
				So(effects, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a session at 30 of 200 seconds", t, func() {
		s := playing(200)

		Convey("When stepping back past the start", func() {
			s, effects := Reduce(s, Step{Delta: -50})

			Convey("Then the target should clamp to zero", func() {
				So(effects, ShouldResemble, []Effect{Seek{Time: 0}})
				So(s.CurrentTime, ShouldEqual, 0)
			})
		})

		Convey("When stepping forward past the end", func() {
			_, effects := Reduce(s, Step{Delta: 500})

			Convey("Then the target should clamp to the duration", func() {
				So(effects, ShouldResemble, []Effect{Seek{Time: 200}})
			})
		})

		Convey("When stepping during a drag", func() {
			s, _ = Reduce(s, DragStart{Percent: 80})
			s, effects := Reduce(s, Step{Delta: 5})

			Convey("Then the drag should be left alone", func() {
				So(effects, ShouldResemble, []Effect{Seek{Time: 35}})
				So(s.Phase, ShouldEqual, Dragging)
				So(s.DisplayPercent(), ShouldEqual, 80)
			})
		})
	})
}

func TestBuffered(t *testing.T) {
	Convey("Given a session of 200 seconds", t, func() {
		s := playing(200)

		Convey("When progress arrives during a drag", func() {
			s, _ = run(s, DragStart{Percent: 5}, Progress{BufferedEnd: 50})

			Convey("Then the buffered fraction should still update", func() {
				So(s.BufferedPercent(), ShouldEqual, 25)
			})
		})

		Convey("When progress is negative", func() {
			s, _ = Reduce(s, Progress{BufferedEnd: -3})

			Convey("Then it should floor at zero", func() {
				So(s.BufferedEnd, ShouldEqual, 0)
			})
		})
	})
}

func TestVolume(t *testing.T) {
	Convey("Given an idle state", t, func() {
		s := Initial(0.5)

		Convey("When the level is pushed past full", func() {
			s, effects := Reduce(s, SetLevel{Level: 1.3})

			Convey("Then it should clamp", func() {
				So(s.Volume, ShouldEqual, 1)
				So(effects, ShouldResemble, []Effect{SetVolume{Level: 1}, SetMuted{Muted: false}})
			})
		})

		Convey("When nudged up twice", func() {
			s, _ = run(s, Nudge{Delta: 0.05}, Nudge{Delta: 0.05})

			Convey("Then the level should rise by both steps", func() {
				So(s.Volume, ShouldAlmostEqual, 0.6)
			})
		})

		Convey("When the level drops to zero", func() {
			s, _ = Reduce(s, SetLevel{Level: -0.2})

			Convey("Then the session should read as muted", func() {
				So(s.Volume, ShouldEqual, 0)
				So(s.Muted, ShouldBeTrue)
			})
		})

		Convey("When mute is toggled twice", func() {
			s, first := Reduce(s, ToggleMute{})
			s, second := Reduce(s, ToggleMute{})

			Convey("Then it should flip on and off", func() {
				So(first, ShouldResemble, []Effect{SetMuted{Muted: true}})
				So(second, ShouldResemble, []Effect{SetMuted{Muted: false}})
				So(s.Muted, ShouldBeFalse)
			})
		})
	})
}

func TestTogglePlay(t *testing.T) {
	Convey("Given a live session", t, func() {
		s := playing(200)

		Convey("When toggled while playing", func() {
			_, effects := Reduce(s, TogglePlay{})

			Convey("Then it should pause", func() {
				So(effects, ShouldResemble, []Effect{Pause{}})
			})
		})

		Convey("When toggled while paused", func() {
			s, _ = Reduce(s, Paused{})
			_, effects := Reduce(s, TogglePlay{})

			Convey("Then it should play", func() {
				So(effects, ShouldResemble, []Effect{Play{}})
			})
		})
	})
}
