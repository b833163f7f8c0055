package playback

// Event is an input to Reduce.
type Event interface {
	event()
}

// Element-originated events.
type (
	Attached       struct{}
	Detached       struct{}
	MetadataLoaded struct{ Duration float64 }
	TimeUpdate     struct{ Time float64 }
	Progress       struct{ BufferedEnd float64 }
	Played         struct{}
	Paused         struct{}
	CanPlay        struct{}
	Ended          struct{}
)

// VolumeChanged reports the element's level and mute flag.
type VolumeChanged struct {
	Level float64
	Muted bool
}

// User-originated events.
type (
	DragStart  struct{ Percent float64 }
	DragMove   struct{ Percent float64 }
	DragCommit struct{}
	Committed  struct{}
	TogglePlay struct{}
	Step       struct{ Delta float64 }
	SetLevel   struct{ Level float64 }
	Nudge      struct{ Delta float64 }
	ToggleMute struct{}
)

func (Attached) event()       {}
func (Detached) event()       {}
func (MetadataLoaded) event() {}
func (TimeUpdate) event()     {}
func (Progress) event()       {}
func (Played) event()         {}
func (Paused) event()         {}
func (CanPlay) event()        {}
func (VolumeChanged) event()  {}
func (Ended) event()          {}
func (DragStart) event()      {}
func (DragMove) event()       {}
func (DragCommit) event()     {}
func (Committed) event()      {}
func (TogglePlay) event()     {}
func (Step) event()           {}
func (SetLevel) event()       {}
func (Nudge) event()          {}
func (ToggleMute) event()     {}

// Effect is a command the reducer asks the element to perform.
type Effect interface {
	effect()
}

type (
	Pause     struct{}
	Play      struct{}
	Seek      struct{ Time float64 }
	SetVolume struct{ Level float64 }
	SetMuted  struct{ Muted bool }
)

func (Pause) effect()     {}
func (Play) effect()      {}
func (Seek) effect()      {}
func (SetVolume) effect() {}
func (SetMuted) effect()  {}
