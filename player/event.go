package player

// EventKind enumerates element lifecycle and timing notifications.
type EventKind int

const (
	// LoadedMetadata carries the duration in Value. NaN while unknown.
	LoadedMetadata EventKind = iota
	// TimeUpdate carries the current position in Value.
	TimeUpdate
	// Progress carries the end of the buffered range in Value.
	Progress
	Play
	Pause
	CanPlay
	// VolumeChange carries the level in Value and the mute flag in Muted.
	VolumeChange
	Ended
)

var eventKindNames = map[EventKind]string{
	LoadedMetadata: "loadedmetadata",
	TimeUpdate:     "timeupdate",
	Progress:       "progress",
	Play:           "play",
	Pause:          "pause",
	CanPlay:        "canplay",
	VolumeChange:   "volumechange",
	Ended:          "ended",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a single notification emitted by an Element.
type Event struct {
	Kind  EventKind
	Value float64
	Muted bool
}
