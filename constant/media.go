package constant

// HLSMimeType is the container type probed on the playback element before falling back to the adaptive engine.
const HLSMimeType = "application/vnd.apple.mpegurl"

// Catalog kinds served by the media library.
const (
	KindMusic = "music"
	KindVideo = "video"
)
