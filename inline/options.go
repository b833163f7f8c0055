package inline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samber/mo"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/util"
)

// Picker narrows a listing down to one track, or none.
type Picker func([]catalog.Track) mo.Option[catalog.Track]

type Options struct {
	Out    io.Writer
	Client *catalog.Client
	Kind   string
	Query  string
	Json   bool
	// Cached allows the offline copy when the server is unreachable.
	Cached bool
	Picker mo.Option[Picker]
}

// ParsePicker accepts "first", "last", "id" with a value, or "index" with a value.
func ParsePicker(kind, value string) (Picker, error) {
	switch kind {
	case "first":
		return func(tracks []catalog.Track) mo.Option[catalog.Track] {
			if len(tracks) == 0 {
				return mo.None[catalog.Track]()
			}
			return mo.Some(tracks[0])
		}, nil
	case "last":
		return func(tracks []catalog.Track) mo.Option[catalog.Track] {
			if len(tracks) == 0 {
				return mo.None[catalog.Track]()
			}
			return mo.Some(tracks[len(tracks)-1])
		}, nil
	case "id":
		return func(tracks []catalog.Track) mo.Option[catalog.Track] {
			for _, t := range tracks {
				if t.ID == value {
					return mo.Some(t)
				}
			}
			return mo.None[catalog.Track]()
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(tracks []catalog.Track) mo.Option[catalog.Track] {
			if len(tracks) == 0 {
				return mo.None[catalog.Track]()
			}
			return mo.Some(tracks[util.Min(idx, uint64(len(tracks)-1))])
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}
