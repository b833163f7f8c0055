package inline

import (
	"encoding/json"

	"github.com/samber/lo"
	"github.com/tunedeck/tunedeck/catalog"
)

type Track struct {
	// Track is the entry as served by the library.
	Track catalog.Track `json:"track"`
	// Stream is the absolute URL the player would open.
	Stream string `json:"stream" jsonschema:"format=uri"`
}

type Output struct {
	Kind    string   `json:"kind"`
	Query   string   `json:"query,omitempty"`
	Offline bool     `json:"offline"`
	Result  []*Track `json:"result"`
}

func asJson(client *catalog.Client, tracks []catalog.Track, options *Options, offline bool) ([]byte, error) {
	return json.Marshal(&Output{
		Kind:    options.Kind,
		Query:   options.Query,
		Offline: offline,
		Result: lo.Map(tracks, func(t catalog.Track, _ int) *Track {
			return &Track{Track: t, Stream: client.StreamURL(t)}
		}),
	})
}
