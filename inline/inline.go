// Package inline implements the non-interactive listing mode used by scripts.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/log"
)

func Run(ctx context.Context, options *Options) error {
	if options.Client == nil {
		return errors.New("inline: no catalog client")
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}

	tracks, err := options.Client.ListTracks(ctx, options.Kind)
	offline := false
	if err != nil {
		cached, ok := options.Client.Cached(options.Kind)
		if !options.Cached || !ok {
			return err
		}
		log.Warnf("inline: %v, using cached playlist", err)
		tracks, offline = cached, true
	}

	tracks = catalog.Filter(tracks, options.Query)

	if options.Picker.IsPresent() {
		picked, ok := options.Picker.MustGet()(tracks).Get()
		if ok {
			tracks = []catalog.Track{picked}
		} else {
			tracks = nil
		}
	}

	if options.Json {
		return writeJson(options.Out, tracks, options, offline)
	}

	for _, t := range tracks {
		if _, err := fmt.Fprintf(options.Out, "%s\t%s\t%s\n", t.ID, t, options.Client.StreamURL(t)); err != nil {
			return err
		}
	}

	return nil
}

func writeJson(out io.Writer, tracks []catalog.Track, options *Options, offline bool) error {
	data, err := asJson(options.Client, tracks, options, offline)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
