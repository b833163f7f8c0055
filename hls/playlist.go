// Package hls is the adaptive-bitrate engine used when the playback element
// cannot open HLS manifests itself. It resolves a master playlist to one
// media playlist and hands that to the element.
package hls

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNotPlaylist is returned when the input lacks the #EXTM3U header.
var ErrNotPlaylist = errors.New("not an m3u8 playlist")

// Variant is one #EXT-X-STREAM-INF entry of a master playlist.
type Variant struct {
	URI        string
	Bandwidth  int
	Resolution string
	Codecs     string
}

// Segment is one media segment of a media playlist.
type Segment struct {
	URI      string
	Duration time.Duration
}

// Playlist is either a master playlist (Variants set) or a media playlist (Segments set).
type Playlist struct {
	Master         bool
	Variants       []Variant
	Segments       []Segment
	TargetDuration time.Duration
	TotalDuration  time.Duration
	IsVOD          bool // #EXT-X-PLAYLIST-TYPE:VOD or #EXT-X-ENDLIST
}

// Parse reads an m3u8 playlist.
func Parse(r io.Reader) (*Playlist, error) {
	scanner := bufio.NewScanner(r)
	pl := &Playlist{}

	var (
		header       bool
		pending      *Variant
		nextDuration time.Duration
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !header {
			if line != "#EXTM3U" {
				return nil, ErrNotPlaylist
			}
			header = true
			continue
		}

		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			attrs := parseAttributes(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			bw, err := strconv.Atoi(attrs["BANDWIDTH"])
			if err != nil {
				return nil, fmt.Errorf("invalid BANDWIDTH: %q", attrs["BANDWIDTH"])
			}
			pending = &Variant{
				Bandwidth:  bw,
				Resolution: attrs["RESOLUTION"],
				Codecs:     attrs["CODECS"],
			}
			pl.Master = true

		case strings.HasPrefix(line, "#EXT-X-TARGETDURATION:"):
			secs, err := strconv.Atoi(strings.TrimPrefix(line, "#EXT-X-TARGETDURATION:"))
			if err != nil {
				return nil, fmt.Errorf("invalid target duration: %s", line)
			}
			pl.TargetDuration = time.Duration(secs) * time.Second

		case strings.HasPrefix(line, "#EXT-X-PLAYLIST-TYPE:VOD"), line == "#EXT-X-ENDLIST":
			pl.IsVOD = true

		case strings.HasPrefix(line, "#EXTINF:"):
			// Format: #EXTINF:10.000,
			durPart := strings.TrimPrefix(line, "#EXTINF:")
			if idx := strings.Index(durPart, ","); idx != -1 {
				durPart = durPart[:idx]
			}
			secs, err := strconv.ParseFloat(durPart, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid EXTINF duration: %s", durPart)
			}
			nextDuration = time.Duration(secs * float64(time.Second))

		case strings.HasPrefix(line, "#"):
			// unknown tags and comments

		default:
			if pending != nil {
				pending.URI = line
				pl.Variants = append(pl.Variants, *pending)
				pending = nil
				continue
			}

			pl.Segments = append(pl.Segments, Segment{URI: line, Duration: nextDuration})
			pl.TotalDuration += nextDuration
			nextDuration = 0
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !header {
		return nil, ErrNotPlaylist
	}

	if pl.Master && len(pl.Variants) == 0 {
		return nil, errors.New("master playlist without variant URIs")
	}

	return pl, nil
}

// parseAttributes splits an attribute list, honouring quoted values that contain commas.
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)

	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			break
		}
		name := strings.TrimSpace(s[:eq])
		s = s[eq+1:]

		var value string
		if strings.HasPrefix(s, `"`) {
			end := strings.IndexByte(s[1:], '"')
			if end < 0 {
				value, s = s[1:], ""
			} else {
				value, s = s[1:end+1], s[end+2:]
			}
		} else if comma := strings.IndexByte(s, ','); comma >= 0 {
			value, s = s[:comma], s[comma:]
		} else {
			value, s = s, ""
		}

		attrs[name] = value
		s = strings.TrimPrefix(s, ",")
	}

	return attrs
}
