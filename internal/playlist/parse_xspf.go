package playlist

import (
	"encoding/xml"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type xspfPlaylist struct {
	XMLName   xml.Name      `xml:"playlist"`
	TrackList xspfTrackList `xml:"trackList"`
}

type xspfTrackList struct {
	Tracks []xspfTrack `xml:"track"`
}

type xspfTrack struct {
	Location   string `xml:"location"`
	Title      string `xml:"title"`
	DurationMS string `xml:"duration"`
}

// parseXSPF reads an XSPF playlist (http://xspf.org/ns/0/). Only the
// location, title and duration elements are consulted; anything else in the
// format (extensions, identifiers, images) is ignored, mirroring what the
// engine actually needs from a track entry.
func parseXSPF(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc xspfPlaylist
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)

	var tracks []Track
	for _, t := range doc.TrackList.Tracks {
		if t.Location == "" {
			continue
		}

		resolved, err := resolveXSPFLocation(t.Location, base)
		if err != nil {
			continue
		}

		if _, statErr := os.Stat(resolved); statErr != nil {
			continue
		}

		var duration float64
		if t.DurationMS != "" {
			if ms, err := strconv.ParseFloat(t.DurationMS, 64); err == nil {
				duration = ms / 1000.0
			}
		}

		tracks = append(tracks, Track{
			Path:     resolved,
			Title:    t.Title,
			Duration: duration,
		})
	}

	return tracks, nil
}

func resolveXSPFLocation(location, base string) (string, error) {
	switch {
	case strings.HasPrefix(location, "file:///"), strings.HasPrefix(location, "file://"):
		p, err := url.PathUnescape(location[len("file://"):])
		if err != nil {
			return "", err
		}
		return filepath.Abs(p)
	default:
		p, err := url.PathUnescape(location)
		if err != nil {
			p = location
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return filepath.Abs(p)
	}
}
