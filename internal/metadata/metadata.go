// Package metadata reads display metadata and cover art from audio files
// (C2) and writes the now-playing sidecar files the engine publishes for
// external collaborators.
package metadata

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// TrackMetadata is the display-facing metadata for whatever track is
// currently active, independent of the audio container format it came from.
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Year        string
	Duration    float64

	Art     []byte
	ArtMIME string
}

// DisplayTitle returns Title, falling back to the file's base name (without
// extension) when no tag supplied one.
func (m TrackMetadata) DisplayTitle(path string) string {
	if m.Title != "" {
		return m.Title
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasArt reports whether embedded cover art was found.
func (m TrackMetadata) HasArt() bool {
	return len(m.Art) > 0
}

// Read extracts display metadata and cover art from the audio file at path
// using the format-agnostic dhowden/tag reader (which already dispatches
// internally across ID3, FLAC, Vorbis comments, MP4 atoms and ASF), so no
// per-container branch is needed here.
func Read(path string) (TrackMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("metadata: failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("metadata: failed to read tags from %s: %w", path, err)
	}

	md := TrackMetadata{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if year := m.Year(); year != 0 {
		s := strconv.Itoa(year)
		if len(s) > 4 {
			s = s[:4]
		}
		md.Year = s
	}
	if num, _ := m.Track(); num != 0 {
		md.TrackNumber = num
	}
	if pic := m.Picture(); pic != nil {
		md.Art = pic.Data
		if pic.MIMEType != "" {
			md.ArtMIME = pic.MIMEType
		} else {
			md.ArtMIME = "image/jpeg"
		}
	}

	return md, nil
}

// ArtSidecarPath is the default location the engine writes the current
// track's cover art to.
const ArtSidecarPath = "now_playing_art.jpg"

// SaveArt writes m.Art to path, or removes path if m has no art. A missing
// file being removed is not an error.
func (m TrackMetadata) SaveArt(path string) error {
	if !m.HasArt() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("metadata: failed to remove %s: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, m.Art, 0644); err != nil {
		return fmt.Errorf("metadata: failed to write %s: %w", path, err)
	}
	return nil
}

// NowPlayingFields is the full set of key=value lines written to
// now_playing.txt, matching spec.md's §6 sidecar contract. The original
// Python implementation only ever wrote title/artist/timestamp.
type NowPlayingFields struct {
	Title     string
	Artist    string
	Album     string
	Year      string
	Duration  float64
	Playlist  string
	File      string
	Timestamp time.Time
}

// WriteNowPlaying renders fields as "key=value" lines, one per line, UTF-8,
// to path.
func WriteNowPlaying(path string, fields NowPlayingFields) error {
	var b strings.Builder
	fmt.Fprintf(&b, "title=%s\n", fields.Title)
	fmt.Fprintf(&b, "artist=%s\n", fields.Artist)
	fmt.Fprintf(&b, "album=%s\n", fields.Album)
	fmt.Fprintf(&b, "year=%s\n", fields.Year)
	fmt.Fprintf(&b, "duration=%.2f\n", fields.Duration)
	fmt.Fprintf(&b, "playlist=%s\n", fields.Playlist)
	fmt.Fprintf(&b, "file=%s\n", fields.File)
	fmt.Fprintf(&b, "timestamp=%s\n", fields.Timestamp.UTC().Format(time.RFC3339))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("metadata: failed to write %s: %w", path, err)
	}
	return nil
}

// ReadOrWarn reads metadata for path, logging and returning a zero-value
// TrackMetadata on failure rather than aborting playback — a track with
// unreadable tags still plays, it just shows up with a filename title.
func ReadOrWarn(path string) TrackMetadata {
	md, err := Read(path)
	if err != nil {
		log.Printf("metadata: %v", err)
		return TrackMetadata{}
	}
	return md
}
