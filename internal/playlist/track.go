// Package playlist discovers playlists on disk and parses playlist files.
package playlist

// Track is a single playable file. As discovered, Title and Duration are
// hints carried by the playlist file that referenced it (an M3U #EXTINF line
// or an XSPF <track> element); a zero Duration or empty Title means the
// playlist file didn't supply one. When the engine plays a track it replaces
// them with any non-empty values the metadata reader (internal/metadata)
// returns for the audio file.
type Track struct {
	Path     string
	Title    string
	Duration float64
}

// Playlist is an ordered, named collection of tracks.
type Playlist struct {
	Name   string
	Tracks []Track

	// Transition is this playlist's own switch policy override
	// ("immediate" or "finish_track"). Empty means "use the configured
	// default" — discovery never populates this (spec.md's file formats
	// carry no such field), so it is always empty for now and exists for
	// a future playlist-file extension or API-driven override.
	Transition string

	// SourcePath is the folder or playlist file this playlist was built
	// from, for display/debugging purposes only.
	SourcePath string
}

// TransitionOrDefault resolves the authoritative transition policy: this
// playlist's own value if set, else def (the configured default).
func (p *Playlist) TransitionOrDefault(def string) string {
	if p.Transition != "" {
		return p.Transition
	}
	return def
}

// Set is the full collection of playlists discovered under a root
// directory, keyed by name but remembering the order they were added in —
// spec.md's "ordering reflects discovery order" (the root-level "Default"
// playlist, when present, is always added first, exactly as
// original_source/haze/playlist.py's discover() inserts it into the
// playlists dict before walking the rest of root).
type Set struct {
	byName map[string]*Playlist
	order  []string
}

// Add inserts or replaces pl under its own name. Replacing an existing name
// keeps that name's original position in the order (the "last writer wins"
// rule in spec.md §4.1 governs which Playlist a name maps to, not where it
// sits in the list).
func (s *Set) Add(pl *Playlist) {
	if s.byName == nil {
		s.byName = map[string]*Playlist{}
	}
	if _, exists := s.byName[pl.Name]; !exists {
		s.order = append(s.order, pl.Name)
	}
	s.byName[pl.Name] = pl
}

// Get looks up a playlist by name.
func (s Set) Get(name string) (*Playlist, bool) {
	pl, ok := s.byName[name]
	return pl, ok
}

// Len reports how many playlists are in the set.
func (s Set) Len() int {
	return len(s.byName)
}

// Names returns every playlist name in discovery order.
func (s Set) Names() []string {
	return append([]string(nil), s.order...)
}
