package engine

import (
	"github.com/haze-fm/haze/internal/metadata"
	"github.com/haze-fm/haze/internal/playlist"
)

// State returns the engine's current top-level playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Shuffle reports whether shuffle is currently enabled.
func (e *Engine) Shuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shuffleOn
}

// ActivePlaylistName returns the active playlist's name, or "" if none.
func (e *Engine) ActivePlaylistName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return ""
	}
	return e.active.Name
}

// PendingPlaylistName returns the name queued for activation at the next
// natural track end, or "" if no switch is pending.
func (e *Engine) PendingPlaylistName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingName
}

// CurrentTrack returns the track currently playing (or about to play).
func (e *Engine) CurrentTrack() playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTrack
}

// CurrentMeta returns the metadata read for the current track.
func (e *Engine) CurrentMeta() metadata.TrackMetadata {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentMeta
}

// Playlists returns the names of every discovered playlist, in discovery
// order.
func (e *Engine) Playlists() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playlists.Names()
}
