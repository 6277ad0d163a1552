package engine

import "github.com/haze-fm/haze/internal/playlist"

// NextTrack advances the cursor/deck and plays the new current track. A
// no-op if there is no active playlist.
func (e *Engine) NextTrack() {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return
	}
	e.advanceLocked()
	e.playCurrentLocked(nil)
	e.mu.Unlock()

	e.notifyTrackChange()
}

// PrevTrack rewinds the cursor/deck and plays the new current track. A
// no-op if there is no active playlist.
func (e *Engine) PrevTrack() {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return
	}
	e.rewindLocked()
	e.playCurrentLocked(nil)
	e.mu.Unlock()

	e.notifyTrackChange()
}

// Pause asserts the pause gate so the decoder parks before its next chunk.
// A no-op unless currently Playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return
	}
	if e.worker != nil {
		e.worker.SetPaused(true)
	}
	e.state = Paused
	e.mu.Unlock()

	e.notifyStateChange()
}

// Resume clears the pause gate. A no-op unless currently Paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.state != Paused {
		e.mu.Unlock()
		return
	}
	if e.worker != nil {
		e.worker.SetPaused(false)
	}
	e.state = Playing
	e.mu.Unlock()

	e.notifyStateChange()
}

// ToggleShuffle flips the shuffle flag and rebuilds the deck against the
// active playlist, if any.
func (e *Engine) ToggleShuffle() {
	e.mu.Lock()
	e.shuffleOn = !e.shuffleOn
	e.rebuildDeckLocked()
	e.mu.Unlock()

	e.notifyStateChange()
}

// SwitchTo selects playlist name as the next (or, if immediate or the
// playlist's resolved transition policy is "immediate", the current)
// active playlist. Unknown names are a no-op. A second switch before the
// pending one is consumed replaces it — only the most recent survives.
func (e *Engine) SwitchTo(name string, immediate bool) {
	e.mu.Lock()
	pl, ok := e.playlists.Get(name)
	if !ok {
		e.mu.Unlock()
		return
	}

	transition := pl.TransitionOrDefault(e.cfg.Transitions.Default)
	if immediate || transition == "immediate" || e.active == nil {
		e.activateLocked(pl)
		e.mu.Unlock()
		e.notifyTrackChange()
		e.notifyStateChange()
		return
	}

	e.pendingName = name
	e.mu.Unlock()

	e.notifyStateChange()
}

// ReloadPlaylists re-runs discovery against the configured playlists root.
// If the currently active playlist's name no longer exists, the first
// discovered playlist (if any) is activated in its place.
func (e *Engine) ReloadPlaylists() error {
	set, err := playlist.Discover(e.cfg.Paths.PlaylistsDir)
	if err != nil {
		return err
	}

	e.mu.Lock()
	currentName := ""
	if e.active != nil {
		currentName = e.active.Name
	}
	e.playlists = set

	var reactivate *playlist.Playlist
	if currentName != "" {
		if _, stillExists := set.Get(currentName); !stillExists {
			if names := set.Names(); len(names) > 0 {
				reactivate, _ = set.Get(names[0])
			}
		}
	}
	if reactivate != nil {
		e.activateLocked(reactivate)
	}
	e.mu.Unlock()

	e.notifyStateChange()
	if reactivate != nil {
		e.notifyTrackChange()
	}
	return nil
}
