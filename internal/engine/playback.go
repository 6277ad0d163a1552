package engine

import (
	"log"
	"time"

	"github.com/haze-fm/haze/internal/decoder"
	"github.com/haze-fm/haze/internal/metadata"
	"github.com/haze-fm/haze/internal/playlist"
	"github.com/haze-fm/haze/internal/shuffle"
)

// nowPlayingPath is the sidecar file the engine rewrites on every track
// change, per spec.md §6.
const nowPlayingPath = "now_playing.txt"

// activateLocked makes pl the active playlist, resets the cursor/deck, and
// starts playing its first (or shuffled-first) track. Callers hold e.mu.
func (e *Engine) activateLocked(pl *playlist.Playlist) {
	e.active = pl
	e.cursor = 0
	e.rebuildDeckLocked()
	e.playCurrentLocked(nil)
}

// rebuildDeckLocked rebuilds (or clears) the shuffle deck to match the
// active playlist's track count and the current shuffle setting. Callers
// hold e.mu.
func (e *Engine) rebuildDeckLocked() {
	if e.active == nil || len(e.active.Tracks) == 0 {
		e.deck = nil
		return
	}
	if e.shuffleOn {
		e.deck = shuffle.NewDeck(len(e.active.Tracks), e.cfg.Playout.ShuffleCarryOver)
	} else {
		e.deck = nil
	}
}

// currentIndexLocked resolves the index into active.Tracks that should
// play next, per spec.md §3 invariant 3. Callers hold e.mu.
func (e *Engine) currentIndexLocked() int {
	if e.active == nil || len(e.active.Tracks) == 0 {
		return 0
	}
	if e.shuffleOn && e.deck != nil {
		return e.deck.Current()
	}
	n := len(e.active.Tracks)
	return ((e.cursor % n) + n) % n
}

// advanceLocked moves the cursor/deck forward one track. Callers hold e.mu.
func (e *Engine) advanceLocked() {
	if e.active == nil || len(e.active.Tracks) == 0 {
		return
	}
	if e.shuffleOn && e.deck != nil {
		e.deck.Advance()
		return
	}
	e.cursor = (e.cursor + 1) % len(e.active.Tracks)
}

// rewindLocked moves the cursor/deck back one track. Callers hold e.mu.
func (e *Engine) rewindLocked() {
	if e.active == nil || len(e.active.Tracks) == 0 {
		return
	}
	if e.shuffleOn && e.deck != nil {
		e.deck.Rewind()
		return
	}
	n := len(e.active.Tracks)
	e.cursor = ((e.cursor-1)%n + n) % n
}

// playCurrentLocked activates whatever track currentIndexLocked resolves
// to: it reads metadata, persists the sidecars, updates the UDP injector,
// stops and joins the outgoing decoder (unless it is skip — the decoder
// that is itself in the middle of reporting its own track_end, per the
// self-join guard in spec.md §9), drains the ring, and spawns a fresh
// decoder. Callers hold e.mu.
func (e *Engine) playCurrentLocked(skip *decoder.Worker) {
	if e.active == nil || len(e.active.Tracks) == 0 {
		return
	}

	idx := e.currentIndexLocked()
	track := e.active.Tracks[idx]

	meta := metadata.ReadOrWarn(track.Path)
	if meta.Title != "" {
		track.Title = meta.Title
	}
	if meta.Duration != 0 {
		track.Duration = meta.Duration
	}
	e.active.Tracks[idx] = track
	e.currentTrack = track
	e.currentMeta = meta

	if err := meta.SaveArt(metadata.ArtSidecarPath); err != nil {
		log.Printf("engine: failed to save cover art: %v", err)
	}

	displayTitle := meta.DisplayTitle(track.Path)
	fields := metadata.NowPlayingFields{
		Title:     displayTitle,
		Artist:    meta.Artist,
		Album:     meta.Album,
		Year:      meta.Year,
		Duration:  track.Duration,
		Playlist:  e.active.Name,
		File:      track.Path,
		Timestamp: time.Now(),
	}
	if err := metadata.WriteNowPlaying(nowPlayingPath, fields); err != nil {
		log.Printf("engine: failed to write now_playing sidecar: %v", err)
	}

	if e.udp != nil {
		e.udp.Update(displayTitle, meta.Artist, meta.Album)
	}

	if e.worker != nil && e.worker != skip {
		e.worker.Stop()
		joinDecoder(e.worker, 3*time.Second)
	}

	e.sink.Drain()

	e.state = Playing
	e.worker = e.spawnWorkerLocked(track.Path)
}

// spawnWorkerLocked builds and starts a decoder for path, wired so its
// track_end callback re-enters the engine. Callers hold e.mu.
func (e *Engine) spawnWorkerLocked(path string) *decoder.Worker {
	w := decoder.New(path, e.cfg.Playout.SampleRate, e.cfg.Playout.Channels, ChunkFrames, e.sink)
	go w.Run(func() { e.onTrackEnd(w) })
	return w
}

// onTrackEnd is the decoder's track_end callback (spec.md §4.9
// `_on_track_end`), invoked from the decoder's own goroutine after EOF and
// ring drain. If a playlist switch is pending, it is consumed here;
// otherwise the cursor/deck advances and the next track in the active
// playlist plays.
func (e *Engine) onTrackEnd(finished *decoder.Worker) {
	e.mu.Lock()

	if e.pendingName != "" {
		name := e.pendingName
		e.pendingName = ""
		if pl, ok := e.playlists.Get(name); ok {
			e.active = pl
			e.cursor = 0
			e.rebuildDeckLocked()
			e.playCurrentLocked(finished)
			e.mu.Unlock()
			e.notifyTrackChange()
			e.notifyStateChange()
			return
		}
	}

	e.advanceLocked()
	e.playCurrentLocked(finished)
	e.mu.Unlock()

	e.notifyTrackChange()
}
