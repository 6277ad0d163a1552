// Package engine implements the playout controller (C9): the top-level
// state machine that owns the active playlist, the shuffle deck, the
// decoder worker, the PCM ring fan-out, and the sinks, and exposes the
// control API the TUI and web collaborators drive.
package engine

import (
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haze-fm/haze/internal/config"
	"github.com/haze-fm/haze/internal/decoder"
	"github.com/haze-fm/haze/internal/metadata"
	"github.com/haze-fm/haze/internal/playlist"
	"github.com/haze-fm/haze/internal/ring"
	"github.com/haze-fm/haze/internal/shuffle"
	"github.com/haze-fm/haze/internal/sinks"
)

// ChunkFrames is the fixed PCM chunk size shared by every sink, matching
// the original implementation's hardcoded value (spec.md §3 leaves this an
// implementation parameter in [1024, 4096]).
const ChunkFrames = 2048

// ringCapacity is the bounded PCM ring's depth, in chunks.
const ringCapacity = 16

// State is the engine's top-level playback state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Observer is the capability set an external collaborator (TUI, web)
// implements to learn about engine changes. Every registered observer
// implements both methods; there is no hasattr-style per-method probing
// (spec.md §9's "runtime type checks" design note).
type Observer interface {
	NotifyTrackChange()
	NotifyStateChange()
}

// Engine owns all playout state and coordinates the decoder, ring, and
// sinks. All exported methods are safe for concurrent use.
type Engine struct {
	cfg *config.Config

	mu           sync.Mutex
	playlists    playlist.Set
	active       *playlist.Playlist
	cursor       int
	shuffleOn    bool
	deck         *shuffle.Deck
	pendingName  string
	state        State
	currentTrack playlist.Track
	currentMeta  metadata.TrackMetadata

	worker *decoder.Worker

	sink          ring.Sink
	soundcardRing *ring.Ring
	udpRing       *ring.Ring

	soundcard *sinks.Soundcard
	udp       *sinks.UDP

	observers []Observer
}

// New builds an engine around cfg. It neither loads playlists nor opens
// sinks; call ReloadPlaylists then Start.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		playlists: playlist.Set{},
		shuffleOn: cfg.Playout.Shuffle,
		state:     Stopped,
	}
}

// AddObserver registers o to receive track-change and state-change
// notifications. Not safe to call concurrently with notifications firing;
// register observers before Start.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

func (e *Engine) notifyTrackChange() {
	for _, o := range e.observers {
		o.NotifyTrackChange()
	}
}

func (e *Engine) notifyStateChange() {
	for _, o := range e.observers {
		o.NotifyStateChange()
	}
}

// Start opens the configured sinks and activates the default playlist (or
// the first discovered one, if none is configured or found), per spec.md
// §4.9's `start()` operation.
func (e *Engine) Start() error {
	if err := e.startOutputs(); err != nil {
		return err
	}

	e.mu.Lock()
	e.state = Stopped

	var toActivate *playlist.Playlist
	if name := e.cfg.Playout.DefaultPlaylist; name != "" {
		if pl, ok := e.playlists.Get(name); ok {
			toActivate = pl
		}
	}
	if toActivate == nil {
		if names := e.playlists.Names(); len(names) > 0 {
			toActivate, _ = e.playlists.Get(names[0])
		}
	}
	e.mu.Unlock()

	if toActivate != nil {
		e.mu.Lock()
		e.activateLocked(toActivate)
		e.mu.Unlock()

		e.notifyTrackChange()
		e.notifyStateChange()
	}

	return nil
}

// Stop signals the decoder to stop, joins it with a bounded wait, and
// closes every sink. Safe to call multiple times.
func (e *Engine) Stop() {
	e.mu.Lock()
	w := e.worker
	e.mu.Unlock()

	if w != nil {
		w.Stop()
		joinDecoder(w, 3*time.Second)
	}

	e.stopOutputs()

	e.mu.Lock()
	e.state = Stopped
	e.worker = nil
	e.mu.Unlock()

	e.notifyStateChange()
}

// joinDecoder waits up to timeout for w to finish. Per spec.md §9's
// self-join guard, callers are responsible for never invoking this from
// inside the decoder's own onTrackEnd callback; onTrackEnd (playback.go)
// passes its own worker to playCurrentLocked as skip, so that worker is
// never stopped or joined.
func joinDecoder(w *decoder.Worker, timeout time.Duration) {
	select {
	case <-w.Done():
	case <-time.After(timeout):
	}
}

// startOutputs opens the configured sinks and decides the fan-out shape:
// a bare ring when only one sink is enabled, a fan-out when both are. The
// choice is made once at start and not re-evaluated while running, per
// spec.md §4.5.
func (e *Engine) startOutputs() error {
	sr := e.cfg.Playout.SampleRate
	ch := e.cfg.Playout.Channels

	soundcardOn := e.cfg.Outputs.Soundcard.Enabled
	udpOn := e.cfg.Outputs.UDP.Enabled

	switch {
	case soundcardOn && udpOn:
		fanout := ring.NewFanout(2, ringCapacity)
		e.soundcardRing = fanout.Output(0)
		e.udpRing = fanout.Output(1)
		e.sink = fanout
	case soundcardOn:
		r := ring.New(ringCapacity)
		e.soundcardRing = r
		e.sink = r
	case udpOn:
		r := ring.New(ringCapacity)
		e.udpRing = r
		e.sink = r
	default:
		e.sink = ring.New(ringCapacity)
	}

	// Soundcard init and the UDP encoder subprocess spawn are independent
	// of one another; start them concurrently rather than serially paying
	// both setup costs.
	var g errgroup.Group

	if soundcardOn {
		g.Go(func() error {
			sc, err := sinks.NewSoundcard(sr, ch, e.cfg.Outputs.Soundcard.Device, e.soundcardRing)
			if err != nil {
				// Soundcard init failure disables that sink only (spec.md §7.6).
				log.Printf("engine: soundcard sink disabled: %v", err)
				return nil
			}
			e.soundcard = sc
			return nil
		})
	}

	if udpOn {
		g.Go(func() error {
			udpCfg := sinks.UDPConfig{
				Host:          e.cfg.Outputs.UDP.Host,
				Port:          e.cfg.Outputs.UDP.Port,
				Codec:         e.cfg.Outputs.UDP.Codec,
				Bitrate:       e.cfg.Outputs.UDP.Bitrate,
				Format:        e.cfg.Outputs.UDP.Format,
				EmbedMetadata: e.cfg.Outputs.UDP.EmbedMetadata,
			}
			u, err := sinks.NewUDP(udpCfg, sr, ch, e.udpRing)
			if err != nil {
				log.Printf("engine: UDP sink disabled: %v", err)
				return nil
			}
			e.udp = u
			return nil
		})
	}

	return g.Wait()
}

// stopOutputs closes every open sink concurrently, so a slow encoder
// shutdown on one sink doesn't delay tearing down the other.
func (e *Engine) stopOutputs() {
	var g errgroup.Group

	if e.soundcard != nil {
		sc := e.soundcard
		g.Go(func() error { return sc.Close() })
		e.soundcard = nil
	}
	if e.udp != nil {
		u := e.udp
		g.Go(func() error { return u.Close() })
		e.udp = nil
	}

	g.Wait()
}
