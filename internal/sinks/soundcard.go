// Package sinks implements the two PCM consumers that pull chunks out of
// the ring: the local soundcard output (C6) and the UDP/MPEG-TS broadcast
// (C7).
package sinks

import (
	"fmt"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/haze-fm/haze/internal/ring"
)

// ringReader adapts a *ring.Ring to io.Reader for oto's player, which pulls
// PCM by reading rather than via a driver callback. Read never blocks: an
// empty ring yields silence, exactly like the non-blocking pop spec.md
// §4.6 describes for the realtime audio callback.
type ringReader struct {
	src *ring.Ring
}

func (r *ringReader) Read(p []byte) (int, error) {
	chunk, ok := r.src.TryGet()
	if !ok || chunk.IsBoundary() {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, chunk.Data)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Soundcard is the local audio device sink (C6). It is started once at
// engine start and stopped once at engine stop; it is not re-created per
// track.
type Soundcard struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
}

// NewSoundcard opens an oto output stream at sampleRate/channels and begins
// pulling PCM from src. device is accepted for parity with spec.md's
// configuration surface; oto itself always targets the OS default device,
// so a non-default selector is logged and otherwise ignored.
func NewSoundcard(sampleRate, channels int, device string, src *ring.Ring) (*Soundcard, error) {
	if device != "" {
		log.Printf("sinks: soundcard device %q ignored, using the default output device", device)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("sinks: failed to open soundcard output: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(&ringReader{src: src})
	player.Play()

	return &Soundcard{ctx: ctx, player: player}, nil
}

// Close stops playback and releases the output stream.
func (s *Soundcard) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		s.player.Pause()
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}
