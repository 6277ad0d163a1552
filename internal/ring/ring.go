// Package ring implements the bounded PCM ring (C5) that decouples the
// decoder worker from the sinks pulling audio out of it.
package ring

import (
	"context"
	"time"
)

// Chunk is one unit of decoded PCM travelling through the ring. A nil Data
// slice is the track-boundary sentinel (see Boundary); the sinks treat it as
// silence. The decoder worker in internal/decoder never enqueues it.
type Chunk struct {
	Data []byte
}

// IsBoundary reports whether c is the track-boundary sentinel.
func (c Chunk) IsBoundary() bool {
	return c.Data == nil
}

// Boundary is the sentinel chunk signalling end of track.
var Boundary = Chunk{Data: nil}

// Ring is a bounded, single-producer channel-backed queue of PCM chunks.
// Puts block (with a timeout) when the ring is full, giving the decoder
// back-pressure instead of letting it race arbitrarily far ahead of
// playback.
type Ring struct {
	ch chan Chunk
}

// New creates a ring holding up to capacity chunks.
func New(capacity int) *Ring {
	return &Ring{ch: make(chan Chunk, capacity)}
}

// Put enqueues c, blocking up to timeout if the ring is full. Returns false
// if the timeout elapsed or ctx was cancelled before there was room.
func (r *Ring) Put(ctx context.Context, c Chunk, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r.ch <- c:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Get dequeues a chunk, blocking up to timeout. ok is false if the timeout
// elapsed or ctx was cancelled before a chunk arrived.
func (r *Ring) Get(ctx context.Context, timeout time.Duration) (c Chunk, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c = <-r.ch:
		return c, true
	case <-timer.C:
		return Chunk{}, false
	case <-ctx.Done():
		return Chunk{}, false
	}
}

// TryGet dequeues a chunk without blocking. ok is false if the ring is
// currently empty — used by the soundcard sink's realtime audio callback,
// which must never block and instead zero-fills on underrun.
func (r *Ring) TryGet() (c Chunk, ok bool) {
	select {
	case c = <-r.ch:
		return c, true
	default:
		return Chunk{}, false
	}
}

// Drain empties the ring without blocking, discarding whatever is queued.
// Used when a track is skipped and any already-decoded audio for it must
// not reach the sinks.
func (r *Ring) Drain() {
	for {
		select {
		case <-r.ch:
		default:
			return
		}
	}
}

// Len reports how many chunks are currently queued.
func (r *Ring) Len() int {
	return len(r.ch)
}

// IsEmpty reports whether the ring currently holds no chunks.
func (r *Ring) IsEmpty() bool {
	return len(r.ch) == 0
}

// Sink is the producer-facing half of a ring: either a bare *Ring (single
// sink enabled) or a *Fanout (both sinks enabled). The decoder worker talks
// to whichever one engine.start chose without needing to know which.
type Sink interface {
	Put(ctx context.Context, c Chunk, timeout time.Duration) bool
	IsEmpty() bool
	Drain()
}
