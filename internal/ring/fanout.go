package ring

import (
	"context"
	"time"
)

// Fanout duplicates every chunk put into it across N independent output
// rings, one per active sink, so the soundcard and UDP sinks (C6, C7) can
// each pull from the decoder at their own pace without stealing each
// other's chunks.
type Fanout struct {
	outputs []*Ring
}

// NewFanout creates a fanout with one output ring of the given capacity per
// sink. n must be at least 1.
func NewFanout(n, capacity int) *Fanout {
	outputs := make([]*Ring, n)
	for i := range outputs {
		outputs[i] = New(capacity)
	}
	return &Fanout{outputs: outputs}
}

// Output returns the i'th sink's dedicated ring.
func (f *Fanout) Output(i int) *Ring {
	return f.outputs[i]
}

// Count reports how many output rings this fanout feeds.
func (f *Fanout) Count() int {
	return len(f.outputs)
}

// Put pushes c to every output ring in turn, giving each up to timeout to
// accept it. It reports whether every output accepted the chunk in time.
// Because the outputs are tried one after another, a full ring delays
// delivery to the outputs after it by up to timeout.
func (f *Fanout) Put(ctx context.Context, c Chunk, timeout time.Duration) bool {
	ok := true
	for _, out := range f.outputs {
		if !out.Put(ctx, c, timeout) {
			ok = false
		}
	}
	return ok
}

// Drain empties every output ring.
func (f *Fanout) Drain() {
	for _, out := range f.outputs {
		out.Drain()
	}
}

// IsEmpty reports whether every output ring is currently empty. The decoder
// worker waits on this at end-of-stream before signalling track_end, so all
// sinks must have finished draining, not merely one of them.
func (f *Fanout) IsEmpty() bool {
	for _, out := range f.outputs {
		if !out.IsEmpty() {
			return false
		}
	}
	return true
}
