// Package decoder spawns and supervises the external ffmpeg process that
// turns one audio file into a raw PCM byte stream (C4), chunking that
// stream into fixed-size frames and feeding them into a ring.
package decoder

import (
	"context"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/haze-fm/haze/internal/ring"
)

// PutTimeout is how long the worker waits for a slot in a full ring before
// re-checking the stop signal, per spec.md §4.4's back-pressure rule.
const PutTimeout = 500 * time.Millisecond

// drainPollInterval is how often the worker polls the ring for emptiness
// once it has finished reading from ffmpeg but before announcing track_end.
const drainPollInterval = 50 * time.Millisecond

// Worker decodes one track. A Worker is single-use: build a new one per
// track, call Run once, and discard it.
type Worker struct {
	path        string
	sampleRate  int
	channels    int
	chunkFrames int
	out         ring.Sink

	ctx    context.Context
	cancel context.CancelFunc

	pauseMu   sync.Mutex
	pauseCond *sync.Cond
	paused    bool

	done chan struct{}
}

// New builds a worker that will decode path to sampleRate/channels PCM in
// chunkFrames-frame pieces, writing each chunk to out.
func New(path string, sampleRate, channels, chunkFrames int, out ring.Sink) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		path:        path,
		sampleRate:  sampleRate,
		channels:    channels,
		chunkFrames: chunkFrames,
		out:         out,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	w.pauseCond = sync.NewCond(&w.pauseMu)
	return w
}

// SetPaused asserts or clears the pause gate. Asserting it causes Run to
// suspend before putting its next chunk, not mid-chunk; clearing it wakes
// Run back up.
func (w *Worker) SetPaused(paused bool) {
	w.pauseMu.Lock()
	w.paused = paused
	w.pauseMu.Unlock()
	w.pauseCond.Broadcast()
}

// Stop requests prompt termination: the subprocess is killed and Run
// returns without announcing track_end. Stop is honored even while Run is
// parked on a full ring or on the pause gate.
func (w *Worker) Stop() {
	// Cancel under pauseMu so a waitWhilePaused that has just checked the
	// context cannot miss the wake-up below.
	w.pauseMu.Lock()
	w.cancel()
	w.pauseMu.Unlock()
	w.pauseCond.Broadcast()
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// waitWhilePaused blocks while the pause gate is asserted. It returns false
// if the worker was stopped while waiting (or already stopped).
func (w *Worker) waitWhilePaused() bool {
	w.pauseMu.Lock()
	defer w.pauseMu.Unlock()
	for w.paused {
		if w.ctx.Err() != nil {
			return false
		}
		w.pauseCond.Wait()
	}
	return w.ctx.Err() == nil
}

// Run decodes the track to completion (or until Stop is called), then —
// unless it was stopped — invokes onTrackEnd exactly once. onTrackEnd must
// not block on anything Run itself might be holding; it is called from
// whatever goroutine called Run, never concurrently with a later Run call
// since a Worker is single-use.
func (w *Worker) Run(onTrackEnd func()) {
	defer close(w.done)

	chunkBytes := w.chunkFrames * w.channels * 2

	cmd := exec.Command("ffmpeg",
		"-loglevel", "error",
		"-probesize", "32",
		"-analyzeduration", "0",
		"-i", w.path,
		"-f", "s16le",
		"-ar", strconv.Itoa(w.sampleRate),
		"-ac", strconv.Itoa(w.channels),
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Printf("decoder: failed to open stdout pipe for %s: %v", w.path, err)
		w.signalEnd(onTrackEnd)
		return
	}

	if err := cmd.Start(); err != nil {
		log.Printf("decoder: failed to start ffmpeg for %s: %v", w.path, err)
		w.signalEnd(onTrackEnd)
		return
	}

	stopped := !w.decodeLoop(stdout, chunkBytes)

	_ = cmd.Process.Kill()
	_ = cmd.Wait()

	if !stopped {
		w.waitForDrain()
	}

	if w.ctx.Err() == nil {
		onTrackEnd()
	}
}

// decodeLoop reads chunkBytes-sized frames from r and enqueues them until
// EOF, a read error, or the worker is stopped. It reports whether it ran to
// completion (true) rather than being stopped early (false).
func (w *Worker) decodeLoop(r io.Reader, chunkBytes int) bool {
	buf := make([]byte, chunkBytes)

	for {
		if !w.waitWhilePaused() {
			return false
		}

		n, readErr := io.ReadFull(r, buf)
		switch readErr {
		case nil:
			// full chunk read.
		case io.ErrUnexpectedEOF:
			for i := n; i < len(buf); i++ {
				buf[i] = 0
			}
		case io.EOF:
			return true
		default:
			log.Printf("decoder: read error for %s: %v", w.path, readErr)
			return true
		}

		chunk := ring.Chunk{Data: append([]byte(nil), buf...)}
		if !w.putWithBackpressure(chunk) {
			return false
		}

		if readErr == io.ErrUnexpectedEOF {
			return true
		}
	}
}

// putWithBackpressure retries Put against the ring until it succeeds or the
// worker is stopped, matching spec.md §4.4's "wait up to 500ms, then
// re-check the stop signal" back-pressure rule.
func (w *Worker) putWithBackpressure(c ring.Chunk) bool {
	for {
		if w.out.Put(w.ctx, c, PutTimeout) {
			return true
		}
		if w.ctx.Err() != nil {
			return false
		}
	}
}

// waitForDrain polls until the ring has been fully consumed by the sinks
// (or the worker is stopped), so the next decoder never starts producing
// before the outgoing track has finished playing out.
func (w *Worker) waitForDrain() {
	for !w.out.IsEmpty() && w.ctx.Err() == nil {
		time.Sleep(drainPollInterval)
	}
}

// signalEnd announces track_end immediately, used for the spawn-failure
// path where no decode loop ever ran.
func (w *Worker) signalEnd(onTrackEnd func()) {
	if w.ctx.Err() == nil {
		onTrackEnd()
	}
}
