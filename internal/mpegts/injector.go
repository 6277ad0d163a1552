package mpegts

import (
	"fmt"
	"io"
)

// Injector builds ID3 metadata packets and writes them to a destination
// writer. Per spec.md's resolved redesign, that destination is the UDP
// sink's TS remux output (see internal/sinks), never the encoder's PCM
// input — the original implementation's mistake of writing TS packets into
// an ffmpeg PCM stdin is not reproduced here.
type Injector struct {
	w  io.Writer
	cc *ContinuityCounters
}

// NewInjector wraps w, the stream the packetized ID3 tag will be written
// to.
func NewInjector(w io.Writer) *Injector {
	return &Injector{w: w, cc: NewContinuityCounters()}
}

// Update builds a fresh ID3 tag from title/artist/album and writes its
// packets to the destination. Empty fields are simply omitted from the tag.
func (inj *Injector) Update(title, artist, album string) error {
	tag := BuildID3Tag(title, artist, album)
	for _, pkt := range PacketizeID3(tag, inj.cc) {
		if _, err := inj.w.Write(pkt); err != nil {
			return fmt.Errorf("mpegts: failed to write metadata packet: %w", err)
		}
	}
	return nil
}
