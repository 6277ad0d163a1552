package sinks

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haze-fm/haze/internal/ring"
)

func TestRingReaderZeroFillsOnUnderrun(t *testing.T) {
	r := ring.New(1)
	rr := &ringReader{src: r}

	buf := make([]byte, 8)
	n, err := rr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
}

func TestRingReaderZeroFillsOnBoundaryChunk(t *testing.T) {
	r := ring.New(1)
	r.Put(context.Background(), ring.Boundary, time.Second)
	rr := &ringReader{src: r}

	buf := bytes.Repeat([]byte{0xFF}, 8)
	n, err := rr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
}

func TestRingReaderCopiesAvailableChunkAndPadsShortfall(t *testing.T) {
	r := ring.New(1)
	r.Put(context.Background(), ring.Chunk{Data: []byte{1, 2, 3}}, time.Second)
	rr := &ringReader{src: r}

	buf := make([]byte, 6)
	n, err := rr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0}, buf)
}

func TestPendingMetadataDrainReadyForwardsQueuedPackets(t *testing.T) {
	p := newPendingMetadata()
	p.Write([]byte{1, 2, 3})
	p.Write([]byte{4, 5, 6})

	var out bytes.Buffer
	p.drainReady(&out)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out.Bytes())

	out.Reset()
	p.drainReady(&out)
	require.Equal(t, 0, out.Len())
}

func TestPendingMetadataWriteDropsWhenBackedUp(t *testing.T) {
	p := &pendingMetadata{ch: make(chan []byte, 1)}
	n, err := p.Write([]byte{1})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = p.Write([]byte{2})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var out bytes.Buffer
	p.drainReady(&out)
	require.Equal(t, []byte{1}, out.Bytes())
}
