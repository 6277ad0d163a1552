package ring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	r := New(2)
	ctx := context.Background()

	ok := r.Put(ctx, Chunk{Data: []byte{1, 2, 3}}, time.Second)
	require.True(t, ok)

	c, ok := r.Get(ctx, time.Second)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, c.Data)
}

func TestPutBlocksWhenFullAndTimesOut(t *testing.T) {
	r := New(1)
	ctx := context.Background()

	require.True(t, r.Put(ctx, Chunk{Data: []byte{1}}, time.Second))
	ok := r.Put(ctx, Chunk{Data: []byte{2}}, 10*time.Millisecond)
	require.False(t, ok)
}

func TestTryGetDoesNotBlockWhenEmpty(t *testing.T) {
	r := New(1)
	_, ok := r.TryGet()
	require.False(t, ok)
}

func TestBoundaryChunkIsDetected(t *testing.T) {
	r := New(1)
	ctx := context.Background()
	require.True(t, r.Put(ctx, Boundary, time.Second))

	c, ok := r.Get(ctx, time.Second)
	require.True(t, ok)
	require.True(t, c.IsBoundary())
}

func TestDrainEmptiesRing(t *testing.T) {
	r := New(4)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		r.Put(ctx, Chunk{Data: []byte{byte(i)}}, time.Second)
	}
	require.Equal(t, 3, r.Len())

	r.Drain()
	require.Equal(t, 0, r.Len())
}

func TestFanoutDeliversToEveryOutput(t *testing.T) {
	f := NewFanout(2, 4)
	ctx := context.Background()

	ok := f.Put(ctx, Chunk{Data: []byte{9}}, time.Second)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		c, ok := f.Output(i).Get(ctx, time.Second)
		require.True(t, ok)
		require.Equal(t, []byte{9}, c.Data)
	}
}
