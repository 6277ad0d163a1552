package mpegts

import (
	"testing"
	"unsafe"

	"github.com/Comcast/gots/v2/packet"
	"github.com/stretchr/testify/require"
)

func TestEncodeSyncsafeRoundTrips(t *testing.T) {
	b := encodeSyncsafe(300)
	// 300 = 0b1_0010_1100 -> syncsafe bytes 00 00 02 2C; verify by decoding.
	var n int
	for _, by := range b {
		n = (n << 7) | int(by)
	}
	require.Equal(t, 300, n)
}

func TestBuildID3TagHasHeaderAndFrames(t *testing.T) {
	tag := BuildID3Tag("Title", "Artist", "")

	require.Equal(t, []byte("ID3"), tag[:3])
	require.Equal(t, byte(0x03), tag[3])
	require.Equal(t, byte(0x00), tag[4])
	require.Equal(t, byte(0x00), tag[5])

	// TIT2 frame must appear right after the 10-byte header.
	require.Equal(t, []byte("TIT2"), tag[10:14])
}

func TestBuildID3TagOmitsEmptyFields(t *testing.T) {
	withAlbum := BuildID3Tag("T", "A", "Album")
	withoutAlbum := BuildID3Tag("T", "A", "")
	require.True(t, len(withAlbum) > len(withoutAlbum))
}

func TestPacketizeID3ProducesValidFixedSizePackets(t *testing.T) {
	tag := BuildID3Tag("A very long title that forces more than one TS packet to be produced for the metadata stream and then some more words to be sure", "Artist Name Here", "Album Title")
	cc := NewContinuityCounters()

	packets := PacketizeID3(tag, cc)
	require.NotEmpty(t, packets)
	require.Greater(t, len(packets), 1)

	for i, pkt := range packets {
		require.Len(t, pkt, PacketSize)
		require.Equal(t, byte(SyncByte), pkt[0])

		// Parse with the real gots packet type to confirm our framing is
		// structurally valid MPEG-TS, not just internally self-consistent.
		gp := gotsPacket(pkt)
		require.Equal(t, MetadataPID, gp.PID())
		if i == 0 {
			require.True(t, gp.PayloadUnitStartIndicator())
		} else {
			require.False(t, gp.PayloadUnitStartIndicator())
		}
	}
}

func TestContinuityCountersWrapAtSixteen(t *testing.T) {
	cc := NewContinuityCounters()
	for i := 0; i < 16; i++ {
		require.Equal(t, i, cc.Next(7))
	}
	require.Equal(t, 0, cc.Next(7))
}

// gotsPacket mirrors the pack's own ausocean-cloud helper for interpreting
// a raw 188-byte slice as a *packet.Packet without copying.
func gotsPacket(b []byte) *packet.Packet {
	if len(b) != packet.PacketSize {
		panic("invalid packet size")
	}
	return *(**packet.Packet)(unsafe.Pointer(&b))
}
