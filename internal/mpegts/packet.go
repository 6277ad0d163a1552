package mpegts

const (
	// PacketSize is the fixed MPEG-TS packet length.
	PacketSize = 188
	// SyncByte starts every TS packet.
	SyncByte = 0x47
	// MetadataPID is the PID the engine reserves for injected ID3 data.
	MetadataPID = 0x0021
	// PMTPID and PATPID are reserved per the usual MPEG-TS conventions;
	// the injector never writes to them, but they document the PID space
	// a coherent remux has to avoid colliding with.
	PMTPID = 0x0020
	PATPID = 0x0000
)

// packet builds a single 188-byte TS packet carrying up to PacketSize-4
// bytes of payload, stuffed with 0xFF padding when shorter and truncated
// when longer.
func packet(pid int, payload []byte, pusi bool, cc int) []byte {
	var flagByte byte
	if pusi {
		flagByte = 0x40
	}

	header := [4]byte{
		SyncByte,
		flagByte | byte((pid>>8)&0x1F),
		byte(pid & 0xFF),
		0x10 | byte(cc&0x0F),
	}

	const maxPayload = PacketSize - 4
	body := make([]byte, maxPayload)
	if len(payload) < maxPayload {
		copy(body, payload)
		for i := len(payload); i < maxPayload; i++ {
			body[i] = 0xFF
		}
	} else {
		copy(body, payload[:maxPayload])
	}

	out := make([]byte, 0, PacketSize)
	out = append(out, header[:]...)
	out = append(out, body...)
	return out
}

// ContinuityCounters tracks the per-PID continuity counter (mod 16) an
// injector must keep incrementing across calls so downstream demuxers don't
// see dropped-packet gaps.
type ContinuityCounters struct {
	counters map[int]int
}

// NewContinuityCounters returns a zeroed counter set.
func NewContinuityCounters() *ContinuityCounters {
	return &ContinuityCounters{counters: map[int]int{}}
}

// Next returns the current counter value for pid and advances it.
func (c *ContinuityCounters) Next(pid int) int {
	cc := c.counters[pid]
	c.counters[pid] = (cc + 1) & 0x0F
	return cc
}

// PacketizeID3 splits an ID3 tag into a sequence of TS packets on
// MetadataPID, the first with PUSI set and the rest without, consuming
// continuity counter values from cc as it goes.
func PacketizeID3(tag []byte, cc *ContinuityCounters) [][]byte {
	const maxChunk = PacketSize - 4

	var packets [][]byte
	offset := 0
	pusi := true

	if len(tag) == 0 {
		return packets
	}

	for offset < len(tag) {
		end := offset + maxChunk
		if end > len(tag) {
			end = len(tag)
		}
		chunk := tag[offset:end]
		packets = append(packets, packet(MetadataPID, chunk, pusi, cc.Next(MetadataPID)))
		offset = end
		pusi = false
	}

	return packets
}
