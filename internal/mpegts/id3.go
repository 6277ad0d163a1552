// Package mpegts builds ID3v2.3 metadata tags and wraps them in MPEG-TS
// packets (C8), for injection into a UDP broadcast's metadata PID.
package mpegts

import "encoding/binary"

// encodeSyncsafe encodes n as a 4-byte ID3v2 syncsafe integer: 7 usable bits
// per byte, most significant byte first.
func encodeSyncsafe(n int) [4]byte {
	var out [4]byte
	for i := 3; i >= 0; i-- {
		out[i] = byte(n & 0x7F)
		n >>= 7
	}
	return out
}

// id3TextFrame builds a single ID3v2.3 text-information frame: the 4-byte
// frame ID, a big-endian 4-byte size (text length plus the 1-byte encoding
// flag that follows the 2-byte flags field), 2 bytes of flags (always
// zero), 1 byte of text encoding (3 = UTF-8), then the UTF-8 text itself.
func id3TextFrame(frameID, text string) []byte {
	encoded := []byte(text)

	frame := make([]byte, 0, 4+4+2+1+len(encoded))
	frame = append(frame, []byte(frameID)...)

	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(encoded)+1))
	frame = append(frame, size[:]...)

	frame = append(frame, 0x00, 0x00) // flags
	frame = append(frame, 0x03)       // UTF-8 encoding
	frame = append(frame, encoded...)

	return frame
}

// BuildID3Tag assembles an ID3v2.3 tag carrying TIT2/TPE1/TALB frames for
// whichever of title/artist/album are non-empty, in that order. An all-empty
// call still produces a valid (empty) tag.
func BuildID3Tag(title, artist, album string) []byte {
	var frames []byte
	if title != "" {
		frames = append(frames, id3TextFrame("TIT2", title)...)
	}
	if artist != "" {
		frames = append(frames, id3TextFrame("TPE1", artist)...)
	}
	if album != "" {
		frames = append(frames, id3TextFrame("TALB", album)...)
	}

	size := encodeSyncsafe(len(frames))

	tag := make([]byte, 0, 10+len(frames))
	tag = append(tag, 'I', 'D', '3')
	tag = append(tag, 0x03, 0x00) // version 2.3.0
	tag = append(tag, 0x00)       // flags
	tag = append(tag, size[:]...)
	tag = append(tag, frames...)
	return tag
}
