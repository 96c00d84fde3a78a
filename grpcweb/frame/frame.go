// Package frame implements the gRPC-Web wire framing: a 5-byte header
// (1 frame-type byte, 4 big-endian length bytes) followed by a payload.
package frame

import "encoding/binary"

// Kind distinguishes the two frame types gRPC-Web knows about.
type Kind uint8

const (
	// KindData marks a frame carrying a serialized message.
	KindData Kind = 0x00
	// KindTrailer marks a frame carrying CRLF-separated trailer headers.
	KindTrailer Kind = 0x80
)

// HeaderLen is the size in bytes of a frame header: 1 type byte + 4
// big-endian length bytes.
const HeaderLen = 5

// Frame is a tagged union of the two frame kinds gRPC-Web response bodies
// carry: a DATA frame with a message payload, or a TRAILER frame with a
// CRLF-separated header payload. Modeled as a closed struct rather than an
// interface so callers switch on Kind instead of doing open-world type
// assertions.
type Frame struct {
	Kind    Kind
	Payload []byte
}

// EncodeDataFrame encodes payload as a single DATA frame: byte 0 is 0x00,
// bytes 1..4 are the big-endian uint32 length of payload, and the remainder
// is payload verbatim. The length must fit in 32 bits unsigned.
func EncodeDataFrame(payload []byte) []byte {
	out := make([]byte, HeaderLen+len(payload))
	out[0] = byte(KindData)
	binary.BigEndian.PutUint32(out[1:HeaderLen], uint32(len(payload)))
	copy(out[HeaderLen:], payload)
	return out
}

// EncodeTrailerFrame encodes payload as a single TRAILER frame. Only used by
// tests and fakes that need to synthesize a gRPC-Web response body; a real
// client never emits a TRAILER frame, only servers do.
func EncodeTrailerFrame(payload []byte) []byte {
	out := make([]byte, HeaderLen+len(payload))
	out[0] = byte(KindTrailer)
	binary.BigEndian.PutUint32(out[1:HeaderLen], uint32(len(payload)))
	copy(out[HeaderLen:], payload)
	return out
}
