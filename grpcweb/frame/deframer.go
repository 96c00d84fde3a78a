package frame

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrPrematureEOF is returned when the underlying stream ends before a
// frame currently being assembled is complete. Callers map this to a
// DataLoss TransportError; the frame package itself has no notion of gRPC
// status codes.
var ErrPrematureEOF = errors.New("premature end of response body")

// readChunkSize is the size of each underlying Read call. It only affects
// how many syscalls a call makes, never correctness: the accumulator
// buffers whatever arrives regardless of chunk boundaries.
const readChunkSize = 4096

// Reader consumes an incremental byte stream — typically an HTTP response
// body — and yields one Frame per ReadFrame call. It buffers partial reads
// in a grow-then-reset accumulator so it never depends on the stream's
// chunking: a DATA frame split across any number of Read calls decodes the
// same as one delivered whole.
//
// A Reader is used for exactly one call's response body and must not be
// read from concurrently; the call engine never has two reads in flight at
// once, matching the single-threaded suspension model the core assumes.
type Reader struct {
	r     io.Reader
	buf   []byte
	chunk []byte
}

// NewReader wraps r in a frame Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, chunk: make([]byte, readChunkSize)}
}

// ReadFrame returns the next DATA or TRAILER frame from the stream. It
// blocks on the underlying reader until a full frame is available. A
// TRAILER frame's declared length field is not enforced — ReadFrame reads
// until the stream ends and treats everything after the header as the
// trailer payload, per the gRPC-Web wire contract.
func (d *Reader) ReadFrame() (Frame, error) {
	if len(d.buf) == 0 {
		if err := d.fill(); err != nil {
			return Frame{}, toPrematureEOF(err)
		}
	}

	for d.buf[0] != byte(KindData) && d.buf[0] != byte(KindTrailer) {
		if err := d.fill(); err != nil {
			return Frame{}, toPrematureEOF(err)
		}
	}

	switch Kind(d.buf[0]) {
	case KindTrailer:
		return d.readTrailerFrame()
	default:
		return d.readDataFrame()
	}
}

func (d *Reader) readDataFrame() (Frame, error) {
	for len(d.buf) < HeaderLen {
		if err := d.fill(); err != nil {
			return Frame{}, toPrematureEOF(err)
		}
	}

	length := binary.BigEndian.Uint32(d.buf[1:HeaderLen])
	need := HeaderLen + int(length)

	for len(d.buf) < need {
		if err := d.fill(); err != nil {
			return Frame{}, toPrematureEOF(err)
		}
	}

	payload := make([]byte, length)
	copy(payload, d.buf[HeaderLen:need])
	d.buf = d.buf[need:]

	return Frame{Kind: KindData, Payload: payload}, nil
}

func (d *Reader) readTrailerFrame() (Frame, error) {
	for {
		err := d.fill()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Frame{}, errors.Wrap(err, "failed to read trailer frame")
		}
	}

	if len(d.buf) < HeaderLen {
		return Frame{}, ErrPrematureEOF
	}

	payload := make([]byte, len(d.buf)-HeaderLen)
	copy(payload, d.buf[HeaderLen:])
	d.buf = nil

	return Frame{Kind: KindTrailer, Payload: payload}, nil
}

// fill reads one chunk from the underlying reader and appends whatever
// bytes it returned to the accumulator. An io.EOF that arrives together
// with data (n>0) is not reported by this call, so those bytes are used
// first; the next Read reports the end of the stream again.
func (d *Reader) fill() error {
	n, err := d.r.Read(d.chunk)
	if n > 0 {
		d.buf = append(d.buf, d.chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
	return err
}

func toPrematureEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrPrematureEOF
	}
	return errors.Wrap(err, "failed to read response body")
}
