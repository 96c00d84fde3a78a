package frame

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader delivers the underlying bytes n bytes at a time, so tests
// can exercise the deframer's accumulator regardless of how the stream is
// chunked at the network layer.
type chunkedReader struct {
	data []byte
	n    int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}

	n := r.n
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}

	copy(p, r.data[:n])
	r.data = r.data[n:]

	return n, nil
}

func TestReader_RoundTrip(t *testing.T) {
	data := []byte("hello world")
	trailerPayload := []byte("grpc-status: 0\r\n")

	for chunkSize := 1; chunkSize <= 64; chunkSize++ {
		stream := append(EncodeDataFrame(data), EncodeTrailerFrame(trailerPayload)...)
		r := NewReader(&chunkedReader{data: stream, n: chunkSize})

		f1, err := r.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, KindData, f1.Kind)
		assert.Equal(t, data, f1.Payload)

		f2, err := r.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, KindTrailer, f2.Kind)
		assert.Equal(t, trailerPayload, f2.Payload)
	}
}

func TestReader_TrailerOnly(t *testing.T) {
	trailerPayload := []byte("grpc-status: 5\r\ngrpc-message: not%20found\r\n")
	r := NewReader(bytes.NewReader(EncodeTrailerFrame(trailerPayload)))

	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, KindTrailer, f.Kind)
	assert.Equal(t, trailerPayload, f.Payload)
}

func TestReader_ZeroLengthDataFrame(t *testing.T) {
	r := NewReader(bytes.NewReader(EncodeDataFrame(nil)))

	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, KindData, f.Kind)
	assert.Empty(t, f.Payload)
}

func TestReader_PrematureEOF(t *testing.T) {
	// Header declares a 16-byte payload but the stream ends after 3 bytes.
	body := []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(body))

	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, ErrPrematureEOF)
}

func TestReader_PrematureEOFBeforeHeader(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))

	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, ErrPrematureEOF)
}
