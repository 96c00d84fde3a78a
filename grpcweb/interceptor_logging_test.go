package grpcweb_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/grpcweb-go/grpcweb-client/grpcweb"
	"github.com/grpcweb-go/grpcweb-client/grpcweb/frame"
)

// logRecorder is a slog.Handler that keeps every record it receives, so
// tests can assert on log output without parsing formatted text.
type logRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (l *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (l *logRecorder) Handle(_ context.Context, r slog.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
	return nil
}

func (l *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return l }
func (l *logRecorder) WithGroup(string) slog.Handler      { return l }

func (l *logRecorder) snapshot() []slog.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]slog.Record(nil), l.records...)
}

func attrMap(r slog.Record) map[string]string {
	m := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.String()
		return true
	})
	return m
}

// WithLogger emits one Info line per successful call, tagged with the
// service, method, and a resolved "OK" code.
func TestWithLogger_LogsOnSuccess(t *testing.T) {
	data, err := proto.Marshal(&wrapperspb.StringValue{Value: "hello"})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(frame.EncodeDataFrame(data))
		_, _ = w.Write(frame.EncodeTrailerFrame([]byte("grpc-status: 0\r\n")))
	}))
	defer srv.Close()

	lr := &logRecorder{}
	logger := slog.New(lr)

	tr := grpcweb.NewTransport(srv.URL, grpcweb.WithInterceptors(grpcweb.WithLogger(logger)))
	rec := call(t, tr, &wrapperspb.StringValue{Value: "ping"})
	require.Nil(t, rec.closeErr)

	records := lr.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelInfo, records[0].Level)
	assert.Equal(t, "grpcweb call completed", records[0].Message)

	attrs := attrMap(records[0])
	assert.Equal(t, "p.S", attrs["service"])
	assert.Equal(t, "M", attrs["method"])
	assert.Equal(t, "OK", attrs["code"])
}

// A failed call is logged at Warn level with its resolved status code and
// message.
func TestWithLogger_LogsOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(frame.EncodeTrailerFrame([]byte("grpc-status: 5\r\ngrpc-message: not found\r\n")))
	}))
	defer srv.Close()

	lr := &logRecorder{}
	logger := slog.New(lr)

	tr := grpcweb.NewTransport(srv.URL, grpcweb.WithInterceptors(grpcweb.WithLogger(logger)))
	rec := call(t, tr, &wrapperspb.StringValue{Value: "ping"})
	require.NotNil(t, rec.closeErr)

	records := lr.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelWarn, records[0].Level)
	assert.Equal(t, "grpcweb call failed", records[0].Message)

	attrs := attrMap(records[0])
	assert.Equal(t, "NotFound", attrs["code"])
	assert.Equal(t, "not found", attrs["message"])
}
