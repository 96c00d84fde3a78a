// Package transport adapts the call engine's outgoing request to an actual
// HTTP POST. Everything above this package only knows about Sender,
// Request, and Future — it never talks to net/http directly.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

// ErrRedirect is returned when the server answers with an HTTP redirect.
// gRPC-Web's browser-fetch contract treats a redirect as a request failure
// ("redirect policy: error") rather than something to follow transparently.
var ErrRedirect = errors.New("grpcweb: refusing to follow HTTP redirect")

// Request is everything a Sender needs to issue one HTTP POST.
type Request struct {
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the HTTP-layer result of sending a Request. Body is nil if
// the server sent no body at all.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Sender issues the single outgoing POST for one call and resolves a
// Future with the result. It stands in for the browser's fetch(): the call
// engine never talks to net/http directly.
type Sender interface {
	Send(ctx context.Context, req Request) *Future
}

// Future is a single-resolution, multi-wait promise: exactly one of Wait's
// callers observes the send outcome firsthand, but any number of callers
// (and the engine's own internal bookkeeping) may call Wait and get the
// same result.
type Future struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// NewFailedFuture returns a Future that is already resolved with err. It
// lets a Sender caller fold a synchronous failure (e.g. a request encoding
// error discovered before any HTTP call is made) into the same Wait path
// a real network failure takes, so callers only ever need one code path.
func NewFailedFuture(err error) *Future {
	f := newFuture()
	f.resolve(nil, err)
	return f
}

func (f *Future) resolve(resp *Response, err error) {
	f.once.Do(func() {
		f.resp, f.err = resp, err
		close(f.done)
	})
}

// Wait blocks until the send resolves or ctx is done, whichever comes
// first.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type httpSender struct {
	client *http.Client
}

// NewHTTPSender builds a Sender over client, applying opts. A nil client
// gets a fresh *http.Client built from the TLS/H2C options instead of
// http.DefaultClient, so one Transport's TLS configuration never leaks
// into another's.
func NewHTTPSender(client *http.Client, opts ...Option) Sender {
	o := senderOptions{}
	for _, f := range opts {
		f(&o)
	}

	if o.client != nil {
		client = o.client
	}

	if client == nil {
		client = &http.Client{Transport: buildRoundTripper(o)}
	}

	client.CheckRedirect = refuseRedirects

	return &httpSender{client: client}
}

func refuseRedirects(*http.Request, []*http.Request) error {
	return ErrRedirect
}

func buildRoundTripper(o senderOptions) http.RoundTripper {
	if o.h2c {
		return &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if o.tlsConf != nil {
		tr.TLSClientConfig = o.tlsConf
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return tr
	}

	return tr
}

func (s *httpSender) Send(ctx context.Context, req Request) *Future {
	future := newFuture()

	go func() {
		u, err := url.Parse(req.URL)
		if err != nil {
			future.resolve(nil, errors.Wrap(err, "failed to parse request URL"))
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(req.Body))
		if err != nil {
			future.resolve(nil, errors.Wrap(err, "failed to build the HTTP request"))
			return
		}
		httpReq.Header = req.Header

		res, err := s.client.Do(httpReq)
		if err != nil {
			future.resolve(nil, errors.Wrap(err, "failed to send the HTTP request"))
			return
		}

		future.resolve(&Response{
			StatusCode: res.StatusCode,
			Header:     res.Header,
			Body:       res.Body,
		}, nil)
	}()

	return future
}
