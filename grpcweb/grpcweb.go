// Package grpcweb implements the client-side transport core for unary RPC
// calls carried over the gRPC-Web wire protocol: binary-encoded, length
// prefixed DATA/TRAILER framing over a single HTTP POST. It assembles the
// outgoing request, drives the response lifecycle state machine, and
// surfaces structured errors merged from HTTP status, textual trailers, and
// binary status details.
//
// Client and server streaming are out of scope: gRPC-Web's browser
// transport carries exactly one request message and one response message
// per call.
package grpcweb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"

	"github.com/grpcweb-go/grpcweb-client/grpcweb/transport"
)

const (
	headerContentType = "Content-Type"
	headerXGRPCWeb    = "X-Grpc-Web"
	headerXUserAgent  = "X-User-Agent"
	headerGRPCTimeout = "grpc-timeout"

	contentTypeGRPCWebProto = "application/grpc-web+proto"
)

// Transport builds and issues unary gRPC-Web calls against one base URL. It
// owns no per-call state beyond a concurrency-safe in-flight counter: each
// Call constructs its own request/response pair, so a Transport is safe for
// any number of concurrent calls.
type Transport struct {
	baseURL string
	opts    transportOptions

	inFlight atomic.Int64
}

// InFlight reports the number of calls that have been sent but have not yet
// closed.
func (t *Transport) InFlight() int64 {
	return t.inFlight.Load()
}

// NewTransport builds a Transport that issues requests against baseURL
// (trailing slash stripped).
func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	o := defaultTransportOptions()
	for _, f := range opts {
		f(&o)
	}

	if o.sender == nil {
		o.sender = transport.NewHTTPSender(nil)
	}

	return &Transport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		opts:    o,
	}
}

// Call resolves methodName against svc's MethodDescriptor map and builds one
// call's (ClientRequest, ClientResponse) handle pair, running it through the
// Transport's interceptor chain. The returned ClientRequest.Send and
// ClientResponse.Receive drive the actual HTTP exchange; Call itself
// performs no I/O.
//
// If svc declares no method named methodName, no request is ever built and
// Receive's OnClose fires immediately with a codes.Unimplemented
// TransportError — the same "exactly one OnClose, nothing else required"
// contract every other call outcome follows.
func (t *Transport) Call(
	ctx context.Context,
	svc ServiceDescriptor,
	methodName string,
	opts ...CallOption,
) (*ClientRequest, *ClientResponse) {
	method, ok := svc.Method(methodName)
	if !ok {
		return unknownMethodPair(methodName)
	}

	callOpts := CallOptions{}
	for _, f := range opts {
		f(&callOpts)
	}

	return chain(t.opts.interceptors, t.baseCall)(ctx, svc, method, callOpts)
}

func unknownMethodPair(methodName string) (*ClientRequest, *ClientResponse) {
	req := &ClientRequest{send: func(_ proto.Message, sent func()) {
		if sent != nil {
			sent()
		}
	}}
	resp := &ClientResponse{receive: func(h ResponseHandler) {
		if h.OnClose != nil {
			h.OnClose(NewTransportError(codes.Unimplemented, "unknown method: "+methodName))
		}
	}}
	return req, resp
}

func (t *Transport) baseCall(
	ctx context.Context,
	svc ServiceDescriptor,
	method MethodDescriptor,
	opts CallOptions,
) (*ClientRequest, *ClientResponse) {
	url := t.url(svc, method)
	header := t.buildHeader(opts)

	state := &callState{
		sender:    t.opts.sender,
		url:       url,
		header:    header,
		method:    method,
		marshal:   t.opts.marshalOptions,
		unmarshal: t.opts.unmarshalOpts,
		ctx:       ctx,
	}

	var countOnce sync.Once
	var wasSent atomic.Bool
	req := &ClientRequest{
		URL:    url,
		Method: "POST",
		Header: header,
		send: func(message proto.Message, sent func()) {
			countOnce.Do(func() {
				t.inFlight.Inc()
				wasSent.Store(true)
			})
			state.send(message, sent)
		},
	}
	var uncountOnce sync.Once
	resp := &ClientResponse{receive: func(h ResponseHandler) {
		innerOnClose := h.OnClose
		h.OnClose = func(err *TransportError) {
			// A concurrent Receive closes while the call is still running;
			// only a close after the call has finished ends a sent call.
			state.mu.Lock()
			closed := state.state == stateClosed
			state.mu.Unlock()
			if closed && wasSent.Load() {
				uncountOnce.Do(func() { t.inFlight.Dec() })
			}
			if innerOnClose != nil {
				innerOnClose(err)
			}
		}
		state.receive(h)
	}}

	return req, resp
}

// url builds "<baseUrl>/<serviceTypeName>/<methodName>".
func (t *Transport) url(svc ServiceDescriptor, method MethodDescriptor) string {
	return fmt.Sprintf("%s/%s/%s", t.baseURL, svc.TypeName, method.Name)
}

// buildHeader assembles the outgoing header set: the three unconditional
// headers first, then the transport's defaults, then the caller's
// CallOptions headers (which replace identically-named entries), then
// grpc-timeout if a timeout was requested.
func (t *Transport) buildHeader(opts CallOptions) metadata.MD {
	md := metadata.MD{}
	md.Set(headerContentType, contentTypeGRPCWebProto)
	md.Set(headerXGRPCWeb, "1")
	md.Set(headerXUserAgent, t.opts.userAgent)

	for k, v := range t.opts.defaultHeader {
		md[k] = v
	}
	for k, v := range opts.Header {
		md[k] = v
	}

	if opts.Timeout > 0 {
		md.Set(headerGRPCTimeout, strconv.FormatInt(opts.Timeout.Milliseconds(), 10)+"m")
	}

	return md
}
