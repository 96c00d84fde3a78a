package grpcweb

import (
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"

	"github.com/grpcweb-go/grpcweb-client/grpcweb/transport"
)

const defaultUserAgent = "grpcweb-go-client/1.0"

// transportOptions holds the Transport-wide configuration a TransportOption
// mutates. Every Call made through the resulting Transport inherits these
// defaults; CallOptions can still override headers on a per-call basis.
type transportOptions struct {
	sender         transport.Sender
	userAgent      string
	interceptors   []Interceptor
	defaultHeader  metadata.MD
	marshalOptions proto.MarshalOptions
	unmarshalOpts  proto.UnmarshalOptions
}

func defaultTransportOptions() transportOptions {
	return transportOptions{
		userAgent: defaultUserAgent,
	}
}

// TransportOption configures a Transport at construction time.
type TransportOption func(*transportOptions)

// WithSender overrides the transport.Sender used to issue HTTP requests.
// Defaults to a transport.NewHTTPSender(nil).
func WithSender(s transport.Sender) TransportOption {
	return func(o *transportOptions) { o.sender = s }
}

// WithUserAgent sets the X-User-Agent header value every call carries.
func WithUserAgent(ua string) TransportOption {
	return func(o *transportOptions) { o.userAgent = ua }
}

// WithInterceptors installs the transport's interceptor chain. Declaration
// order is FIFO: the last interceptor in the list wraps every other one.
func WithInterceptors(interceptors ...Interceptor) TransportOption {
	return func(o *transportOptions) { o.interceptors = interceptors }
}

// WithDefaultHeader sets headers applied to every call made through the
// Transport. Per-call CallOptions.Header entries with the same name replace
// these for that call.
func WithDefaultHeader(h metadata.MD) TransportOption {
	return func(o *transportOptions) { o.defaultHeader = h }
}

// WithBinaryOptions sets the proto marshal/unmarshal options applied to
// every message this Transport encodes or decodes.
func WithBinaryOptions(marshal proto.MarshalOptions, unmarshal proto.UnmarshalOptions) TransportOption {
	return func(o *transportOptions) {
		o.marshalOptions = marshal
		o.unmarshalOpts = unmarshal
	}
}

// CallOptions carries the per-call configuration: optional caller headers
// and an optional timeout. The cancellation signal is the context.Context
// passed to Transport.Call, not a field here — the idiomatic Go equivalent
// of an AbortSignal is already threaded through every blocking call the
// core makes.
type CallOptions struct {
	Header  metadata.MD
	Timeout time.Duration
}

// CallOption mutates CallOptions when building a call.
type CallOption func(*CallOptions)

// WithHeader adds caller-supplied headers for one call.
func WithHeader(h metadata.MD) CallOption {
	return func(o *CallOptions) { o.Header = h }
}

// WithTimeout sets the grpc-timeout header emitted with the request. It
// does not itself enforce a deadline — that's left to the context.Context
// governing the call.
func WithTimeout(d time.Duration) CallOption {
	return func(o *CallOptions) { o.Timeout = d }
}
