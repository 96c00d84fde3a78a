package grpcweb

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"

	"github.com/grpcweb-go/grpcweb-client/grpcweb/frame"
	"github.com/grpcweb-go/grpcweb-client/grpcweb/trailer"
	"github.com/grpcweb-go/grpcweb-client/grpcweb/transport"
)

// ResponseHandler receives the callbacks one call's response delivers. A
// single Receive call invokes at most one OnHeader, zero or one OnMessage,
// zero or one OnTrailer, and exactly one OnClose, in that order, with
// OnClose always last. Every field except OnClose may be left nil.
type ResponseHandler struct {
	OnHeader  func(metadata.MD)
	OnMessage func(proto.Message)
	OnTrailer func(metadata.MD)
	OnClose   func(*TransportError)
}

// ClientResponse is the incoming half of one call's handle pair. Receive
// must be invoked at most once in earnest; a second, concurrent call closes
// immediately without disturbing the first.
type ClientResponse struct {
	receive func(ResponseHandler)
}

// Receive drives the response lifecycle state machine to completion,
// invoking h's callbacks as each frame becomes available, and returns only
// after OnClose has fired.
func (r *ClientResponse) Receive(h ResponseHandler) {
	r.receive(h)
}

type responseState int

const (
	stateInitial responseState = iota
	stateRunning
	stateClosed
)

// callState is the engine's per-call state machine. It is shared by the
// ClientRequest and ClientResponse halves returned from one Transport.Call,
// and owns the HTTP future and the frame deframer exclusively for that
// call — no state is shared across calls.
type callState struct {
	sender    transport.Sender
	url       string
	header    metadata.MD
	method    MethodDescriptor
	marshal   proto.MarshalOptions
	unmarshal proto.UnmarshalOptions
	ctx       context.Context

	sendOnce sync.Once
	future   *transport.Future

	mu    sync.Mutex
	state responseState
}

func (s *callState) send(message proto.Message, sent func()) {
	s.sendOnce.Do(func() {
		payload, err := s.marshal.Marshal(message)
		if err != nil {
			s.future = transport.NewFailedFuture(errors.Wrap(err, "failed to marshal the request body"))
			return
		}

		s.future = s.sender.Send(s.ctx, transport.Request{
			URL:    s.url,
			Header: mdToHTTPHeader(s.header),
			Body:   frame.EncodeDataFrame(payload),
		})
	})

	if sent != nil {
		sent()
	}
}

func (s *callState) receive(h ResponseHandler) {
	s.mu.Lock()
	switch s.state {
	case stateClosed:
		s.mu.Unlock()
		invokeClose(h, NewTransportError(codes.Unknown, "response already read"))
		return
	case stateRunning:
		s.mu.Unlock()
		invokeClose(h, NewTransportError(codes.Unknown, "cannot read response concurrently"))
		return
	}
	s.state = stateRunning
	s.mu.Unlock()

	err := s.run(h)

	s.mu.Lock()
	s.state = stateClosed
	s.mu.Unlock()

	invokeClose(h, err)
}

// run walks the response once: wait for headers, extract an error, then
// read at most one DATA frame followed by the TRAILER frame. It returns the
// terminal error, if any, and never calls OnClose itself — receive does
// that exactly once, after run returns — so every early-exit branch below
// can simply return.
func (s *callState) run(h ResponseHandler) *TransportError {
	if s.future == nil {
		return NewTransportError(codes.Internal, "request was never sent")
	}

	resp, err := s.future.Wait(s.ctx)
	if err != nil {
		return mapTransportFailure(err)
	}

	md := headerToMetadata(resp.Header)
	if h.OnHeader != nil {
		h.OnHeader(md)
	}

	if te := extractError(resp.StatusCode, md); te != nil {
		return te
	}

	if resp.Body == nil {
		return NewTransportError(codes.Internal, "missing response body")
	}
	defer resp.Body.Close()

	reader := frame.NewReader(resp.Body)

	frm, err := reader.ReadFrame()
	if err != nil {
		return mapFrameError(err)
	}

	if frm.Kind == frame.KindData {
		msg := s.method.NewOutput()
		if uerr := s.unmarshal.Unmarshal(frm.Payload, msg); uerr != nil {
			return NewTransportError(
				codes.Internal,
				fmt.Sprintf("failed to deserialize message %s: %s", msg.ProtoReflect().Descriptor().FullName(), uerr),
			)
		}
		if h.OnMessage != nil {
			h.OnMessage(msg)
		}

		frm, err = reader.ReadFrame()
		if err != nil {
			return mapFrameError(err)
		}
	}

	if frm.Kind != frame.KindTrailer {
		return NewTransportError(codes.Internal, "unexpected frame before trailer")
	}

	tmd := trailer.Parse(frm.Payload)
	if h.OnTrailer != nil {
		h.OnTrailer(tmd)
	}

	return extractTrailerError(tmd)
}

func invokeClose(h ResponseHandler, err *TransportError) {
	if h.OnClose != nil {
		h.OnClose(err)
	}
}

func mapTransportFailure(err error) *TransportError {
	switch {
	case errors.Is(err, context.Canceled):
		return NewTransportError(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return NewTransportError(codes.DeadlineExceeded, err.Error())
	default:
		return NewTransportError(codes.Unavailable, err.Error())
	}
}

func mapFrameError(err error) *TransportError {
	if errors.Is(err, frame.ErrPrematureEOF) {
		return NewTransportError(codes.DataLoss, "premature end of response body")
	}
	return NewTransportError(codes.Internal, err.Error())
}

func headerToMetadata(h http.Header) metadata.MD {
	md := metadata.MD{}
	for k, v := range h {
		md.Append(k, v...)
	}
	return md
}

func mdToHTTPHeader(md metadata.MD) http.Header {
	h := make(http.Header, len(md))
	for k, v := range md {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	return h
}
