package grpcweb

import (
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

// ClientRequest is the outgoing half of one call's handle pair. It carries
// the already-built URL and header set; send is the only operation that
// does I/O, and it must be invoked at most once.
type ClientRequest struct {
	URL    string
	Method string
	Header metadata.MD

	send func(message proto.Message, sent func())
}

// Send marshals message, frames it as a single DATA frame, and issues the
// HTTP POST asynchronously. Send is fire-and-forget from the caller's point
// of view: sent is invoked synchronously once the send has been kicked off,
// carrying no result of its own — the actual HTTP outcome, and any encoding
// failure, is surfaced later through ClientResponse.Receive's OnClose. A
// second call to Send does not send again; it only invokes sent.
func (r *ClientRequest) Send(message proto.Message, sent func()) {
	r.send(message, sent)
}
