package grpcweb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// anysToProtoMessages unmarshals each Any into its concrete message type so
// it can be attached via (*status.Status).WithDetails. Any entry whose type
// cannot be resolved in the global registry is dropped rather than failing
// the whole conversion — GRPCStatus is a best-effort interop shim, not the
// canonical representation (Proto and Details remain lossless).
func anysToProtoMessages(details []*anypb.Any) []proto.Message {
	msgs := make([]proto.Message, 0, len(details))
	for _, d := range details {
		m, err := d.UnmarshalNew()
		if err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}
