package grpcweb

import (
	"strconv"

	rpcstatus "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"

	"github.com/grpcweb-go/grpcweb-client/grpcweb/status"
)

const (
	headerGRPCStatus       = "grpc-status"
	headerGRPCMessage      = "grpc-message"
	headerGRPCStatusDetail = "grpc-status-details-bin"
)

// extractBinaryDetails reads grpc-status-details-bin, if present, and turns
// a non-Ok google.rpc.Status into a TransportError carrying its details. It
// is the highest-precedence of the three extractors.
func extractBinaryDetails(md metadata.MD) *TransportError {
	vals := md.Get(headerGRPCStatusDetail)
	if len(vals) == 0 {
		return nil
	}

	raw, err := decodeStatusDetailsBin(vals[0])
	if err != nil {
		return NewTransportError(codes.Unknown, "invalid grpc-status-details-bin")
	}

	var st rpcstatus.Status
	if err := proto.Unmarshal(raw, &st); err != nil {
		return NewTransportError(codes.Unknown, "invalid grpc-status-details-bin")
	}

	code := codes.Code(st.GetCode())
	if code == status.Ok {
		return nil
	}

	return NewTransportErrorWithDetails(code, st.GetMessage(), st.GetDetails())
}

// extractTextualStatus reads grpc-status and grpc-message. An absent
// grpc-status header means there is no textual status to report. An
// unrecognized status code is reported as DataLoss, per the canonical
// 0..16 code range.
func extractTextualStatus(md metadata.MD) *TransportError {
	vals := md.Get(headerGRPCStatus)
	if len(vals) == 0 {
		return nil
	}

	n, err := strconv.ParseUint(vals[0], 10, 32)
	if err != nil {
		return NewTransportError(codes.DataLoss, "invalid grpc-status: "+vals[0])
	}

	code := codes.Code(n)
	if code == status.Ok {
		return nil
	}
	if !status.Valid(code) {
		return NewTransportError(codes.DataLoss, "invalid grpc-status: "+vals[0])
	}

	return NewTransportError(code, grpcMessage(md))
}

// extractHTTPStatus maps an HTTP status code to a gRPC status code via the
// fixed table in package status. It is the lowest-precedence extractor,
// used when the response never carried gRPC-native status information.
func extractHTTPStatus(httpStatus int, md metadata.MD) *TransportError {
	code := status.FromHTTPStatus(httpStatus)
	if code == status.Ok {
		return nil
	}
	return NewTransportError(code, grpcMessage(md))
}

func grpcMessage(md metadata.MD) string {
	vals := md.Get(headerGRPCMessage)
	if len(vals) == 0 {
		return ""
	}
	return percentDecodeMessage(vals[0])
}

// extractError composes the three extraction strategies with a fixed
// precedence: binary details first, then textual status, then HTTP status.
// The first non-nil result wins.
func extractError(httpStatus int, md metadata.MD) *TransportError {
	if err := extractBinaryDetails(md); err != nil {
		return err
	}
	if err := extractTextualStatus(md); err != nil {
		return err
	}
	return extractHTTPStatus(httpStatus, md)
}

// extractTrailerError composes just the two trailer-derived strategies —
// binary details then textual status — used when running the extractor
// again at TRAILER arrival, where there is no fresh HTTP status to fall
// back on.
func extractTrailerError(md metadata.MD) *TransportError {
	if err := extractBinaryDetails(md); err != nil {
		return err
	}
	return extractTextualStatus(md)
}
