package grpcweb

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/anypb"
)

// TransportError is the sole error type the transport core surfaces to
// callers. It is delivered exactly once per call, through ResponseHandler's
// OnClose, never thrown across a call boundary.
type TransportError struct {
	code    codes.Code
	message string
	details []*anypb.Any
}

// NewTransportError builds a TransportError with no structured details.
func NewTransportError(code codes.Code, message string) *TransportError {
	return &TransportError{code: code, message: message}
}

// NewTransportErrorWithDetails builds a TransportError carrying status
// details extracted from a binary grpc-status-details-bin payload.
func NewTransportErrorWithDetails(code codes.Code, message string, details []*anypb.Any) *TransportError {
	return &TransportError{code: code, message: message, details: details}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("grpcweb: %s: %s", e.code, e.message)
}

// Code returns the gRPC status code this error represents.
func (e *TransportError) Code() codes.Code {
	return e.code
}

// Message returns the human-readable status message.
func (e *TransportError) Message() string {
	return e.message
}

// Details returns the typed status details, if any were carried by a
// grpc-status-details-bin trailer.
func (e *TransportError) Details() []*anypb.Any {
	return e.details
}

// Proto renders the error as a google.rpc.Status message, for callers that
// want to interoperate with google.golang.org/grpc/status.
func (e *TransportError) Proto() *status.Status {
	return &status.Status{
		Code:    int32(e.code),
		Message: e.message,
		Details: e.details,
	}
}

// GRPCStatus implements the interface google.golang.org/grpc/status.FromError
// looks for, so a TransportError can be handed to code that only understands
// *status.Status errors.
func (e *TransportError) GRPCStatus() *grpcstatus.Status {
	st := grpcstatus.New(e.code, e.message)
	if len(e.details) == 0 {
		return st
	}

	withDetails, err := st.WithDetails(anysToProtoMessages(e.details)...)
	if err != nil {
		return st
	}

	return withDetails
}
