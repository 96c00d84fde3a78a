// Package status defines the closed set of gRPC status codes the transport
// core recognizes and the HTTP-status-to-status-code fallback mapping used
// when a response carries no gRPC-native status at all.
package status

import "google.golang.org/grpc/codes"

// Code is a gRPC status code. It is the canonical set defined by
// google.golang.org/grpc/codes, codes 0 through 16 inclusive.
type Code = codes.Code

// Ok is the only status code that does not represent a call failure.
const Ok = codes.OK

// maxCode is the highest recognized canonical status code.
const maxCode = codes.Code(16)

// Valid reports whether c is one of the canonical 0..16 status codes.
// Callers should treat anything outside that range as a malformed status.
func Valid(c Code) bool {
	return c <= maxCode
}

// FromHTTPStatus maps an HTTP status code to a gRPC status code, following
// the fixed table used by gRPC-Web transports to turn a non-gRPC HTTP
// failure (proxy error, auth rejection, ...) into a TransportError when the
// response never reached the gRPC-Web framing layer at all.
func FromHTTPStatus(httpStatus int) Code {
	switch httpStatus {
	case 200:
		return codes.OK
	case 400:
		return codes.Internal
	case 401:
		return codes.Unauthenticated
	case 403:
		return codes.PermissionDenied
	case 404:
		return codes.Unimplemented
	case 429, 502, 503, 504:
		return codes.Unavailable
	default:
		return codes.Unknown
	}
}
