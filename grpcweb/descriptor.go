package grpcweb

import "google.golang.org/protobuf/proto"

// ServiceDescriptor identifies a schema-defined service. TypeName is the
// fully qualified service name used to build the request URL:
// "<baseUrl>/<TypeName>/<MethodName>".
type ServiceDescriptor struct {
	TypeName string
	Methods  map[string]MethodDescriptor
}

// Method looks up a method by name, returning ok=false if the service
// descriptor doesn't declare it.
func (s ServiceDescriptor) Method(name string) (MethodDescriptor, bool) {
	m, ok := s.Methods[name]
	return m, ok
}

// NewMessage constructs an empty instance of a request or response message.
// It stands in for the generated message types this core depends on but
// does not itself produce.
type NewMessage func() proto.Message

// MethodDescriptor identifies one unary method of a service: its wire name
// and a factory for empty response messages, used to unmarshal the DATA
// frame the response carries.
type MethodDescriptor struct {
	Name      string
	NewOutput NewMessage
}
