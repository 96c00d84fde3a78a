package grpcweb

import "context"

// Caller builds one call's (ClientRequest, ClientResponse) pair. It is the
// seam interceptors wrap: the engine's base Caller builds the raw HTTP
// request and the deframing response; each Interceptor may return a
// different pair, e.g. to add headers or wrap the response handler.
type Caller func(
	ctx context.Context,
	svc ServiceDescriptor,
	method MethodDescriptor,
	opts CallOptions,
) (*ClientRequest, *ClientResponse)

// Interceptor wraps a Caller with additional behavior. Given an ordered
// list of interceptors, the effective chain applies the last one outermost:
// it wraps the second-to-last, which wraps the one before it, and so on
// down to the base Caller. Model interceptors as pure function composition
// over the (request, response) pair — there is no global middleware
// registry to register into.
type Interceptor func(next Caller) Caller

// chain folds interceptors around base so that the last interceptor in the
// list is the outermost wrapper.
func chain(interceptors []Interceptor, base Caller) Caller {
	c := base
	for _, interceptor := range interceptors {
		c = interceptor(c)
	}
	return c
}
