package grpcweb

import (
	"context"
	"log/slog"
	"time"
)

// WithLogger returns an Interceptor that logs one line per call once it
// closes: method name, resulting status code, and wall-clock duration. It
// wraps ClientResponse's receive closure rather than touching the frame
// loop itself, so logging stays strictly opt-in — installed the same way
// any other Interceptor is, never built into the call engine.
func WithLogger(logger *slog.Logger) Interceptor {
	return func(next Caller) Caller {
		return func(ctx context.Context, svc ServiceDescriptor, method MethodDescriptor, opts CallOptions) (*ClientRequest, *ClientResponse) {
			start := time.Now()
			req, resp := next(ctx, svc, method, opts)

			innerReceive := resp.receive
			resp.receive = func(h ResponseHandler) {
				onClose := h.OnClose
				h.OnClose = func(err *TransportError) {
					logCall(logger, svc.TypeName, method.Name, start, err)
					if onClose != nil {
						onClose(err)
					}
				}
				innerReceive(h)
			}

			return req, resp
		}
	}
}

func logCall(logger *slog.Logger, service, method string, start time.Time, err *TransportError) {
	if logger == nil {
		return
	}

	attrs := []any{
		slog.String("service", service),
		slog.String("method", method),
		slog.Duration("duration", time.Since(start)),
	}

	if err == nil {
		attrs = append(attrs, slog.String("code", "OK"))
		logger.Info("grpcweb call completed", attrs...)
		return
	}

	attrs = append(attrs, slog.String("code", err.Code().String()), slog.String("message", err.Message()))
	logger.Warn("grpcweb call failed", attrs...)
}
