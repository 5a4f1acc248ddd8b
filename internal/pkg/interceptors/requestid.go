// Package interceptors provides the unary gRPC interceptors shared by every
// service: request-id propagation and panic recovery.
package interceptors

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// HeaderXRequestID is the metadata key used to correlate a request across
// the gateway, the orchestrator and the two stores.
const HeaderXRequestID = "x-request-id"

type ctxKey string

const requestIDKey ctxKey = HeaderXRequestID

// RequestIDServerInterceptor reads the x-request-id metadata entry (minting
// one when absent) and stores it in the request context.
func RequestIDServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(HeaderXRequestID); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		newCtx := context.WithValue(ctx, requestIDKey, requestID)
		slog.DebugContext(newCtx, "rpc received", "method", info.FullMethod, "request_id", requestID)

		return handler(newCtx, req)
	}
}

// RequestIDFromContext returns the request id stored by
// RequestIDServerInterceptor, or "unknown" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(HeaderXRequestID); len(ids) > 0 {
			return ids[0]
		}
	}
	return "unknown"
}

// ContextWithPropagatedID copies the current request id into the outgoing
// metadata so downstream services see the same correlation id.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, HeaderXRequestID, RequestIDFromContext(ctx))
}
