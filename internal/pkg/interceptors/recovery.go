package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// internalErrMsg is the only text a caller ever sees for an unclassified
// fault; the real panic value stays in the local log.
const internalErrMsg = "Internal error occurred"

// RecoveryServerInterceptor converts panics into codes.Internal with a fixed
// generic message so no caller ever observes a crash or raw fault detail.
func RecoveryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "panic recovered",
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				err = status.Error(codes.Internal, internalErrMsg)
			}
		}()
		return handler(ctx, req)
	}
}
