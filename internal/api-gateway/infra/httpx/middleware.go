package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc/metadata"

	"github.com/quickcart/orderflow/internal/pkg/interceptors"
)

// AttachRequestMetadata copies the chi request id into the outgoing gRPC
// metadata so every downstream hop logs the same correlation id.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		ctx := metadata.AppendToOutgoingContext(r.Context(), interceptors.HeaderXRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
