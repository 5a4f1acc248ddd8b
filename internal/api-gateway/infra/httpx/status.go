package httpx

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// httpStatusFromError maps a gRPC status error (possibly wrapped) to the
// public HTTP status code. Non-status errors and unclassified codes map to
// 500.
func httpStatusFromError(err error) (int, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "internal_error"
	}

	switch st.Code() {
	case codes.NotFound:
		return http.StatusNotFound, "not_found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated"
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument"
	case codes.Unavailable:
		return http.StatusBadGateway, "service_unavailable"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeRPCError translates a downstream failure into the public error shape,
// keeping the downstream message.
func writeRPCError(w http.ResponseWriter, err error) {
	httpStatus, code := httpStatusFromError(err)
	msg := ""
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	writeError(w, httpStatus, code, msg)
}
