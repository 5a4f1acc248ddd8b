package interceptors

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRecoveryConvertsPanicToInternal(t *testing.T) {
	interceptor := RecoveryServerInterceptor()

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("database credentials leaked in panic value")
	}

	resp, err := interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	if resp != nil {
		t.Fatalf("expected nil response, got %v", resp)
	}

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a status error, got %v", err)
	}
	if st.Code() != codes.Internal {
		t.Fatalf("expected Internal, got %v", st.Code())
	}
	if st.Message() != "Internal error occurred" {
		t.Fatalf("unexpected message: %q", st.Message())
	}
	if strings.Contains(err.Error(), "credentials") {
		t.Fatalf("panic value leaked into the returned error: %v", err)
	}
}

func TestRecoveryPassesThroughNormalResults(t *testing.T) {
	interceptor := RecoveryServerInterceptor()

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestRecoveryPassesThroughHandlerErrors(t *testing.T) {
	interceptor := RecoveryServerInterceptor()

	want := status.Error(codes.NotFound, "User not found")
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	}

	_, err := interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	st, _ := status.FromError(err)
	if st.Code() != codes.NotFound || st.Message() != "User not found" {
		t.Fatalf("handler error was rewritten: %v", err)
	}
}
