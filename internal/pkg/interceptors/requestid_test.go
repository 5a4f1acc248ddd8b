package interceptors

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestRequestIDFromIncomingMetadata(t *testing.T) {
	interceptor := RequestIDServerInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(HeaderXRequestID, "req-123"))

	var seen string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = RequestIDFromContext(ctx)
		return nil, nil
	}

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seen != "req-123" {
		t.Fatalf("expected propagated request id, got %q", seen)
	}
}

func TestRequestIDMintedWhenAbsent(t *testing.T) {
	interceptor := RequestIDServerInterceptor()

	var seen string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = RequestIDFromContext(ctx)
		return nil, nil
	}

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seen == "" || seen == "unknown" {
		t.Fatalf("expected a minted request id, got %q", seen)
	}
}

func TestContextWithPropagatedID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "req-42")
	out := ContextWithPropagatedID(ctx)

	md, ok := metadata.FromOutgoingContext(out)
	if !ok {
		t.Fatalf("expected outgoing metadata")
	}
	if got := md.Get(HeaderXRequestID); len(got) != 1 || got[0] != "req-42" {
		t.Fatalf("unexpected metadata: %v", got)
	}
}

func TestRequestIDFromContextDefault(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
