package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/pkg/interceptors"
	"github.com/quickcart/orderflow/internal/pkg/telemetry"
	"github.com/quickcart/orderflow/internal/user-service/app"
	"github.com/quickcart/orderflow/internal/user-service/storage"
	"github.com/quickcart/orderflow/internal/user-service/token"
)

func main() {
	telemetry.InitLogger("user-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "user-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := storage.Open(getEnv("DATABASE_URL", "postgres://localhost:5432/userdb"))
	if err != nil {
		slog.Error("failed to open user store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	issuer, err := token.NewIssuer(getEnv("JWT_SECRET_KEY", "your-secret-key-keep-it-safe"))
	if err != nil {
		slog.Error("failed to configure token issuer", "error", err)
		os.Exit(1)
	}

	addr := ":" + getEnv("PORT", "50051")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RequestIDServerInterceptor(),
			interceptors.RecoveryServerInterceptor(),
		),
	)
	userv1.RegisterUserServiceServer(grpcServer, app.NewUserServer(store, issuer))

	slog.Info("user service gRPC running", "addr", addr)

	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
