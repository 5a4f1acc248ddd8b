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

	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	"github.com/quickcart/orderflow/internal/order-service/app"
	"github.com/quickcart/orderflow/internal/order-service/storage"
	"github.com/quickcart/orderflow/internal/pkg/cache"
	"github.com/quickcart/orderflow/internal/pkg/interceptors"
	"github.com/quickcart/orderflow/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("order-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-service"))
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

	store, err := storage.Open(getEnv("DATABASE_URL", "postgres://localhost:5432/orderdb"))
	if err != nil {
		slog.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	addr := ":" + getEnv("PORT", "50052")
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

	redisCache := cache.NewRedisCache(getEnv("REDIS_ADDR", "redis-cache:6379"), "order")
	orderv1.RegisterOrderServiceServer(grpcServer, app.NewOrderServer(store, redisCache))

	slog.Info("order service gRPC running", "addr", addr)

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
