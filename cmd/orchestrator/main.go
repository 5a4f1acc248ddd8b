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
	"google.golang.org/grpc/credentials/insecure"

	orchestratorv1 "github.com/quickcart/orderflow/internal/genproto/orchestrator/v1"
	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/orchestrator/app"
	"github.com/quickcart/orderflow/internal/orchestrator/steplog"
	"github.com/quickcart/orderflow/internal/orchestrator/steplog/sqlite"
	"github.com/quickcart/orderflow/internal/pkg/interceptors"
	"github.com/quickcart/orderflow/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("orchestrator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "orchestrator"))
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

	// Downstream connections are created once here; the request path never
	// dials.
	userConn := createGRPCConn(getEnv("USER_SERVICE_ADDR", "user-service:50051"))
	defer userConn.Close()

	orderConn := createGRPCConn(getEnv("ORDER_SERVICE_ADDR", "order-service:50052"))
	defer orderConn.Close()

	userClient := userv1.NewUserServiceClient(userConn)
	orderClient := orderv1.NewOrderServiceClient(orderConn)

	var steps steplog.Repository
	stepRepo, err := sqlite.Open(getEnv("STEPLOG_PATH", "./data/order-steps.db"))
	if err != nil {
		slog.Warn("step log unavailable, continuing without it", "error", err)
	} else {
		defer stepRepo.Close()
		steps = stepRepo
	}

	addr := ":" + getEnv("PORT", "50050")
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
	orchestratorv1.RegisterOrchestratorServer(grpcServer, app.NewOrchestratorServer(userClient, orderClient, steps))

	slog.Info("orchestrator gRPC running", "addr", addr)

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

func createGRPCConn(addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		slog.Error("could not connect", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}
