package main

import (
	"log"
	"net/http"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quickcart/orderflow/internal/api-gateway/infra/adapters/service"
	"github.com/quickcart/orderflow/internal/api-gateway/infra/httpx"
	orchestratorv1 "github.com/quickcart/orderflow/internal/genproto/orchestrator/v1"
	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/pkg/obs"
)

func main() {
	httpAddr := ":" + getEnv("PORT", "8080")

	userAddr := getEnv("USER_SERVICE_ADDR", "user-service:50051")
	orderAddr := getEnv("ORDER_SERVICE_ADDR", "order-service:50052")
	orchestratorAddr := getEnv("ORCHESTRATOR_ADDR", "orchestrator:50050")

	userConn := createGRPCConn(userAddr)
	defer userConn.Close()

	orderConn := createGRPCConn(orderAddr)
	defer orderConn.Close()

	orchestratorConn := createGRPCConn(orchestratorAddr)
	defer orchestratorConn.Close()

	userService := service.NewGRPCUserClient(userv1.NewUserServiceClient(userConn))
	orderService := service.NewGRPCOrderClient(
		orchestratorv1.NewOrchestratorClient(orchestratorConn),
		orderv1.NewOrderServiceClient(orderConn),
	)

	obs.Init()

	handler := httpx.NewHandler(userService, orderService)
	router := httpx.NewRouter(handler)

	log.Printf("API Gateway running on %s", httpAddr)
	if err := http.ListenAndServe(httpAddr, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createGRPCConn(addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("could not connect to %s: %v", addr, err)
	}
	return conn
}
