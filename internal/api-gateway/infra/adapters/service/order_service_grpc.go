package service

import (
	"context"
	"fmt"

	"github.com/quickcart/orderflow/internal/api-gateway/core/domain/entity"
	"github.com/quickcart/orderflow/internal/api-gateway/core/ports"
	orchestratorv1 "github.com/quickcart/orderflow/internal/genproto/orchestrator/v1"
	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
)

// GRPCOrderService adapts the orchestrator client (composite operations) and
// the order service client (admin status updates) to the gateway port.
type GRPCOrderService struct {
	orchestrator orchestratorv1.OrchestratorClient
	orders       orderv1.OrderServiceClient
}

var _ ports.OrderService = (*GRPCOrderService)(nil)

func NewGRPCOrderClient(
	orchestrator orchestratorv1.OrchestratorClient,
	orders orderv1.OrderServiceClient,
) ports.OrderService {
	return &GRPCOrderService{orchestrator: orchestrator, orders: orders}
}

func (s *GRPCOrderService) PlaceOrder(ctx context.Context, userID string, items []entity.OrderItem) (*entity.PlacedOrder, error) {
	protoItems := make([]*orchestratorv1.OrderItem, 0, len(items))
	for _, it := range items {
		protoItems = append(protoItems, &orchestratorv1.OrderItem{
			ProductId: it.ProductID,
			Quantity:  int32(it.Quantity),
			UnitPrice: it.UnitPrice,
		})
	}

	res, err := s.orchestrator.PlaceOrder(ctx, &orchestratorv1.PlaceOrderRequest{
		UserId: userID,
		Items:  protoItems,
	})
	if err != nil {
		return nil, fmt.Errorf("grpc PlaceOrder: %w", err)
	}

	return &entity.PlacedOrder{
		OrderID: res.GetOrderId(),
		Status:  res.GetStatus(),
		Message: res.GetMessage(),
	}, nil
}

func (s *GRPCOrderService) GetOrderStatus(ctx context.Context, id string) (*entity.OrderStatus, error) {
	res, err := s.orchestrator.GetOrderStatus(ctx, &orchestratorv1.GetOrderStatusRequest{OrderId: id})
	if err != nil {
		return nil, fmt.Errorf("grpc GetOrderStatus: %w", err)
	}

	items := make([]entity.OrderItem, 0, len(res.GetItems()))
	for _, it := range res.GetItems() {
		items = append(items, entity.OrderItem{
			ProductID: it.GetProductId(),
			Quantity:  int(it.GetQuantity()),
			UnitPrice: it.GetUnitPrice(),
		})
	}

	return &entity.OrderStatus{
		OrderID:     res.GetOrderId(),
		Status:      res.GetStatus(),
		Items:       items,
		TotalAmount: res.GetTotalAmount(),
		CreatedAt:   res.GetCreatedAt(),
	}, nil
}

func (s *GRPCOrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*entity.OrderStatus, error) {
	res, err := s.orders.UpdateOrderStatus(ctx, &orderv1.UpdateOrderStatusRequest{
		OrderId: id,
		Status:  status,
	})
	if err != nil {
		return nil, fmt.Errorf("grpc UpdateOrderStatus: %w", err)
	}

	items := make([]entity.OrderItem, 0, len(res.GetItems()))
	for _, it := range res.GetItems() {
		items = append(items, entity.OrderItem{
			ProductID: it.GetProductId(),
			Quantity:  int(it.GetQuantity()),
			UnitPrice: it.GetUnitPrice(),
		})
	}

	return &entity.OrderStatus{
		OrderID:     res.GetOrderId(),
		Status:      res.GetStatus(),
		Items:       items,
		TotalAmount: res.GetTotalAmount(),
		CreatedAt:   res.GetCreatedAt(),
	}, nil
}
