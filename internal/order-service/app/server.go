// Package app implements the OrderService gRPC servicer with a redis
// read-through cache in front of the store.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	"github.com/quickcart/orderflow/internal/order-service/adapters/grpc/mappers"
	"github.com/quickcart/orderflow/internal/order-service/domain"
	"github.com/quickcart/orderflow/internal/order-service/storage"
	"github.com/quickcart/orderflow/internal/pkg/cache"
)

const (
	internalErrMsg = "Internal error occurred"
	cacheTTL       = 10 * time.Minute
)

type orderServer struct {
	orderv1.UnimplementedOrderServiceServer
	store storage.Store
	cache cache.Cache
}

func NewOrderServer(store storage.Store, c cache.Cache) orderv1.OrderServiceServer {
	return &orderServer{store: store, cache: c}
}

// CreateOrder computes the total, persists the order in PENDING state and
// returns the full document. It does not check that the user exists; the
// orchestrator does that before calling here.
func (s *orderServer) CreateOrder(ctx context.Context, req *orderv1.CreateOrderRequest) (*orderv1.OrderResponse, error) {
	slog.InfoContext(ctx, "creating order", "user_id", req.GetUserId())

	order := mappers.OrderFromProto(req)
	if err := s.store.Create(ctx, order); err != nil {
		slog.ErrorContext(ctx, "order insert failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	s.cacheOrder(ctx, order)

	slog.InfoContext(ctx, "order created", "order_id", order.ID, "total_amount", order.TotalAmount)
	return mappers.OrderToProto(order), nil
}

// GetOrder fetches an order by id, serving from the cache when possible.
func (s *orderServer) GetOrder(ctx context.Context, req *orderv1.GetOrderRequest) (*orderv1.OrderResponse, error) {
	slog.InfoContext(ctx, "getting order", "order_id", req.GetOrderId())

	if _, err := uuid.Parse(req.GetOrderId()); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid order id %q", req.GetOrderId())
	}

	if order := s.cachedOrder(ctx, req.GetOrderId()); order != nil {
		return mappers.OrderToProto(order), nil
	}

	order, err := s.store.FindByID(ctx, req.GetOrderId())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "order not found", "order_id", req.GetOrderId())
			return nil, status.Error(codes.NotFound, "Order not found")
		}
		slog.ErrorContext(ctx, "order lookup failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	s.cacheOrder(ctx, order)
	return mappers.OrderToProto(order), nil
}

// UpdateOrderStatus sets a new status and returns the updated order. Any
// non-empty status string is accepted; there is no transition table.
func (s *orderServer) UpdateOrderStatus(ctx context.Context, req *orderv1.UpdateOrderStatusRequest) (*orderv1.OrderResponse, error) {
	slog.InfoContext(ctx, "updating order status", "order_id", req.GetOrderId(), "status", req.GetStatus())

	if req.GetStatus() == "" {
		return nil, status.Error(codes.InvalidArgument, "status must not be empty")
	}

	order, err := s.store.UpdateStatus(ctx, req.GetOrderId(), req.GetStatus())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "order not found", "order_id", req.GetOrderId())
			return nil, status.Error(codes.NotFound, "Order not found")
		}
		slog.ErrorContext(ctx, "status update failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	s.cacheOrder(ctx, order)

	slog.InfoContext(ctx, "order status updated", "order_id", order.ID, "status", order.Status)
	return mappers.OrderToProto(order), nil
}

// cacheOrder stores the order JSON; cache failures never fail the request.
func (s *orderServer) cacheOrder(ctx context.Context, order *domain.Order) {
	raw, err := json.Marshal(order)
	if err != nil {
		return
	}
	key := s.cache.GenerateKey("order", order.ID)
	if err := s.cache.Set(ctx, key, raw, cacheTTL); err != nil {
		slog.DebugContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

// cachedOrder returns the cached order or nil on miss or any cache fault.
func (s *orderServer) cachedOrder(ctx context.Context, id string) *domain.Order {
	key := s.cache.GenerateKey("order", id)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.DebugContext(ctx, "cache get failed", "key", key, "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var order domain.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil
	}
	return &order
}
