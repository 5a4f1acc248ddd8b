// Package app implements the Orchestrator gRPC servicer: the composite
// place-order and read-order operations across the user and order services.
package app

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orchestratorv1 "github.com/quickcart/orderflow/internal/genproto/orchestrator/v1"
	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/orchestrator/steplog"
	"github.com/quickcart/orderflow/internal/pkg/interceptors"
)

const internalErrMsg = "Internal error occurred"

type orchestratorServer struct {
	orchestratorv1.UnimplementedOrchestratorServer
	users  userv1.UserServiceClient
	orders orderv1.OrderServiceClient
	steps  steplog.Repository // nil-safe: step recording skipped if nil
}

// NewOrchestratorServer wires the two downstream clients. The clients hold
// persistent connections created once at startup; nothing is dialed per
// request. steps may be nil, in which case step outcomes are not persisted.
func NewOrchestratorServer(
	users userv1.UserServiceClient,
	orders orderv1.OrderServiceClient,
	steps steplog.Repository,
) orchestratorv1.OrchestratorServer {
	return &orchestratorServer{users: users, orders: orders, steps: steps}
}

// PlaceOrder verifies that the user exists, then creates the order.
//
// The sequence is strictly sequential: the order store is never called until
// the user lookup has resolved. The verification step is read-only, so a
// failure at the creation step leaves no state to roll back; any new step
// that mutates state before the final one would need compensation built on
// the step log.
func (s *orchestratorServer) PlaceOrder(ctx context.Context, req *orchestratorv1.PlaceOrderRequest) (*orchestratorv1.PlaceOrderResponse, error) {
	executionID := interceptors.RequestIDFromContext(ctx)
	downstreamCtx := interceptors.ContextWithPropagatedID(ctx)

	slog.InfoContext(ctx, "processing order", "user_id", req.GetUserId(), "items", len(req.GetItems()))
	s.record(ctx, executionID, steplog.StatusStarted, "", "")

	user, err := s.users.GetUser(downstreamCtx, &userv1.GetUserRequest{UserId: req.GetUserId()})
	if err != nil {
		slog.WarnContext(ctx, "user verification failed", "user_id", req.GetUserId(), "error", err)
		s.record(ctx, executionID, steplog.StatusFailed, steplog.StepVerifyUser, err.Error())
		return nil, passthrough(err)
	}
	if user.GetUserId() == "" {
		// A default/empty record counts as absent.
		slog.WarnContext(ctx, "user not found", "user_id", req.GetUserId())
		s.record(ctx, executionID, steplog.StatusFailed, steplog.StepVerifyUser, "user not found")
		return nil, status.Error(codes.NotFound, "User not found")
	}
	s.record(ctx, executionID, steplog.StatusStepDone, steplog.StepVerifyUser, user.GetUserId())

	order, err := s.orders.CreateOrder(downstreamCtx, &orderv1.CreateOrderRequest{
		UserId: req.GetUserId(),
		Items:  itemsToOrder(req.GetItems()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "order creation failed", "user_id", req.GetUserId(), "error", err)
		s.record(ctx, executionID, steplog.StatusFailed, steplog.StepCreateOrder, err.Error())
		return nil, passthrough(err)
	}
	s.record(ctx, executionID, steplog.StatusStepDone, steplog.StepCreateOrder, order.GetOrderId())
	s.record(ctx, executionID, steplog.StatusCompleted, "", order.GetOrderId())

	slog.InfoContext(ctx, "order processed", "order_id", order.GetOrderId())
	return &orchestratorv1.PlaceOrderResponse{
		OrderId: order.GetOrderId(),
		Status:  order.GetStatus(),
		Message: "Order processed successfully",
	}, nil
}

// GetOrderStatus reads the order and reshapes it into the composite
// response.
func (s *orchestratorServer) GetOrderStatus(ctx context.Context, req *orchestratorv1.GetOrderStatusRequest) (*orchestratorv1.GetOrderStatusResponse, error) {
	slog.InfoContext(ctx, "getting order status", "order_id", req.GetOrderId())

	order, err := s.orders.GetOrder(interceptors.ContextWithPropagatedID(ctx), &orderv1.GetOrderRequest{
		OrderId: req.GetOrderId(),
	})
	if err != nil {
		slog.WarnContext(ctx, "order lookup failed", "order_id", req.GetOrderId(), "error", err)
		return nil, passthrough(err)
	}
	if order.GetOrderId() == "" {
		slog.WarnContext(ctx, "order not found", "order_id", req.GetOrderId())
		return nil, status.Error(codes.NotFound, "Order not found")
	}

	return &orchestratorv1.GetOrderStatusResponse{
		OrderId:     order.GetOrderId(),
		Status:      order.GetStatus(),
		Items:       itemsFromOrder(order.GetItems()),
		TotalAmount: order.GetTotalAmount(),
		CreatedAt:   order.GetCreatedAt(),
	}, nil
}

// passthrough forwards a downstream status error verbatim: same code, same
// message, Unknown included. Only errors that carry no status at all
// collapse to Internal with a generic message.
func passthrough(err error) error {
	if st, ok := status.FromError(err); ok {
		return status.Error(st.Code(), st.Message())
	}
	return status.Error(codes.Internal, internalErrMsg)
}

// record appends a step log entry; a missing or failing log never affects
// the request outcome.
func (s *orchestratorServer) record(ctx context.Context, executionID string, st steplog.Status, step, detail string) {
	if s.steps == nil {
		return
	}
	if err := s.steps.Save(ctx, steplog.NewEntry(ctx, executionID, st, step, detail)); err != nil {
		slog.WarnContext(ctx, "step log write failed", "execution_id", executionID, "error", err)
	}
}

func itemsToOrder(items []*orchestratorv1.OrderItem) []*orderv1.OrderItem {
	out := make([]*orderv1.OrderItem, len(items))
	for i, item := range items {
		out[i] = &orderv1.OrderItem{
			ProductId: item.GetProductId(),
			Quantity:  item.GetQuantity(),
			UnitPrice: item.GetUnitPrice(),
		}
	}
	return out
}

func itemsFromOrder(items []*orderv1.OrderItem) []*orchestratorv1.OrderItem {
	out := make([]*orchestratorv1.OrderItem, len(items))
	for i, item := range items {
		out[i] = &orchestratorv1.OrderItem{
			ProductId: item.GetProductId(),
			Quantity:  item.GetQuantity(),
			UnitPrice: item.GetUnitPrice(),
		}
	}
	return out
}
