package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	"github.com/quickcart/orderflow/internal/order-service/domain"
)

type fakeStore struct {
	orders map[string]*domain.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[string]*domain.Order{}}
}

func (f *fakeStore) Create(_ context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, status string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	return o, nil
}

// memCache keeps entries in a map so cache hits and misses can be asserted
// without redis.
type memCache struct {
	entries map[string]string
}

func newMemCache() *memCache { return &memCache{entries: map[string]string{}} }

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.entries[key] = fmt.Sprintf("%s", value)
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	return c.entries[key], nil
}

func (c *memCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("order:%s:%s", operation, key)
}

// faultyCache fails every operation, standing in for an unreachable redis.
type faultyCache struct{}

func (faultyCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("cache: connection refused")
}

func (faultyCache) Get(context.Context, string) (string, error) {
	return "", errors.New("cache: connection refused")
}

func (faultyCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("order:%s:%s", operation, key)
}

func TestCreateOrderComputesTotal(t *testing.T) {
	store := newFakeStore()
	srv := NewOrderServer(store, newMemCache())

	resp, err := srv.CreateOrder(context.Background(), &orderv1.CreateOrderRequest{
		UserId: "user-1",
		Items: []*orderv1.OrderItem{
			{ProductId: "p-1", Quantity: 2, UnitPrice: 9.99},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if resp.GetOrderId() == "" {
		t.Fatalf("expected an order id")
	}
	if resp.GetStatus() != domain.StatusPending {
		t.Fatalf("expected status %s, got %s", domain.StatusPending, resp.GetStatus())
	}
	if resp.GetTotalAmount() != 19.98 {
		t.Fatalf("TotalAmount = %v, want 19.98", resp.GetTotalAmount())
	}
	if resp.GetCreatedAt() == "" {
		t.Fatalf("expected created_at")
	}
}

func TestGetOrder(t *testing.T) {
	store := newFakeStore()
	srv := NewOrderServer(store, newMemCache())
	ctx := context.Background()

	id := uuid.NewString()
	store.Create(ctx, &domain.Order{
		ID:     id,
		UserID: "user-1",
		Items:  []domain.OrderItem{{ProductID: "p-1", Quantity: 1, UnitPrice: 5}},
		Status: domain.StatusPending, TotalAmount: 5,
		CreatedAt: time.Now().UTC(),
	})

	resp, err := srv.GetOrder(ctx, &orderv1.GetOrderRequest{OrderId: id})
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if resp.GetOrderId() != id || resp.GetUserId() != "user-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.GetItems()) != 1 || resp.GetItems()[0].GetProductId() != "p-1" {
		t.Fatalf("items not mapped: %+v", resp.GetItems())
	}
}

func TestGetOrderNotFound(t *testing.T) {
	srv := NewOrderServer(newFakeStore(), newMemCache())

	_, err := srv.GetOrder(context.Background(), &orderv1.GetOrderRequest{OrderId: uuid.NewString()})
	st, _ := status.FromError(err)
	if st.Code() != codes.NotFound || st.Message() != "Order not found" {
		t.Fatalf("expected NotFound %q, got %v", "Order not found", err)
	}
}

func TestGetOrderInvalidID(t *testing.T) {
	srv := NewOrderServer(newFakeStore(), newMemCache())

	_, err := srv.GetOrder(context.Background(), &orderv1.GetOrderRequest{OrderId: "not-a-uuid"})
	st, _ := status.FromError(err)
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	store := newFakeStore()
	srv := NewOrderServer(store, newMemCache())
	ctx := context.Background()

	id := uuid.NewString()
	store.Create(ctx, &domain.Order{ID: id, UserID: "user-1", Status: domain.StatusPending})

	resp, err := srv.UpdateOrderStatus(ctx, &orderv1.UpdateOrderStatusRequest{OrderId: id, Status: "SHIPPED"})
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if resp.GetStatus() != "SHIPPED" {
		t.Fatalf("unexpected status: %s", resp.GetStatus())
	}
}

func TestUpdateOrderStatusEmpty(t *testing.T) {
	srv := NewOrderServer(newFakeStore(), newMemCache())

	_, err := srv.UpdateOrderStatus(context.Background(), &orderv1.UpdateOrderStatusRequest{OrderId: "o-1"})
	st, _ := status.FromError(err)
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// Cache faults must never surface to callers; every operation degrades to
// the store.
func TestCacheFailuresDegradeToStore(t *testing.T) {
	store := newFakeStore()
	srv := NewOrderServer(store, faultyCache{})
	ctx := context.Background()

	created, err := srv.CreateOrder(ctx, &orderv1.CreateOrderRequest{
		UserId: "user-1",
		Items: []*orderv1.OrderItem{
			{ProductId: "p-1", Quantity: 2, UnitPrice: 9.99},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder with failing cache: %v", err)
	}

	got, err := srv.GetOrder(ctx, &orderv1.GetOrderRequest{OrderId: created.GetOrderId()})
	if err != nil {
		t.Fatalf("GetOrder with failing cache: %v", err)
	}
	if got.GetOrderId() != created.GetOrderId() || got.GetTotalAmount() != 19.98 {
		t.Fatalf("unexpected order: %+v", got)
	}

	updated, err := srv.UpdateOrderStatus(ctx, &orderv1.UpdateOrderStatusRequest{
		OrderId: created.GetOrderId(), Status: "SHIPPED",
	})
	if err != nil {
		t.Fatalf("UpdateOrderStatus with failing cache: %v", err)
	}
	if updated.GetStatus() != "SHIPPED" {
		t.Fatalf("unexpected status: %s", updated.GetStatus())
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	srv := NewOrderServer(newFakeStore(), newMemCache())

	_, err := srv.UpdateOrderStatus(context.Background(), &orderv1.UpdateOrderStatusRequest{
		OrderId: uuid.NewString(), Status: "SHIPPED",
	})
	st, _ := status.FromError(err)
	if st.Code() != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
