package ports

import (
	"context"

	"github.com/quickcart/orderflow/internal/api-gateway/core/domain/entity"
)

// UserService is the gateway's view of the identity service.
type UserService interface {
	CreateUser(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
}

// OrderService is the gateway's view of the composite order operations and
// the admin status-update path.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, items []entity.OrderItem) (*entity.PlacedOrder, error)
	GetOrderStatus(ctx context.Context, id string) (*entity.OrderStatus, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*entity.OrderStatus, error)
}
