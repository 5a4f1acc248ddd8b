package domain

import (
	"errors"
	"time"
)

// Order is an order document. TotalAmount is computed once at creation and
// stored; it is never recomputed on read.
type Order struct {
	ID          string
	UserID      string
	Items       []OrderItem
	TotalAmount float64
	Status      string
	CreatedAt   time.Time
}

type OrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// StatusPending is the initial status of every order. Further statuses are
// free-form strings set through UpdateOrderStatus.
const StatusPending = "PENDING"

// ErrNotFound is returned when no order matches the lookup key.
var ErrNotFound = errors.New("order not found")

// NewOrder builds an order in its initial state for the given user.
func NewOrder(userID string, items []OrderItem) *Order {
	return &Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: TotalAmount(items),
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// TotalAmount sums the item subtotals. An empty item list totals zero.
func TotalAmount(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
