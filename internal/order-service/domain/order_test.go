package domain

import "testing"

func TestTotalAmount(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p-1", Quantity: 2, UnitPrice: 9.99},
		{ProductID: "p-2", Quantity: 1, UnitPrice: 5.00},
	}
	if got := TotalAmount(items); got != 24.98 {
		t.Fatalf("TotalAmount = %v, want 24.98", got)
	}
}

func TestTotalAmountEmpty(t *testing.T) {
	if got := TotalAmount(nil); got != 0 {
		t.Fatalf("TotalAmount(nil) = %v, want 0", got)
	}
}

func TestNewOrder(t *testing.T) {
	items := []OrderItem{{ProductID: "p-1", Quantity: 3, UnitPrice: 2.50}}
	o := NewOrder("user-1", items)

	if o.UserID != "user-1" {
		t.Fatalf("unexpected user id: %s", o.UserID)
	}
	if o.Status != StatusPending {
		t.Fatalf("new orders must start as %s, got %s", StatusPending, o.Status)
	}
	if o.TotalAmount != 7.50 {
		t.Fatalf("TotalAmount = %v, want 7.50", o.TotalAmount)
	}
	if o.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}
