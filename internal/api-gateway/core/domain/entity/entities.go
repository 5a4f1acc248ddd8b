package entity

type User struct {
	ID       string
	Username string
	Email    string
}

type OrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// PlacedOrder is the composite result of a place-order call.
type PlacedOrder struct {
	OrderID string
	Status  string
	Message string
}

// OrderStatus is the composite read-order result.
type OrderStatus struct {
	OrderID     string
	Status      string
	Items       []OrderItem
	TotalAmount float64
	CreatedAt   string
}
