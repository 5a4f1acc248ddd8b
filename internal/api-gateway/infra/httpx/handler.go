// Package httpx translates public HTTP requests into the internal gRPC call
// shapes and back. It performs no business logic beyond request validation
// and status-code mapping.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickcart/orderflow/internal/api-gateway/core/domain/entity"
	"github.com/quickcart/orderflow/internal/api-gateway/core/ports"
)

type Handler struct {
	users  ports.UserService
	orders ports.OrderService
}

func NewHandler(users ports.UserService, orders ports.OrderService) *Handler {
	return &Handler{users: users, orders: orders}
}

// CreateUser registers a new account.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username, email, and password are required")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// GetUserByID fetches a single user.
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id_required", "")
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// PlaceOrder validates the request shape and forwards it to the
// orchestrator.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.UserID == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id and items are required")
		return
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_id, quantity, and unit_price must be valid")
			return
		}
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	slog.InfoContext(r.Context(), "placing order", "user_id", req.UserID, "items", len(items))

	placed, err := h.orders.PlaceOrder(r.Context(), req.UserID, items)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		OrderID: placed.OrderID,
		Status:  placed.Status,
		Message: placed.Message,
	})
}

// GetOrderByID retrieves an order's current status.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderStatus(order))
}

// UpdateOrderStatus is the admin path straight to the order service.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderStatus(order))
}

func mapOrderStatus(order *entity.OrderStatus) OrderStatusResponse {
	items := make([]OrderItemDTO, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return OrderStatusResponse{
		OrderID:     order.OrderID,
		Status:      order.Status,
		Items:       items,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
