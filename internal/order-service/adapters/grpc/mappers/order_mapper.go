package mappers

import (
	"time"

	orderv1 "github.com/quickcart/orderflow/internal/genproto/order/v1"
	"github.com/quickcart/orderflow/internal/order-service/domain"
)

func OrderFromProto(req *orderv1.CreateOrderRequest) *domain.Order {
	if req == nil {
		return nil
	}
	return domain.NewOrder(req.GetUserId(), ItemsFromProto(req.GetItems()))
}

func OrderToProto(o *domain.Order) *orderv1.OrderResponse {
	if o == nil {
		return nil
	}
	return &orderv1.OrderResponse{
		OrderId:     o.ID,
		UserId:      o.UserID,
		Items:       ItemsToProto(o.Items),
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func ItemsFromProto(pbItems []*orderv1.OrderItem) []domain.OrderItem {
	items := make([]domain.OrderItem, len(pbItems))
	for i, item := range pbItems {
		items[i] = domain.OrderItem{
			ProductID: item.GetProductId(),
			Quantity:  int(item.GetQuantity()),
			UnitPrice: item.GetUnitPrice(),
		}
	}
	return items
}

func ItemsToProto(domainItems []domain.OrderItem) []*orderv1.OrderItem {
	pbItems := make([]*orderv1.OrderItem, len(domainItems))
	for i, item := range domainItems {
		pbItems[i] = &orderv1.OrderItem{
			ProductId: item.ProductID,
			Quantity:  int32(item.Quantity),
			UnitPrice: item.UnitPrice,
		}
	}
	return pbItems
}
