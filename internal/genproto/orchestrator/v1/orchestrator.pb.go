// Hand-maintained protobuf bindings in the legacy (pre-protoimpl) generated
// form; grpc-go handles them through protoadapt. Keep in sync with
// source: proto/orchestrator/v1/orchestrator.proto

package orchestratorv1

import (
	prototext "google.golang.org/protobuf/encoding/prototext"
	protoadapt "google.golang.org/protobuf/protoadapt"
)

type OrderItem struct {
	ProductId string  `protobuf:"bytes,1,opt,name=product_id,json=productId,proto3" json:"product_id,omitempty"`
	Quantity  int32   `protobuf:"varint,2,opt,name=quantity,proto3" json:"quantity,omitempty"`
	UnitPrice float64 `protobuf:"fixed64,3,opt,name=unit_price,json=unitPrice,proto3" json:"unit_price,omitempty"`
}

func (x *OrderItem) Reset()         { *x = OrderItem{} }
func (x *OrderItem) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*OrderItem) ProtoMessage()    {}

func (x *OrderItem) GetProductId() string {
	if x != nil {
		return x.ProductId
	}
	return ""
}

func (x *OrderItem) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *OrderItem) GetUnitPrice() float64 {
	if x != nil {
		return x.UnitPrice
	}
	return 0
}

type PlaceOrderRequest struct {
	UserId string       `protobuf:"bytes,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	Items  []*OrderItem `protobuf:"bytes,2,rep,name=items,proto3" json:"items,omitempty"`
}

func (x *PlaceOrderRequest) Reset()         { *x = PlaceOrderRequest{} }
func (x *PlaceOrderRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*PlaceOrderRequest) ProtoMessage()    {}

func (x *PlaceOrderRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *PlaceOrderRequest) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

type PlaceOrderResponse struct {
	OrderId string `protobuf:"bytes,1,opt,name=order_id,json=orderId,proto3" json:"order_id,omitempty"`
	Status  string `protobuf:"bytes,2,opt,name=status,proto3" json:"status,omitempty"`
	Message string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (x *PlaceOrderResponse) Reset()         { *x = PlaceOrderResponse{} }
func (x *PlaceOrderResponse) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*PlaceOrderResponse) ProtoMessage()    {}

func (x *PlaceOrderResponse) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

func (x *PlaceOrderResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *PlaceOrderResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

type GetOrderStatusRequest struct {
	OrderId string `protobuf:"bytes,1,opt,name=order_id,json=orderId,proto3" json:"order_id,omitempty"`
}

func (x *GetOrderStatusRequest) Reset()         { *x = GetOrderStatusRequest{} }
func (x *GetOrderStatusRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*GetOrderStatusRequest) ProtoMessage()    {}

func (x *GetOrderStatusRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

type GetOrderStatusResponse struct {
	OrderId     string       `protobuf:"bytes,1,opt,name=order_id,json=orderId,proto3" json:"order_id,omitempty"`
	Status      string       `protobuf:"bytes,2,opt,name=status,proto3" json:"status,omitempty"`
	Items       []*OrderItem `protobuf:"bytes,3,rep,name=items,proto3" json:"items,omitempty"`
	TotalAmount float64      `protobuf:"fixed64,4,opt,name=total_amount,json=totalAmount,proto3" json:"total_amount,omitempty"`
	CreatedAt   string       `protobuf:"bytes,5,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (x *GetOrderStatusResponse) Reset()   { *x = GetOrderStatusResponse{} }
func (x *GetOrderStatusResponse) String() string {
	return prototext.Format(protoadapt.MessageV2Of(x))
}
func (*GetOrderStatusResponse) ProtoMessage() {}

func (x *GetOrderStatusResponse) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

func (x *GetOrderStatusResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *GetOrderStatusResponse) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}

func (x *GetOrderStatusResponse) GetTotalAmount() float64 {
	if x != nil {
		return x.TotalAmount
	}
	return 0
}

func (x *GetOrderStatusResponse) GetCreatedAt() string {
	if x != nil {
		return x.CreatedAt
	}
	return ""
}
