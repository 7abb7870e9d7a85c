package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPaypal PaymentMethod = "paypal"
	PaymentMethodCash   PaymentMethod = "cash"
)

type Order struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Items           []OrderItem        `json:"items" bson:"items" validate:"required,min=1,dive"`
	Total           float64            `json:"total" bson:"total" validate:"gte=0"`
	Status          OrderStatus        `json:"status" bson:"status" validate:"required,oneof=pending shipped delivered cancelled"`
	ShippingAddress *ShippingAddress   `json:"shippingAddress,omitempty" bson:"shippingAddress,omitempty"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod" bson:"paymentMethod" validate:"required,oneof=card paypal cash"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type OrderItem struct {
	ProductID int64   `json:"productId" bson:"productId" validate:"required"`
	Quantity  int64   `json:"quantity" bson:"quantity" validate:"min=1"`
	Price     float64 `json:"price" bson:"price" validate:"gte=0"`
	Name      string  `json:"name,omitempty" bson:"name,omitempty"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

type ShippingAddress struct {
	Street     string `json:"street,omitempty" bson:"street,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
}

func (o *Order) CalculateTotal() {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.Total = total
}

// CreateOrderInput is the body of POST /orders. Total is optional and is
// derived from the items when omitted.
type CreateOrderInput struct {
	Items           []OrderItem      `json:"items" validate:"required,min=1,dive"`
	Total           *float64         `json:"total" validate:"omitempty,gte=0"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod" validate:"omitempty,oneof=card paypal cash"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

// UpdateOrderInput is the administrative PATCH of an order.
type UpdateOrderInput struct {
	Items           *[]OrderItem     `json:"items" validate:"omitempty,min=1,dive"`
	Total           *float64         `json:"total" validate:"omitempty,gte=0"`
	Status          *OrderStatus     `json:"status" validate:"omitempty,oneof=pending shipped delivered cancelled"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	PaymentMethod   *PaymentMethod   `json:"paymentMethod" validate:"omitempty,oneof=card paypal cash"`
}

func (in *UpdateOrderInput) Apply(o *Order) {
	if in.Items != nil {
		o.Items = *in.Items
		if in.Total == nil {
			o.CalculateTotal()
		}
	}
	if in.Total != nil {
		o.Total = *in.Total
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.ShippingAddress != nil {
		o.ShippingAddress = in.ShippingAddress
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
}
