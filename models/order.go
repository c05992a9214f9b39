package models

import (
	"strings"
	"time"
)

// Address is the delivery address embedded in an order.
type Address struct {
	Street  string `gorm:"type:varchar(255)" bson:"street" json:"street"`
	City    string `gorm:"type:varchar(100)" bson:"city" json:"city"`
	ZipCode string `gorm:"type:varchar(20)" bson:"zipCode" json:"zipCode"`
	Country string `gorm:"type:varchar(100)" bson:"country" json:"country"`
}

// CustomerSnapshot is captured when the order is created and never follows later client edits.
type CustomerSnapshot struct {
	Name  string `gorm:"type:varchar(255)" bson:"name" json:"name"`
	Phone string `gorm:"type:varchar(50)" bson:"phone" json:"phone" validate:"required"`
}

// OrderItem -> line snapshot, name and price are copied at order time
type OrderItem struct {
	MenuItemID string  `bson:"menuItemId" json:"menuItemId"`
	Name       string  `bson:"name" json:"name"`
	Quantity   int     `bson:"quantity" json:"quantity" validate:"gte=1"`
	Price      float64 `bson:"price" json:"price" validate:"gte=0"`
	Subtotal   float64 `bson:"subtotal" json:"subtotal"`
}

type Order struct {
	ID            string           `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	EntrepriseID  string           `gorm:"type:varchar(36);not null;index;index:idx_orders_tenant_client,priority:1" bson:"entrepriseId" json:"entrepriseId" validate:"required"`
	ClientID      string           `gorm:"type:varchar(36);not null;index;index:idx_orders_tenant_client,priority:2" bson:"clientId" json:"clientId" validate:"required"`
	Type          OrderType        `gorm:"type:varchar(20);not null" bson:"type" json:"type" validate:"required,oneof=Livraison 'À emporter'"`
	Customer      CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" bson:"customer" json:"customer"`
	Address       Address          `gorm:"embedded;embeddedPrefix:address_" bson:"address" json:"address"`
	Items         []OrderItem      `gorm:"serializer:json;type:text" bson:"items" json:"items" validate:"dive"`
	Total         float64          `gorm:"type:decimal(10,2);not null" bson:"total" json:"total" validate:"gte=0"`
	Status        OrderStatus      `gorm:"type:varchar(20);not null;index" bson:"status" json:"status"`
	PaymentStatus PaymentStatus    `gorm:"type:varchar(20)" bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod PaymentMethod    `gorm:"type:varchar(20)" bson:"paymentMethod" json:"paymentMethod"`
	Notes         string           `gorm:"type:text" bson:"notes" json:"notes"`
	DeliveryTime  *time.Time       `bson:"deliveryTime" json:"deliveryTime"`
	CreatedAt     time.Time        `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults sets the initial status and payment fields of a new order.
func (o *Order) ApplyDefaults(country string) {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentStatusUnpaid
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentMethodCard
	}
	if o.Address.Country == "" {
		o.Address.Country = country
	}
}

// Reference -> short uppercase order number used in SMS texts
func (o *Order) Reference() string {
	ref := strings.ReplaceAll(o.ID, "-", "")
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}
