package models

import "time"

// Client belongs to one entreprise. PhoneNumber is kept exactly as typed in the panel,
// PhoneKey is the canonical digits-only form used as a lookup fallback.
type Client struct {
	ID            string       `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	EntrepriseID  string       `gorm:"type:varchar(36);not null;index" bson:"entrepriseId" json:"entrepriseId" validate:"required"`
	OrderNumber   string       `gorm:"type:varchar(100)" bson:"orderNumber" json:"orderNumber"`
	PhoneNumber   string       `gorm:"type:varchar(50);not null;index" bson:"phoneNumber" json:"phoneNumber" validate:"required"`
	PhoneKey      string       `gorm:"type:varchar(50);index" bson:"phoneKey" json:"-"`
	Name          string       `gorm:"type:varchar(255);not null" bson:"name" json:"name" validate:"required"`
	Address       string       `gorm:"type:varchar(255)" bson:"address" json:"address"`
	City          string       `gorm:"type:varchar(100)" bson:"city" json:"city"`
	PostalCode    string       `gorm:"type:varchar(20)" bson:"postalCode" json:"postalCode"`
	HouseNumber   string       `gorm:"type:varchar(20)" bson:"houseNumber" json:"houseNumber"`
	Apartment     string       `gorm:"type:varchar(50)" bson:"apartment" json:"apartment"`
	DeliveryNotes string       `gorm:"type:text" bson:"deliveryNotes" json:"deliveryNotes"`
	Status        ClientStatus `gorm:"type:varchar(20);not null" bson:"status" json:"status" validate:"omitempty,oneof=Actif Inactif Bloqué"`
	OrderCount    int          `bson:"orderCount" json:"orderCount"`
	TotalSpent    float64      `gorm:"type:decimal(10,2)" bson:"totalSpent" json:"totalSpent"`
	LastOrderDate *time.Time   `bson:"lastOrderDate" json:"lastOrderDate"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// DeliveryAddress -> the client's stored address in the order address shape
func (c *Client) DeliveryAddress(country string) Address {
	return Address{
		Street:  c.Address,
		City:    c.City,
		ZipCode: c.PostalCode,
		Country: country,
	}
}

// FullAddress formats "street, zip city" for the coordinates endpoint.
func (c *Client) FullAddress() string {
	return c.Address + ", " + c.PostalCode + " " + c.City
}
