package models

import "time"

// Entreprise is a tenant (pizzeria, snack...). Menus, clients and orders are isolated per entreprise.
type Entreprise struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" bson:"name" json:"name" validate:"required"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email" validate:"required,email"`
	Password    string    `gorm:"type:varchar(255);not null" bson:"password" json:"-" validate:"required"`
	Phone       string    `gorm:"type:varchar(50);not null" bson:"phone" json:"phone" validate:"required"`
	Address     string    `gorm:"type:varchar(255);not null" bson:"address" json:"address" validate:"required"`
	City        string    `gorm:"type:varchar(100);not null" bson:"city" json:"city" validate:"required"`
	PostalCode  string    `gorm:"type:varchar(20);not null" bson:"postalCode" json:"postalCode" validate:"required"`
	Country     string    `gorm:"type:varchar(100)" bson:"country" json:"country"`
	Currency    string    `gorm:"type:varchar(10)" bson:"currency" json:"currency"`
	Timezone    string    `gorm:"type:varchar(64)" bson:"timezone" json:"timezone"`
	Logo        *string   `gorm:"type:varchar(255)" bson:"logo" json:"logo"`
	Description string    `gorm:"type:text" bson:"description" json:"description"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults fills country, currency and timezone when they are empty.
func (e *Entreprise) ApplyDefaults() {
	if e.Country == "" {
		e.Country = "France"
	}
	if e.Currency == "" {
		e.Currency = "EUR"
	}
	if e.Timezone == "" {
		e.Timezone = "Europe/Paris"
	}
}
