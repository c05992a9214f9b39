package models

import "time"

// MenuCategories accepted by the panel (singular and plural spellings both exist in stored data).
var MenuCategories = []string{"Pizza", "Pizzas", "Pâtes", "Salade", "Salades", "Plats", "Dessert", "Desserts", "Boissons", "Boisson"}

// DefaultPreparationTime in minutes, used when a new item does not set one.
const DefaultPreparationTime = 15

type MenuItem struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	EntrepriseID    string    `gorm:"type:varchar(36);not null;index" bson:"entrepriseId" json:"entrepriseId" validate:"required"`
	Name            string    `gorm:"type:varchar(255);not null" bson:"name" json:"name" validate:"required"`
	Category        string    `gorm:"type:varchar(50);not null;index" bson:"category" json:"category" validate:"required,oneof=Pizza Pizzas Pâtes Salade Salades Plats Dessert Desserts Boissons Boisson"`
	Description     string    `gorm:"type:text" bson:"description" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null" bson:"price" json:"price" validate:"gte=0"`
	Available       bool      `bson:"available" json:"available"`
	PreparationTime int       `bson:"preparationTime" json:"preparationTime" validate:"gte=0"`
	Image           string    `gorm:"type:varchar(255)" bson:"image" json:"image"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
