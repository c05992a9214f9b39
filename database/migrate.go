package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/utils"
)

// AutoMigrate creates or updates the SQL tables.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Entreprise{},
		&models.Client{},
		&models.MenuItem{},
		&models.Order{},
		&models.SMSMessage{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
