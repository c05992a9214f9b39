package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
)

func TestAutoMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	m := db.Migrator()
	assert.True(t, m.HasTable(&models.Entreprise{}))
	assert.True(t, m.HasTable(&models.Client{}))
	assert.True(t, m.HasTable(&models.MenuItem{}))
	assert.True(t, m.HasTable("sms_messages"))

	// embedded snapshot columns
	for _, col := range []string{"address_street", "address_zip_code", "address_city", "address_country", "customer_name", "customer_phone", "items"} {
		assert.True(t, m.HasColumn(&models.Order{}, col), col)
	}
	assert.True(t, m.HasColumn(&models.Client{}, "phone_key"))
}

func TestMongoIndexesCoverEveryCollection(t *testing.T) {
	for _, col := range []string{
		repository.EntrepriseCollection,
		repository.ClientCollection,
		repository.MenuCollection,
		repository.OrderCollection,
		repository.MessageCollection,
	} {
		assert.NotEmpty(t, mongoIndexes[col], col)
	}
}
