// Package repository is the persistence port of the panel. Two adapters exist:
// MongoDB (default) and gorm (MySQL or SQLite).
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/resto-panel/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type EntrepriseRepository interface {
	Create(ctx context.Context, e *models.Entreprise) error
	FindByID(ctx context.Context, id string) (*models.Entreprise, error)
	FindByEmail(ctx context.Context, email string) (*models.Entreprise, error)
	List(ctx context.Context) ([]models.Entreprise, error)
	Update(ctx context.Context, e *models.Entreprise) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository -> an empty tenantID means "any entreprise" (used by the SMS webhook)
type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	FindByID(ctx context.Context, tenantID, id string) (*models.Client, error)
	// FindByPhone tries every textual form of raw in order and returns the first match,
	// then falls back to the canonical phone key.
	FindByPhone(ctx context.Context, tenantID, raw string) (*models.Client, error)
	// FindAllByPhone returns every distinct client stored under any form of raw.
	FindAllByPhone(ctx context.Context, tenantID, raw string) ([]models.Client, error)
	List(ctx context.Context, tenantID string) ([]models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	UpdateAddress(ctx context.Context, id string, addr models.Address) error
	RecordOrder(ctx context.Context, id string, amount float64, at time.Time) error
	Delete(ctx context.Context, tenantID, id string) error
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	FindByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error)
	// List filters on category when it is not empty.
	List(ctx context.Context, tenantID, category string) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, tenantID, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, tenantID, id string) (*models.Order, error)
	FindLatestByClient(ctx context.Context, clientID string) (*models.Order, error)
	// List returns the tenant's orders newest first, filtered on status when it is not empty.
	List(ctx context.Context, tenantID string, status models.OrderStatus) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	// ConfirmAddress writes the non-empty fields of patch and moves the order to next,
	// only if its stored status is still expected. It reports whether the write happened.
	ConfirmAddress(ctx context.Context, id string, expected models.OrderStatus, patch models.Address, next models.OrderStatus) (bool, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.SMSMessage) error
	// ListByClient returns the conversation newest first.
	ListByClient(ctx context.Context, tenantID, clientID string, limit int) ([]models.SMSMessage, error)
}

// Repositories groups the adapters the services and controllers depend on.
type Repositories struct {
	Entreprises EntrepriseRepository
	Clients     ClientRepository
	Menu        MenuRepository
	Orders      OrderRepository
	Messages    MessageRepository
}

// addressPatch lists the address fields to write, keyed by field name.
func addressPatch(patch models.Address) map[string]string {
	fields := make(map[string]string, 4)
	if patch.Street != "" {
		fields["street"] = patch.Street
	}
	if patch.ZipCode != "" {
		fields["zipCode"] = patch.ZipCode
	}
	if patch.City != "" {
		fields["city"] = patch.City
	}
	if patch.Country != "" {
		fields["country"] = patch.Country
	}
	return fields
}

const defaultMessageLimit = 50
