package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
)

// NewGormRepositories wires the SQL adapters on one gorm connection.
func NewGormRepositories(db *gorm.DB, phones phone.Normalizer) *Repositories {
	return &Repositories{
		Entreprises: &GormEntrepriseRepository{db: db},
		Clients:     &GormClientRepository{db: db, phones: phones},
		Menu:        &GormMenuRepository{db: db},
		Orders:      &GormOrderRepository{db: db},
		Messages:    &GormMessageRepository{db: db},
	}
}

func gormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "Duplicate entry"):
		return ErrDuplicate
	}
	return err
}

func scopeTenant(db *gorm.DB, tenantID string) *gorm.DB {
	if tenantID == "" {
		return db
	}
	return db.Where("entreprise_id = ?", tenantID)
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// deleteScoped deletes one row of model, ErrNotFound when nothing matched.
func deleteScoped(ctx context.Context, db *gorm.DB, model interface{}, tenantID, id string) error {
	res := scopeTenant(db.WithContext(ctx), tenantID).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Entreprises

var _ EntrepriseRepository = (*GormEntrepriseRepository)(nil)

type GormEntrepriseRepository struct {
	db *gorm.DB
}

func (r *GormEntrepriseRepository) Create(ctx context.Context, e *models.Entreprise) error {
	ensureID(&e.ID)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	return gormError(r.db.WithContext(ctx).Create(e).Error)
}

func (r *GormEntrepriseRepository) FindByID(ctx context.Context, id string) (*models.Entreprise, error) {
	var e models.Entreprise
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, gormError(err)
	}
	return &e, nil
}

func (r *GormEntrepriseRepository) FindByEmail(ctx context.Context, email string) (*models.Entreprise, error) {
	var e models.Entreprise
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&e).Error
	if err != nil {
		return nil, gormError(err)
	}
	return &e, nil
}

func (r *GormEntrepriseRepository) List(ctx context.Context) ([]models.Entreprise, error) {
	var list []models.Entreprise
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, gormError(err)
	}
	return list, nil
}

func (r *GormEntrepriseRepository) Update(ctx context.Context, e *models.Entreprise) error {
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	return gormError(r.db.WithContext(ctx).Save(e).Error)
}

func (r *GormEntrepriseRepository) Delete(ctx context.Context, id string) error {
	return deleteScoped(ctx, r.db, &models.Entreprise{}, "", id)
}

// ---------------------------------------------------------------------------
// Clients

var _ ClientRepository = (*GormClientRepository)(nil)

type GormClientRepository struct {
	db     *gorm.DB
	phones phone.Normalizer
}

func (r *GormClientRepository) Create(ctx context.Context, c *models.Client) error {
	ensureID(&c.ID)
	c.PhoneKey = r.phones.Key(c.PhoneNumber)
	if c.Status == "" {
		c.Status = models.ClientStatusActive
	}
	return gormError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Client, error) {
	var c models.Client
	if err := scopeTenant(r.db.WithContext(ctx), tenantID).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, gormError(err)
	}
	return &c, nil
}

func (r *GormClientRepository) FindByPhone(ctx context.Context, tenantID, raw string) (*models.Client, error) {
	for _, candidate := range r.phones.Candidates(raw) {
		c, err := r.findOne(ctx, tenantID, "phone_number = ?", candidate)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if key := r.phones.Key(raw); key != "" {
		return r.findOne(ctx, tenantID, "phone_key = ?", key)
	}
	return nil, ErrNotFound
}

func (r *GormClientRepository) findOne(ctx context.Context, tenantID, query string, arg interface{}) (*models.Client, error) {
	var c models.Client
	err := scopeTenant(r.db.WithContext(ctx), tenantID).Where(query, arg).Order("created_at ASC").First(&c).Error
	if err != nil {
		return nil, gormError(err)
	}
	return &c, nil
}

func (r *GormClientRepository) FindAllByPhone(ctx context.Context, tenantID, raw string) ([]models.Client, error) {
	candidates := r.phones.Candidates(raw)
	if len(candidates) == 0 {
		return nil, nil
	}

	q := scopeTenant(r.db.WithContext(ctx), tenantID)
	// an empty key would match every client stored with a non-numeric phone
	if key := r.phones.Key(raw); key != "" {
		q = q.Where("(phone_number IN ? OR phone_key = ?)", candidates, key)
	} else {
		q = q.Where("phone_number IN ?", candidates)
	}

	var list []models.Client
	err := q.Order("created_at ASC").Find(&list).Error
	if err != nil {
		return nil, gormError(err)
	}
	return list, nil
}

func (r *GormClientRepository) List(ctx context.Context, tenantID string) ([]models.Client, error) {
	var list []models.Client
	if err := scopeTenant(r.db.WithContext(ctx), tenantID).Order("name ASC").Find(&list).Error; err != nil {
		return nil, gormError(err)
	}
	return list, nil
}

// Update writes the editable columns. The order counters belong to RecordOrder and are
// never overwritten from a possibly stale copy.
func (r *GormClientRepository) Update(ctx context.Context, c *models.Client) error {
	c.PhoneKey = r.phones.Key(c.PhoneNumber)
	res := r.db.WithContext(ctx).Model(c).
		Select("*").
		Omit("id", "entreprise_id", "created_at", "order_count", "total_spent", "last_order_date").
		Updates(c)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) UpdateAddress(ctx context.Context, id string, addr models.Address) error {
	res := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(map[string]interface{}{
		"address":     addr.Street,
		"city":        addr.City,
		"postal_code": addr.ZipCode,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) RecordOrder(ctx context.Context, id string, amount float64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_count":     gorm.Expr("order_count + 1"),
		"total_spent":     gorm.Expr("total_spent + ?", amount),
		"last_order_date": at,
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.db, &models.Client{}, tenantID, id)
}

// ---------------------------------------------------------------------------
// Menu

var _ MenuRepository = (*GormMenuRepository)(nil)

type GormMenuRepository struct {
	db *gorm.DB
}

func (r *GormMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	ensureID(&item.ID)
	return gormError(r.db.WithContext(ctx).Create(item).Error)
}

func (r *GormMenuRepository) FindByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := scopeTenant(r.db.WithContext(ctx), tenantID).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, gormError(err)
	}
	return &item, nil
}

func (r *GormMenuRepository) List(ctx context.Context, tenantID, category string) ([]models.MenuItem, error) {
	query := scopeTenant(r.db.WithContext(ctx), tenantID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, gormError(err)
	}
	return items, nil
}

func (r *GormMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return gormError(r.db.WithContext(ctx).Save(item).Error)
}

func (r *GormMenuRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.db, &models.MenuItem{}, tenantID, id)
}

// ---------------------------------------------------------------------------
// Orders

var _ OrderRepository = (*GormOrderRepository)(nil)

type GormOrderRepository struct {
	db *gorm.DB
}

// embedded address columns carry the "address_" prefix
var gormAddressColumns = map[string]string{
	"street":  "address_street",
	"zipCode": "address_zip_code",
	"city":    "address_city",
	"country": "address_country",
}

func (r *GormOrderRepository) Create(ctx context.Context, o *models.Order) error {
	ensureID(&o.ID)
	return gormError(r.db.WithContext(ctx).Create(o).Error)
}

func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Order, error) {
	var o models.Order
	if err := scopeTenant(r.db.WithContext(ctx), tenantID).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, gormError(err)
	}
	return &o, nil
}

func (r *GormOrderRepository) FindLatestByClient(ctx context.Context, clientID string) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").First(&o).Error
	if err != nil {
		return nil, gormError(err)
	}
	return &o, nil
}

func (r *GormOrderRepository) List(ctx context.Context, tenantID string, status models.OrderStatus) ([]models.Order, error) {
	query := scopeTenant(r.db.WithContext(ctx), tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, gormError(err)
	}
	return orders, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, o *models.Order) error {
	return gormError(r.db.WithContext(ctx).Save(o).Error)
}

func (r *GormOrderRepository) ConfirmAddress(ctx context.Context, id string, expected models.OrderStatus, patch models.Address, next models.OrderStatus) (bool, error) {
	updates := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	for field, value := range addressPatch(patch) {
		updates[gormAddressColumns[field]] = value
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, gormError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.db, &models.Order{}, tenantID, id)
}

// ---------------------------------------------------------------------------
// SMS messages

var _ MessageRepository = (*GormMessageRepository)(nil)

type GormMessageRepository struct {
	db *gorm.DB
}

func (r *GormMessageRepository) Create(ctx context.Context, m *models.SMSMessage) error {
	ensureID(&m.ID)
	return gormError(r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormMessageRepository) ListByClient(ctx context.Context, tenantID, clientID string, limit int) ([]models.SMSMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	var list []models.SMSMessage
	err := scopeTenant(r.db.WithContext(ctx), tenantID).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, gormError(err)
	}
	return list, nil
}
