package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
)

// Collection names, shared with database.EnsureMongoIndexes.
const (
	EntrepriseCollection = "entreprises"
	ClientCollection     = "clients"
	MenuCollection       = "menuitems"
	OrderCollection      = "orders"
	MessageCollection    = "smsmessages"
)

// NewMongoRepositories wires the document-store adapters on one database.
func NewMongoRepositories(db *mongo.Database, phones phone.Normalizer) *Repositories {
	return &Repositories{
		Entreprises: &MongoEntrepriseRepository{col: db.Collection(EntrepriseCollection)},
		Clients:     &MongoClientRepository{col: db.Collection(ClientCollection), phones: phones},
		Menu:        &MongoMenuRepository{col: db.Collection(MenuCollection)},
		Orders:      &MongoOrderRepository{col: db.Collection(OrderCollection)},
		Messages:    &MongoMessageRepository{col: db.Collection(MessageCollection)},
	}
}

func mongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func tenantFilter(tenantID string, filter bson.M) bson.M {
	if tenantID != "" {
		filter["entrepriseId"] = tenantID
	}
	return filter
}

func findOneMongo(ctx context.Context, col *mongo.Collection, filter bson.M, out interface{}, opts ...*options.FindOneOptions) error {
	return mongoError(col.FindOne(ctx, filter, opts...).Decode(out))
}

func findManyMongo[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mongoError(err)
	}

	list := []T{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, mongoError(err)
	}
	return list, nil
}

func replaceMongo(ctx context.Context, col *mongo.Collection, id string, doc interface{}) error {
	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteMongo(ctx context.Context, col *mongo.Collection, filter bson.M) error {
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return mongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	ensureID(id)
	now := time.Now().UTC()
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

// ---------------------------------------------------------------------------
// Entreprises

var _ EntrepriseRepository = (*MongoEntrepriseRepository)(nil)

type MongoEntrepriseRepository struct {
	col *mongo.Collection
}

func (r *MongoEntrepriseRepository) Create(ctx context.Context, e *models.Entreprise) error {
	stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	_, err := r.col.InsertOne(ctx, e)
	return mongoError(err)
}

func (r *MongoEntrepriseRepository) FindByID(ctx context.Context, id string) (*models.Entreprise, error) {
	var e models.Entreprise
	if err := findOneMongo(ctx, r.col, bson.M{"_id": id}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MongoEntrepriseRepository) FindByEmail(ctx context.Context, email string) (*models.Entreprise, error) {
	var e models.Entreprise
	if err := findOneMongo(ctx, r.col, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MongoEntrepriseRepository) List(ctx context.Context) ([]models.Entreprise, error) {
	return findManyMongo[models.Entreprise](ctx, r.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoEntrepriseRepository) Update(ctx context.Context, e *models.Entreprise) error {
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.UpdatedAt = time.Now().UTC()
	return replaceMongo(ctx, r.col, e.ID, e)
}

func (r *MongoEntrepriseRepository) Delete(ctx context.Context, id string) error {
	return deleteMongo(ctx, r.col, bson.M{"_id": id})
}

// ---------------------------------------------------------------------------
// Clients

var _ ClientRepository = (*MongoClientRepository)(nil)

type MongoClientRepository struct {
	col    *mongo.Collection
	phones phone.Normalizer
}

func (r *MongoClientRepository) Create(ctx context.Context, c *models.Client) error {
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	c.PhoneKey = r.phones.Key(c.PhoneNumber)
	if c.Status == "" {
		c.Status = models.ClientStatusActive
	}
	_, err := r.col.InsertOne(ctx, c)
	return mongoError(err)
}

func (r *MongoClientRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Client, error) {
	var c models.Client
	if err := findOneMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MongoClientRepository) FindByPhone(ctx context.Context, tenantID, raw string) (*models.Client, error) {
	oldestFirst := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	for _, candidate := range r.phones.Candidates(raw) {
		var c models.Client
		err := findOneMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"phoneNumber": candidate}), &c, oldestFirst)
		if err == nil {
			return &c, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	key := r.phones.Key(raw)
	if key == "" {
		return nil, ErrNotFound
	}
	var c models.Client
	if err := findOneMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"phoneKey": key}), &c, oldestFirst); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MongoClientRepository) FindAllByPhone(ctx context.Context, tenantID, raw string) ([]models.Client, error) {
	candidates := r.phones.Candidates(raw)
	if len(candidates) == 0 {
		return nil, nil
	}

	forms := bson.A{bson.M{"phoneNumber": bson.M{"$in": candidates}}}
	// an empty key would match every client stored with a non-numeric phone
	if key := r.phones.Key(raw); key != "" {
		forms = append(forms, bson.M{"phoneKey": key})
	}
	filter := tenantFilter(tenantID, bson.M{"$or": forms})
	return findManyMongo[models.Client](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *MongoClientRepository) List(ctx context.Context, tenantID string) ([]models.Client, error) {
	return findManyMongo[models.Client](ctx, r.col, tenantFilter(tenantID, bson.M{}), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// Update writes the editable fields. orderCount, totalSpent and lastOrderDate belong to
// RecordOrder and are never overwritten from a possibly stale copy.
func (r *MongoClientRepository) Update(ctx context.Context, c *models.Client) error {
	c.PhoneKey = r.phones.Key(c.PhoneNumber)
	c.UpdatedAt = time.Now().UTC()

	update := bson.D{{Key: "$set", Value: primitive.D{
		{Key: "orderNumber", Value: c.OrderNumber},
		{Key: "phoneNumber", Value: c.PhoneNumber},
		{Key: "phoneKey", Value: c.PhoneKey},
		{Key: "name", Value: c.Name},
		{Key: "address", Value: c.Address},
		{Key: "city", Value: c.City},
		{Key: "postalCode", Value: c.PostalCode},
		{Key: "houseNumber", Value: c.HouseNumber},
		{Key: "apartment", Value: c.Apartment},
		{Key: "deliveryNotes", Value: c.DeliveryNotes},
		{Key: "status", Value: c.Status},
		{Key: "updatedAt", Value: c.UpdatedAt},
	}}}

	res, err := r.col.UpdateOne(ctx, tenantFilter(c.EntrepriseID, bson.M{"_id": c.ID}), update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoClientRepository) UpdateAddress(ctx context.Context, id string, addr models.Address) error {
	update := bson.D{{Key: "$set", Value: primitive.D{
		{Key: "address", Value: addr.Street},
		{Key: "city", Value: addr.City},
		{Key: "postalCode", Value: addr.ZipCode},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoClientRepository) RecordOrder(ctx context.Context, id string, amount float64, at time.Time) error {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "orderCount", Value: 1}, {Key: "totalSpent", Value: amount}}},
		{Key: "$set", Value: bson.D{{Key: "lastOrderDate", Value: at}, {Key: "updatedAt", Value: time.Now().UTC()}}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoClientRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}))
}

// ---------------------------------------------------------------------------
// Menu

var _ MenuRepository = (*MongoMenuRepository)(nil)

type MongoMenuRepository struct {
	col *mongo.Collection
}

func (r *MongoMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	_, err := r.col.InsertOne(ctx, item)
	return mongoError(err)
}

func (r *MongoMenuRepository) FindByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := findOneMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoMenuRepository) List(ctx context.Context, tenantID, category string) ([]models.MenuItem, error) {
	filter := tenantFilter(tenantID, bson.M{})
	if category != "" {
		filter["category"] = category
	}
	sort := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	return findManyMongo[models.MenuItem](ctx, r.col, filter, sort)
}

func (r *MongoMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now().UTC()
	return replaceMongo(ctx, r.col, item.ID, item)
}

func (r *MongoMenuRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}))
}

// ---------------------------------------------------------------------------
// Orders

var _ OrderRepository = (*MongoOrderRepository)(nil)

type MongoOrderRepository struct {
	col *mongo.Collection
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *models.Order) error {
	stamp(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	_, err := r.col.InsertOne(ctx, o)
	return mongoError(err)
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Order, error) {
	var o models.Order
	if err := findOneMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrderRepository) FindLatestByClient(ctx context.Context, clientID string) (*models.Order, error) {
	var o models.Order
	latest := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findOneMongo(ctx, r.col, bson.M{"clientId": clientID}, &o, latest); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrderRepository) List(ctx context.Context, tenantID string, status models.OrderStatus) ([]models.Order, error) {
	filter := tenantFilter(tenantID, bson.M{})
	if status != "" {
		filter["status"] = status
	}
	return findManyMongo[models.Order](ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *MongoOrderRepository) Update(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = time.Now().UTC()
	return replaceMongo(ctx, r.col, o.ID, o)
}

func (r *MongoOrderRepository) ConfirmAddress(ctx context.Context, id string, expected models.OrderStatus, patch models.Address, next models.OrderStatus) (bool, error) {
	var set primitive.D
	for field, value := range addressPatch(patch) {
		set = append(set, bson.E{Key: "address." + field, Value: value})
	}
	set = append(set,
		bson.E{Key: "status", Value: next},
		bson.E{Key: "updatedAt", Value: time.Now().UTC()},
	)

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "status": expected}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return false, mongoError(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return deleteMongo(ctx, r.col, tenantFilter(tenantID, bson.M{"_id": id}))
}

// ---------------------------------------------------------------------------
// SMS messages

var _ MessageRepository = (*MongoMessageRepository)(nil)

type MongoMessageRepository struct {
	col *mongo.Collection
}

func (r *MongoMessageRepository) Create(ctx context.Context, m *models.SMSMessage) error {
	stamp(&m.ID, &m.CreatedAt, nil)
	_, err := r.col.InsertOne(ctx, m)
	return mongoError(err)
}

func (r *MongoMessageRepository) ListByClient(ctx context.Context, tenantID, clientID string, limit int) ([]models.SMSMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	return findManyMongo[models.SMSMessage](ctx, r.col, tenantFilter(tenantID, bson.M{"clientId": clientID}), opts)
}
