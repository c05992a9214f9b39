package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/utils"
)

// ConnectMongo opens the client pool and checks the server answers.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection URI is empty")
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	utils.InfoLogger.Println("Successfully connected to MongoDB")
	return client, nil
}

func DisconnectMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		utils.ErrorLogger.Printf("Failed to disconnect MongoDB client: %v", err)
		return
	}
	utils.InfoLogger.Println("Disconnected from MongoDB")
}

// mongoIndexes: unique email, phone lookups per tenant, latest order per client
var mongoIndexes = map[string][]mongo.IndexModel{
	repository.EntrepriseCollection: {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("entreprise_email_unique").SetUnique(true),
		},
	},
	repository.ClientCollection: {
		{
			Keys:    bson.D{{Key: "entrepriseId", Value: 1}, {Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetName("client_tenant_phone"),
		},
		{
			Keys:    bson.D{{Key: "phoneKey", Value: 1}},
			Options: options.Index().SetName("client_phone_key"),
		},
	},
	repository.MenuCollection: {
		{
			Keys:    bson.D{{Key: "entrepriseId", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetName("menu_tenant_category"),
		},
	},
	repository.OrderCollection: {
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("order_client_latest"),
		},
		{
			Keys:    bson.D{{Key: "entrepriseId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("order_tenant_status"),
		},
	},
	repository.MessageCollection: {
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("sms_client_latest"),
		},
	},
}

// EnsureMongoIndexes creates the indexes the repositories rely on. Existing indexes are kept.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range mongoIndexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil && !isIndexExistsError(err) {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	utils.InfoLogger.Println("MongoDB indexes ensured.")
	return nil
}

func isIndexExistsError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "IndexOptionsConflict")
}
