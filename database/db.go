package database

import (
	"context"
	"log"
	"time"

	"gigmatch/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// MongoClient holds musician profiles and committed bookings. Created once in main.
var MongoClient *mongo.Client

// InitDB connects to DATABASE_URL and fails fast when the primary is unreachable.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetAppName("gigmatch").
		SetServerSelectionTimeout(config.AppConfig.StoreTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("failed to ping MongoDB at %s: %v", config.AppConfig.DatabaseURL, err)
	}
	MongoClient = client
	log.Printf("Connected to MongoDB database %q", config.AppConfig.DatabaseName)
}

// Database returns the engine's database handle.
func Database() *mongo.Database {
	return MongoClient.Database(config.AppConfig.DatabaseName)
}

// Disconnect closes the client if InitDB ran.
func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
