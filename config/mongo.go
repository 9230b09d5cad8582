package config

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient holds users, practice sessions and answer attempts.
var MongoClient *mongo.Client

const defaultMongoDB = "interviewme"

// InitMongo connects to MONGO_URI and pings the primary.
func InitMongo(ctx context.Context) error {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return errors.New("MONGO_URI environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoOptions(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}

	MongoClient = client
	return nil
}

func mongoOptions(uri string) *options.ClientOptions {
	opts := options.Client().ApplyURI(uri).
		SetAppName("interviewme").
		SetServerSelectionTimeout(20 * time.Second).
		SetConnectTimeout(15 * time.Second).
		SetMaxPoolSize(uint64(envInt("MONGO_MAX_POOL", 20))).
		SetMinPoolSize(1).
		SetRetryWrites(true)

	// Atlas rejects some Go 1.24 TLS 1.3 handshakes; pin 1.2 when asked.
	if os.Getenv("MONGO_FORCE_TLS12") == "true" {
		opts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: os.Getenv("MONGO_INSECURE_TLS") == "true",
			MinVersion:         tls.VersionTLS12,
			MaxVersion:         tls.VersionTLS12,
		})
	}
	return opts
}

// MongoDatabase returns the MONGO_DB database (default "interviewme").
func MongoDatabase() (*mongo.Database, error) {
	if MongoClient == nil {
		return nil, errors.New("mongo not initialised")
	}
	name := os.Getenv("MONGO_DB")
	if name == "" {
		name = defaultMongoDB
	}
	return MongoClient.Database(name), nil
}

// PingMongo is the readiness check for MongoClient.
func PingMongo(ctx context.Context) error {
	if MongoClient == nil {
		return errors.New("mongo not initialised")
	}
	return MongoClient.Ping(ctx, readpref.Primary())
}

func CloseMongo(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
