package mongodb

import (
	"context"
	"fmt"
	"time"

	"pet-diary/internal/ports/storage"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const DefaultTimeout = 5 * time.Second

// Open conecta, hace ping al primario y devuelve el handle de la base.
// El caller es dueño del client (Disconnect al apagar).
func Open(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Client, *mongo.Database, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: connect: %v", storage.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("%w: ping: %v", storage.ErrConnection, err)
	}

	return client, client.Database(database), nil
}

// Setup crea colecciones con validators e índices. Idempotente; se corre al arrancar.
func Setup(ctx context.Context, db *mongo.Database) error {
	if err := EnsureCollections(ctx, db); err != nil {
		return err
	}
	return EnsureIndexes(ctx, db)
}

// Ping para /health.
func Ping(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %v", storage.ErrConnection, err)
	}
	return nil
}
