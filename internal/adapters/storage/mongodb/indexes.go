package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection      = "users"
	PetsCollection       = "pets"
	DiaryPostsCollection = "diary_posts"
)

// CollectionIndexes agrupa los índices declarados para una colección.
type CollectionIndexes struct {
	Collection string
	Models     []mongo.IndexModel
}

// IndexSpecs son los índices que necesitan los patrones de acceso de los repos.
func IndexSpecs() []CollectionIndexes {
	return []CollectionIndexes{
		{
			Collection: UsersCollection,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_unique").SetUnique(true)},
				{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("username")},
			},
		},
		{
			Collection: PetsCollection,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetName("owner_id")},
				{Keys: bson.D{{Key: "pet_type", Value: 1}}, Options: options.Index().SetName("pet_type")},
			},
		},
		{
			Collection: DiaryPostsCollection,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "pet_id", Value: 1}}, Options: options.Index().SetName("pet_id")},
				{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetName("owner_id")},
				{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
			},
		},
	}
}

// EnsureIndexes crea los índices; si ya existen con la misma definición es no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range IndexSpecs() {
		if _, err := db.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models); err != nil {
			return mapErr(fmt.Sprintf("create indexes %s", spec.Collection), err)
		}
	}
	return nil
}
