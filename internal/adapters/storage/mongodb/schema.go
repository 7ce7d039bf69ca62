package mongodb

import (
	"context"
	"fmt"

	"pet-diary/internal/domain/pets"
	"pet-diary/internal/domain/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Validators devuelve el $jsonSchema de cada colección. Es la misma regla
// que aplica el paquete validation, repetida del lado de la base.
func Validators() map[string]bson.M {
	petTypes := make(bson.A, 0, len(pets.PetTypes))
	for _, t := range pets.PetTypes {
		petTypes = append(petTypes, string(t))
	}

	return map[string]bson.M{
		UsersCollection: {
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": bson.A{"username", "email", "password_hash"},
				"properties": bson.M{
					"username":      bson.M{"bsonType": "string"},
					"email":         bson.M{"bsonType": "string", "pattern": validation.EmailPattern},
					"password_hash": bson.M{"bsonType": "string"},
				},
			},
		},
		PetsCollection: {
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": bson.A{"owner_id", "name", "pet_type"},
				"properties": bson.M{
					"owner_id": bson.M{"bsonType": "string"},
					"name":     bson.M{"bsonType": "string"},
					"pet_type": bson.M{"enum": petTypes},
					"age":      bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
					"weight":   bson.M{"bsonType": bson.A{"double", "null"}},
				},
			},
		},
		DiaryPostsCollection: {
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": bson.A{"pet_id", "owner_id", "title", "created_at"},
				"properties": bson.M{
					"pet_id":     bson.M{"bsonType": "string"},
					"owner_id":   bson.M{"bsonType": "string"},
					"title":      bson.M{"bsonType": "string"},
					"photo_url":  bson.M{"bsonType": bson.A{"string", "null"}},
					"created_at": bson.M{"bsonType": "date"},
				},
			},
		},
	}
}

// EnsureCollections crea las colecciones que falten con su validator y
// actualiza (collMod) el validator de las que ya existen.
func EnsureCollections(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return mapErr("list collections", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range []string{UsersCollection, PetsCollection, DiaryPostsCollection} {
		validator := Validators()[name]

		if !have[name] {
			opts := options.CreateCollection().SetValidator(validator)
			if err := db.CreateCollection(ctx, name, opts); err != nil {
				return mapErr(fmt.Sprintf("create collection %s", name), err)
			}
			continue
		}

		cmd := bson.D{{Key: "collMod", Value: name}, {Key: "validator", Value: validator}}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			return mapErr(fmt.Sprintf("collMod %s", name), err)
		}
	}
	return nil
}
