package mongodb

import (
	"context"
	"time"

	"pet-diary/internal/domain/pets"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PetsRepo struct {
	coll *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{coll: db.Collection(PetsCollection)}
}

// ownerFilter: toda operación sobre un pet existente matchea id y owner juntos.
func ownerFilter(id, ownerID string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.coll.InsertOne(ctx, fromPet(p))
	return mapErr("insert pet", err)
}

func (r *PetsRepo) GetForOwner(ctx context.Context, id, ownerID string) (pets.Pet, error) {
	var doc petDoc
	if err := r.coll.FindOne(ctx, ownerFilter(id, ownerID)).Decode(&doc); err != nil {
		return pets.Pet{}, mapErr("find pet", err)
	}
	return doc.toPet(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "owner_id", Value: ownerID}}, opts)
	if err != nil {
		return nil, mapErr("list pets", err)
	}
	defer cur.Close(ctx)

	out := make([]pets.Pet, 0)
	for cur.Next(ctx) {
		var doc petDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode pet", err)
		}
		out = append(out, doc.toPet())
	}
	return out, mapErr("list pets", cur.Err())
}

func (r *PetsRepo) UpdateForOwner(ctx context.Context, id, ownerID string, patch pets.Patch, updatedAt time.Time) (pets.Pet, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: petSet(patch, updatedAt)}}

	var doc petDoc
	if err := r.coll.FindOneAndUpdate(ctx, ownerFilter(id, ownerID), update, opts).Decode(&doc); err != nil {
		return pets.Pet{}, mapErr("update pet", err)
	}
	return doc.toPet(), nil
}

func (r *PetsRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, ownerFilter(id, ownerID))
	if err != nil {
		return false, mapErr("delete pet", err)
	}
	return res.DeletedCount > 0, nil
}

// petSet arma el $set solo con los campos presentes en el patch.
func petSet(patch pets.Patch, updatedAt time.Time) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Type != nil {
		set = append(set, bson.E{Key: "pet_type", Value: string(*patch.Type)})
	}
	if patch.Age != nil {
		set = append(set, bson.E{Key: "age", Value: *patch.Age})
	}
	if patch.Weight != nil {
		set = append(set, bson.E{Key: "weight", Value: *patch.Weight})
	}
	if patch.Breed != nil {
		set = append(set, bson.E{Key: "breed", Value: *patch.Breed})
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	if patch.PhotoURL != nil {
		set = append(set, bson.E{Key: "photo_url", Value: *patch.PhotoURL})
	}
	if patch.Reminders != nil {
		rs := fromReminders(*patch.Reminders)
		if rs == nil {
			rs = []reminderDoc{}
		}
		set = append(set, bson.E{Key: "reminders", Value: rs})
	}
	return append(set, bson.E{Key: "updated_at", Value: updatedAt})
}
