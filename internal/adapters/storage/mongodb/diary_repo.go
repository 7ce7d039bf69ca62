package mongodb

import (
	"context"

	"pet-diary/internal/domain/diary"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DiaryRepo struct {
	coll *mongo.Collection
}

func NewDiaryRepo(db *mongo.Database) *DiaryRepo {
	return &DiaryRepo{coll: db.Collection(DiaryPostsCollection)}
}

func (r *DiaryRepo) Create(ctx context.Context, p diary.Post) error {
	_, err := r.coll.InsertOne(ctx, fromPost(p))
	return mapErr("insert diary post", err)
}

func (r *DiaryRepo) GetByID(ctx context.Context, id string) (diary.Post, error) {
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		return diary.Post{}, mapErr("find diary post", err)
	}
	return doc.toPost(), nil
}

// ListForPet usa created_at_desc; _id desempata posts con el mismo timestamp.
func (r *DiaryRepo) ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]diary.Post, error) {
	filter := bson.D{{Key: "pet_id", Value: petID}, {Key: "owner_id", Value: ownerID}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("list diary posts", err)
	}
	defer cur.Close(ctx)

	out := make([]diary.Post, 0)
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode diary post", err)
		}
		out = append(out, doc.toPost())
	}
	return out, mapErr("list diary posts", cur.Err())
}

func (r *DiaryRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}})
	if err != nil {
		return false, mapErr("delete diary post", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *DiaryRepo) DeleteForPet(ctx context.Context, petID, ownerID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "pet_id", Value: petID}, {Key: "owner_id", Value: ownerID}})
	if err != nil {
		return 0, mapErr("delete diary posts for pet", err)
	}
	return res.DeletedCount, nil
}
