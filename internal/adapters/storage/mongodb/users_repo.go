package mongodb

import (
	"context"
	"time"

	"pet-diary/internal/domain/users"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsersRepo struct {
	coll *mongo.Collection
}

func NewUsersRepo(db *mongo.Database) *UsersRepo {
	return &UsersRepo{coll: db.Collection(UsersCollection)}
}

// Create depende del índice único email_unique para detectar duplicados.
func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.coll.InsertOne(ctx, fromUser(u))
	return mapErr("insert user", err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// GetByUsername: username no es único, gana el más antiguo.
func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}}, opts)
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id string, patch users.ProfilePatch, updatedAt time.Time) (users.User, error) {
	set := bson.D{}
	if patch.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *patch.Username})
	}
	if patch.Bio != nil {
		set = append(set, bson.E{Key: "bio", Value: *patch.Bio})
	}
	if patch.FullName != nil {
		set = append(set, bson.E{Key: "full_name", Value: *patch.FullName})
	}
	if patch.PhoneNumber != nil {
		set = append(set, bson.E{Key: "phone_number", Value: *patch.PhoneNumber})
	}
	if patch.AvatarURL != nil {
		set = append(set, bson.E{Key: "avatar_url", Value: *patch.AvatarURL})
	}
	set = append(set, bson.E{Key: "updated_at", Value: updatedAt})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts)

	var doc userDoc
	if err := res.Decode(&doc); err != nil {
		return users.User{}, mapErr("update user", err)
	}
	return doc.toUser(), nil
}

func (r *UsersRepo) findOne(ctx context.Context, filter bson.D, opts ...*options.FindOneOptions) (users.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return users.User{}, mapErr("find user", err)
	}
	return doc.toUser(), nil
}
