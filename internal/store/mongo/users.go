package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pwshub/wind/internal/weather"
)

// Users implements weather.UserStore on the users collection.
type Users struct {
	coll *mongo.Collection
}

// Insert adds an admin account. The unique name index turns a reused
// name into weather.ErrDuplicate.
func (u *Users) Insert(ctx context.Context, user weather.User) (weather.User, error) {
	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return weather.User{}, weather.ErrDuplicate
		}
		return weather.User{}, fmt.Errorf("insert user %s: %w", user.Name, err)
	}
	return user, nil
}

// GetByName returns an admin account by name.
func (u *Users) GetByName(ctx context.Context, name string) (weather.User, error) {
	var user weather.User
	err := u.coll.FindOne(ctx, bson.M{"name": name}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return weather.User{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.User{}, fmt.Errorf("get user %s: %w", name, err)
	}
	return user, nil
}
