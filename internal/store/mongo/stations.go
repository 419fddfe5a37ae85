package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pwshub/wind/internal/weather"
)

// Stations implements weather.StationStore on the stations collection.
type Stations struct {
	coll *mongo.Collection
}

// Select returns all stations.
func (s *Stations) Select(ctx context.Context) ([]weather.Station, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("select stations: %w", err)
	}
	var out []weather.Station
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	return out, nil
}

// Get returns a station by id.
func (s *Stations) Get(ctx context.Context, id primitive.ObjectID) (weather.Station, error) {
	var station weather.Station
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&station)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return weather.Station{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.Station{}, fmt.Errorf("get station %s: %w", id.Hex(), err)
	}
	return station, nil
}

// GetByCode returns a station by its device code.
func (s *Stations) GetByCode(ctx context.Context, code string) (weather.Station, error) {
	var station weather.Station
	err := s.coll.FindOne(ctx, bson.M{"code": code}).Decode(&station)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return weather.Station{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.Station{}, fmt.Errorf("get station by code %s: %w", code, err)
	}
	return station, nil
}

// Insert adds a station. The unique code index turns a reused code into
// weather.ErrDuplicate.
func (s *Stations) Insert(ctx context.Context, station weather.Station) (weather.Station, error) {
	_, err := s.coll.InsertOne(ctx, station)
	if mongo.IsDuplicateKeyError(err) {
		return weather.Station{}, weather.ErrDuplicate
	}
	if err != nil {
		return weather.Station{}, fmt.Errorf("insert station %s: %w", station.Code, err)
	}
	return station, nil
}

// Update replaces a stored station.
func (s *Stations) Update(ctx context.Context, station weather.Station) (weather.Station, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": station.ID}, bson.M{"$set": station})
	if err != nil {
		return weather.Station{}, fmt.Errorf("update station %s: %w", station.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return weather.Station{}, weather.ErrNotFound
	}
	return station, nil
}

// Delete removes a station. Measurement history stays in place.
func (s *Stations) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete station %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return weather.ErrNotFound
	}
	return nil
}
