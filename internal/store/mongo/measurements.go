package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pwshub/wind/internal/weather"
)

// Measurements implements weather.MeasurementStore on the measurements
// time-series collection.
type Measurements struct {
	coll *mongo.Collection
}

// Insert appends a weather record. Append-only, no dedup.
func (m *Measurements) Insert(ctx context.Context, record weather.WeatherRecord) (weather.WeatherRecord, error) {
	if _, err := m.coll.InsertOne(ctx, record); err != nil {
		return weather.WeatherRecord{}, fmt.Errorf("insert measurement: %w", err)
	}
	return record, nil
}

// Find returns records for a station within [from, to]. When samples is
// positive the matching set is reduced with a $sample stage, so wide
// windows stay bounded at the cost of unevenly spaced points. The
// result is always re-sorted ascending by timestamp, since neither
// insertion order nor $sample output is time-ordered.
func (m *Measurements) Find(ctx context.Context, stationID primitive.ObjectID, from, to time.Time, samples int) ([]weather.WeatherRecord, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "station._id", Value: stationID},
			{Key: "timestamp", Value: bson.D{
				{Key: "$gte", Value: from},
				{Key: "$lte", Value: to},
			}},
		}}},
	}
	if samples > 0 {
		pipeline = append(pipeline, bson.D{
			{Key: "$sample", Value: bson.D{{Key: "size", Value: samples}}},
		})
	}
	pipeline = append(pipeline, bson.D{
		{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: 1}}},
	})

	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find measurements: %w", err)
	}
	var out []weather.WeatherRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	return out, nil
}

// FindLast returns the newest record for a station.
func (m *Measurements) FindLast(ctx context.Context, stationID primitive.ObjectID) (weather.WeatherRecord, error) {
	var record weather.WeatherRecord
	err := m.coll.FindOne(ctx,
		bson.M{"station._id": stationID},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return weather.WeatherRecord{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.WeatherRecord{}, fmt.Errorf("find last measurement: %w", err)
	}
	return record, nil
}

// FindLastPerStation returns the newest record of every distinct
// station, sorted by timestamp descending.
func (m *Measurements) FindLastPerStation(ctx context.Context) ([]weather.WeatherRecord, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$station._id"},
			{Key: "record", Value: bson.D{{Key: "$last", Value: "$$ROOT"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "record.timestamp", Value: -1}}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$record"}}}},
	}

	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find last per station: %w", err)
	}
	var out []weather.WeatherRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	return out, nil
}
