// Package mongo implements the weather store contracts on MongoDB.
// Measurements live in a time-series collection (server v5+) with the
// station snapshot as metadata, which is what makes the join-free,
// sample-based history queries cheap.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collStations     = "stations"
	collMeasurements = "measurements"
	collUsers        = "users"
)

// Database bundles the client handle and the typed stores. Open it once
// at startup and close it around the process lifetime.
type Database struct {
	client *mongo.Client
	db     *mongo.Database

	Stations     *Stations
	Measurements *Measurements
	Users        *Users
}

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, dsn, database string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &Database{
		client:       client,
		db:           db,
		Stations:     &Stations{coll: db.Collection(collStations)},
		Measurements: &Measurements{coll: db.Collection(collMeasurements)},
		Users:        &Users{coll: db.Collection(collUsers)},
	}, nil
}

// Close disconnects the underlying client.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Init creates the collections and indexes the application relies on.
// It is idempotent and invoked via `windctl db-init`.
func (d *Database) Init(ctx context.Context) error {
	version, err := d.serverVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("connected to MongoDB", "version", version)

	names, err := d.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}

	if !existing[collUsers] {
		if err := d.db.CreateCollection(ctx, collUsers); err != nil {
			return fmt.Errorf("create %s: %w", collUsers, err)
		}
		_, err := d.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", collUsers, err)
		}
	}

	if !existing[collStations] {
		if err := d.db.CreateCollection(ctx, collStations); err != nil {
			return fmt.Errorf("create %s: %w", collStations, err)
		}
		_, err := d.db.Collection(collStations).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", collStations, err)
		}
	}

	if !existing[collMeasurements] {
		opts := options.CreateCollection()
		if majorVersion(version) >= 5 {
			opts.SetTimeSeriesOptions(options.TimeSeries().
				SetTimeField("timestamp").
				SetMetaField("station").
				SetGranularity("minutes"))
		}
		if err := d.db.CreateCollection(ctx, collMeasurements, opts); err != nil {
			return fmt.Errorf("create %s: %w", collMeasurements, err)
		}
		_, err := d.db.Collection(collMeasurements).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "station._id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", collMeasurements, err)
		}
	}

	return nil
}

func (d *Database) serverVersion(ctx context.Context) (string, error) {
	var info struct {
		Version string `bson:"version"`
	}
	err := d.db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info)
	if err != nil {
		return "", fmt.Errorf("buildInfo: %w", err)
	}
	return info.Version, nil
}

func majorVersion(version string) int {
	major, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}
