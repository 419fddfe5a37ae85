package weather

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StationStore is the contract station persistence must satisfy.
// Lookups are exact-match and side-effect free.
type StationStore interface {
	Select(ctx context.Context) ([]Station, error)
	Get(ctx context.Context, id primitive.ObjectID) (Station, error)
	GetByCode(ctx context.Context, code string) (Station, error)
	Insert(ctx context.Context, station Station) (Station, error)
	Update(ctx context.Context, station Station) (Station, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MeasurementStore is the contract weather record persistence must
// satisfy. Insert is append-only with no dedup. Find returns records in
// [from, to] down-sampled to at most samples records via a uniform
// random sample (not a deterministic decimation), sorted ascending by
// timestamp; samples <= 0 means unbounded. Implementations must never
// rely on insertion order reflecting temporal order.
type MeasurementStore interface {
	Insert(ctx context.Context, record WeatherRecord) (WeatherRecord, error)
	Find(ctx context.Context, stationID primitive.ObjectID, from, to time.Time, samples int) ([]WeatherRecord, error)
	FindLast(ctx context.Context, stationID primitive.ObjectID) (WeatherRecord, error)
	FindLastPerStation(ctx context.Context) ([]WeatherRecord, error)
}

// UserStore is the contract admin account persistence must satisfy.
type UserStore interface {
	Insert(ctx context.Context, user User) (User, error)
	GetByName(ctx context.Context, name string) (User, error)
}
