package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// calmWindThreshold is the wind speed below which a reading is treated
// as stationary. A near-zero wind has no meaningful direction, so both
// azimuth and direction are dropped before the record is persisted.
const calmWindThreshold = 0.01

// Service orchestrates observation ingestion and historical queries
// over the station and measurement stores.
type Service struct {
	stations     StationStore
	measurements MeasurementStore
}

// NewService creates a new Service.
func NewService(stations StationStore, measurements MeasurementStore) *Service {
	return &Service{
		stations:     stations,
		measurements: measurements,
	}
}

// Ingest resolves the reporting device to a known station, applies
// derived-field computation and near-calm suppression, and persists the
// record. The station snapshot is embedded at insert time. Returns
// ErrStationNotFound when the code matches no registered station.
//
// Inserts are append-only: a device resubmitting the same timestamp
// produces a duplicate record, and transient store failures propagate
// to the caller without retry.
func (s *Service) Ingest(ctx context.Context, stationCode string, rec AnonymousWeatherRecord) (WeatherRecord, error) {
	station, err := s.stations.GetByCode(ctx, stationCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return WeatherRecord{}, fmt.Errorf("%w: %s", ErrStationNotFound, stationCode)
		}
		return WeatherRecord{}, fmt.Errorf("resolve station %s: %w", stationCode, err)
	}

	if rec.Wind.Avg < calmWindThreshold {
		rec.Wind.Azimuth = nil
		rec.Wind.Direction = nil
	}
	rec.Wind.Direction = resolveDirection(rec.Wind.Azimuth)

	record := WeatherRecord{
		ID:                     primitive.NewObjectID(),
		Station:                station,
		AnonymousWeatherRecord: rec,
	}

	stored, err := s.measurements.Insert(ctx, record)
	if err != nil {
		return WeatherRecord{}, fmt.Errorf("insert record for station %s: %w", stationCode, err)
	}

	slog.Debug("record ingested",
		"station", station.Code,
		"timestamp", rec.Timestamp,
		"wind_avg", rec.Wind.Avg,
	)
	return stored, nil
}

// Last returns the most recent record for a station, or ErrNoData when
// none exists.
func (s *Service) Last(ctx context.Context, stationID primitive.ObjectID) (WeatherRecord, error) {
	rec, err := s.measurements.FindLast(ctx, stationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return WeatherRecord{}, ErrNoData
		}
		return WeatherRecord{}, err
	}
	return rec, nil
}

// History returns records for a station within the period, down-sampled
// to at most samples records via a uniform random sample and re-sorted
// ascending by timestamp. Callers must not assume evenly spaced points.
// An empty result is a valid success.
func (s *Service) History(ctx context.Context, stationID primitive.ObjectID, period Period, samples int) ([]WeatherRecord, error) {
	from, to := period.Bounds()
	return s.measurements.Find(ctx, stationID, from, to, samples)
}

// Forecast always fails with ErrNotImplemented. The request type is
// reserved and must surface as a distinct failure, never as an empty
// result.
func (s *Service) Forecast(ctx context.Context, stationID primitive.ObjectID, period Period) ([]WeatherRecord, error) {
	return nil, ErrNotImplemented
}

// LastPerStation returns the newest record of every distinct station,
// sorted by timestamp descending. Used by the landing summary.
func (s *Service) LastPerStation(ctx context.Context) ([]WeatherRecord, error) {
	return s.measurements.FindLastPerStation(ctx)
}

// Stations lists all registered stations.
func (s *Service) Stations(ctx context.Context) ([]Station, error) {
	return s.stations.Select(ctx)
}

// Station fetches a station by id. Returns ErrNotFound when absent.
func (s *Service) Station(ctx context.Context, id primitive.ObjectID) (Station, error) {
	return s.stations.Get(ctx, id)
}

// CreateStation registers a new station, rejecting a reused code with
// ErrDuplicate.
func (s *Service) CreateStation(ctx context.Context, station Station) (Station, error) {
	if _, err := s.stations.GetByCode(ctx, station.Code); err == nil {
		return Station{}, fmt.Errorf("%w: station code %s", ErrDuplicate, station.Code)
	} else if !errors.Is(err, ErrNotFound) {
		return Station{}, err
	}

	station.ID = primitive.NewObjectID()
	return s.stations.Insert(ctx, station)
}

// UpdateStation replaces the stored station. Existing records keep the
// snapshot taken when they were ingested. Returns ErrNotFound for an
// unknown id.
func (s *Service) UpdateStation(ctx context.Context, station Station) (Station, error) {
	if _, err := s.stations.Get(ctx, station.ID); err != nil {
		return Station{}, err
	}
	return s.stations.Update(ctx, station)
}

// DeleteStation removes a station. Its historical records remain.
func (s *Service) DeleteStation(ctx context.Context, id primitive.ObjectID) error {
	return s.stations.Delete(ctx, id)
}
