// Package store provides the in-memory implementation of the weather
// store contracts, used by tests and store-less development. Production
// runs on the mongo subpackage.
package store

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pwshub/wind/internal/weather"
)

// MemoryStations is a concurrency-safe in-memory weather.StationStore.
type MemoryStations struct {
	mu sync.RWMutex

	// key: ObjectID hex
	stations map[string]weather.Station
}

// NewMemoryStations creates an empty station store.
func NewMemoryStations() *MemoryStations {
	return &MemoryStations{stations: make(map[string]weather.Station)}
}

// Select returns all stations.
func (s *MemoryStations) Select(ctx context.Context) ([]weather.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Station, 0, len(s.stations))
	for _, station := range s.stations {
		out = append(out, station)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Get returns a station by id.
func (s *MemoryStations) Get(ctx context.Context, id primitive.ObjectID) (weather.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station, ok := s.stations[id.Hex()]
	if !ok {
		return weather.Station{}, weather.ErrNotFound
	}
	return station, nil
}

// GetByCode returns a station by its device code.
func (s *MemoryStations) GetByCode(ctx context.Context, code string) (weather.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, station := range s.stations {
		if station.Code == code {
			return station, nil
		}
	}
	return weather.Station{}, weather.ErrNotFound
}

// Insert adds a station, enforcing code uniqueness.
func (s *MemoryStations) Insert(ctx context.Context, station weather.Station) (weather.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.stations {
		if existing.Code == station.Code {
			return weather.Station{}, weather.ErrDuplicate
		}
	}
	s.stations[station.ID.Hex()] = station
	return station, nil
}

// Update replaces a stored station.
func (s *MemoryStations) Update(ctx context.Context, station weather.Station) (weather.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[station.ID.Hex()]; !ok {
		return weather.Station{}, weather.ErrNotFound
	}
	s.stations[station.ID.Hex()] = station
	return station, nil
}

// Delete removes a station. Historical records are kept untouched.
func (s *MemoryStations) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[id.Hex()]; !ok {
		return weather.ErrNotFound
	}
	delete(s.stations, id.Hex())
	return nil
}

// MemoryMeasurements is a concurrency-safe in-memory
// weather.MeasurementStore.
type MemoryMeasurements struct {
	mu sync.RWMutex

	// key: station ObjectID hex, value: records in insertion order.
	// Insertion order is not temporal order; queries sort explicitly.
	records map[string][]weather.WeatherRecord
}

// NewMemoryMeasurements creates an empty measurement store.
func NewMemoryMeasurements() *MemoryMeasurements {
	return &MemoryMeasurements{records: make(map[string][]weather.WeatherRecord)}
}

// Insert appends a weather record. No dedup: resubmitting the same
// timestamp produces a duplicate entry.
func (s *MemoryMeasurements) Insert(ctx context.Context, record weather.WeatherRecord) (weather.WeatherRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Station.ID.Hex()
	s.records[key] = append(s.records[key], record)
	return record, nil
}

// Find returns records within [from, to], down-sampled to at most
// samples records via a uniform random sample, sorted ascending by
// timestamp. samples <= 0 disables sampling.
func (s *MemoryMeasurements) Find(ctx context.Context, stationID primitive.ObjectID, from, to time.Time, samples int) ([]weather.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []weather.WeatherRecord
	for _, rec := range s.records[stationID.Hex()] {
		ts := rec.Timestamp
		if !ts.Before(from) && !ts.After(to) {
			matched = append(matched, rec)
		}
	}

	// In-memory analogue of an aggregation-stage random sample.
	if samples > 0 && len(matched) > samples {
		rand.Shuffle(len(matched), func(i, j int) {
			matched[i], matched[j] = matched[j], matched[i]
		})
		matched = matched[:samples]
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched, nil
}

// FindLast returns the newest record for a station.
func (s *MemoryMeasurements) FindLast(ctx context.Context, stationID primitive.ObjectID) (weather.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[stationID.Hex()]
	if len(records) == 0 {
		return weather.WeatherRecord{}, weather.ErrNotFound
	}
	return newest(records), nil
}

// FindLastPerStation returns the newest record of every station with at
// least one record, sorted by timestamp descending.
func (s *MemoryMeasurements) FindLastPerStation(ctx context.Context) ([]weather.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.WeatherRecord, 0, len(s.records))
	for _, records := range s.records {
		if len(records) == 0 {
			continue
		}
		out = append(out, newest(records))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func newest(records []weather.WeatherRecord) weather.WeatherRecord {
	last := records[0]
	for _, rec := range records[1:] {
		if rec.Timestamp.After(last.Timestamp) {
			last = rec
		}
	}
	return last
}

// MemoryUsers is a concurrency-safe in-memory weather.UserStore.
type MemoryUsers struct {
	mu sync.RWMutex

	// key: ObjectID hex
	users map[string]weather.User
}

// NewMemoryUsers creates an empty user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]weather.User)}
}

// Insert adds an admin account, enforcing name uniqueness.
func (s *MemoryUsers) Insert(ctx context.Context, user weather.User) (weather.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Name == user.Name {
			return weather.User{}, weather.ErrDuplicate
		}
	}
	s.users[user.ID.Hex()] = user
	return user, nil
}

// GetByName returns an admin account by name.
func (s *MemoryUsers) GetByName(ctx context.Context, name string) (weather.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Name == name {
			return user, nil
		}
	}
	return weather.User{}, weather.ErrNotFound
}
