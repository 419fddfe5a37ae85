package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pwshub/wind/internal/weather"
)

func insertStation(t *testing.T, s *MemoryStations, code string) weather.Station {
	t.Helper()
	station, err := s.Insert(context.Background(), weather.Station{
		ID:   primitive.NewObjectID(),
		Code: code,
		Name: "Station " + code,
	})
	if err != nil {
		t.Fatalf("insert station %s: %v", code, err)
	}
	return station
}

func insertRecord(t *testing.T, s *MemoryMeasurements, station weather.Station, ts time.Time) weather.WeatherRecord {
	t.Helper()
	rec, err := s.Insert(context.Background(), weather.WeatherRecord{
		ID:      primitive.NewObjectID(),
		Station: station,
		AnonymousWeatherRecord: weather.AnonymousWeatherRecord{
			Timestamp:   ts,
			Temperature: weather.MeasureValue{Avg: 17.7},
		},
	})
	if err != nil {
		t.Fatalf("insert record: %v", err)
	}
	return rec
}

func TestMemoryStationsCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStations()
	station := insertStation(t, s, "IKRASN19")

	got, err := s.Get(ctx, station.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "IKRASN19" {
		t.Fatalf("code = %q", got.Code)
	}

	if _, err := s.GetByCode(ctx, "IKRASN19"); err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if _, err := s.GetByCode(ctx, "MISSING"); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("get by unknown code: err = %v, want ErrNotFound", err)
	}

	station.Name = "Renamed"
	if _, err := s.Update(ctx, station); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Get(ctx, station.ID)
	if got.Name != "Renamed" {
		t.Fatalf("name after update = %q", got.Name)
	}

	if err := s.Delete(ctx, station.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, station.ID); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, station.ID); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStationsDuplicateCode(t *testing.T) {
	s := NewMemoryStations()
	insertStation(t, s, "IKRASN19")

	_, err := s.Insert(context.Background(), weather.Station{
		ID:   primitive.NewObjectID(),
		Code: "IKRASN19",
	})
	if !errors.Is(err, weather.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryStationsUpdateMissing(t *testing.T) {
	s := NewMemoryStations()
	_, err := s.Update(context.Background(), weather.Station{ID: primitive.NewObjectID()})
	if !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryMeasurementsFindWindow(t *testing.T) {
	ctx := context.Background()
	stations := NewMemoryStations()
	measurements := NewMemoryMeasurements()
	station := insertStation(t, stations, "IKRASN19")

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 48; hour++ {
		insertRecord(t, measurements, station, base.Add(time.Duration(hour)*time.Hour))
	}

	from := base.Add(6 * time.Hour)
	to := base.Add(12 * time.Hour)
	records, err := measurements.Find(ctx, station.ID, from, to, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	// Both window bounds are inclusive.
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}
	for _, rec := range records {
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			t.Errorf("record at %v outside window [%v, %v]", rec.Timestamp, from, to)
		}
	}
}

func TestMemoryMeasurementsFindSampled(t *testing.T) {
	ctx := context.Background()
	stations := NewMemoryStations()
	measurements := NewMemoryMeasurements()
	station := insertStation(t, stations, "IKRASN19")

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	for minute := 0; minute < 200; minute++ {
		insertRecord(t, measurements, station, base.Add(time.Duration(minute)*time.Minute))
	}

	records, err := measurements.Find(ctx, station.ID, base, base.Add(time.Hour*24), 50)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("got %d records, want 50", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatalf("sampled records not sorted ascending")
		}
	}
}

func TestMemoryMeasurementsFindLast(t *testing.T) {
	ctx := context.Background()
	stations := NewMemoryStations()
	measurements := NewMemoryMeasurements()
	station := insertStation(t, stations, "IKRASN19")

	if _, err := measurements.FindLast(ctx, station.ID); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	// Newest record inserted in the middle; insertion order must not
	// matter.
	insertRecord(t, measurements, station, base.Add(2*time.Hour))
	newestRec := insertRecord(t, measurements, station, base.Add(9*time.Hour))
	insertRecord(t, measurements, station, base.Add(5*time.Hour))

	last, err := measurements.FindLast(ctx, station.ID)
	if err != nil {
		t.Fatalf("find last: %v", err)
	}
	if last.ID != newestRec.ID {
		t.Fatalf("last = %v, want record at %v", last.Timestamp, newestRec.Timestamp)
	}
}

func TestMemoryMeasurementsFindLastPerStation(t *testing.T) {
	ctx := context.Background()
	stations := NewMemoryStations()
	measurements := NewMemoryMeasurements()
	alpha := insertStation(t, stations, "ALPHA")
	bravo := insertStation(t, stations, "BRAVO")
	insertStation(t, stations, "EMPTY")

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	insertRecord(t, measurements, alpha, base.Add(time.Hour))
	insertRecord(t, measurements, bravo, base.Add(3*time.Hour))
	insertRecord(t, measurements, alpha, base.Add(2*time.Hour))

	records, err := measurements.FindLastPerStation(ctx)
	if err != nil {
		t.Fatalf("find last per station: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (stations without data excluded)", len(records))
	}
	if records[0].Station.Code != "BRAVO" || records[1].Station.Code != "ALPHA" {
		t.Fatalf("order = %s, %s; want BRAVO, ALPHA", records[0].Station.Code, records[1].Station.Code)
	}
}

func TestMemoryMeasurementsKeepsResubmissions(t *testing.T) {
	ctx := context.Background()
	stations := NewMemoryStations()
	measurements := NewMemoryMeasurements()
	station := insertStation(t, stations, "IKRASN19")

	ts := time.Date(2022, 8, 15, 10, 59, 8, 0, time.UTC)
	insertRecord(t, measurements, station, ts)
	insertRecord(t, measurements, station, ts)

	records, err := measurements.Find(ctx, station.ID, ts, ts, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want both resubmissions kept", len(records))
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUsers()

	user, err := s.Insert(ctx, weather.User{
		ID:       primitive.NewObjectID(),
		Name:     "admin",
		Password: "$2a$10$hash",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetByName(ctx, "admin")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got.ID != user.ID || got.Password != user.Password {
		t.Fatalf("got %+v, want %+v", got, user)
	}

	if _, err := s.GetByName(ctx, "nobody"); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_, err = s.Insert(ctx, weather.User{ID: primitive.NewObjectID(), Name: "admin"})
	if !errors.Is(err, weather.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}
