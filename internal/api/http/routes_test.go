package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pwshub/wind/internal/weather"
)

func seedRecord(t *testing.T, env *testEnv, station weather.Station, ts time.Time) weather.WeatherRecord {
	t.Helper()
	azimuth := 73
	direction := weather.DirectionFromAzimuth(azimuth)
	rec, err := env.measurements.Insert(context.Background(), weather.WeatherRecord{
		ID:      primitive.NewObjectID(),
		Station: station,
		AnonymousWeatherRecord: weather.AnonymousWeatherRecord{
			Timestamp: ts,
			Wind: weather.WindValue{
				MeasureValue: weather.MeasureValue{Avg: 12.8},
				Azimuth:      &azimuth,
				Direction:    &direction,
			},
			Temperature: weather.MeasureValue{Avg: 17.7},
		},
	})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func TestStationSelect(t *testing.T) {
	env := newTestEnv(t)
	env.seedStation(t, "ALPHA")
	env.seedStation(t, "BRAVO")

	resp := env.perform(t, httptest.NewRequest(http.MethodGet, "/api/station", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stations []weather.Station
	if err := json.Unmarshal(readBody(t, resp), &stations); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
}

func TestStationWeatherLast(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "IKRASN19")

	resp := env.perform(t, httptest.NewRequest(http.MethodGet,
		"/api/station/"+station.ID.Hex()+"/weather?type=last", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status with no data = %d, want 404", resp.StatusCode)
	}

	ts := time.Date(2022, 8, 15, 10, 59, 8, 0, time.UTC)
	seedRecord(t, env, station, ts)

	resp = env.perform(t, httptest.NewRequest(http.MethodGet,
		"/api/station/"+station.ID.Hex()+"/weather", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var rec weather.AnonymousWeatherRecord
	if err := json.Unmarshal(readBody(t, resp), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rec.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp, ts)
	}
	if rec.Wind.Direction == nil || *rec.Wind.Direction != weather.DirectionWSW {
		t.Errorf("direction = %v, want WSW", rec.Wind.Direction)
	}
}

func TestStationWeatherLastOmitsStation(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "IKRASN19")
	seedRecord(t, env, station, time.Date(2022, 8, 15, 10, 59, 8, 0, time.UTC))

	resp := env.perform(t, httptest.NewRequest(http.MethodGet,
		"/api/station/"+station.ID.Hex()+"/weather", nil))

	var body map[string]any
	if err := json.Unmarshal(readBody(t, resp), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["station"]; ok {
		t.Error("per-station response leaks the station snapshot")
	}
}

func TestStationWeatherHistory(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "IKRASN19")

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 72; hour++ {
		seedRecord(t, env, station, base.Add(time.Duration(hour)*time.Hour))
	}

	resp := env.perform(t, httptest.NewRequest(http.MethodGet,
		"/api/station/"+station.ID.Hex()+"/weather?type=history&start=2022-08-15&end=2022-08-16", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var records []weather.AnonymousWeatherRecord
	if err := json.Unmarshal(readBody(t, resp), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Two whole days of the three seeded.
	if len(records) != 48 {
		t.Fatalf("got %d records, want 48", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatal("history not sorted ascending")
		}
	}
}

func TestStationWeatherForecast(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "IKRASN19")

	resp := env.perform(t, httptest.NewRequest(http.MethodGet,
		"/api/station/"+station.ID.Hex()+"/weather?type=forecast", nil))
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", resp.StatusCode)
	}
}

func TestStationWeatherBadRequests(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "IKRASN19")

	cases := map[string]string{
		"invalid id":         "/api/station/not-an-id/weather",
		"invalid type":       "/api/station/" + station.ID.Hex() + "/weather?type=guess",
		"invalid start date": "/api/station/" + station.ID.Hex() + "/weather?type=history&start=15.08.2022",
		"invalid end date":   "/api/station/" + station.ID.Hex() + "/weather?type=history&end=tomorrow",
	}
	for name, path := range cases {
		resp := env.perform(t, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}
}

func TestLatestPerStation(t *testing.T) {
	env := newTestEnv(t)
	alpha := env.seedStation(t, "ALPHA")
	bravo := env.seedStation(t, "BRAVO")

	base := time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC)
	seedRecord(t, env, alpha, base.Add(time.Hour))
	seedRecord(t, env, bravo, base.Add(2*time.Hour))
	seedRecord(t, env, alpha, base.Add(3*time.Hour))

	resp := env.perform(t, httptest.NewRequest(http.MethodGet, "/api/weather/latest", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var records []weather.WeatherRecord
	if err := json.Unmarshal(readBody(t, resp), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Station.Code != "ALPHA" {
		t.Errorf("first record station = %s, want ALPHA (newest)", records[0].Station.Code)
	}
}
