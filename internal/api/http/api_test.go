package httpapi

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pwshub/wind/internal/observability"
	"github.com/pwshub/wind/internal/store"
	"github.com/pwshub/wind/internal/weather"
)

type testEnv struct {
	app          *fiber.App
	stations     *store.MemoryStations
	measurements *store.MemoryMeasurements
	users        *store.MemoryUsers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		stations:     store.NewMemoryStations(),
		measurements: store.NewMemoryMeasurements(),
		users:        store.NewMemoryUsers(),
	}
	service := weather.NewService(env.stations, env.measurements)
	api := New(service, env.users, observability.NewMetricsForTesting(), 100)

	env.app = fiber.New()
	api.Register(env.app)
	return env
}

func (e *testEnv) seedStation(t *testing.T, code string) weather.Station {
	t.Helper()
	station, err := e.stations.Insert(context.Background(), weather.Station{
		ID:   primitive.NewObjectID(),
		Code: code,
		Name: "Station " + code,
		Lat:  43.68,
		Lon:  40.26,
	})
	if err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return station
}

func (e *testEnv) perform(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}
