// Package httpapi wires the REST surface: the public station/weather
// API, the basic-auth admin API, and the legacy PWS driver endpoint.
package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pwshub/wind/internal/observability"
	"github.com/pwshub/wind/internal/weather"
)

var validate = validator.New()

// API bundles the handlers' dependencies.
type API struct {
	service *weather.Service
	users   weather.UserStore
	metrics *observability.Metrics

	// historySamples caps the size of history responses.
	historySamples int
}

// New creates the API.
func New(service *weather.Service, users weather.UserStore, metrics *observability.Metrics, historySamples int) *API {
	return &API{
		service:        service,
		users:          users,
		metrics:        metrics,
		historySamples: historySamples,
	}
}

// Register wires the HTTP handlers into the Fiber app.
func (a *API) Register(app *fiber.App) {
	app.Get("/weatherstation/updateweatherstation.php", a.stationUpdate)

	api := app.Group("/api")
	api.Get("/station", a.stationSelect)
	api.Get("/station/:id/weather", a.stationWeather)
	api.Get("/weather/latest", a.latestPerStation)

	admin := api.Group("/admin", a.requireUser)
	admin.Get("/station", a.adminStationSelect)
	admin.Post("/station", a.adminStationCreate)
	admin.Get("/station/:id", a.adminStationGet)
	admin.Put("/station/:id", a.adminStationUpdate)
	admin.Delete("/station/:id", a.adminStationDelete)
}
