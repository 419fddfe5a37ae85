package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pwshub/wind/internal/weather"
)

// Request types accepted by the station weather endpoint.
const (
	requestLast     = "last"
	requestForecast = "forecast"
	requestHistory  = "history"
)

const periodLayout = "2006-01-02"

func (a *API) stationSelect(c *fiber.Ctx) error {
	stations, err := a.service.Stations(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stations")
	}
	return c.JSON(stations)
}

func (a *API) stationWeather(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid station id")
	}

	period, err := parsePeriod(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	reqType := c.Query("type", requestLast)
	switch reqType {
	case requestLast:
		record, err := a.service.Last(c.UserContext(), id)
		if errors.Is(err, weather.ErrNoData) {
			a.metrics.Queries.WithLabelValues(reqType, "not_found").Inc()
			return fiber.NewError(fiber.StatusNotFound, "no weather record found")
		}
		if err != nil {
			a.metrics.Queries.WithLabelValues(reqType, "error").Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}
		a.metrics.Queries.WithLabelValues(reqType, "ok").Inc()
		return c.JSON(record.Anonymous())

	case requestForecast:
		if _, err := a.service.Forecast(c.UserContext(), id, period); !errors.Is(err, weather.ErrNotImplemented) && err != nil {
			a.metrics.Queries.WithLabelValues(reqType, "error").Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		a.metrics.Queries.WithLabelValues(reqType, "not_implemented").Inc()
		return fiber.NewError(fiber.StatusNotImplemented, "not implemented")

	case requestHistory:
		records, err := a.service.History(c.UserContext(), id, period, a.historySamples)
		if err != nil {
			a.metrics.Queries.WithLabelValues(reqType, "error").Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}
		out := make([]weather.AnonymousWeatherRecord, 0, len(records))
		for _, record := range records {
			out = append(out, record.Anonymous())
		}
		a.metrics.Queries.WithLabelValues(reqType, "ok").Inc()
		return c.JSON(out)

	default:
		a.metrics.Queries.WithLabelValues("unknown", "invalid").Inc()
		return fiber.NewError(fiber.StatusBadRequest, "invalid request type")
	}
}

func (a *API) latestPerStation(c *fiber.Ctx) error {
	records, err := a.service.LastPerStation(c.UserContext())
	if err != nil {
		a.metrics.Queries.WithLabelValues("latest", "error").Inc()
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch latest records")
	}
	a.metrics.Queries.WithLabelValues("latest", "ok").Inc()
	return c.JSON(records)
}

// parsePeriod reads the optional start/end date query parameters.
func parsePeriod(c *fiber.Ctx) (weather.Period, error) {
	var period weather.Period

	if s := c.Query("start"); s != "" {
		start, err := time.ParseInLocation(periodLayout, s, time.UTC)
		if err != nil {
			return weather.Period{}, errors.New("invalid start date; use YYYY-MM-DD")
		}
		period.Start = &start
	}
	if s := c.Query("end"); s != "" {
		end, err := time.ParseInLocation(periodLayout, s, time.UTC)
		if err != nil {
			return weather.Period{}, errors.New("invalid end date; use YYYY-MM-DD")
		}
		period.End = &end
	}
	return period, nil
}
