package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pwshub/wind/internal/weather"
	"github.com/pwshub/wind/internal/weather/pws"
)

// stationUpdate handles the legacy PWS update protocol. Devices push
// observations with a GET request; a successful ingest answers 201.
func (a *API) stationUpdate(c *fiber.Ctx) error {
	for _, name := range pws.ParamNames {
		if c.Query(name) == "" {
			a.metrics.IngestFailures.WithLabelValues("bad_payload").Inc()
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("missing parameter %s", name))
		}
	}

	var obs pws.Observation
	if err := c.QueryParser(&obs); err != nil {
		a.metrics.IngestFailures.WithLabelValues("bad_payload").Inc()
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(obs); err != nil {
		a.metrics.IngestFailures.WithLabelValues("bad_payload").Inc()
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := obs.Normalize()
	if err != nil {
		a.metrics.IngestFailures.WithLabelValues("bad_payload").Inc()
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	start := time.Now()
	stored, err := a.service.Ingest(c.UserContext(), obs.StationID, record)
	if err != nil {
		if errors.Is(err, weather.ErrStationNotFound) {
			a.metrics.IngestFailures.WithLabelValues("unknown_station").Inc()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		a.metrics.IngestFailures.WithLabelValues("store").Inc()
		slog.Error("ingest failed", "station", obs.StationID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store record")
	}
	a.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	a.metrics.RecordsIngested.WithLabelValues(stored.Station.Code).Inc()

	return c.SendStatus(fiber.StatusCreated)
}
