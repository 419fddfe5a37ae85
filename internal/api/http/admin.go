package httpapi

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/pwshub/wind/internal/weather"
)

// requireUser guards the admin group with HTTP basic auth verified
// against the user store.
func (a *API) requireUser(c *fiber.Ctx) error {
	name, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if ok {
		user, err := a.users.GetByName(c.UserContext(), name)
		if err == nil && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
			c.Locals("user", user)
			return c.Next()
		}
	}

	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="wind"`)
	return fiber.NewError(fiber.StatusUnauthorized, "incorrect user or password")
}

func parseBasicAuth(header string) (name, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	name, password, ok = strings.Cut(string(decoded), ":")
	return name, password, ok
}

// stationRequest is the admin create/update payload.
type stationRequest struct {
	Code string  `json:"code" validate:"required"`
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (r stationRequest) toStation() weather.Station {
	return weather.Station{
		Code: r.Code,
		Name: r.Name,
		Lat:  r.Lat,
		Lon:  r.Lon,
	}
}

func (a *API) adminStationSelect(c *fiber.Ctx) error {
	stations, err := a.service.Stations(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch stations")
	}
	return c.JSON(stations)
}

func (a *API) adminStationGet(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid station id")
	}

	station, err := a.service.Station(c.UserContext(), id)
	if errors.Is(err, weather.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "station not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch station")
	}
	return c.JSON(station)
}

func (a *API) adminStationCreate(c *fiber.Ctx) error {
	var req stationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	station, err := a.service.CreateStation(c.UserContext(), req.toStation())
	if errors.Is(err, weather.ErrDuplicate) {
		return fiber.NewError(fiber.StatusConflict, "station already exists")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create station")
	}
	return c.Status(fiber.StatusCreated).JSON(station)
}

func (a *API) adminStationUpdate(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid station id")
	}

	var req stationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	station := req.toStation()
	station.ID = id

	updated, err := a.service.UpdateStation(c.UserContext(), station)
	if errors.Is(err, weather.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "station not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update station")
	}
	return c.JSON(updated)
}

func (a *API) adminStationDelete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid station id")
	}

	err = a.service.DeleteStation(c.UserContext(), id)
	if errors.Is(err, weather.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "station not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete station")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
