// Package pws normalizes the legacy personal-weather-station update
// protocol: a flat query-string payload pushed by devices to
// /weatherstation/updateweatherstation.php, e.g.
//
//	ID=IKRASN19&PASSWORD=...&outtemp=17.7&inhumi=50&windspeed=12.8&
//	windgust=14.3&winddir=253&relbaro=1007.5&dailyrain=0.0&
//	light=19982.0&dateutc=2022-8-15 10:59:8&...
package pws

import (
	"fmt"
	"time"

	"github.com/pwshub/wind/internal/weather"
)

const (
	// hPaToMmHg converts relative barometric pressure from hPa/mbar to
	// millimeters of mercury.
	hPaToMmHg = 0.750061561303

	// luxPerWattSqM converts the device light unit to W/m².
	luxPerWattSqM = 126.7

	// dateLayout accepts the device's unpadded timestamps such as
	// "2022-8-15 10:59:8". The value carries no zone and is asserted,
	// not converted, to be UTC.
	dateLayout = "2006-1-2 15:4:5"
)

// ParamNames lists every query parameter of the update protocol. All of
// them are required; presence is checked at the HTTP boundary before
// binding.
var ParamNames = []string{
	"ID", "PASSWORD",
	"intemp", "outtemp", "dewpoint", "windchill",
	"inhumi", "outhumi",
	"windspeed", "windgust", "winddir",
	"absbaro", "relbaro",
	"rainrate", "dailyrain", "weeklyrain", "monthlyrain", "yearlyrain",
	"light", "UV",
	"dateutc", "softwaretype", "action", "realtime", "rtfreq",
}

// Observation mirrors the raw protocol fields. The PASSWORD credential
// is accepted but not verified anywhere; verification would hook in at
// the station lookup boundary.
type Observation struct {
	StationID string `query:"ID" validate:"required"`
	Password  string `query:"PASSWORD" validate:"required"`

	IndoorTemp  float64 `query:"intemp"`
	OutdoorTemp float64 `query:"outtemp"`
	Dewpoint    float64 `query:"dewpoint"`
	Windchill   float64 `query:"windchill"`

	IndoorHumidity  float64 `query:"inhumi"`
	OutdoorHumidity float64 `query:"outhumi"`

	WindSpeed   float64 `query:"windspeed"`
	WindGust    float64 `query:"windgust"`
	WindBearing float64 `query:"winddir"`

	AbsPressure float64 `query:"absbaro"`
	RelPressure float64 `query:"relbaro"`

	RainRate    float64 `query:"rainrate"`
	DailyRain   float64 `query:"dailyrain"`
	WeeklyRain  float64 `query:"weeklyrain"`
	MonthlyRain float64 `query:"monthlyrain"`
	YearlyRain  float64 `query:"yearlyrain"`

	Light float64 `query:"light"`
	UV    float64 `query:"UV"`

	DateUTC      string `query:"dateutc" validate:"required"`
	SoftwareType string `query:"softwaretype" validate:"required"`
	Action       string `query:"action" validate:"required"`
	Realtime     int    `query:"realtime"`
	ReportFreq   int    `query:"rtfreq"`
}

// Normalize converts the raw payload into the canonical record:
//
//   - wind: avg from windspeed, max from windgust, azimuth shifted by
//     180° from the device bearing; direction is left unresolved here
//     because ingestion applies near-calm suppression first.
//   - temperature keeps the outdoor reading; humidity keeps the indoor
//     one. The asymmetry matches the deployed devices and is kept as is.
//   - pressure: relative barometric reading converted to mmHg.
//   - light: device unit converted to W/m².
//   - rain: daily accumulation only.
//
// Dewpoint, windchill, indoor temperature, outdoor humidity, absolute
// pressure, UV and the rate/weekly/monthly/yearly rain fields are
// accepted and dropped.
func (o Observation) Normalize() (weather.AnonymousWeatherRecord, error) {
	ts, err := time.ParseInLocation(dateLayout, o.DateUTC, time.UTC)
	if err != nil {
		return weather.AnonymousWeatherRecord{}, fmt.Errorf("parse dateutc %q: %w", o.DateUTC, err)
	}

	azimuth := (int(o.WindBearing+180)%360 + 360) % 360
	gust := o.WindGust

	return weather.AnonymousWeatherRecord{
		Timestamp: ts,
		Wind: weather.WindValue{
			MeasureValue: weather.MeasureValue{Avg: o.WindSpeed, Max: &gust},
			Azimuth:      &azimuth,
		},
		Temperature: weather.MeasureValue{Avg: o.OutdoorTemp},
		Humidity:    &weather.MeasureValue{Avg: o.IndoorHumidity},
		Pressure:    &weather.MeasureValue{Avg: o.RelPressure * hPaToMmHg},
		Light:       &weather.MeasureValue{Avg: o.Light / luxPerWattSqM},
		Rain:        &weather.MeasureValue{Avg: o.DailyRain},
	}, nil
}
