package weather

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasureValue represents one sampled quantity over an implicit
// aggregation window. Avg is always present; Min and Max are optional
// and, when present, Min <= Avg <= Max is expected but not enforced;
// devices occasionally violate it.
type MeasureValue struct {
	Avg float64  `json:"avg" bson:"avg"`
	Min *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max *float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// WindValue extends MeasureValue with a bearing. Direction is always
// derived from Azimuth during ingestion; it is never accepted as input.
// A near-calm wind carries neither azimuth nor direction.
type WindValue struct {
	MeasureValue `bson:",inline"`

	Azimuth   *int       `json:"azimuth,omitempty" bson:"azimuth,omitempty"`
	Direction *Direction `json:"direction,omitempty" bson:"direction,omitempty"`
}

// AnonymousWeatherRecord is the canonical, unit-converted observation
// exchanged with the outside world. It carries no station identity.
type AnonymousWeatherRecord struct {
	Timestamp   time.Time     `json:"timestamp" bson:"timestamp"`
	Wind        WindValue     `json:"wind" bson:"wind"`
	Temperature MeasureValue  `json:"temperature" bson:"temperature"`
	Humidity    *MeasureValue `json:"humidity" bson:"humidity"`
	Pressure    *MeasureValue `json:"pressure" bson:"pressure"`
	Light       *MeasureValue `json:"light" bson:"light"`
	Rain        *MeasureValue `json:"rain" bson:"rain"`
}

// Station is a registered reporting device. Code is the stable external
// identifier devices report with; it must stay unique.
type Station struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Code string             `json:"code" bson:"code"`
	Name string             `json:"name" bson:"name"`
	Lat  float64            `json:"lat" bson:"lat"`
	Lon  float64            `json:"lon" bson:"lon"`
}

// WeatherRecord is the persisted unit: the canonical observation plus a
// snapshot of the station taken at insert time. The snapshot is
// deliberately denormalized: later station edits never rewrite history.
// Records are append-only.
type WeatherRecord struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id"`
	Station                Station            `json:"station" bson:"station"`
	AnonymousWeatherRecord `bson:",inline"`
}

// Anonymous strips record and station identity for API responses.
func (r WeatherRecord) Anonymous() AnonymousWeatherRecord {
	return r.AnonymousWeatherRecord
}

// User is an admin API account. Password holds a bcrypt hash.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Password string             `json:"-" bson:"password"`
}

// Period bounds a historical query. Either side may be absent, in which
// case that side is open-ended.
type Period struct {
	Start *time.Time
	End   *time.Time
}

var (
	minInstant = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxInstant = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// Bounds resolves the period to concrete instants: the start date is
// floored to midnight UTC, the end date ceilinged to end of day, and
// absent sides widen to the representable extremes.
func (p Period) Bounds() (from, to time.Time) {
	from = minInstant
	if p.Start != nil {
		s := p.Start.UTC()
		from = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	}
	to = maxInstant
	if p.End != nil {
		e := p.End.UTC()
		to = time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 999999999, time.UTC)
	}
	return from, to
}
