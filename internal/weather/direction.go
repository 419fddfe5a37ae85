package weather

// Direction is a 16-point compass code.
type Direction string

const (
	DirectionN   Direction = "N"
	DirectionNNE Direction = "NNE"
	DirectionNE  Direction = "NE"
	DirectionENE Direction = "ENE"
	DirectionE   Direction = "E"
	DirectionESE Direction = "ESE"
	DirectionSE  Direction = "SE"
	DirectionSSE Direction = "SSE"
	DirectionS   Direction = "S"
	DirectionSSW Direction = "SSW"
	DirectionSW  Direction = "SW"
	DirectionWSW Direction = "WSW"
	DirectionW   Direction = "W"
	DirectionWNW Direction = "WNW"
	DirectionNW  Direction = "NW"
	DirectionNNW Direction = "NNW"
)

var compassRose = [16]Direction{
	DirectionN, DirectionNNE, DirectionNE, DirectionENE,
	DirectionE, DirectionESE, DirectionSE, DirectionSSE,
	DirectionS, DirectionSSW, DirectionSW, DirectionWSW,
	DirectionW, DirectionWNW, DirectionNW, DirectionNNW,
}

// DirectionFromAzimuth maps a device-reported bearing to a compass
// code. The device convention reports the wind origin shifted by 180
// degrees from a standard compass bearing, so the input is shifted back
// before bucketing into 16 sectors of 22.5 degrees centered on the
// compass points: below 11.25 resolves to N, below 33.75 to NNE, and so
// on, wrapping at 348.75 back to N.
func DirectionFromAzimuth(azimuth int) Direction {
	shifted := ((azimuth+180)%360 + 360) % 360
	// Sector math in quarter degrees keeps the 11.25-degree half-sector
	// offset in integer arithmetic.
	return compassRose[((4*shifted+45)/90)%16]
}

func resolveDirection(azimuth *int) *Direction {
	if azimuth == nil {
		return nil
	}
	d := DirectionFromAzimuth(*azimuth)
	return &d
}
