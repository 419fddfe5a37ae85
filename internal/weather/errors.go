package weather

import "errors"

var (
	// ErrNotFound is returned by stores when no document matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned by stores when a unique constraint is
	// violated, and by CreateStation for a reused station code.
	ErrDuplicate = errors.New("already exists")

	// ErrStationNotFound signals an observation from an unregistered
	// device. It is a client error, not a server fault.
	ErrStationNotFound = errors.New("station not found")

	// ErrNoData signals that a station has no weather records yet.
	ErrNoData = errors.New("no weather record found")

	// ErrNotImplemented marks the forecast request type. It is a
	// permanent contract, never mapped to an empty success.
	ErrNotImplemented = errors.New("not implemented")
)
