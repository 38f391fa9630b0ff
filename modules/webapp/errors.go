package webapp

import "errors"

var (
	// ErrConfigType is returned when the config section holds another type.
	ErrConfigType = errors.New("webapp: config section has unexpected type")

	// ErrInvalidSpendStdDev is returned for a negative spend deviation.
	ErrInvalidSpendStdDev = errors.New("webapp: spend standard deviation must not be negative")

	// ErrNoRouter is returned when the router service cannot be resolved.
	ErrNoRouter = errors.New("webapp: router service not available")
)
