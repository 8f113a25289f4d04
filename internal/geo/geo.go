// Package geo abstracts the device-location capability: something that
// yields coordinates or fails with a classified error. Implementations
// are injected so tests can substitute fakes.
package geo

import (
	"context"
	"errors"
	"time"
)

// Classified geolocation failures.
var (
	ErrDenied      = errors.New("location access denied")
	ErrUnavailable = errors.New("device location is not available")
	ErrTimeout     = errors.New("location request timed out")
)

// DefaultTimeout bounds a position request.
const DefaultTimeout = 10 * time.Second

// Position is a device-location fix.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters, 0 when unknown
	Timestamp time.Time
}

// Locator yields the device's current position or a classified error.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Fixed is a Locator pinned to configured home coordinates, the terminal
// analog of a browser's geolocation grant.
type Fixed struct {
	Lat, Lon float64
}

// CurrentPosition returns the configured coordinates.
func (f Fixed) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, classify(err)
	}
	return Position{
		Latitude:  f.Lat,
		Longitude: f.Lon,
		Timestamp: time.Now(),
	}, nil
}

// Unavailable is a Locator for when no location source is configured.
type Unavailable struct{}

// CurrentPosition always fails with ErrUnavailable.
func (Unavailable) CurrentPosition(context.Context) (Position, error) {
	return Position{}, ErrUnavailable
}

// Locate asks loc for a position within the given timeout, mapping a
// deadline overrun to ErrTimeout.
func Locate(ctx context.Context, loc Locator, timeout time.Duration) (Position, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pos, err := loc.CurrentPosition(ctx)
	if err != nil {
		return Position{}, classify(err)
	}
	return pos, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrDenied), errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return err
	default:
		return ErrUnavailable
	}
}
