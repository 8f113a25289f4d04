package geo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixedReturnsConfiguredCoordinates(t *testing.T) {
	pos, err := Locate(context.Background(), Fixed{Lat: 38.72, Lon: -9.13}, time.Second)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos.Latitude != 38.72 || pos.Longitude != -9.13 {
		t.Errorf("position = %g,%g, want 38.72,-9.13", pos.Latitude, pos.Longitude)
	}
	if pos.Timestamp.IsZero() {
		t.Error("position has no timestamp")
	}
}

func TestUnavailableLocator(t *testing.T) {
	_, err := Locate(context.Background(), Unavailable{}, time.Second)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

// blocking waits for the context, standing in for a device that never
// produces a fix.
type blocking struct{}

func (blocking) CurrentPosition(ctx context.Context) (Position, error) {
	<-ctx.Done()
	return Position{}, ctx.Err()
}

func TestLocateTimesOut(t *testing.T) {
	start := time.Now()
	_, err := Locate(context.Background(), blocking{}, 20*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Locate took %s, deadline was not enforced", elapsed)
	}
}

func TestLocatePreservesDenied(t *testing.T) {
	denied := locatorFunc(func(context.Context) (Position, error) {
		return Position{}, ErrDenied
	})
	_, err := Locate(context.Background(), denied, time.Second)
	if !errors.Is(err, ErrDenied) {
		t.Errorf("err = %v, want ErrDenied", err)
	}
}

func TestLocateClassifiesUnknownErrors(t *testing.T) {
	broken := locatorFunc(func(context.Context) (Position, error) {
		return Position{}, errors.New("gps chip on fire")
	})
	_, err := Locate(context.Background(), broken, time.Second)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

type locatorFunc func(context.Context) (Position, error)

func (f locatorFunc) CurrentPosition(ctx context.Context) (Position, error) { return f(ctx) }
