package app

import (
	"github.com/skycast/skycast/internal/geo"
	"github.com/skycast/skycast/internal/weather"
)

// startupMsg triggers the startup restore-or-fetch sequence.
type startupMsg struct{}

// fetchedMsg carries a completed weather fetch. Seq identifies the fetch
// it answers; responses for anything but the latest issued fetch are
// discarded so stale data never lands on screen.
type fetchedMsg struct {
	Seq    int
	Bundle weather.Bundle
}

// fetchErrMsg carries a failed weather fetch.
type fetchErrMsg struct {
	Seq int
	Err error
}

// searchResultsMsg carries geocoding suggestions for one search call.
type searchResultsMsg struct {
	Seq     int
	Results []weather.Location
}

// debounceMsg fires when a search quiet period elapses. Gen is the
// keystroke generation the timer was armed for; older generations are
// ignored.
type debounceMsg struct {
	Gen int
}

// locatedMsg carries a successful device-location fix.
type locatedMsg struct {
	Pos geo.Position
}

// locateErrMsg carries a classified device-location failure.
type locateErrMsg struct {
	Err error
}

// resolvedMsg carries the reverse-geocoded location for a device fix. OK
// is false when reverse lookup failed; the fetch then falls back to raw
// coordinates and lets the provider name the place.
type resolvedMsg struct {
	Loc weather.Location
	Pos geo.Position
	OK  bool
}
