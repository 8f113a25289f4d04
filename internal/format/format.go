// Package format holds the pure unit-conversion and display formatting
// helpers. The API layer always works in metric; everything user-facing
// goes through here.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Unit is a temperature display unit.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// Measurement is the display system for wind, pressure, and visibility.
type Measurement string

const (
	Metric   Measurement = "metric"
	Imperial Measurement = "imperial"
)

// Measurement is the display system implied by the temperature unit:
// Fahrenheit pulls the rest of the readings to imperial.
func (u Unit) Measurement() Measurement {
	if u == Fahrenheit {
		return Imperial
	}
	return Metric
}

// Placeholder is rendered when a value is absent.
const Placeholder = "--"

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Temperature renders a Celsius value in the requested unit, rounded to
// the nearest degree.
func Temperature(celsius float64, unit Unit) string {
	v := celsius
	symbol := "°C"
	if unit == Fahrenheit {
		v = CelsiusToFahrenheit(celsius)
		symbol = "°F"
	}
	return fmt.Sprintf("%d%s", int(math.Round(v)), symbol)
}

// TemperaturePtr is the nil-tolerant variant of Temperature.
func TemperaturePtr(celsius *float64, unit Unit) string {
	if celsius == nil {
		return Placeholder
	}
	return Temperature(*celsius, unit)
}

// WindSpeed renders a wind speed given in m/s.
func WindSpeed(speed float64, m Measurement) string {
	label := "m/s"
	if m == Imperial {
		label = "mph"
		speed = speed * 2.23694
	}
	return fmt.Sprintf("%d %s", int(math.Round(speed)), label)
}

var compassSectors = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirection maps degrees to a 16-sector compass point. Values at or
// past 348.75° wrap back around to N.
func WindDirection(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassSectors[idx]
}

// Humidity renders a relative-humidity percentage.
func Humidity(humidity float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(humidity)))
}

// Pressure renders an hPa value, converted to inHg for imperial display.
func Pressure(hpa float64, m Measurement) string {
	label := "hPa"
	v := hpa
	if m == Imperial {
		label = "inHg"
		v = hpa * 0.02953
	}
	return fmt.Sprintf("%d %s", int(math.Round(v)), label)
}

// Visibility renders a distance given in meters as km or miles.
func Visibility(meters int, m Measurement) string {
	km := float64(meters) / 1000
	label := "km"
	v := km
	if m == Imperial {
		label = "mi"
		v = km * 0.621371
	}
	return fmt.Sprintf("%d %s", int(math.Round(v)), label)
}

// Day returns the weekday name for a unix timestamp.
func Day(unix int64, short bool) string {
	layout := "Monday"
	if short {
		layout = "Mon"
	}
	return time.Unix(unix, 0).Format(layout)
}

// Date renders a calendar date for display.
func Date(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// Time renders a clock time for display.
func Time(t time.Time) string {
	return t.Format("3:04 PM")
}

// DateTime renders a compact date-and-time stamp.
func DateTime(t time.Time) string {
	return t.Format("Mon, Jan 2 3:04 PM")
}

// RelativeTime renders how long ago t was, e.g. "5 minutes ago".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return humanize.Time(t)
}

// CapitalizeWords upper-cases the first letter of every word, the way the
// provider's free-text descriptions are title-cased for display.
func CapitalizeWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
