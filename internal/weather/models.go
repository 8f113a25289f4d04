// Package weather defines the domain types shared across the app and the
// daily forecast aggregation.
package weather

// Location is a resolved place. Either Name is a resolvable place string
// or both coordinates are set; a location with neither is invalid.
type Location struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// At builds a fully resolved location with coordinates.
func At(name, country string, lat, lon float64) Location {
	return Location{Name: name, Country: country, Lat: &lat, Lon: &lon}
}

// ByName builds an unresolved location carrying only free text, the shape
// produced when the user submits a query without picking a suggestion.
func ByName(name string) Location {
	return Location{Name: name}
}

// HasCoords reports whether both coordinates are present.
func (l Location) HasCoords() bool {
	return l.Lat != nil && l.Lon != nil
}

// Valid reports whether the location can be fetched at all.
func (l Location) Valid() bool {
	return l.Name != "" || l.HasCoords()
}

// Label is the display string, "Name, Country" when a country is known.
func (l Location) Label() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// SamePlace reports whether two locations refer to the same place for
// recent-search deduplication purposes.
func (l Location) SamePlace(o Location) bool {
	return l.Name == o.Name && l.Country == o.Country
}

// Current is an immutable snapshot of current conditions, tied to one
// fetch. All values are metric.
type Current struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     float64 `json:"wind_deg"`
	Visibility  int     `json:"visibility"` // meters
	Sunrise     int64   `json:"sunrise"`    // epoch seconds
	Sunset      int64   `json:"sunset"`     // epoch seconds
	ConditionID int     `json:"condition_id"`
	Description string  `json:"description"`
}

// Sample is one 3-hour-resolution forecast reading in raw provider units.
type Sample struct {
	Timestamp   int64   `json:"dt"` // epoch seconds
	Temp        float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	ConditionID int     `json:"condition_id"`
	Description string  `json:"description"`
}

// Summary is the aggregate of one day's samples.
type Summary struct {
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int     `json:"humidity"`   // rounded mean
	WindSpeed   float64 `json:"wind_speed"` // mean
	ConditionID int     `json:"condition_id"`
	Description string  `json:"description"`
}

// Daily is one aggregated forecast day. Samples is never empty and
// Summary.TempMin <= Summary.TempMax.
type Daily struct {
	DateKey   string   `json:"date"`
	Timestamp int64    `json:"timestamp"` // first sample's epoch seconds
	Samples   []Sample `json:"samples"`
	Summary   Summary  `json:"summary"`
}

// Bundle is the result of one complete fetch: current conditions plus the
// aggregated forecast for a resolved location.
type Bundle struct {
	Current  Current
	Forecast []Daily
	Location Location
}
