package owm

import "github.com/skycast/skycast/internal/weather"

// currentResponse mirrors the provider's current-conditions payload.
type currentResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

// current converts the payload to the domain snapshot.
func (r currentResponse) current() weather.Current {
	c := weather.Current{
		Temp:       r.Main.Temp,
		FeelsLike:  r.Main.FeelsLike,
		Humidity:   r.Main.Humidity,
		Pressure:   r.Main.Pressure,
		WindSpeed:  r.Wind.Speed,
		WindDeg:    r.Wind.Deg,
		Visibility: r.Visibility,
		Sunrise:    r.Sys.Sunrise,
		Sunset:     r.Sys.Sunset,
	}
	if len(r.Weather) > 0 {
		c.ConditionID = r.Weather[0].ID
		c.Description = r.Weather[0].Description
	}
	return c
}

// forecastResponse mirrors the provider's 5-day/3-hour forecast payload.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// samples converts the payload to ordered raw forecast samples.
func (r forecastResponse) samples() []weather.Sample {
	out := make([]weather.Sample, 0, len(r.List))
	for _, item := range r.List {
		s := weather.Sample{
			Timestamp: item.Dt,
			Temp:      item.Main.Temp,
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.ConditionID = item.Weather[0].ID
			s.Description = item.Weather[0].Description
		}
		out = append(out, s)
	}
	return out
}

// geoResult mirrors one geocoding result.
type geoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (g geoResult) location() weather.Location {
	return weather.At(g.Name, g.Country, g.Lat, g.Lon)
}
