package weather

import "github.com/skycast/skycast/internal/format"

// Condition is the display mapping for a provider weather-condition code.
type Condition struct {
	Icon        string
	Description string
}

// unknownIcon is rendered for condition codes missing from the table.
const unknownIcon = "🌡️"

// conditions maps OpenWeatherMap condition codes to display entries.
var conditions = map[int]Condition{
	// Thunderstorm
	200: {"⛈️", "Thunderstorm with light rain"},
	201: {"⛈️", "Thunderstorm with rain"},
	202: {"⛈️", "Thunderstorm with heavy rain"},
	210: {"🌩️", "Light thunderstorm"},
	211: {"⛈️", "Thunderstorm"},
	212: {"⛈️", "Heavy thunderstorm"},
	221: {"⛈️", "Ragged thunderstorm"},
	230: {"⛈️", "Thunderstorm with light drizzle"},
	231: {"⛈️", "Thunderstorm with drizzle"},
	232: {"⛈️", "Thunderstorm with heavy drizzle"},

	// Drizzle
	300: {"🌦️", "Light intensity drizzle"},
	301: {"🌦️", "Drizzle"},
	302: {"🌦️", "Heavy intensity drizzle"},
	310: {"🌦️", "Light intensity drizzle rain"},
	311: {"🌦️", "Drizzle rain"},
	312: {"🌦️", "Heavy intensity drizzle rain"},
	313: {"🌦️", "Shower rain and drizzle"},
	314: {"🌦️", "Heavy shower rain and drizzle"},
	321: {"🌦️", "Shower drizzle"},

	// Rain
	500: {"🌧️", "Light rain"},
	501: {"🌧️", "Moderate rain"},
	502: {"🌧️", "Heavy intensity rain"},
	503: {"🌧️", "Very heavy rain"},
	504: {"🌧️", "Extreme rain"},
	511: {"🌧️", "Freezing rain"},
	520: {"🌦️", "Light intensity shower rain"},
	521: {"🌦️", "Shower rain"},
	522: {"🌦️", "Heavy intensity shower rain"},
	531: {"🌦️", "Ragged shower rain"},

	// Snow
	600: {"🌨️", "Light snow"},
	601: {"❄️", "Snow"},
	602: {"❄️", "Heavy snow"},
	611: {"🌨️", "Sleet"},
	612: {"🌨️", "Light shower sleet"},
	613: {"🌨️", "Shower sleet"},
	615: {"🌨️", "Light rain and snow"},
	616: {"🌨️", "Rain and snow"},
	620: {"🌨️", "Light shower snow"},
	621: {"❄️", "Shower snow"},
	622: {"❄️", "Heavy shower snow"},

	// Atmosphere
	701: {"🌫️", "Mist"},
	711: {"💨", "Smoke"},
	721: {"🌫️", "Haze"},
	731: {"💨", "Sand/dust whirls"},
	741: {"🌫️", "Fog"},
	751: {"💨", "Sand"},
	761: {"💨", "Dust"},
	762: {"🌋", "Volcanic ash"},
	771: {"💨", "Squalls"},
	781: {"🌪️", "Tornado"},

	// Clear
	800: {"☀️", "Clear sky"},

	// Clouds
	801: {"🌤️", "Few clouds"},
	802: {"⛅", "Scattered clouds"},
	803: {"☁️", "Broken clouds"},
	804: {"☁️", "Overcast clouds"},
}

// LookupCondition resolves a condition code to its display entry. Unknown
// codes get a generic icon and the provider's own description title-cased.
func LookupCondition(id int, providerDescription string) Condition {
	if c, ok := conditions[id]; ok {
		return c
	}
	return Condition{
		Icon:        unknownIcon,
		Description: format.CapitalizeWords(providerDescription),
	}
}
