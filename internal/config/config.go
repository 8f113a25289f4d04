// Package config reads app configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings. The API key is the only required
// value; its absence surfaces as a classified configuration error at the
// first fetch rather than failing startup.
type Config struct {
	APIKey string

	// APITimeout bounds each weather/geocoding request.
	APITimeout time.Duration

	// SearchDebounce is the quiet period after the last keystroke before
	// a search call fires.
	SearchDebounce time.Duration

	// GeoTimeout bounds a device-location request.
	GeoTimeout time.Duration

	// HomeLat/HomeLon back the device-location capability when set.
	HomeLat, HomeLon float64
	HomeSet          bool

	// DBPath is the persistence database location.
	DBPath string

	// Debug enables logging to a file.
	Debug bool
}

// Load reads configuration from the environment, with a .env file if one
// is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env file: %v", err)
	}

	cfg := &Config{
		APIKey:         os.Getenv("OPENWEATHER_API_KEY"),
		APITimeout:     getenvDuration("SKYCAST_API_TIMEOUT", 8*time.Second),
		SearchDebounce: getenvDuration("SKYCAST_SEARCH_DEBOUNCE", 500*time.Millisecond),
		GeoTimeout:     getenvDuration("SKYCAST_GEO_TIMEOUT", 10*time.Second),
		DBPath:         os.Getenv("SKYCAST_DB"),
		Debug:          os.Getenv("SKYCAST_DEBUG") != "",
	}

	lat, latOK := getenvFloat("SKYCAST_HOME_LAT")
	lon, lonOK := getenvFloat("SKYCAST_HOME_LON")
	if latOK && lonOK {
		cfg.HomeLat, cfg.HomeLon = lat, lon
		cfg.HomeSet = true
	}

	return cfg
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s %q, using %s", key, v, def)
		return def
	}
	return d
}

func getenvFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s %q, ignoring", key, v)
		return 0, false
	}
	return f, true
}
