// Command skycast runs the terminal weather dashboard.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycast/skycast/internal/app"
	"github.com/skycast/skycast/internal/config"
	"github.com/skycast/skycast/internal/geo"
	"github.com/skycast/skycast/internal/owm"
	"github.com/skycast/skycast/internal/store"
	"github.com/skycast/skycast/internal/weather"
)

func main() {
	cfg := config.Load()

	if cfg.Debug {
		f, err := tea.LogToFile("skycast.log", "debug")
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		// Stray log writes would tear up the alt screen.
		log.SetOutput(io.Discard)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		// Degrade to in-memory state rather than failing startup.
		log.Printf("persistence unavailable (%v), using in-memory store", err)
		if st, err = store.OpenMemory(); err != nil {
			st = store.Disabled()
		}
	}
	defer st.Close()

	var locator geo.Locator = geo.Unavailable{}
	if cfg.HomeSet {
		locator = geo.Fixed{Lat: cfg.HomeLat, Lon: cfg.HomeLon}
	}

	// A city name given on the command line overrides session restore.
	var initial weather.Location
	if args := os.Args[1:]; len(args) > 0 {
		initial = weather.ByName(strings.Join(args, " "))
	}

	m := app.New(app.Options{
		API:             owm.New(cfg.APIKey, owm.WithTimeout(cfg.APITimeout)),
		Store:           st,
		Locator:         locator,
		InitialLocation: initial,
		SearchDebounce:  cfg.SearchDebounce,
		GeoTimeout:      cfg.GeoTimeout,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "skycast:", err)
		os.Exit(1)
	}
}
