// Package app is the bubbletea model for the SkyCast dashboard: the
// session state machine over idle/loading/ready/error, search with
// debounced suggestions, and the rendered views.
package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycast/skycast/internal/format"
	"github.com/skycast/skycast/internal/geo"
	"github.com/skycast/skycast/internal/owm"
	"github.com/skycast/skycast/internal/store"
	"github.com/skycast/skycast/internal/ui"
	"github.com/skycast/skycast/internal/weather"
)

// State is the session state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

// minSearchLen mirrors the client-side guard: shorter queries never
// trigger a provider search.
const minSearchLen = 3

// WeatherService is what the controller needs from the API client.
// *owm.Client satisfies it; tests substitute fakes.
type WeatherService interface {
	FetchByCoords(ctx context.Context, lat, lon float64) (weather.Bundle, error)
	FetchByCity(ctx context.Context, name string) (weather.Bundle, error)
	SearchCities(ctx context.Context, query string, limit int) []weather.Location
	ReverseGeocode(ctx context.Context, lat, lon float64) (weather.Location, error)
}

// Options wires the model's collaborators.
type Options struct {
	API     WeatherService
	Store   *store.Store
	Locator geo.Locator

	// InitialLocation, when valid, is fetched at startup instead of
	// restoring the last session.
	InitialLocation weather.Location

	// SearchDebounce is the quiet period after the last keystroke
	// before a search call fires. Zero means the default.
	SearchDebounce time.Duration

	// GeoTimeout bounds device-location requests.
	GeoTimeout time.Duration
}

const defaultSearchDebounce = 500 * time.Millisecond

// Model is the root bubbletea model. It owns the in-memory
// location/current/forecast triple exclusively and replaces it
// atomically on every successful fetch.
type Model struct {
	api     WeatherService
	store   *store.Store
	locator geo.Locator

	state       State
	location    weather.Location
	current     weather.Current
	forecast    []weather.Daily
	haveWeather bool
	lastUpdated time.Time
	errMsg      string

	// Preferences
	unit  format.Unit
	theme ui.Theme

	// Search box
	searchFocused bool
	query         string
	suggestions   []weather.Location
	recent        []weather.Location
	selected      int
	searching     bool
	searchGen     int // keystroke generation for debounce
	searchSeq     int // latest issued search call

	fetchSeq int // latest issued fetch

	initial        weather.Location
	searchDebounce time.Duration
	geoTimeout     time.Duration

	width  int
	height int
}

// New creates the model, loading preferences and recent searches from
// the store. Persistence reads are synchronous and local.
func New(opts Options) Model {
	if opts.Store == nil {
		opts.Store = store.Disabled()
	}
	if opts.Locator == nil {
		opts.Locator = geo.Unavailable{}
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = defaultSearchDebounce
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = geo.DefaultTimeout
	}

	return Model{
		api:            opts.API,
		store:          opts.Store,
		locator:        opts.Locator,
		state:          StateIdle,
		unit:           opts.Store.PreferredUnit(),
		theme:          ui.ByName(opts.Store.Theme()),
		recent:         opts.Store.RecentSearches(),
		selected:       -1,
		initial:        opts.InitialLocation,
		searchDebounce: opts.SearchDebounce,
		geoTimeout:     opts.GeoTimeout,
	}
}

// Init kicks off the startup sequence.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startupMsg{} }
}

// startup applies the startup rules: a caller-supplied initial location
// wins; otherwise a fresh last-session location is restored as the
// displayed location and immediately re-fetched; otherwise the model
// stays idle on the welcome screen.
func (m Model) startup() (Model, tea.Cmd) {
	if m.initial.Valid() {
		return m.startFetch(m.initial)
	}
	if loc, ok := m.store.FreshLastLocation(); ok {
		m.location = loc
		return m.startFetch(loc)
	}
	return m, nil
}

// State reports the current session state.
func (m Model) State() State { return m.state }

// Location returns the displayed location.
func (m Model) Location() weather.Location { return m.location }

// startFetch moves to loading and issues a fetch for loc, superseding
// any in-flight fetch. Previously displayed data stays visible.
func (m Model) startFetch(loc weather.Location) (Model, tea.Cmd) {
	if !loc.Valid() {
		return m, nil
	}
	m.state = StateLoading
	m.errMsg = ""
	m.fetchSeq++
	return m, fetchCmd(m.api, m.fetchSeq, loc)
}

// refresh re-fetches the displayed location; without one it is a no-op.
func (m Model) refresh() (Model, tea.Cmd) {
	if !m.location.Valid() {
		return m, nil
	}
	return m.startFetch(m.location)
}

// fetchCmd runs one complete weather fetch off the event loop.
func fetchCmd(api WeatherService, seq int, loc weather.Location) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			bundle weather.Bundle
			err    error
		)
		if loc.HasCoords() {
			bundle, err = api.FetchByCoords(ctx, *loc.Lat, *loc.Lon)
		} else {
			bundle, err = api.FetchByCity(ctx, loc.Name)
		}
		if err != nil {
			return fetchErrMsg{Seq: seq, Err: err}
		}
		return fetchedMsg{Seq: seq, Bundle: bundle}
	}
}

// searchCmd runs one geocoding search. Errors are already swallowed by
// the client; an empty result renders as "no suggestions".
func searchCmd(api WeatherService, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		results := api.SearchCities(context.Background(), query, owm.DefaultSearchLimit)
		return searchResultsMsg{Seq: seq, Results: results}
	}
}

// debounceCmd arms the quiet-period timer for one keystroke generation.
func debounceCmd(gen int, quiet time.Duration) tea.Cmd {
	return tea.Tick(quiet, func(time.Time) tea.Msg {
		return debounceMsg{Gen: gen}
	})
}

// locateCmd asks the device-location capability for a fix.
func locateCmd(locator geo.Locator, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		pos, err := geo.Locate(context.Background(), locator, timeout)
		if err != nil {
			return locateErrMsg{Err: err}
		}
		return locatedMsg{Pos: pos}
	}
}

// resolveCmd reverse-geocodes a device fix to a canonical location.
func resolveCmd(api WeatherService, pos geo.Position) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), owm.DefaultTimeout)
		defer cancel()
		loc, err := api.ReverseGeocode(ctx, pos.Latitude, pos.Longitude)
		if err != nil {
			log.Printf("reverse geocode failed: %v", err)
			return resolvedMsg{Pos: pos, OK: false}
		}
		return resolvedMsg{Loc: loc, Pos: pos, OK: true}
	}
}

// Update processes messages and returns the updated model and any
// commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case startupMsg:
		return m.startup()

	case fetchedMsg:
		if msg.Seq != m.fetchSeq {
			return m, nil // superseded by a newer fetch
		}
		m.state = StateReady
		m.location = msg.Bundle.Location
		m.current = msg.Bundle.Current
		m.forecast = msg.Bundle.Forecast
		m.haveWeather = true
		m.lastUpdated = time.Now()
		m.errMsg = ""
		m.persistSession(msg.Bundle.Location)
		return m, nil

	case fetchErrMsg:
		if msg.Seq != m.fetchSeq {
			return m, nil
		}
		m.state = StateError
		m.errMsg = userMessage(msg.Err)
		return m, nil

	case searchResultsMsg:
		if msg.Seq != m.searchSeq {
			return m, nil // a newer query is in flight
		}
		m.searching = false
		m.suggestions = msg.Results
		if m.selected >= len(m.suggestions) {
			m.selected = -1
		}
		return m, nil

	case debounceMsg:
		if msg.Gen != m.searchGen || !m.searchFocused {
			return m, nil
		}
		q := strings.TrimSpace(m.query)
		if utf8.RuneCountInString(q) < minSearchLen {
			return m, nil
		}
		m.searching = true
		m.searchSeq++
		return m, searchCmd(m.api, m.searchSeq, q)

	case locatedMsg:
		m.state = StateLoading
		m.errMsg = ""
		return m, resolveCmd(m.api, msg.Pos)

	case locateErrMsg:
		m.state = StateError
		m.errMsg = userMessage(msg.Err)
		return m, nil

	case resolvedMsg:
		if msg.OK {
			return m.startFetch(msg.Loc)
		}
		// Reverse lookup failed; fetch by the raw fix and let the
		// provider name the place.
		return m.startFetch(weather.At("", "", msg.Pos.Latitude, msg.Pos.Longitude))
	}

	return m, nil
}

// persistSession writes the recent-search and last-location side effects
// of a successful fetch. Failures are logged, never surfaced.
func (m *Model) persistSession(loc weather.Location) {
	if err := m.store.SetLastLocation(loc); err != nil {
		log.Printf("persist last location: %v", err)
	}
	if err := m.store.AddRecentSearch(loc); err != nil {
		log.Printf("persist recent search: %v", err)
	}
	m.recent = m.store.RecentSearches()
}

// handleKey processes key presses, split by whether the search box has
// focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		return m, tea.Quit

	case KeyFocusSearch:
		m.searchFocused = true
		m.selected = -1
		return m, nil

	case KeyRefresh:
		return m.refresh()

	case KeyUnitToggle:
		if m.unit == format.Celsius {
			m.unit = format.Fahrenheit
		} else {
			m.unit = format.Celsius
		}
		if err := m.store.SetPreferredUnit(m.unit); err != nil {
			log.Printf("persist unit: %v", err)
		}
		return m, nil

	case KeyThemeToggle:
		if m.theme.Name == store.ThemeDark {
			m.theme = ui.Light()
		} else {
			m.theme = ui.Dark()
		}
		if err := m.store.SetTheme(m.theme.Name); err != nil {
			log.Printf("persist theme: %v", err)
		}
		return m, nil

	case KeyLocate:
		return m, locateCmd(m.locator, m.geoTimeout)
	}

	return m, nil
}

// handleSearchKey edits the query and drives suggestion selection.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.searchFocused = false
		m.selected = -1
		return m, nil

	case tea.KeyEnter:
		return m.submitSearch()

	case tea.KeyUp:
		if m.selected > -1 {
			m.selected--
		}
		return m, nil

	case tea.KeyDown:
		if m.selected < len(m.visibleChoices())-1 {
			m.selected++
		}
		return m, nil

	case tea.KeyCtrlX:
		if strings.TrimSpace(m.query) == "" {
			if err := m.store.ClearRecentSearches(); err != nil {
				log.Printf("clear recent searches: %v", err)
			}
			m.recent = nil
			m.selected = -1
		}
		return m, nil

	case tea.KeyBackspace:
		if m.query != "" {
			r := []rune(m.query)
			m.query = string(r[:len(r)-1])
		}
		return m.queryChanged()

	case tea.KeySpace:
		m.query += " "
		return m.queryChanged()

	case tea.KeyRunes:
		m.query += string(msg.Runes)
		return m.queryChanged()
	}

	return m, nil
}

// queryChanged resets selection and re-arms the debounce timer. Queries
// shorter than three characters clear suggestions without a provider
// call; an empty query falls back to the recent list.
func (m Model) queryChanged() (Model, tea.Cmd) {
	m.selected = -1
	m.searchGen++

	q := strings.TrimSpace(m.query)
	if utf8.RuneCountInString(q) < minSearchLen {
		m.suggestions = nil
		m.searching = false
		return m, nil
	}
	m.searching = true
	return m, debounceCmd(m.searchGen, m.searchDebounce)
}

// submitSearch acts on enter: a highlighted choice is fetched as-is; a
// bare query becomes an unresolved location forwarded to fetch-by-name.
func (m Model) submitSearch() (Model, tea.Cmd) {
	if choices := m.visibleChoices(); m.selected >= 0 && m.selected < len(choices) {
		loc := choices[m.selected]
		m = m.leaveSearch()
		return m.startFetch(loc)
	}

	q := strings.TrimSpace(m.query)
	if q == "" {
		return m, nil
	}
	m = m.leaveSearch()
	return m.startFetch(weather.ByName(q))
}

// visibleChoices is what the selection cursor moves over: suggestions
// while typing, the recent list when the query is empty.
func (m Model) visibleChoices() []weather.Location {
	if strings.TrimSpace(m.query) == "" {
		return m.recent
	}
	return m.suggestions
}

func (m Model) leaveSearch() Model {
	m.searchFocused = false
	m.query = ""
	m.suggestions = nil
	m.selected = -1
	m.searching = false
	return m
}

// userMessage maps a classified error to the message shown in the error
// bar. One error is visible at a time; last one wins.
func userMessage(err error) string {
	switch {
	case errors.Is(err, owm.ErrMissingAPIKey):
		return "Weather API key is not configured. Set OPENWEATHER_API_KEY in your environment."
	case errors.Is(err, owm.ErrNotFound):
		return "Location not found. Please try a different search term."
	case errors.Is(err, owm.ErrTimeout):
		return "Request timeout. Please try again."
	case errors.Is(err, owm.ErrNetwork):
		return "Unable to connect to weather service. Please check your internet connection."
	case errors.Is(err, geo.ErrDenied):
		return "Location access denied. Please enter a location manually."
	case errors.Is(err, geo.ErrUnavailable):
		return "Device location is not available. Please enter a location manually."
	case errors.Is(err, geo.ErrTimeout):
		return "Location request timed out. Please try again."
	default:
		return "Something went wrong. Please try again later."
	}
}
