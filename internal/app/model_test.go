package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycast/skycast/internal/format"
	"github.com/skycast/skycast/internal/geo"
	"github.com/skycast/skycast/internal/owm"
	"github.com/skycast/skycast/internal/store"
	"github.com/skycast/skycast/internal/weather"
)

// fakeAPI is an in-memory WeatherService that records calls.
type fakeAPI struct {
	bundle weather.Bundle
	err    error

	results    []weather.Location
	reverseLoc weather.Location
	reverseErr error

	coordCalls  [][2]float64
	cityCalls   []string
	searchCalls []string
}

func (f *fakeAPI) FetchByCoords(_ context.Context, lat, lon float64) (weather.Bundle, error) {
	f.coordCalls = append(f.coordCalls, [2]float64{lat, lon})
	return f.bundle, f.err
}

func (f *fakeAPI) FetchByCity(_ context.Context, name string) (weather.Bundle, error) {
	f.cityCalls = append(f.cityCalls, name)
	return f.bundle, f.err
}

func (f *fakeAPI) SearchCities(_ context.Context, query string, _ int) []weather.Location {
	f.searchCalls = append(f.searchCalls, query)
	return f.results
}

func (f *fakeAPI) ReverseGeocode(context.Context, float64, float64) (weather.Location, error) {
	return f.reverseLoc, f.reverseErr
}

func bundleFor(name, country string, lat, lon, temp float64) weather.Bundle {
	return weather.Bundle{
		Current:  weather.Current{Temp: temp, ConditionID: 800, Description: "clear sky"},
		Location: weather.At(name, country, lat, lon),
	}
}

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// update feeds one message through Update and narrows the result back to
// the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// drain runs a command synchronously and feeds its message back in,
// repeating until no command remains.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		m, cmd = update(t, m, msg)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeQuery(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range s {
		m, cmd = update(t, m, keyRunes(string(r)))
	}
	return m, cmd
}

func TestNewDefaults(t *testing.T) {
	m := New(Options{})

	if m.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", m.State())
	}
	if m.unit != format.Celsius {
		t.Errorf("unit = %v, want Celsius", m.unit)
	}
	if m.theme.Name != store.ThemeLight {
		t.Errorf("theme = %q, want light", m.theme.Name)
	}
	if m.selected != -1 {
		t.Errorf("selected = %d, want -1", m.selected)
	}
}

func TestStartupWithInitialLocation(t *testing.T) {
	api := &fakeAPI{bundle: bundleFor("Lisbon", "PT", 38.72, -9.13, 21)}
	m := New(Options{API: api, InitialLocation: weather.ByName("Lisbon")})

	m, cmd := update(t, m, startupMsg{})
	if m.State() != StateLoading {
		t.Fatalf("state = %v, want StateLoading", m.State())
	}
	m = drain(t, m, cmd)

	if m.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", m.State())
	}
	if m.Location().Name != "Lisbon" {
		t.Errorf("location = %q, want Lisbon", m.Location().Name)
	}
	if len(api.cityCalls) != 1 || api.cityCalls[0] != "Lisbon" {
		t.Errorf("city calls = %v, want [Lisbon]", api.cityCalls)
	}
	if !m.haveWeather {
		t.Error("haveWeather = false after successful fetch")
	}
}

func TestStartupRestoresFreshSession(t *testing.T) {
	s := createTestStore(t)
	if err := s.SetLastLocation(weather.At("Porto", "PT", 41.15, -8.61)); err != nil {
		t.Fatalf("seed last location: %v", err)
	}

	api := &fakeAPI{bundle: bundleFor("Porto", "PT", 41.15, -8.61, 17)}
	m := New(Options{API: api, Store: s})

	m, cmd := update(t, m, startupMsg{})
	if m.State() != StateLoading {
		t.Fatalf("state = %v, want StateLoading", m.State())
	}
	// The restored location is displayed before the refresh lands.
	if m.Location().Name != "Porto" {
		t.Errorf("restored location = %q, want Porto", m.Location().Name)
	}
	m = drain(t, m, cmd)
	if len(api.coordCalls) != 1 {
		t.Fatalf("coord calls = %v, want one", api.coordCalls)
	}
}

func TestStartupWithEmptyStoreStaysIdle(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api, Store: createTestStore(t)})

	m, cmd := update(t, m, startupMsg{})
	if m.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", m.State())
	}
	if cmd != nil {
		t.Error("expected no command on an empty session")
	}
	if len(api.cityCalls)+len(api.coordCalls) != 0 {
		t.Error("no fetch should fire without a session to restore")
	}
}

func TestStaleFetchResponsesDiscarded(t *testing.T) {
	api := &fakeAPI{bundle: bundleFor("Lisbon", "PT", 38.72, -9.13, 21)}
	m := New(Options{API: api, InitialLocation: weather.ByName("Lisbon")})
	m, cmd := update(t, m, startupMsg{})
	m = drain(t, m, cmd)

	// A newer fetch supersedes the one whose responses now arrive.
	m, _ = update(t, m, keyRunes(KeyRefresh))
	if m.State() != StateLoading {
		t.Fatalf("state = %v, want StateLoading", m.State())
	}

	stale := fetchedMsg{Seq: m.fetchSeq - 1, Bundle: bundleFor("Oslo", "NO", 59.91, 10.75, -3)}
	m, _ = update(t, m, stale)
	if m.State() != StateLoading {
		t.Errorf("stale response changed state to %v", m.State())
	}
	if m.Location().Name == "Oslo" {
		t.Error("stale response replaced the displayed location")
	}

	m, _ = update(t, m, fetchErrMsg{Seq: m.fetchSeq - 1, Err: owm.ErrNetwork})
	if m.State() == StateError {
		t.Error("stale error surfaced")
	}
}

func TestFetchErrorPreservesDisplayedData(t *testing.T) {
	api := &fakeAPI{bundle: bundleFor("Lisbon", "PT", 38.72, -9.13, 21)}
	m := New(Options{API: api, InitialLocation: weather.ByName("Lisbon")})
	m, cmd := update(t, m, startupMsg{})
	m = drain(t, m, cmd)

	api.err = owm.ErrNetwork
	m, cmd = update(t, m, keyRunes(KeyRefresh))
	m = drain(t, m, cmd)

	if m.State() != StateError {
		t.Fatalf("state = %v, want StateError", m.State())
	}
	if m.errMsg == "" {
		t.Error("no user-facing error message")
	}
	if !m.haveWeather || m.current.Temp != 21 {
		t.Error("previously displayed weather was lost on error")
	}
}

func TestRefreshWithoutLocationIsNoop(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api})

	m, cmd := update(t, m, keyRunes(KeyRefresh))
	if cmd != nil {
		t.Error("refresh without a location issued a command")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want StateIdle", m.State())
	}
}

func TestShortQueryNeverSearches(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))

	m, cmd := typeQuery(t, m, "Li")
	if cmd != nil {
		t.Error("short query armed a debounce timer")
	}
	if m.searching {
		t.Error("short query marked the model as searching")
	}

	m, cmd = update(t, m, keyRunes("s"))
	if cmd == nil {
		t.Error("three-character query did not arm the debounce timer")
	}
	if !m.searching {
		t.Error("searching = false after a searchable query")
	}

	// The provider is only reached after the quiet period, never on
	// keystrokes.
	if len(api.searchCalls) != 0 {
		t.Errorf("search calls = %v, want none before debounce", api.searchCalls)
	}
}

func TestDebounceOldGenerationIgnored(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))
	m, _ = typeQuery(t, m, "Lis")
	oldGen := m.searchGen
	m, _ = update(t, m, keyRunes("b")) // bumps the generation

	m, cmd := update(t, m, debounceMsg{Gen: oldGen})
	if cmd != nil {
		t.Error("expired debounce generation issued a search")
	}

	m, cmd = update(t, m, debounceMsg{Gen: m.searchGen})
	if cmd == nil {
		t.Fatal("current debounce generation issued no search")
	}
	drain(t, m, cmd)
	if len(api.searchCalls) != 1 || api.searchCalls[0] != "Lisb" {
		t.Errorf("search calls = %v, want [Lisb]", api.searchCalls)
	}
}

func TestStaleSearchResultsDiscarded(t *testing.T) {
	api := &fakeAPI{}
	m := New(Options{API: api})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))
	m, _ = typeQuery(t, m, "Lisbon")
	m, _ = update(t, m, debounceMsg{Gen: m.searchGen})

	stale := searchResultsMsg{Seq: m.searchSeq - 1, Results: []weather.Location{weather.ByName("Oslo")}}
	m, _ = update(t, m, stale)
	if len(m.suggestions) != 0 {
		t.Error("stale search results were displayed")
	}

	fresh := searchResultsMsg{Seq: m.searchSeq, Results: []weather.Location{weather.At("Lisbon", "PT", 38.72, -9.13)}}
	m, _ = update(t, m, fresh)
	if len(m.suggestions) != 1 || m.suggestions[0].Name != "Lisbon" {
		t.Errorf("suggestions = %v, want the fresh Lisbon result", m.suggestions)
	}
	if m.searching {
		t.Error("searching = true after results landed")
	}
}

func TestSubmitSelectedSuggestion(t *testing.T) {
	api := &fakeAPI{bundle: bundleFor("Lisbon", "PT", 38.72, -9.13, 21)}
	m := New(Options{API: api})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))
	m, _ = typeQuery(t, m, "Lisbon")
	m, _ = update(t, m, searchResultsMsg{
		Seq:     m.searchSeq,
		Results: []weather.Location{weather.At("Lisbon", "PT", 38.72, -9.13)},
	})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if len(api.coordCalls) != 1 {
		t.Fatalf("coord calls = %v, want one", api.coordCalls)
	}
	if api.coordCalls[0] != [2]float64{38.72, -9.13} {
		t.Errorf("fetched coords = %v", api.coordCalls[0])
	}
	if m.searchFocused || m.query != "" {
		t.Error("search box not reset after submit")
	}
	if m.State() != StateReady {
		t.Errorf("state = %v, want StateReady", m.State())
	}
}

func TestSubmitBareQueryFetchesByName(t *testing.T) {
	api := &fakeAPI{bundle: bundleFor("Porto", "PT", 41.15, -8.61, 17)}
	m := New(Options{API: api})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))
	m, _ = typeQuery(t, m, "Porto")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if len(api.cityCalls) != 1 || api.cityCalls[0] != "Porto" {
		t.Errorf("city calls = %v, want [Porto]", api.cityCalls)
	}
	if m.Location().Name != "Porto" {
		t.Errorf("location = %q, want Porto", m.Location().Name)
	}
}

func TestSuccessfulFetchPersistsSession(t *testing.T) {
	s := createTestStore(t)
	api := &fakeAPI{bundle: bundleFor("Lisbon", "PT", 38.72, -9.13, 21)}
	m := New(Options{API: api, Store: s, InitialLocation: weather.ByName("Lisbon")})

	m, cmd := update(t, m, startupMsg{})
	m = drain(t, m, cmd)

	if loc, ok := s.FreshLastLocation(); !ok || loc.Name != "Lisbon" {
		t.Errorf("last location = %v, %v; want fresh Lisbon", loc, ok)
	}
	recents := s.RecentSearches()
	if len(recents) != 1 || recents[0].Name != "Lisbon" {
		t.Errorf("recent searches = %v, want [Lisbon]", recents)
	}
	if len(m.recent) != 1 {
		t.Errorf("model recent list = %v, want the reloaded entry", m.recent)
	}
}

func TestUnitTogglePersists(t *testing.T) {
	s := createTestStore(t)
	m := New(Options{API: &fakeAPI{}, Store: s})

	m, _ = update(t, m, keyRunes(KeyUnitToggle))
	if m.unit != format.Fahrenheit {
		t.Errorf("unit = %v, want Fahrenheit", m.unit)
	}
	if got := s.PreferredUnit(); got != format.Fahrenheit {
		t.Errorf("persisted unit = %v, want Fahrenheit", got)
	}

	m, _ = update(t, m, keyRunes(KeyUnitToggle))
	if m.unit != format.Celsius {
		t.Errorf("unit = %v, want Celsius after second toggle", m.unit)
	}
}

func TestThemeTogglePersists(t *testing.T) {
	s := createTestStore(t)
	m := New(Options{API: &fakeAPI{}, Store: s})

	m, _ = update(t, m, keyRunes(KeyThemeToggle))
	if m.theme.Name != store.ThemeDark {
		t.Errorf("theme = %q, want dark", m.theme.Name)
	}
	if got := s.Theme(); got != store.ThemeDark {
		t.Errorf("persisted theme = %q, want dark", got)
	}
}

func TestClearRecentSearches(t *testing.T) {
	s := createTestStore(t)
	if err := s.AddRecentSearch(weather.At("Lisbon", "PT", 38.72, -9.13)); err != nil {
		t.Fatalf("seed recent search: %v", err)
	}
	m := New(Options{API: &fakeAPI{}, Store: s})
	m, _ = update(t, m, keyRunes(KeyFocusSearch))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if len(m.recent) != 0 {
		t.Errorf("recent = %v, want empty after clear", m.recent)
	}
	if got := s.RecentSearches(); len(got) != 0 {
		t.Errorf("persisted recent = %v, want empty", got)
	}
}

func TestLocateResolvesAndFetches(t *testing.T) {
	api := &fakeAPI{
		bundle:     bundleFor("Lisbon", "PT", 38.72, -9.13, 21),
		reverseLoc: weather.At("Lisbon", "PT", 38.72, -9.13),
	}
	m := New(Options{API: api, Locator: geo.Fixed{Lat: 38.72, Lon: -9.13}, GeoTimeout: time.Second})

	m, cmd := update(t, m, keyRunes(KeyLocate))
	m = drain(t, m, cmd)

	if m.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", m.State())
	}
	if len(api.coordCalls) != 1 || api.coordCalls[0] != [2]float64{38.72, -9.13} {
		t.Errorf("coord calls = %v, want the resolved coordinates", api.coordCalls)
	}
}

func TestLocateFallsBackToRawCoordinates(t *testing.T) {
	api := &fakeAPI{
		bundle:     bundleFor("Lisbon", "PT", 38.72, -9.13, 21),
		reverseErr: errors.New("geocoder down"),
	}
	m := New(Options{API: api, Locator: geo.Fixed{Lat: 1.5, Lon: 2.5}, GeoTimeout: time.Second})

	m, cmd := update(t, m, keyRunes(KeyLocate))
	m = drain(t, m, cmd)

	if m.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", m.State())
	}
	if len(api.coordCalls) != 1 || api.coordCalls[0] != [2]float64{1.5, 2.5} {
		t.Errorf("coord calls = %v, want the raw device fix", api.coordCalls)
	}
}

func TestLocateUnavailableShowsError(t *testing.T) {
	m := New(Options{API: &fakeAPI{}, Locator: geo.Unavailable{}, GeoTimeout: time.Second})

	m, cmd := update(t, m, keyRunes(KeyLocate))
	m = drain(t, m, cmd)

	if m.State() != StateError {
		t.Fatalf("state = %v, want StateError", m.State())
	}
	if m.errMsg != userMessage(geo.ErrUnavailable) {
		t.Errorf("errMsg = %q", m.errMsg)
	}
}

func TestUserMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{owm.ErrNotFound, "Location not found. Please try a different search term."},
		{owm.ErrTimeout, "Request timeout. Please try again."},
		{errors.New("mystery"), "Something went wrong. Please try again later."},
	}
	for _, tc := range cases {
		if got := userMessage(tc.err); got != tc.want {
			t.Errorf("userMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
