package manager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClient records which capability was invoked and with what date.
type fakeClient struct {
	calls []string
	date  time.Time
}

func (f *fakeClient) Current(_ context.Context, _ string) (Report, error) {
	f.calls = append(f.calls, "current")
	return Report{Provider: "fake"}, nil
}

func (f *fakeClient) Historical(_ context.Context, _ string, date time.Time) (Report, error) {
	f.calls = append(f.calls, "historical")
	f.date = date
	return Report{Provider: "fake"}, nil
}

func (f *fakeClient) Forecast(_ context.Context, _ string, date time.Time) (Report, error) {
	f.calls = append(f.calls, "forecast")
	f.date = date
	return Report{Provider: "fake"}, nil
}

func newTestManager(t *testing.T, today string) (*Manager, *fakeClient) {
	t.Helper()

	now, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("bad test date %q: %v", today, err)
	}

	fake := &fakeClient{}

	m := New()
	m.now = func() time.Time { return now }
	m.Register(OpenWeatherMap, fake)
	m.Activate(OpenWeatherMap)

	return m, fake
}

func TestGetWithoutDateRoutesToCurrent(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	if _, err := m.Get(context.Background(), "Odesa, Ukraine", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "current" {
		t.Fatalf("expected one current call, got %v", fake.calls)
	}
}

func TestGetPastDateRoutesToHistorical(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	if _, err := m.Get(context.Background(), "Odesa, Ukraine", "2020-01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "historical" {
		t.Fatalf("expected one historical call, got %v", fake.calls)
	}
	if got := fake.date.Format("2006-01-02"); got != "2020-01-01" {
		t.Fatalf("expected date 2020-01-01, got %s", got)
	}
}

func TestGetTodayRoutesToHistorical(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	if _, err := m.Get(context.Background(), "Odesa, Ukraine", "2023-04-10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "historical" {
		t.Fatalf("expected one historical call, got %v", fake.calls)
	}
}

func TestGetFutureDateRoutesToForecast(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	if _, err := m.Get(context.Background(), "Odesa, Ukraine", "2023-04-12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "forecast" {
		t.Fatalf("expected one forecast call, got %v", fake.calls)
	}
}

func TestGetRejectsMalformedDate(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	_, err := m.Get(context.Background(), "Odesa, Ukraine", "2023-3-31")
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("no upstream call expected, got %v", fake.calls)
	}
}

func TestGetRejectsImpossibleDate(t *testing.T) {
	m, fake := newTestManager(t, "2023-04-10")

	_, err := m.Get(context.Background(), "Odesa, Ukraine", "2000-12-32")
	if !errors.Is(err, ErrInvalidDateValue) {
		t.Fatalf("expected ErrInvalidDateValue, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("no upstream call expected, got %v", fake.calls)
	}
}

func TestSwitchChangesActiveName(t *testing.T) {
	m, _ := newTestManager(t, "2023-04-10")
	m.Register(WeatherAPI, &fakeClient{})

	changed, err := m.Switch(WeatherAPI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("expected a provider change")
	}
	if m.ActiveName() != WeatherAPI {
		t.Fatalf("expected active %s, got %s", WeatherAPI, m.ActiveName())
	}
}

func TestSwitchToActiveProviderIsNoOp(t *testing.T) {
	m, _ := newTestManager(t, "2023-04-10")

	changed, err := m.Switch(OpenWeatherMap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatal("switching to the active provider must not report a change")
	}
}

func TestSwitchToUnregisteredProviderFails(t *testing.T) {
	m, _ := newTestManager(t, "2023-04-10")

	if _, err := m.Switch(WeatherAPI); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestActivateFallsBackToRegisteredProvider(t *testing.T) {
	m, _ := newTestManager(t, "2023-04-10")

	active, fellBack := m.Activate(WeatherAPI)
	if !fellBack {
		t.Fatal("expected a fallback to be reported")
	}
	if active != OpenWeatherMap {
		t.Fatalf("expected fallback to %s, got %s", OpenWeatherMap, active)
	}
}

func TestLoadCredentialsAllOrNothing(t *testing.T) {
	t.Setenv(OpenWeatherMap.EnvVar(), "owm-key")
	t.Setenv(WeatherAPI.EnvVar(), "")

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), WeatherAPI.EnvVar()) {
		t.Fatalf("error must name the missing variable, got %v", err)
	}

	t.Setenv(WeatherAPI.EnvVar(), "wa-key")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range Providers() {
		if creds[name] == "" {
			t.Fatalf("expected credential for %s", name)
		}
	}
}

func TestParseProviderName(t *testing.T) {
	cases := []struct {
		in   string
		want ProviderName
	}{
		{"open-weather-map", OpenWeatherMap},
		{"OPEN_WEATHER_MAP", OpenWeatherMap},
		{"Weather-Api", WeatherAPI},
		{"weather_api", WeatherAPI},
	}

	for _, c := range cases {
		got, err := ParseProviderName(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: expected %s, got %s", c.in, c.want, got)
		}
	}

	if _, err := ParseProviderName("accu-weather"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
