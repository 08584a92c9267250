package manager

import (
	"fmt"
	"os"
	"strings"
)

// ProviderName identifies one supported weather vendor. The underlying value
// is the upper-snake form used for environment variable lookup.
type ProviderName string

const (
	OpenWeatherMap ProviderName = "OPEN_WEATHER_MAP"
	WeatherAPI     ProviderName = "WEATHER_API"
)

// DefaultProvider is used when no selection has been persisted.
const DefaultProvider = OpenWeatherMap

// Providers lists every supported vendor.
func Providers() []ProviderName {
	return []ProviderName{OpenWeatherMap, WeatherAPI}
}

// EnvVar returns the environment variable holding this provider's api key.
func (p ProviderName) EnvVar() string {
	return string(p)
}

// String returns the user-facing hyphenated form, e.g. "open-weather-map".
func (p ProviderName) String() string {
	return strings.ToLower(strings.ReplaceAll(string(p), "_", "-"))
}

// ParseProviderName accepts either the hyphenated or the upper-snake form,
// case-insensitively.
func ParseProviderName(s string) (ProviderName, error) {
	for _, p := range Providers() {
		if strings.EqualFold(s, p.String()) || strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

// Credentials maps each provider to its api key.
type Credentials map[ProviderName]string

// LoadCredentials reads one api key per supported provider from the
// environment. The set is all-or-nothing: a single absent or empty variable
// fails the whole load, naming the variable.
func LoadCredentials() (Credentials, error) {
	creds := make(Credentials, len(Providers()))
	for _, name := range Providers() {
		key := os.Getenv(name.EnvVar())
		if key == "" {
			return nil, fmt.Errorf("%w for provider %s: set %s in the environment or a .env file",
				ErrMissingCredential, name, name.EnvVar())
		}
		creds[name] = key
	}
	return creds, nil
}
