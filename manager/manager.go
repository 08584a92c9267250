package manager

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Will match YYYY-MM-DD, single-digit months and days are rejected.
const datePattern = `^\d{4}-\d{2}-\d{2}$`

const dateLayout = "2006-01-02"

// New returns an empty Manager. Vendor clients are registered by the caller,
// which owns their construction and credentials.
func New() *Manager {
	return &Manager{
		clients: make(map[ProviderName]Client),
		dateRe:  regexp.MustCompile(datePattern),
		now:     time.Now,
	}
}

// Manager owns the registered vendor clients, the active selection and the
// routing of one request to exactly one outbound query.
type Manager struct {
	clients map[ProviderName]Client
	active  ProviderName
	dateRe  *regexp.Regexp
	now     func() time.Time
}

// Register binds a vendor client to its name.
func (m *Manager) Register(name ProviderName, client Client) {
	m.clients[name] = client
}

// Activate selects the preferred provider, falling back to any registered
// one when the preferred name has no client. The fallback is reported so the
// caller can surface it; it is never silent.
func (m *Manager) Activate(preferred ProviderName) (active ProviderName, fellBack bool) {
	if _, ok := m.clients[preferred]; ok {
		m.active = preferred
		return preferred, false
	}
	for _, name := range Providers() {
		if _, ok := m.clients[name]; ok {
			m.active = name
			return name, true
		}
	}
	return "", true
}

// Switch changes the active provider. Switching to the provider already in
// use is a no-op and reports changed=false.
func (m *Manager) Switch(name ProviderName) (changed bool, err error) {
	if name == m.active {
		return false, nil
	}
	if _, ok := m.clients[name]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	m.active = name
	return true, nil
}

// ActiveName returns the currently selected provider.
func (m *Manager) ActiveName() ProviderName {
	return m.active
}

// Get routes one weather request to the active provider. An empty date asks
// for current weather; a date on or before today for historical weather; a
// future date for a forecast. Malformed and impossible dates fail the
// request, no upstream call is made for them.
func (m *Manager) Get(ctx context.Context, address, date string) (Report, error) {
	client, ok := m.clients[m.active]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownProvider, m.active)
	}

	if date == "" {
		return client.Current(ctx, address)
	}

	if !m.dateRe.MatchString(date) {
		return Report{}, fmt.Errorf("%w, got %q", ErrInvalidDateFormat, date)
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %q", ErrInvalidDateValue, date)
	}

	if day.After(m.today()) {
		return client.Forecast(ctx, address, day)
	}
	return client.Historical(ctx, address, day)
}

// today is the clock's local calendar date, pinned to midnight UTC so it
// compares cleanly against parsed input dates.
func (m *Manager) today() time.Time {
	year, month, dayOfMonth := m.now().Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}
