package openweathermap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/khomiakmaxim/weather-cli/manager"
)

const apiName = "open-weather-map"

const requestTimeout = 5 * time.Second

// New creates an open-weather-map client bound to an api key. One resty
// client with a five second timeout is reused for every request.
func New(apiKey string) *openWeatherMap {
	return &openWeatherMap{
		apiKey:     apiKey,
		client:     resty.New().SetTimeout(requestTimeout),
		geoURL:     "http://api.openweathermap.org/geo/1.0/direct",
		currentURL: "https://api.openweathermap.org/data/3.0/onecall",
		timedURL:   "https://api.openweathermap.org/data/3.0/onecall/timemachine",
	}
}

type openWeatherMap struct {
	apiKey string
	client *resty.Client

	geoURL     string
	currentURL string
	timedURL   string
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherInfo struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Pressure  int64   `json:"pressure"`
	Humidity  int64   `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	WindDeg   int64   `json:"wind_deg"`
	Weather   []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

type currentData struct {
	Current  weatherInfo `json:"current"`
	Timezone string      `json:"timezone"`
	Lat      float64     `json:"lat"`
	Lon      float64     `json:"lon"`
}

type timedData struct {
	Data     []weatherInfo `json:"data"`
	Timezone string        `json:"timezone"`
	Lat      float64       `json:"lat"`
	Lon      float64       `json:"lon"`
}

func (o openWeatherMap) Current(ctx context.Context, address string) (manager.Report, error) {
	coords, err := o.coordinates(ctx, address)
	if err != nil {
		return manager.Report{}, err
	}

	params := map[string]string{
		"lat":     fmt.Sprintf("%f", coords.Lat),
		"lon":     fmt.Sprintf("%f", coords.Lon),
		"exclude": "daily,minutely,hourly",
		"appid":   o.apiKey,
		"units":   "metric",
	}

	body, err := o.processRequest(ctx, o.currentURL, params)
	if err != nil {
		return manager.Report{}, err
	}

	var data currentData
	if err := json.Unmarshal(body, &data); err != nil {
		return manager.Report{}, fmt.Errorf("%s returned invalid data: %w", apiName, err)
	}

	return manager.Report{Provider: apiName, Data: data}, nil
}

// Historical and Forecast collapse to the same timemachine call: the vendor
// exposes one unified endpoint for any non-current point in time.
func (o openWeatherMap) Historical(ctx context.Context, address string, date time.Time) (manager.Report, error) {
	return o.timed(ctx, address, date)
}

func (o openWeatherMap) Forecast(ctx context.Context, address string, date time.Time) (manager.Report, error) {
	return o.timed(ctx, address, date)
}

func (o openWeatherMap) timed(ctx context.Context, address string, date time.Time) (manager.Report, error) {
	coords, err := o.coordinates(ctx, address)
	if err != nil {
		return manager.Report{}, err
	}

	params := map[string]string{
		"lat":   fmt.Sprintf("%f", coords.Lat),
		"lon":   fmt.Sprintf("%f", coords.Lon),
		"dt":    fmt.Sprintf("%d", middayUTC(date)),
		"appid": o.apiKey,
		"units": "metric",
	}

	body, err := o.processRequest(ctx, o.timedURL, params)
	if err != nil {
		return manager.Report{}, err
	}

	var data timedData
	if err := json.Unmarshal(body, &data); err != nil {
		return manager.Report{}, fmt.Errorf("%s returned invalid data, make sure the requested date is within the vendor's range: %w", apiName, err)
	}

	return manager.Report{Provider: apiName, Data: data}, nil
}

// coordinates resolves an address to a single lat/lon pair. The lookup asks
// for the best match only; zero matches is a recoverable error and no
// weather query follows it.
func (o openWeatherMap) coordinates(ctx context.Context, address string) (coordinates, error) {
	params := map[string]string{
		"q":     address,
		"limit": "1",
		"appid": o.apiKey,
	}

	body, err := o.processRequest(ctx, o.geoURL, params)
	if err != nil {
		return coordinates{}, err
	}

	matches := make([]coordinates, 0, 1)
	if err := json.Unmarshal(body, &matches); err != nil {
		return coordinates{}, fmt.Errorf("%s geocoding returned invalid data: %w", apiName, err)
	}

	if len(matches) == 0 {
		return coordinates{}, fmt.Errorf("%w: no coordinates for %q", manager.ErrAddressNotFound, address)
	}

	return matches[0], nil
}

// middayUTC pins a calendar date to 12:00:00 UTC, the single timestamp the
// unified endpoint is queried with.
func middayUTC(date time.Time) int64 {
	year, month, day := date.Date()
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func (o openWeatherMap) processRequest(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	request := o.client.R().SetContext(ctx)
	request.SetQueryParams(params)

	response, err := request.Get(path)
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != 200 {
		buf := &bytes.Buffer{}

		err = json.Indent(buf, response.Body(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%s status code: %d", apiName, response.StatusCode())
		}

		return nil, fmt.Errorf("%s status code: %d\n%s", apiName, response.StatusCode(), buf.String())
	}

	return response.Body(), nil
}
