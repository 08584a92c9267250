package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/khomiakmaxim/weather-cli/manager"
)

const apiName = "weather-api"

const requestTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// New creates a weather-api client bound to an api key. One resty client
// with a five second timeout is reused for every request.
func New(apiKey string) *weatherApi {
	return &weatherApi{
		apiKey:      apiKey,
		client:      resty.New().SetTimeout(requestTimeout),
		currentURL:  "http://api.weatherapi.com/v1/current.json",
		historyURL:  "http://api.weatherapi.com/v1/history.json",
		forecastURL: "http://api.weatherapi.com/v1/forecast.json",
		now:         time.Now,
	}
}

type weatherApi struct {
	apiKey string
	client *resty.Client

	currentURL  string
	historyURL  string
	forecastURL string

	now func() time.Time
}

type location struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type conditionInfo struct {
	Text string `json:"text"`
}

type weatherInfo struct {
	TempC     float64       `json:"temp_c"`
	TempF     float64       `json:"temp_f"`
	Condition conditionInfo `json:"condition"`
}

type day struct {
	AvgtempC   float64       `json:"avgtemp_c"`
	AvgtempF   float64       `json:"avgtemp_f"`
	MaxwindMph float64       `json:"maxwind_mph"`
	MaxwindKph float64       `json:"maxwind_kph"`
	Condition  conditionInfo `json:"condition"`
}

type forecastDay struct {
	Day day `json:"day"`
}

type currentData struct {
	Current  weatherInfo `json:"current"`
	Location location    `json:"location"`
}

type timedData struct {
	Forecast struct {
		Forecastday []forecastDay `json:"forecastday"`
	} `json:"forecast"`
	Location location `json:"location"`
}

func (w weatherApi) Current(ctx context.Context, address string) (manager.Report, error) {
	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("q", address)
	params.Set("aqi", "no")

	body, err := w.processRequest(ctx, w.currentURL, params)
	if err != nil {
		return manager.Report{}, err
	}

	var data currentData
	if err := json.Unmarshal(body, &data); err != nil {
		return manager.Report{}, fmt.Errorf("%s returned invalid data: %w", apiName, err)
	}

	return manager.Report{Provider: apiName, Data: data}, nil
}

func (w weatherApi) Historical(ctx context.Context, address string, date time.Time) (manager.Report, error) {
	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("q", address)
	params.Set("dt", date.Format(dateLayout))

	body, err := w.processRequest(ctx, w.historyURL, params)
	if err != nil {
		return manager.Report{}, err
	}

	var data timedData
	if err := json.Unmarshal(body, &data); err != nil {
		return manager.Report{}, fmt.Errorf("%s returned invalid data: %w", apiName, err)
	}

	return manager.Report{Provider: apiName, Data: data}, nil
}

// Forecast asks the vendor for a window covering every day up to the target
// date, then keeps only the target day's entry.
func (w weatherApi) Forecast(ctx context.Context, address string, date time.Time) (manager.Report, error) {
	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("q", address)
	params.Set("days", fmt.Sprintf("%d", forecastWindow(w.today(), date)))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	body, err := w.processRequest(ctx, w.forecastURL, params)
	if err != nil {
		return manager.Report{}, err
	}

	var data timedData
	if err := json.Unmarshal(body, &data); err != nil {
		return manager.Report{}, fmt.Errorf("%s returned invalid data: %w", apiName, err)
	}

	trimmed, err := trimToLastDay(data)
	if err != nil {
		return manager.Report{}, err
	}

	return manager.Report{Provider: apiName, Data: trimmed}, nil
}

// forecastWindow is the number of days the vendor must return so that the
// series includes the target date, today counted in. Both arguments are
// calendar dates at midnight UTC.
func forecastWindow(today, target time.Time) int {
	return int(target.Sub(today).Hours()/24) + 1
}

// trimToLastDay drops every forecast day except the last one, which is the
// requested target day. Pre: a multi-day forecastday series. Post: the same
// payload with a single-element series. An empty series means the vendor
// returned an unexpected shape.
func trimToLastDay(data timedData) (timedData, error) {
	days := data.Forecast.Forecastday
	if len(days) == 0 {
		return timedData{}, fmt.Errorf("%s returned no forecast days", apiName)
	}

	data.Forecast.Forecastday = []forecastDay{days[len(days)-1]}
	return data, nil
}

func (w weatherApi) today() time.Time {
	year, month, dayOfMonth := w.now().Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func (w weatherApi) processRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	request := w.client.R().SetContext(ctx)
	request.SetQueryParamsFromValues(params)

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
