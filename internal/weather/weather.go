package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrCityNotFound marks an unknown city; the handler speaks an apology
// instead of propagating it.
var ErrCityNotFound = errors.New("city not found")

// Client is a single-call wrapper around the current-weather endpoint.
// No retry, no cache.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type Report struct {
	City        string
	Description string
	TempC       float64
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

func (c *Client) Lookup(ctx context.Context, city string) (Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Report{}, ErrCityNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather lookup: status %d", resp.StatusCode)
	}

	var body struct {
		Name    string `json:"name"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("weather decode: %w", err)
	}
	if len(body.Weather) == 0 {
		return Report{}, fmt.Errorf("weather lookup: empty conditions")
	}

	name := body.Name
	if name == "" {
		name = city
	}
	return Report{
		City:        name,
		Description: body.Weather[0].Description,
		TempC:       body.Main.Temp,
	}, nil
}
