package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrNoResults marks an empty headline set for the requested topic.
var ErrNoResults = errors.New("no headlines")

const maxHeadlines = 5

// Client is a single-call wrapper around the top-headlines endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	country string
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey, country: "ph"}
}

// Headlines fetches up to five titles. Empty topic means general headlines —
// that is the one policy applied everywhere, never a clarifying question.
func (c *Client) Headlines(ctx context.Context, topic string) ([]string, error) {
	q := url.Values{}
	q.Set("country", c.country)
	q.Set("pageSize", fmt.Sprint(maxHeadlines))
	if topic != "" {
		q.Set("category", topic)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news lookup: status %d", resp.StatusCode)
	}

	var body struct {
		Status   string `json:"status"`
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("news decode: %w", err)
	}
	if len(body.Articles) == 0 {
		return nil, ErrNoResults
	}

	titles := make([]string, 0, maxHeadlines)
	for _, a := range body.Articles {
		if a.Title == "" {
			continue
		}
		titles = append(titles, a.Title)
		if len(titles) == maxHeadlines {
			break
		}
	}
	if len(titles) == 0 {
		return nil, ErrNoResults
	}
	return titles, nil
}
