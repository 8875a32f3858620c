// Package places provides a client for the Google Places text search and
// details APIs.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client defines the Places operations used by the discovery pipeline.
type Client interface {
	// FindPlace resolves a business name + location to a place ID, or ""
	// when nothing matches.
	FindPlace(ctx context.Context, query string) (string, error)
	// Details fetches contact and rating fields for a place.
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// PlaceDetails holds the detail fields requested by the pipeline.
type PlaceDetails struct {
	Name        string   `json:"name"`
	Phone       string   `json:"formatted_phone_number"`
	Website     string   `json:"website"`
	URL         string   `json:"url"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"user_ratings_total,omitempty"`
	PriceLevel  int      `json:"price_level"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Review carries the subset of review fields the pipeline inspects.
// AuthorName is the reviewer; OwnerResponse, when present, is the reply
// posted by the business and may be signed with a person's name.
type Review struct {
	AuthorName    string `json:"author_name"`
	OwnerResponse string `json:"owner_response,omitempty"`
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type detailsResponse struct {
	Status string       `json:"status"`
	Result PlaceDetails `json:"result"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Places client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FindPlace(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id")
	q.Set("key", c.apiKey)

	var result findPlaceResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/findplacefromtext/json?%s", c.baseURL, q.Encode()), &result); err != nil {
		return "", err
	}
	if result.Status == "ZERO_RESULTS" || len(result.Candidates) == 0 {
		return "", nil
	}
	if result.Status != "OK" {
		return "", eris.Errorf("places: find place status %s", result.Status)
	}
	return result.Candidates[0].PlaceID, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,formatted_phone_number,website,url,rating,user_ratings_total,price_level,reviews")
	q.Set("key", c.apiKey)

	var result detailsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/details/json?%s", c.baseURL, q.Encode()), &result); err != nil {
		return nil, err
	}
	if result.Status == "NOT_FOUND" || result.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if result.Status != "OK" {
		return nil, eris.Errorf("places: details status %s", result.Status)
	}
	return &result.Result, nil
}

func (c *httpClient) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "places: unmarshal response")
	}
	return nil
}
