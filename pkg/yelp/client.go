// Package yelp provides a client for the Yelp Fusion business API plus a
// best-effort owner extraction from the public business page.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.yelp.com/v3"

// Client defines the Yelp operations used by the discovery pipeline.
type Client interface {
	// SearchBusiness returns the best-matching business for a name and
	// location, or nil when Yelp has no match.
	SearchBusiness(ctx context.Context, name, location string) (*Business, error)
	// OwnerFromPage fetches a public business page and extracts the name
	// signed on "response from the owner" review replies, if any.
	OwnerFromPage(ctx context.Context, pageURL string) (*OwnerSignature, error)
}

// Business is a Yelp Fusion business record.
type Business struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	URL         string   `json:"url"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Price       string   `json:"price,omitempty"`
	Location    Location `json:"location"`
	Attributes  struct {
		BusinessURL string `json:"business_url,omitempty"`
	} `json:"attributes"`
}

// Location is a Yelp structured address.
type Location struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// OwnerSignature is an owner name and role scraped from review replies.
type OwnerSignature struct {
	Name string
	Role string
}

type searchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
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

// NewClient creates a Yelp Fusion client.
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

func (c *httpClient) SearchBusiness(ctx context.Context, name, location string) (*Business, error) {
	q := url.Values{}
	q.Set("term", name)
	q.Set("location", location)
	q.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/businesses/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: search request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: read response")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "yelp: unmarshal response")
	}
	if len(result.Businesses) == 0 {
		return nil, nil
	}
	return &result.Businesses[0], nil
}

// ownerSignatureRe matches the signature block Yelp renders on review
// replies, e.g. "Maria L., Business Owner" or "James Smith, Manager".
var ownerSignatureRe = regexp.MustCompile(`(?i)([A-Z][\w'.-]+(?:\s+[A-Z][\w'.-]+)+)\s*,\s*(Business Owner|Owner|General Manager|Manager)`)

func (c *httpClient) OwnerFromPage(ctx context.Context, pageURL string) (*OwnerSignature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create page request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; prospect-cli)")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	// Signature blocks appear early in the page; 512KB is plenty.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil, eris.Wrap(err, "yelp: read page")
	}

	m := ownerSignatureRe.FindSubmatch(body)
	if m == nil {
		return nil, nil
	}
	return &OwnerSignature{Name: string(m[1]), Role: string(m[2])}, nil
}
