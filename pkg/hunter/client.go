// Package hunter provides a client for the hunter.io v2 API: domain
// search, email finder, and email verifier.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// Client defines the hunter.io operations used by the discovery pipeline.
type Client interface {
	// DomainSearch lists people and the detected email pattern for a
	// domain. Seniorities and departments are optional filters.
	DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error)
	// EmailFinder guesses one person's email from name + domain. Returns
	// nil when hunter has no candidate.
	EmailFinder(ctx context.Context, firstName, lastName, domain string) (*EmailFinderResult, error)
	// EmailVerifier checks a single address's deliverability.
	EmailVerifier(ctx context.Context, email string) (*VerifierResult, error)
}

// DomainSearchRequest parameterizes a domain search.
type DomainSearchRequest struct {
	Domain      string
	Limit       int
	Seniorities []string
	Departments []string
}

// DomainSearchResponse is the data block of a domain-search response.
type DomainSearchResponse struct {
	Domain       string        `json:"domain"`
	Organization string        `json:"organization"`
	Pattern      string        `json:"pattern"`
	Emails       []DomainEmail `json:"emails"`
}

// DomainEmail is a single person row from a domain search.
type DomainEmail struct {
	Value      string `json:"value"`
	Type       string `json:"type"` // "personal" or "generic"
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Seniority  string `json:"seniority"`
	Department string `json:"department"`
}

// EmailFinderResult is the data block of an email-finder response.
type EmailFinderResult struct {
	Email     string `json:"email"`
	Score     int    `json:"score"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifierResult is the data block of an email-verifier response.
// Result is "deliverable", "undeliverable", or "risky".
type VerifierResult struct {
	Result string `json:"result"`
	Score  int    `json:"score"`
	Email  string `json:"email"`
}

// Deliverable reports whether the verifier confirmed the address.
func (v *VerifierResult) Deliverable() bool {
	return v != nil && v.Result == "deliverable"
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Code    int    `json:"code"`
		Details string `json:"details"`
	} `json:"errors"`
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

// WithRateLimit overrides the default request rate (2 req/s).
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a hunter.io client. Calls are throttled to 2 req/s by
// default; hunter enforces per-second limits on all plans.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error) {
	q := url.Values{}
	q.Set("domain", req.Domain)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if len(req.Seniorities) > 0 {
		q.Set("seniority", strings.Join(req.Seniorities, ","))
	}
	if len(req.Departments) > 0 {
		q.Set("department", strings.Join(req.Departments, ","))
	}

	var result DomainSearchResponse
	found, err := c.getData(ctx, "/domain-search", q, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &result, nil
}

func (c *httpClient) EmailFinder(ctx context.Context, firstName, lastName, domain string) (*EmailFinderResult, error) {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("first_name", firstName)
	q.Set("last_name", lastName)

	var result EmailFinderResult
	found, err := c.getData(ctx, "/email-finder", q, &result)
	if err != nil {
		return nil, err
	}
	if !found || result.Email == "" {
		return nil, nil
	}
	return &result, nil
}

func (c *httpClient) EmailVerifier(ctx context.Context, email string) (*VerifierResult, error) {
	q := url.Values{}
	q.Set("email", email)

	var result VerifierResult
	found, err := c.getData(ctx, "/email-verifier", q, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &result, nil
}

// getData performs a rate-limited GET and decodes the hunter envelope.
// A 404 or an empty data block reports found=false without an error.
func (c *httpClient) getData(ctx context.Context, path string, q url.Values, out any) (bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, eris.Wrap(err, "hunter: rate limit wait")
		}
	}

	q.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, eris.Wrap(err, "hunter: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, eris.Wrapf(err, "hunter: %s request", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, eris.Wrap(err, "hunter: read response")
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, eris.Errorf("hunter: %s unexpected status %d: %s", path, resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false, eris.Wrap(err, "hunter: unmarshal envelope")
	}
	if len(env.Errors) > 0 {
		return false, eris.Errorf("hunter: %s api error: %s", path, env.Errors[0].Details)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, eris.Wrap(err, "hunter: unmarshal data")
	}
	return true, nil
}
