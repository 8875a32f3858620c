// Package sitescrape fetches a business's own website pages and extracts
// people and email addresses from the raw HTML.
package sitescrape

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// pagePaths are probed in order after the homepage; contact-ish pages are
// where owner names and mailboxes live.
var pagePaths = []string{"", "/contact", "/about", "/team"}

// Scraper fetches and scans a domain's public pages.
type Scraper interface {
	Scrape(ctx context.Context, domain string) (*Result, error)
}

// Person is a name with the role text found next to it.
type Person struct {
	Name string
	Role string
}

// Result is everything extracted from a domain's pages.
type Result struct {
	People []Person
	Emails []string
}

// Option configures the scraper.
type Option func(*scraper)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *scraper) {
		s.http = hc
	}
}

// WithTimeout sets the per-page network timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *scraper) {
		if d > 0 {
			s.http.Timeout = d
		}
	}
}

// WithPageDelay sets the pause between successive page fetches.
func WithPageDelay(d time.Duration) Option {
	return func(s *scraper) {
		if d > 0 {
			s.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithMaxPages caps how many paths are probed per domain.
func WithMaxPages(n int) Option {
	return func(s *scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

type scraper struct {
	http     *http.Client
	limiter  *rate.Limiter
	maxPages int
}

// New creates a Scraper with a deliberately short network timeout; a slow
// business website must not stall the pipeline.
func New(opts ...Option) Scraper {
	s := &scraper{
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		maxPages: len(pagePaths),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// personRe catches "role: name" and "name, role" constructions around
	// decision-maker words, e.g. "Owner: Maria Lopez" or
	// "Maria Lopez, Head Chef".
	personRoleFirst = regexp.MustCompile(`(?i)(owner|proprietor|general manager|manager|chef|founder)\s*[:\-]\s*([A-Z][\w'.-]+(?:\s+[A-Z][\w'.-]+)+)`)
	personRoleLast  = regexp.MustCompile(`([A-Z][\w'.-]+(?:\s+[A-Z][\w'.-]+)+)\s*,\s*(?i:(owner|proprietor|general manager|head chef|chef|founder))`)
)

func (s *scraper) Scrape(ctx context.Context, domain string) (*Result, error) {
	result := &Result{}
	seenEmails := make(map[string]bool)
	seenPeople := make(map[string]bool)
	fetched := 0

	for _, path := range pagePaths {
		if fetched >= s.maxPages {
			break
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return result, eris.Wrap(err, "sitescrape: wait")
			}
		}

		body, ok := s.fetch(ctx, "https://"+domain+path)
		if !ok {
			continue
		}
		fetched++

		for _, m := range emailRe.FindAllString(body, -1) {
			addr := strings.ToLower(m)
			// Asset filenames match the email regex often enough to filter.
			if strings.HasSuffix(addr, ".png") || strings.HasSuffix(addr, ".jpg") || strings.HasSuffix(addr, ".svg") {
				continue
			}
			if !seenEmails[addr] {
				seenEmails[addr] = true
				result.Emails = append(result.Emails, addr)
			}
		}

		for _, m := range personRoleFirst.FindAllStringSubmatch(body, -1) {
			addPerson(result, seenPeople, m[2], m[1])
		}
		for _, m := range personRoleLast.FindAllStringSubmatch(body, -1) {
			addPerson(result, seenPeople, m[1], m[2])
		}
	}

	if fetched == 0 {
		return nil, eris.Errorf("sitescrape: no reachable pages for %s", domain)
	}
	return result, nil
}

func addPerson(result *Result, seen map[string]bool, name, role string) {
	key := strings.ToLower(name)
	if seen[key] {
		return
	}
	seen[key] = true
	result.People = append(result.People, Person{Name: name, Role: normalizeRole(role)})
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "owner", "proprietor":
		return "Owner"
	case "general manager":
		return "General Manager"
	case "manager":
		return "Manager"
	case "chef", "head chef":
		return "Chef"
	case "founder":
		return "Founder"
	default:
		return cases.Title(language.English).String(role)
	}
}

// fetch returns the page body, or ok=false for any network or HTTP
// failure. Individual page failures are not worth surfacing.
func (s *scraper) fetch(ctx context.Context, pageURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; prospect-cli)")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false
	}
	return string(body), true
}
