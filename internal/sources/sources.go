// Package sources adapts the external API clients in pkg/ to the adapter
// contracts the discovery orchestrator consumes. Each adapter normalizes
// one provider's response shape; none of them hold state.
package sources

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/discover"
	"github.com/sells-group/prospect-cli/pkg/hunter"
	"github.com/sells-group/prospect-cli/pkg/places"
	"github.com/sells-group/prospect-cli/pkg/sitescrape"
	"github.com/sells-group/prospect-cli/pkg/yelp"
)

// New builds the source bundle from configuration. Adapters without
// credentials are left nil; the orchestrator treats them as unavailable.
func New(cfg *config.Config) discover.Sources {
	var s discover.Sources
	if cfg.Yelp.Key != "" {
		s.Review = NewReviewSource(yelp.NewClient(cfg.Yelp.Key, yelp.WithBaseURL(cfg.Yelp.BaseURL)))
	}
	if cfg.Places.Key != "" {
		s.Map = NewMapSource(places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL)))
	}
	if cfg.Hunter.Key != "" {
		s.ContactDB = NewContactDBSource(hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithRateLimit(cfg.Hunter.RPS),
		))
	}
	s.Scrape = NewScrapeSource(sitescrape.New(
		sitescrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
		sitescrape.WithPageDelay(time.Duration(cfg.Scrape.PageDelayMs)*time.Millisecond),
		sitescrape.WithMaxPages(cfg.Scrape.MaxPages),
	))
	return s
}

// --- Review site (Yelp) ---

type reviewSource struct {
	client yelp.Client
}

// NewReviewSource adapts a Yelp client to the review-site contract.
func NewReviewSource(client yelp.Client) discover.ReviewSource {
	return &reviewSource{client: client}
}

func (s *reviewSource) Lookup(ctx context.Context, name, city, state string) (*discover.ReviewSiteResult, error) {
	location := city
	if state != "" {
		location += ", " + state
	}

	biz, err := s.client.SearchBusiness(ctx, name, location)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return nil, nil
	}

	res := &discover.ReviewSiteResult{
		Phone:       biz.Phone,
		Website:     biz.Attributes.BusinessURL,
		Rating:      biz.Rating,
		ReviewCount: biz.ReviewCount,
		PriceRange:  biz.Price,
		URL:         biz.URL,
		Address: &discover.Address{
			Street: biz.Location.Address1,
			City:   biz.Location.City,
			State:  biz.Location.State,
			Zip:    biz.Location.ZipCode,
		},
	}

	// Owner signature extraction is best-effort; the business record is
	// worth returning even when the page fetch fails.
	if biz.URL != "" {
		if sig, sigErr := s.client.OwnerFromPage(ctx, biz.URL); sigErr == nil && sig != nil {
			res.OwnerName = sig.Name
			res.OwnerTitle = normalizeOwnerRole(sig.Role)
		}
	}
	return res, nil
}

func normalizeOwnerRole(role string) string {
	switch strings.ToLower(role) {
	case "business owner", "owner":
		return "Owner"
	default:
		return role
	}
}

// --- Map service (Google Places) ---

type mapSource struct {
	client places.Client
}

// NewMapSource adapts a Places client to the map-service contract.
func NewMapSource(client places.Client) discover.MapSource {
	return &mapSource{client: client}
}

// responseSignatureRe matches a trailing "- Name" signature on an owner
// response to a review.
var responseSignatureRe = regexp.MustCompile(`[-–—]\s*([A-Z][\w'.-]+(?:\s+[A-Z][\w'.-]+)+)\s*$`)

func (s *mapSource) Lookup(ctx context.Context, name, city, state string) (*discover.MapResult, error) {
	query := name + " " + city
	if state != "" {
		query += " " + state
	}

	placeID, err := s.client.FindPlace(ctx, query)
	if err != nil {
		return nil, err
	}
	if placeID == "" {
		return nil, nil
	}

	details, err := s.client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, nil
	}

	res := &discover.MapResult{
		Phone:       details.Phone,
		Website:     details.Website,
		Rating:      details.Rating,
		ReviewCount: details.ReviewCount,
		PriceLevel:  strings.Repeat("$", details.PriceLevel),
		MapsURL:     details.URL,
	}

	seen := make(map[string]bool)
	for _, review := range details.Reviews {
		m := responseSignatureRe.FindStringSubmatch(strings.TrimSpace(review.OwnerResponse))
		if m == nil {
			continue
		}
		if key := strings.ToLower(m[1]); !seen[key] {
			seen[key] = true
			res.ReviewResponderNames = append(res.ReviewResponderNames, m[1])
		}
	}
	return res, nil
}

// --- Contact database (hunter.io) ---

type contactDBSource struct {
	client hunter.Client
}

// NewContactDBSource adapts a hunter client to the contact-database
// contract family.
func NewContactDBSource(client hunter.Client) discover.ContactDBSource {
	return &contactDBSource{client: client}
}

func (s *contactDBSource) SearchByTitle(ctx context.Context, domain string, titles []string, limit int) (*discover.ContactDBResult, error) {
	resp, err := s.client.DomainSearch(ctx, hunter.DomainSearchRequest{Domain: domain, Limit: limit})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	result := &discover.ContactDBResult{}
	for _, e := range resp.Emails {
		if e.Type != "personal" {
			continue
		}
		if len(titles) > 0 && !matchesTitle(e.Position, titles) {
			continue
		}
		result.Contacts = append(result.Contacts, contactRecord(e))
	}
	return result, nil
}

func (s *contactDBSource) SearchBySeniority(ctx context.Context, domain string, seniorities, departments []string, limit int) (*discover.ContactDBResult, error) {
	resp, err := s.client.DomainSearch(ctx, hunter.DomainSearchRequest{
		Domain:      domain,
		Limit:       limit,
		Seniorities: seniorities,
		Departments: departments,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	result := &discover.ContactDBResult{}
	for _, e := range resp.Emails {
		if e.Type != "personal" {
			continue
		}
		result.Contacts = append(result.Contacts, contactRecord(e))
	}
	return result, nil
}

func (s *contactDBSource) FindEmail(ctx context.Context, firstName, lastName, domain string) (*discover.FinderResult, error) {
	resp, err := s.client.EmailFinder(ctx, firstName, lastName, domain)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return &discover.FinderResult{Email: resp.Email, Score: resp.Score}, nil
}

func (s *contactDBSource) EmailPattern(ctx context.Context, domain string) (string, error) {
	resp, err := s.client.DomainSearch(ctx, hunter.DomainSearchRequest{Domain: domain, Limit: 1})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Pattern, nil
}

func (s *contactDBSource) VerifyEmail(ctx context.Context, address string) (bool, error) {
	resp, err := s.client.EmailVerifier(ctx, address)
	if err != nil {
		return false, err
	}
	return resp.Deliverable(), nil
}

func contactRecord(e hunter.DomainEmail) discover.ContactRecord {
	return discover.ContactRecord{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Title:      e.Position,
		Email:      e.Value,
		Confidence: e.Confidence,
	}
}

func matchesTitle(position string, titles []string) bool {
	pos := strings.ToLower(position)
	for _, t := range titles {
		if strings.Contains(pos, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// --- Domain scrape ---

type scrapeSource struct {
	scraper sitescrape.Scraper
}

// NewScrapeSource adapts a site scraper to the domain-scrape contract.
func NewScrapeSource(scraper sitescrape.Scraper) discover.ScrapeSource {
	return &scrapeSource{scraper: scraper}
}

func (s *scrapeSource) Lookup(ctx context.Context, domain string) (*discover.ScrapeResult, error) {
	res, err := s.scraper.Scrape(ctx, domain)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	out := &discover.ScrapeResult{Emails: res.Emails}
	for _, p := range res.People {
		out.Owners = append(out.Owners, discover.ScrapedOwner{Name: p.Name, Title: p.Role})
	}
	return out, nil
}
