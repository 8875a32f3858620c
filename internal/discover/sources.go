package discover

import "context"

// Address is a structured street address as reported by a source.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ReviewSiteResult is the normalized record from a review-site lookup.
type ReviewSiteResult struct {
	OwnerName   string
	OwnerTitle  string
	Phone       string
	Website     string
	Rating      *float64
	ReviewCount *int
	PriceRange  string
	Address     *Address
	URL         string
}

// MapResult is the normalized record from a map/places lookup. Review
// responder names are people who replied to reviews on behalf of the
// business, a weaker ownership signal than an explicit owner field.
type MapResult struct {
	OwnerName            string
	ReviewResponderNames []string
	Phone                string
	Website              string
	Rating               *float64
	ReviewCount          *int
	PriceLevel           string
	MapsURL              string
}

// ContactRecord is a single person from a contact-database search.
type ContactRecord struct {
	FirstName  string
	LastName   string
	Title      string
	Email      string
	Confidence int
}

// ContactDBResult is the normalized record from a contact-database search.
type ContactDBResult struct {
	Contacts []ContactRecord
}

// ScrapedOwner is a person found by scraping the business's own website.
type ScrapedOwner struct {
	Name  string
	Title string
}

// ScrapeResult is the normalized record from a domain scrape.
type ScrapeResult struct {
	Owners []ScrapedOwner
	Emails []string
}

// FinderResult is a single-person email lookup hit.
type FinderResult struct {
	Email string
	Score int
}

// ReviewSource looks a business up on a review site.
type ReviewSource interface {
	Lookup(ctx context.Context, name, city, state string) (*ReviewSiteResult, error)
}

// MapSource looks a business up on a map/places service.
type MapSource interface {
	Lookup(ctx context.Context, name, city, state string) (*MapResult, error)
}

// ScrapeSource scrapes the business's own website for people and emails.
type ScrapeSource interface {
	Lookup(ctx context.Context, domain string) (*ScrapeResult, error)
}

// ContactDBSource is the contact-database adapter family: title-filtered
// and seniority-filtered domain searches, per-person email finding, the
// domain's detected email pattern, and single-address verification.
type ContactDBSource interface {
	SearchByTitle(ctx context.Context, domain string, titles []string, limit int) (*ContactDBResult, error)
	SearchBySeniority(ctx context.Context, domain string, seniorities, departments []string, limit int) (*ContactDBResult, error)
	FindEmail(ctx context.Context, firstName, lastName, domain string) (*FinderResult, error)
	EmailPattern(ctx context.Context, domain string) (string, error)
	VerifyEmail(ctx context.Context, address string) (bool, error)
}

// Sources bundles the adapters the orchestrator draws from. A nil adapter
// is treated as unavailable: its stages yield nothing, identical to a
// not-found result.
type Sources struct {
	Review    ReviewSource
	Map       MapSource
	ContactDB ContactDBSource
	Scrape    ScrapeSource
}
