// Package model defines the core data types shared across the discovery
// pipeline, the store, and the exporters.
package model

// OwnerSource identifies which adapter first produced an owner.
type OwnerSource string

const (
	SourceReviewSite   OwnerSource = "review-site"
	SourceMapService   OwnerSource = "map-service"
	SourceDomainScrape OwnerSource = "domain-scrape"
	SourceContactDB    OwnerSource = "contact-database"
	SourceDomainSearch OwnerSource = "domain-search"
)

// EmailSource identifies which cascade stage produced an owner's email.
type EmailSource string

const (
	EmailSourceContactDB     EmailSource = "contact-database"
	EmailSourceDomainPattern EmailSource = "domain-pattern"
	EmailSourceDomainSearch  EmailSource = "domain-search"
	EmailSourceFinder        EmailSource = "finder"
)

// Business identifies the business to discover contacts for.
// Name and City are required; State and Website are optional hints.
type Business struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Website string `json:"website,omitempty"`
}

// Owner is a discovered person believed to be a decision-maker at the
// business. FirstName and LastName are always set; Email may be empty
// when no cascade stage resolved one.
type Owner struct {
	Name            string      `json:"name"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Title           string      `json:"title,omitempty"`
	Email           string      `json:"email,omitempty"`
	EmailConfidence int         `json:"email_confidence,omitempty"`
	EmailSource     EmailSource `json:"email_source,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Source          OwnerSource `json:"source"`
}

// BusinessInfo holds business facts filled opportunistically from any
// source. The first non-empty value wins; later sources never overwrite.
type BusinessInfo struct {
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Street      string   `json:"street,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Zip         string   `json:"zip,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	PriceLevel  string   `json:"price_level,omitempty"`
	ReviewURL   string   `json:"review_url,omitempty"`
	MapsURL     string   `json:"maps_url,omitempty"`
}

// EmailSuggestion is a guessed role-based mailbox not tied to a verified
// person. Kept apart from Owners so callers cannot mistake a guess for a
// named contact.
type EmailSuggestion struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Confidence int    `json:"confidence"`
}

// DiscoveryMeta records which sources fired and what raw names/emails were
// encountered. Diagnostics only; no business logic reads it.
type DiscoveryMeta struct {
	ReviewSiteFound   bool     `json:"review_site_found"`
	MapServiceFound   bool     `json:"map_service_found"`
	ContactDBFound    bool     `json:"contact_db_found"`
	DomainScrapeFound bool     `json:"domain_scrape_found"`
	NamesFound        []string `json:"names_found,omitempty"`
	EmailsFound       []string `json:"emails_found,omitempty"`
}

// DiscoveryResult is the aggregate output of one discovery invocation.
type DiscoveryResult struct {
	BusinessName      string            `json:"business_name"`
	Domain            string            `json:"domain,omitempty"`
	Owners            []Owner           `json:"owners"`
	BusinessInfo      BusinessInfo      `json:"business_info"`
	HospitalityEmails []EmailSuggestion `json:"hospitality_emails"`
	Meta              DiscoveryMeta     `json:"meta"`
}
