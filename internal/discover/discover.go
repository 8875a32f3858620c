// Package discover resolves a business's decision-makers and best-effort
// contact emails from multiple sources: review sites, map services,
// contact databases, and the business's own website. Adapter failures are
// absent evidence, never errors; the pipeline always returns a structured,
// confidence-scored result for valid input.
package discover

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Input validation errors, the only failure modes Discover surfaces.
var (
	ErrMissingBusinessName = eris.New("discover: business name is required")
	ErrMissingCity         = eris.New("discover: city is required")
)

// stage names the domain-gated stages for the per-invocation ran ledger.
// A stage is "ran" only when it actually executed with a domain; being
// skipped for lack of one leaves it eligible for the back-fill round.
type stage string

const (
	stageContactDB    stage = "contact-database"
	stageDomainScrape stage = "domain-scrape"
)

// maxSuggestions caps the hospitality email suggestion list.
const maxSuggestions = 5

var (
	// defaultTitleFilters drive the title-filtered contact-database search.
	defaultTitleFilters = []string{"owner", "general manager", "manager", "chef", "director"}

	// fallbackSeniorities and fallbackDepartments drive the zero-owner
	// domain-wide search.
	fallbackSeniorities = []string{"owner", "founder", "executive", "director"}
	fallbackDepartments = []string{"management", "executive"}

	// verifyCandidates are probed one at a time by the zero-owner
	// pattern-verification fallback, most specific role first.
	verifyCandidates = []struct {
		local string
		role  string
	}{
		{"owner", "Owner"},
		{"gm", "General Manager"},
		{"chef", "Chef"},
		{"info", "General Inquiries"},
		{"contact", "Contact"},
	}
)

// Orchestrator runs the staged discovery pipeline. It is stateless across
// invocations; concurrent Discover calls for different businesses are
// independent.
type Orchestrator struct {
	sources      Sources
	patterns     *PatternTable
	titleFilters []string
	searchLimit  int
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithPatterns overrides the built-in role pattern table.
func WithPatterns(t *PatternTable) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.patterns = t
		}
	}
}

// WithTitleFilters overrides the titles used for contact-database searches.
func WithTitleFilters(titles ...string) Option {
	return func(o *Orchestrator) {
		if len(titles) > 0 {
			o.titleFilters = titles
		}
	}
}

// WithSearchLimit overrides the contact-database page size.
func WithSearchLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.searchLimit = n
		}
	}
}

// New creates an orchestrator over the given sources.
func New(sources Sources, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sources:      sources,
		patterns:     DefaultPatterns(),
		titleFilters: defaultTitleFilters,
		searchLimit:  10,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunOption configures a single Discover invocation.
type RunOption func(*runOpts)

type runOpts struct {
	fallbackPatterns bool
}

// WithFallbackPatterns toggles the always-on suggestion enrichment stage.
// Enabled by default.
func WithFallbackPatterns(enabled bool) RunOption {
	return func(r *runOpts) {
		r.fallbackPatterns = enabled
	}
}

// run carries the mutable state of one Discover invocation. Only the
// orchestrator goroutine mutates it; fan-out tasks hand back immutable
// adapter records.
type run struct {
	o    *Orchestrator
	biz  model.Business
	log  *zap.Logger
	opts runOpts

	domain      string
	owners      *ownerSet
	info        model.BusinessInfo
	suggestions []model.EmailSuggestion
	meta        model.DiscoveryMeta
	ran         map[stage]bool

	// Domain email template, fetched at most once per invocation.
	pattern        string
	patternFetched bool
}

// Discover resolves owners and contact emails for a business. It returns
// an error only for missing required input; adapter failures degrade to a
// partial or empty result.
func (o *Orchestrator) Discover(ctx context.Context, biz model.Business, opts ...RunOption) (*model.DiscoveryResult, error) {
	if biz.Name == "" {
		return nil, ErrMissingBusinessName
	}
	if biz.City == "" {
		return nil, ErrMissingCity
	}

	ro := runOpts{fallbackPatterns: true}
	for _, opt := range opts {
		opt(&ro)
	}

	r := &run{
		o:      o,
		biz:    biz,
		log:    zap.L().With(zap.String("business", biz.Name), zap.String("city", biz.City)),
		opts:   ro,
		owners: newOwnerSet(),
		ran:    make(map[stage]bool),
	}

	// Stage 1: domain seeding from a caller-supplied website.
	if biz.Website != "" {
		r.domain = RegistrableDomain(biz.Website)
	}

	r.log.Info("discover: starting",
		zap.String("domain", r.domain),
		zap.Bool("fallback_patterns", ro.fallbackPatterns),
	)

	// Stages 2-3: parallel round 1 and absorption.
	r.roundOne(ctx)

	// Stage 4: domain back-fill round.
	r.backfill(ctx)

	// Stage 5: per-owner email cascade, sequential.
	r.cascade(ctx)

	// Stages 6-7: zero-owner fallbacks.
	r.domainFallback(ctx)
	r.verifyFallback(ctx)

	// Stage 8: suggestion enrichment.
	r.enrichSuggestions()

	// Stage 9: assembly.
	result := r.assemble()

	r.log.Info("discover: complete",
		zap.String("domain", result.Domain),
		zap.Int("owners", len(result.Owners)),
		zap.Int("suggestions", len(result.HospitalityEmails)),
	)
	return result, nil
}

// roundOne fans out the four independent lookups, waits for all of them to
// settle, and folds the results in. Each task swallows its own failure so
// one adapter can never fail its siblings.
func (r *run) roundOne(ctx context.Context) {
	var (
		reviewRes *ReviewSiteResult
		mapRes    *MapResult
		cdbRes    *ContactDBResult
		scrapeRes *ScrapeResult
	)

	startDomain := r.domain

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reviewRes = r.lookupReview(gCtx)
		return nil
	})
	g.Go(func() error {
		mapRes = r.lookupMap(gCtx)
		return nil
	})
	// The ran ledger is written here, not inside the tasks, so the fan-out
	// goroutines never touch run state.
	if startDomain != "" && r.o.sources.ContactDB != nil {
		r.ran[stageContactDB] = true
		g.Go(func() error {
			cdbRes = r.lookupContactDB(gCtx, startDomain)
			return nil
		})
	}
	if startDomain != "" && r.o.sources.Scrape != nil {
		r.ran[stageDomainScrape] = true
		g.Go(func() error {
			scrapeRes = r.lookupScrape(gCtx, startDomain)
			return nil
		})
	}

	_ = g.Wait()

	r.absorbRound(reviewRes, mapRes, cdbRes, scrapeRes)

	// Back-fill the domain from whatever round 1 revealed.
	if r.domain == "" && r.info.Website != "" {
		r.domain = RegistrableDomain(r.info.Website)
		if r.domain != "" {
			r.log.Info("discover: domain resolved from round 1", zap.String("domain", r.domain))
		}
	}
}

// backfill re-runs the domain-gated stages once a domain has been
// discovered, but only for stages that never actually executed.
func (r *run) backfill(ctx context.Context) {
	if r.domain == "" {
		return
	}
	needCDB := !r.ran[stageContactDB] && r.o.sources.ContactDB != nil
	needScrape := !r.ran[stageDomainScrape] && r.o.sources.Scrape != nil
	if !needCDB && !needScrape {
		return
	}

	var (
		cdbRes    *ContactDBResult
		scrapeRes *ScrapeResult
	)

	g, gCtx := errgroup.WithContext(ctx)
	if needCDB {
		r.ran[stageContactDB] = true
		g.Go(func() error {
			cdbRes = r.lookupContactDB(gCtx, r.domain)
			return nil
		})
	}
	if needScrape {
		r.ran[stageDomainScrape] = true
		g.Go(func() error {
			scrapeRes = r.lookupScrape(gCtx, r.domain)
			return nil
		})
	}
	_ = g.Wait()

	r.absorbRound(nil, nil, cdbRes, scrapeRes)
}

func (r *run) lookupReview(ctx context.Context) *ReviewSiteResult {
	if r.o.sources.Review == nil {
		return nil
	}
	res, err := r.o.sources.Review.Lookup(ctx, r.biz.Name, r.biz.City, r.biz.State)
	if err != nil {
		r.log.Warn("discover: review-site lookup failed", zap.Error(err))
		return nil
	}
	return res
}

func (r *run) lookupMap(ctx context.Context) *MapResult {
	if r.o.sources.Map == nil {
		return nil
	}
	res, err := r.o.sources.Map.Lookup(ctx, r.biz.Name, r.biz.City, r.biz.State)
	if err != nil {
		r.log.Warn("discover: map lookup failed", zap.Error(err))
		return nil
	}
	return res
}

func (r *run) lookupContactDB(ctx context.Context, domain string) *ContactDBResult {
	if r.o.sources.ContactDB == nil {
		return nil
	}
	res, err := r.o.sources.ContactDB.SearchByTitle(ctx, domain, r.o.titleFilters, r.o.searchLimit)
	if err != nil {
		r.log.Warn("discover: contact-database search failed", zap.Error(err))
		return nil
	}
	return res
}

func (r *run) lookupScrape(ctx context.Context, domain string) *ScrapeResult {
	if r.o.sources.Scrape == nil {
		return nil
	}
	res, err := r.o.sources.Scrape.Lookup(ctx, domain)
	if err != nil {
		r.log.Warn("discover: domain scrape failed", zap.Error(err))
		return nil
	}
	return res
}

// domainFallback is the zero-owner contact-database fallback: a
// domain-wide search filtered to senior roles. Named hits become owners
// with the adapter's email and confidence taken as-is.
func (r *run) domainFallback(ctx context.Context) {
	if r.owners.len() > 0 || r.domain == "" || r.o.sources.ContactDB == nil {
		return
	}

	res, err := r.o.sources.ContactDB.SearchBySeniority(ctx, r.domain, fallbackSeniorities, fallbackDepartments, r.o.searchLimit)
	if err != nil {
		r.log.Warn("discover: domain-wide contact search failed", zap.Error(err))
		return
	}
	if res == nil {
		return
	}

	for _, rec := range res.Contacts {
		if rec.FirstName == "" || rec.LastName == "" {
			continue // generic mailbox rows carry no identity
		}
		owner := model.Owner{
			Name:      rec.FirstName + " " + rec.LastName,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Title:     rec.Title,
			Source:    model.SourceDomainSearch,
		}
		if owner.Title == "" {
			owner.Title = "Contact"
		}
		if rec.Email != "" {
			owner.Email = rec.Email
			owner.EmailConfidence = rec.Confidence
			owner.EmailSource = model.EmailSourceDomainSearch
			r.meta.EmailsFound = append(r.meta.EmailsFound, rec.Email)
		}
		r.meta.NamesFound = append(r.meta.NamesFound, owner.Name)
		if r.owners.put(owner) {
			r.log.Info("discover: owner from domain-wide search",
				zap.String("name", owner.Name),
				zap.String("title", owner.Title),
			)
		}
	}
}

// verifyFallback probes generic role mailboxes one at a time, stopping at
// the first deliverable address. Sequential on purpose: verification APIs
// rate-limit aggressively.
func (r *run) verifyFallback(ctx context.Context) {
	if r.owners.len() > 0 || r.domain == "" || r.o.sources.ContactDB == nil {
		return
	}

	for _, cand := range verifyCandidates {
		addr := cand.local + "@" + r.domain
		deliverable, err := r.o.sources.ContactDB.VerifyEmail(ctx, addr)
		if err != nil {
			r.log.Debug("discover: verify failed", zap.String("address", addr), zap.Error(err))
			continue
		}
		if !deliverable {
			continue
		}
		r.suggestions = append(r.suggestions, model.EmailSuggestion{
			Email:      addr,
			Role:       cand.role,
			Confidence: 90,
		})
		r.meta.EmailsFound = append(r.meta.EmailsFound, addr)
		r.log.Info("discover: verified generic mailbox", zap.String("address", addr))
		return
	}
}

// enrichSuggestions appends the static role pattern table, dedups against
// existing suggestions, and keeps the top entries by confidence.
func (r *run) enrichSuggestions() {
	if !r.opts.fallbackPatterns || r.domain == "" {
		return
	}

	seen := make(map[string]bool, len(r.suggestions))
	for _, s := range r.suggestions {
		seen[s.Email] = true
	}
	r.suggestions = append(r.suggestions, r.o.patterns.Suggestions(r.domain, seen)...)

	sortSuggestions(r.suggestions)
	if len(r.suggestions) > maxSuggestions {
		r.suggestions = r.suggestions[:maxSuggestions]
	}
}
