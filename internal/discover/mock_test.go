package discover

import (
	"context"
	"sync"
)

// mockReview implements ReviewSource for testing.
type mockReview struct {
	res   *ReviewSiteResult
	err   error
	calls int
}

func (m *mockReview) Lookup(_ context.Context, _, _, _ string) (*ReviewSiteResult, error) {
	m.calls++
	return m.res, m.err
}

// mockMap implements MapSource for testing.
type mockMap struct {
	res   *MapResult
	err   error
	calls int
}

func (m *mockMap) Lookup(_ context.Context, _, _, _ string) (*MapResult, error) {
	m.calls++
	return m.res, m.err
}

// mockScrape implements ScrapeSource for testing.
type mockScrape struct {
	mu      sync.Mutex
	res     *ScrapeResult
	err     error
	domains []string
}

func (m *mockScrape) Lookup(_ context.Context, domain string) (*ScrapeResult, error) {
	m.mu.Lock()
	m.domains = append(m.domains, domain)
	m.mu.Unlock()
	return m.res, m.err
}

func (m *mockScrape) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.domains)
}

// mockContactDB implements ContactDBSource for testing. Finder results are
// keyed by "first last".
type mockContactDB struct {
	mu sync.Mutex

	titleRes     *ContactDBResult
	titleErr     error
	titleDomains []string

	seniorityRes   *ContactDBResult
	seniorityErr   error
	seniorityCalls int

	finderRes   map[string]*FinderResult
	finderErr   error
	finderCalls int

	pattern      string
	patternErr   error
	patternCalls int

	deliverable map[string]bool
	verifyErr   error
	verified    []string
}

func (m *mockContactDB) SearchByTitle(_ context.Context, domain string, _ []string, _ int) (*ContactDBResult, error) {
	m.mu.Lock()
	m.titleDomains = append(m.titleDomains, domain)
	m.mu.Unlock()
	return m.titleRes, m.titleErr
}

func (m *mockContactDB) SearchBySeniority(_ context.Context, _ string, _, _ []string, _ int) (*ContactDBResult, error) {
	m.seniorityCalls++
	return m.seniorityRes, m.seniorityErr
}

func (m *mockContactDB) FindEmail(_ context.Context, first, last, _ string) (*FinderResult, error) {
	m.finderCalls++
	if m.finderErr != nil {
		return nil, m.finderErr
	}
	return m.finderRes[first+" "+last], nil
}

func (m *mockContactDB) EmailPattern(_ context.Context, _ string) (string, error) {
	m.patternCalls++
	return m.pattern, m.patternErr
}

func (m *mockContactDB) VerifyEmail(_ context.Context, address string) (bool, error) {
	m.verified = append(m.verified, address)
	if m.verifyErr != nil {
		return false, m.verifyErr
	}
	return m.deliverable[address], nil
}

func (m *mockContactDB) titleCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.titleDomains)
}
