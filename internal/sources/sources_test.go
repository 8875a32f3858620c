package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/pkg/hunter"
	"github.com/sells-group/prospect-cli/pkg/places"
	"github.com/sells-group/prospect-cli/pkg/sitescrape"
	"github.com/sells-group/prospect-cli/pkg/yelp"
)

// --- mocks over the pkg client interfaces ---

type mockYelp struct {
	biz       *yelp.Business
	bizErr    error
	sig       *yelp.OwnerSignature
	sigErr    error
	locations []string
}

func (m *mockYelp) SearchBusiness(_ context.Context, _, location string) (*yelp.Business, error) {
	m.locations = append(m.locations, location)
	return m.biz, m.bizErr
}

func (m *mockYelp) OwnerFromPage(_ context.Context, _ string) (*yelp.OwnerSignature, error) {
	return m.sig, m.sigErr
}

type mockPlaces struct {
	placeID string
	details *places.PlaceDetails
	queries []string
}

func (m *mockPlaces) FindPlace(_ context.Context, query string) (string, error) {
	m.queries = append(m.queries, query)
	return m.placeID, nil
}

func (m *mockPlaces) Details(_ context.Context, _ string) (*places.PlaceDetails, error) {
	return m.details, nil
}

type mockHunter struct {
	searchResp *hunter.DomainSearchResponse
	searchReqs []hunter.DomainSearchRequest
	finderResp *hunter.EmailFinderResult
	verifyResp *hunter.VerifierResult
}

func (m *mockHunter) DomainSearch(_ context.Context, req hunter.DomainSearchRequest) (*hunter.DomainSearchResponse, error) {
	m.searchReqs = append(m.searchReqs, req)
	return m.searchResp, nil
}

func (m *mockHunter) EmailFinder(_ context.Context, _, _, _ string) (*hunter.EmailFinderResult, error) {
	return m.finderResp, nil
}

func (m *mockHunter) EmailVerifier(_ context.Context, _ string) (*hunter.VerifierResult, error) {
	return m.verifyResp, nil
}

type mockScraper struct {
	res *sitescrape.Result
	err error
}

func (m *mockScraper) Scrape(_ context.Context, _ string) (*sitescrape.Result, error) {
	return m.res, m.err
}

// --- review source ---

func TestReviewSource_Lookup(t *testing.T) {
	rating := 4.5
	count := 312
	client := &mockYelp{
		biz: &yelp.Business{
			Name:        "Blue Door Cafe",
			Phone:       "+13305550188",
			URL:         "https://www.yelp.com/biz/blue-door-cafe-akron",
			Rating:      &rating,
			ReviewCount: &count,
			Price:       "$$",
			Location:    yelp.Location{Address1: "1970 State Rd", City: "Akron", State: "OH", ZipCode: "44223"},
		},
		sig: &yelp.OwnerSignature{Name: "Maria Lopez", Role: "Business Owner"},
	}
	client.biz.Attributes.BusinessURL = "https://www.bluedoorcafe.com"

	src := NewReviewSource(client)
	res, err := src.Lookup(context.Background(), "Blue Door Cafe", "Akron", "OH")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, []string{"Akron, OH"}, client.locations)
	assert.Equal(t, "Maria Lopez", res.OwnerName)
	assert.Equal(t, "Owner", res.OwnerTitle, "signature roles are normalized")
	assert.Equal(t, "https://www.bluedoorcafe.com", res.Website)
	require.NotNil(t, res.Address)
	assert.Equal(t, "Akron", res.Address.City)
}

func TestReviewSource_OwnerPageFailureIsTolerated(t *testing.T) {
	client := &mockYelp{
		biz:    &yelp.Business{Name: "Blue Door Cafe", URL: "https://yelp.com/biz/x"},
		sigErr: assert.AnError,
	}

	src := NewReviewSource(client)
	res, err := src.Lookup(context.Background(), "Blue Door Cafe", "Akron", "")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.OwnerName)
}

func TestReviewSource_NoMatch(t *testing.T) {
	src := NewReviewSource(&mockYelp{})
	res, err := src.Lookup(context.Background(), "Ghost Bar", "Reno", "NV")
	require.NoError(t, err)
	assert.Nil(t, res)
}

// --- map source ---

func TestMapSource_Lookup(t *testing.T) {
	client := &mockPlaces{
		placeID: "ChIJabc123",
		details: &places.PlaceDetails{
			Name:       "Blue Door Cafe",
			Phone:      "(330) 555-0188",
			Website:    "https://www.bluedoorcafe.com/",
			PriceLevel: 2,
			Reviews: []places.Review{
				{AuthorName: "A Diner", OwnerResponse: "Thanks for coming in! - Maria Lopez"},
				{AuthorName: "B Diner", OwnerResponse: "See you soon. – maria lopez"},
				{AuthorName: "C Diner", OwnerResponse: "Glad you enjoyed it. - Sam Chen"},
				{AuthorName: "D Diner"},
			},
		},
	}

	src := NewMapSource(client)
	res, err := src.Lookup(context.Background(), "Blue Door Cafe", "Akron", "OH")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, []string{"Blue Door Cafe Akron OH"}, client.queries)
	assert.Equal(t, "$$", res.PriceLevel)
	assert.Equal(t, []string{"Maria Lopez", "Sam Chen"}, res.ReviewResponderNames,
		"responder names are deduped; unsigned and lowercase replies are skipped")
}

func TestMapSource_NoPlace(t *testing.T) {
	src := NewMapSource(&mockPlaces{})
	res, err := src.Lookup(context.Background(), "Ghost Bar", "Reno", "")
	require.NoError(t, err)
	assert.Nil(t, res)
}

// --- contact database source ---

func hunterSearchFixture() *hunter.DomainSearchResponse {
	return &hunter.DomainSearchResponse{
		Domain:  "bluedoorcafe.com",
		Pattern: "{first}.{last}",
		Emails: []hunter.DomainEmail{
			{Value: "maria.lopez@bluedoorcafe.com", Type: "personal", Confidence: 92, FirstName: "Maria", LastName: "Lopez", Position: "Owner"},
			{Value: "sam.chen@bluedoorcafe.com", Type: "personal", Confidence: 85, FirstName: "Sam", LastName: "Chen", Position: "Sous Chef"},
			{Value: "jo.day@bluedoorcafe.com", Type: "personal", Confidence: 81, FirstName: "Jo", LastName: "Day", Position: "Bookkeeper"},
			{Value: "info@bluedoorcafe.com", Type: "generic", Confidence: 95},
		},
	}
}

func TestContactDBSource_SearchByTitle(t *testing.T) {
	client := &mockHunter{searchResp: hunterSearchFixture()}
	src := NewContactDBSource(client)

	res, err := src.SearchByTitle(context.Background(), "bluedoorcafe.com", []string{"owner", "chef"}, 10)
	require.NoError(t, err)
	require.NotNil(t, res)

	// Generic rows and non-matching titles filtered out.
	require.Len(t, res.Contacts, 2)
	assert.Equal(t, "Maria", res.Contacts[0].FirstName)
	assert.Equal(t, "Owner", res.Contacts[0].Title)
	assert.Equal(t, 92, res.Contacts[0].Confidence)
	assert.Equal(t, "Sam", res.Contacts[1].FirstName)
}

func TestContactDBSource_SearchBySeniority(t *testing.T) {
	client := &mockHunter{searchResp: hunterSearchFixture()}
	src := NewContactDBSource(client)

	res, err := src.SearchBySeniority(context.Background(), "bluedoorcafe.com", []string{"owner"}, []string{"management"}, 10)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Contacts, 3, "seniority search keeps all personal rows")

	require.Len(t, client.searchReqs, 1)
	assert.Equal(t, []string{"owner"}, client.searchReqs[0].Seniorities)
	assert.Equal(t, []string{"management"}, client.searchReqs[0].Departments)
}

func TestContactDBSource_EmailPattern(t *testing.T) {
	client := &mockHunter{searchResp: hunterSearchFixture()}
	src := NewContactDBSource(client)

	pattern, err := src.EmailPattern(context.Background(), "bluedoorcafe.com")
	require.NoError(t, err)
	assert.Equal(t, "{first}.{last}", pattern)
	require.Len(t, client.searchReqs, 1)
	assert.Equal(t, 1, client.searchReqs[0].Limit)
}

func TestContactDBSource_FindEmail(t *testing.T) {
	client := &mockHunter{finderResp: &hunter.EmailFinderResult{Email: "maria.lopez@bluedoorcafe.com", Score: 88}}
	src := NewContactDBSource(client)

	res, err := src.FindEmail(context.Background(), "Maria", "Lopez", "bluedoorcafe.com")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 88, res.Score)

	src = NewContactDBSource(&mockHunter{})
	res, err = src.FindEmail(context.Background(), "Ghost", "Person", "x.com")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestContactDBSource_VerifyEmail(t *testing.T) {
	src := NewContactDBSource(&mockHunter{verifyResp: &hunter.VerifierResult{Result: "deliverable"}})
	ok, err := src.VerifyEmail(context.Background(), "chef@solocantina.com")
	require.NoError(t, err)
	assert.True(t, ok)

	src = NewContactDBSource(&mockHunter{verifyResp: &hunter.VerifierResult{Result: "risky"}})
	ok, err = src.VerifyEmail(context.Background(), "x@y.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

// --- scrape source ---

func TestScrapeSource_Lookup(t *testing.T) {
	src := NewScrapeSource(&mockScraper{res: &sitescrape.Result{
		People: []sitescrape.Person{{Name: "Maria Lopez", Role: "Owner"}},
		Emails: []string{"info@bluedoorcafe.com"},
	}})

	res, err := src.Lookup(context.Background(), "bluedoorcafe.com")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Owners, 1)
	assert.Equal(t, "Maria Lopez", res.Owners[0].Name)
	assert.Equal(t, []string{"info@bluedoorcafe.com"}, res.Emails)
}

// --- bundle wiring ---

func TestNew_NilAdaptersWithoutKeys(t *testing.T) {
	cfg := &config.Config{}
	s := New(cfg)

	assert.Nil(t, s.Review)
	assert.Nil(t, s.Map)
	assert.Nil(t, s.ContactDB)
	assert.NotNil(t, s.Scrape, "the scraper needs no credentials")
}

func TestNew_BuildsConfiguredAdapters(t *testing.T) {
	cfg := &config.Config{
		Yelp:   config.YelpConfig{Key: "yk"},
		Places: config.PlacesConfig{Key: "pk"},
		Hunter: config.HunterConfig{Key: "hk", RPS: 2},
	}
	s := New(cfg)

	assert.NotNil(t, s.Review)
	assert.NotNil(t, s.Map)
	assert.NotNil(t, s.ContactDB)
	assert.NotNil(t, s.Scrape)
}
