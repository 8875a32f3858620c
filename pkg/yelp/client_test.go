package yelp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/search", r.URL.Path)
		assert.Equal(t, "Blue Door Cafe", r.URL.Query().Get("term"))
		assert.Equal(t, "Akron, OH", r.URL.Query().Get("location"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Write([]byte(`{"businesses":[{
			"id":"blue-door-cafe-akron",
			"name":"Blue Door Cafe",
			"phone":"+13305550188",
			"url":"https://www.yelp.com/biz/blue-door-cafe-akron",
			"rating":4.5,
			"review_count":312,
			"price":"$$",
			"location":{"address1":"1970 State Rd","city":"Akron","state":"OH","zip_code":"44223"},
			"attributes":{"business_url":"https://www.bluedoorcafe.com"}
		}],"total":1}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	biz, err := client.SearchBusiness(context.Background(), "Blue Door Cafe", "Akron, OH")
	require.NoError(t, err)
	require.NotNil(t, biz)
	assert.Equal(t, "Blue Door Cafe", biz.Name)
	assert.Equal(t, "https://www.bluedoorcafe.com", biz.Attributes.BusinessURL)
	require.NotNil(t, biz.Rating)
	assert.InDelta(t, 4.5, *biz.Rating, 0.001)
	assert.Equal(t, "Akron", biz.Location.City)
}

func TestSearchBusiness_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"businesses":[],"total":0}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	biz, err := client.SearchBusiness(context.Background(), "Ghost Bar", "Reno, NV")
	require.NoError(t, err)
	assert.Nil(t, biz)
}

func TestSearchBusiness_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.SearchBusiness(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestOwnerFromPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="review-response">
				<p>Thank you for visiting us!</p>
				<span>Maria Lopez, Business Owner</span>
			</div>
		</body></html>`))
	}))
	defer srv.Close()

	client := NewClient("test-key")
	sig, err := client.OwnerFromPage(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, "Maria Lopez", sig.Name)
	assert.Equal(t, "Business Owner", sig.Role)
}

func TestOwnerFromPage_NoSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>No replies here.</body></html>`))
	}))
	defer srv.Close()

	client := NewClient("test-key")
	sig, err := client.OwnerFromPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestOwnerFromPage_PageUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("test-key")
	sig, err := client.OwnerFromPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Nil(t, sig)
}
