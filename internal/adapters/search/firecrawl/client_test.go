package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"patientpal/internal/ports/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "edema", req.Query)
		assert.Equal(t, 2, req.Limit)
		assert.Equal(t, []string{"markdown"}, req.ScrapeOptions.Formats)

		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"url":"https://medlineplus.gov/edema.html","title":"Edema","markdown":"# Edema\nSwelling..."},
			{"url":"https://example.org/x","title":"X","description":"only description"},
			{"url":"","title":"broken"}
		]}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "fc-key"})
	require.NoError(t, err)

	docs, err := c.Search(context.Background(), "edema", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "# Edema\nSwelling...", docs[0].Content)
	assert.Equal(t, "only description", docs[1].Content)
}

func TestSearch_Errors(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "edema", 1)
	assert.ErrorIs(t, err, ai.ErrNotConfigured)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer ts.Close()

	c, err = NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "edema", 1)
	assert.ErrorIs(t, err, ai.ErrUnauthorized)
}

func TestSearch_UnsuccessfulBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"quota"}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "edema", 1)
	assert.ErrorIs(t, err, ai.ErrUpstream)
}
