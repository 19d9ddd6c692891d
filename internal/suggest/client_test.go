package suggest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSuggest(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scrape", r.URL.Path)
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"title":       " Riverbend Food Bank ",
			"description": "Weekly groceries for families",
			"phone":       "(618) 555-0100",
			"zip_code":    "62002",
		})
	}))
	defer srv.Close()

	c := New(quietLogger(), srv.URL+"/", time.Second, DefaultKeywordMap())
	draft, err := c.Suggest(context.Background(), "https://riverbend.example.org/about")
	require.NoError(t, err)

	assert.Equal(t, "https://riverbend.example.org/about", gotURL)
	assert.Equal(t, "Riverbend Food Bank", draft.Title)
	assert.Equal(t, "62002", draft.ZipCode)
	assert.Equal(t, "https://riverbend.example.org/about", draft.Website)
	assert.Equal(t, "Food Pantry", draft.PredictedCategory)
}

func TestSuggest_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(quietLogger(), srv.URL, time.Second, DefaultKeywordMap())
	_, err := c.Suggest(context.Background(), "https://example.org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSuggest_Disabled(t *testing.T) {
	c := New(quietLogger(), "", time.Second, DefaultKeywordMap())
	_, err := c.Suggest(context.Background(), "https://example.org")
	assert.ErrorIs(t, err, types.ErrSuggesterDisabled)
}

func TestSuggest_RejectsBadURL(t *testing.T) {
	c := New(quietLogger(), "http://127.0.0.1:1", time.Second, DefaultKeywordMap())

	for _, in := range []string{"", "example.org", "ftp://example.org/file", "https://"} {
		_, err := c.Suggest(context.Background(), in)
		var verr *types.ValidationError
		assert.ErrorAs(t, err, &verr, in)
	}
}

func TestPredict(t *testing.T) {
	m := DefaultKeywordMap()

	assert.Equal(t, "Housing Assistance", m.Predict("Emergency Shelter of Alton"))
	assert.Equal(t, "Legal Assistance", m.Predict("", "Free LEGAL AID for tenants"))
	assert.Equal(t, "", m.Predict("Riverside Bowling"))
	assert.Equal(t, "", m.Predict(" "))

	custom := KeywordMap{{"Mental Health", []string{"support group"}}}
	assert.Equal(t, "Mental Health", custom.Predict("Weekly support group"))
}
