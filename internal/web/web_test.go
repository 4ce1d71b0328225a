package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_RendersPage(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, "PatientPal", 90*time.Minute)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>PatientPal")
	assert.Contains(t, body, "Process Consultation")
	assert.Contains(t, body, "Generate Schedule")
	assert.Contains(t, body, "Check Upcoming Reminders")
	assert.Regexp(t, `const windowMinutes = \s*90\s*;`, body)
	assert.Regexp(t, `const sessionHeader = \s*"X-Session-ID"\s*;`, body)
}

func TestIndex_EscapesAppName(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, "<b>pp</b>", 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotContains(t, rec.Body.String(), "<b>pp</b>")
	assert.Regexp(t, `const windowMinutes = \s*60\s*;`, rec.Body.String())
}
