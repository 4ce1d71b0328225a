package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionEcho() http.Handler {
	return SessionContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := GetSession(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(s.UserID))
	}))
}

func TestSessionContext_HeaderWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "patient-1")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-user"})
	rec := httptest.NewRecorder()

	sessionEcho().ServeHTTP(rec, req)

	assert.Equal(t, "patient-1", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionContext_UsesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-user"})
	rec := httptest.NewRecorder()

	sessionEcho().ServeHTTP(rec, req)

	assert.Equal(t, "cookie-user", rec.Body.String())
}

func TestSessionContext_MintsNewSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "bad id with spaces")
	rec := httptest.NewRecorder()

	sessionEcho().ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, cookies[0].Value, rec.Body.String())
	assert.Equal(t, cookies[0].Value, rec.Header().Get(SessionHeader))
}
