package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const sessionKey ctxKey = "session"

const (
	SessionCookie = "patientpal_session"
	SessionHeader = "X-Session-ID"

	sessionTTL = 30 * 24 * time.Hour
)

// Session identifica al paciente. No hay login: el id de sesión es el "user id"
// con el que se guardan consultas, planes y explicaciones.
type Session struct {
	UserID string
	New    bool
}

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// SessionContext:
// - Si viene header X-Session-ID válido => se usa (clientes API / tests).
// - Si no, cookie patientpal_session.
// - Si no hay ninguno, se crea una sesión nueva y se setea la cookie.
func SessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(SessionHeader)); validSessionID.MatchString(id) {
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), Session{UserID: id})))
			return
		}

		if c, err := r.Cookie(SessionCookie); err == nil && validSessionID.MatchString(c.Value) {
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), Session{UserID: c.Value})))
			return
		}

		id := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(sessionTTL),
		})
		w.Header().Set(SessionHeader, id)

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), Session{UserID: id, New: true})))
	})
}

func withSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) (Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
