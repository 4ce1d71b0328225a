// Package web sirve la página única de la app. Toda la lógica vive en la API JSON;
// la página solo arma los requests y muestra las respuestas.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"patientpal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	AppName       string
	WindowMinutes int
	SessionHeader string
}

// RegisterRoutes monta GET / con la página.
func RegisterRoutes(r chi.Router, appName string, window time.Duration) {
	r.Get("/", indexHandler(appName, window))
}

func indexHandler(appName string, window time.Duration) http.HandlerFunc {
	if appName == "" {
		appName = "PatientPal"
	}
	data := pageData{
		AppName:       appName,
		WindowMinutes: int(window / time.Minute),
		SessionHeader: middleware.SessionHeader,
	}
	if data.WindowMinutes <= 0 {
		data.WindowMinutes = 60
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := indexTmpl.Execute(&buf, data); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}
