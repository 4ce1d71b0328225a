package medication

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patientpal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/medications", func(mr chi.Router) {
		mr.Post("/schedule", generateScheduleHandler(svc))
		mr.Get("/schedule", currentScheduleHandler(svc))
		mr.Get("/reminders", remindersHandler(svc))
	})
}

// generateScheduleRequest acepta texto libre (una línea por medicamento)
// o la lista ya estructurada. Si vienen ambos, manda medications.
type generateScheduleRequest struct {
	Text        string            `json:"text" example:"Metformin 500mg twice daily with meals"`
	Medications []MedicationEntry `json:"medications"`
}

// scheduleResponse es el plan diario devuelto por la API.
type scheduleResponse struct {
	ID          string            `json:"id"`
	Medications []MedicationEntry `json:"medications"`
	Events      []DoseEvent       `json:"events"`
	Groups      []BucketGroup     `json:"groups"`
	Warnings    []Warning         `json:"warnings"`
	CreatedAt   time.Time         `json:"created_at"`
}

type remindersResponse struct {
	WindowMinutes int        `json:"window_minutes"`
	Reminders     []Reminder `json:"reminders"`
}

// generateScheduleHandler godoc
// @Summary Generar plan de medicación
// @Description Interpreta la lista de medicamentos y arma el plan diario (tomas por bloque del día). Cada envío regenera el plan completo. Frecuencias no reconocidas generan una toma por defecto y un warning.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "ID de sesión (si no, cookie patientpal_session)"
// @Param payload body generateScheduleRequest true "Texto libre o medicamentos estructurados"
// @Success 201 {object} scheduleResponse
// @Failure 400 {string} string "invalid json / medicamento sin nombre"
// @Failure 500 {string} string "internal error"
// @Router /api/medications/schedule [post]
func generateScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		var req generateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var (
			rec ScheduleRecord
			err error
		)
		if len(req.Medications) > 0 {
			rec, err = svc.GenerateFromEntries(r.Context(), sess.UserID, req.Medications)
		} else {
			rec, err = svc.Generate(r.Context(), sess.UserID, req.Text)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(rec))
	}
}

// currentScheduleHandler godoc
// @Summary Plan de medicación vigente
// @Description Devuelve el último plan generado en la sesión.
// @Tags medications
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Success 200 {object} scheduleResponse
// @Failure 404 {string} string "no schedule yet"
// @Router /api/medications/schedule [get]
func currentScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		rec, err := svc.Latest(r.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "no schedule yet", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(rec))
	}
}

// remindersHandler godoc
// @Summary Próximas tomas
// @Description Tomas del plan vigente que vencen dentro de la ventana (por defecto la configurada, p.ej. 60 minutos). Se recalcula en cada llamada.
// @Tags medications
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Param window query string false "Ventana: duración (90m, 2h) o minutos (60)"
// @Success 200 {object} remindersResponse
// @Failure 400 {string} string "window inválido"
// @Router /api/medications/reminders [get]
func remindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		window, err := parseWindow(r.URL.Query().Get("window"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if window <= 0 {
			window = svc.Window()
		}

		items, err := svc.Upcoming(r.Context(), sess.UserID, window)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, remindersResponse{
			WindowMinutes: int(window / time.Minute),
			Reminders:     items,
		})
	}
}

func parseWindow(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Minute, nil
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, nil
	}
	return 0, errors.New("window must be minutes (60) or a duration (90m)")
}

func writeServiceError(w http.ResponseWriter, err error) {
	var pe *ParseError
	switch {
	case errors.As(err, &pe):
		http.Error(w, pe.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toScheduleResponse(rec ScheduleRecord) scheduleResponse {
	return scheduleResponse{
		ID:          rec.ID,
		Medications: rec.Entries,
		Events:      rec.Schedule.Events,
		Groups:      rec.Schedule.Groups(),
		Warnings:    rec.Schedule.Warnings,
		CreatedAt:   rec.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
