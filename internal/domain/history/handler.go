package history

import (
	"encoding/json"
	"net/http"
	"time"

	"patientpal/internal/domain/medication"
	"patientpal/internal/middleware"
	"patientpal/internal/ports/ai"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/me/history", historyHandler(svc))
}

type consultationItem struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Summary   string    `json:"summary"`
	Terms     []ai.Term `json:"terms"`
	CreatedAt time.Time `json:"created_at"`
}

type scheduleItem struct {
	ID          string                       `json:"id"`
	Medications []medication.MedicationEntry `json:"medications"`
	Events      []medication.DoseEvent       `json:"events"`
	Warnings    []medication.Warning         `json:"warnings"`
	CreatedAt   time.Time                    `json:"created_at"`
}

type explanationItem struct {
	ID          string    `json:"id"`
	Term        string    `json:"term"`
	Explanation string    `json:"explanation"`
	Sources     []string  `json:"sources"`
	CreatedAt   time.Time `json:"created_at"`
}

type historyResponse struct {
	UserID        string             `json:"user_id"`
	Consultations []consultationItem `json:"consultations"`
	Schedules     []scheduleItem     `json:"medication_schedules"`
	Explanations  []explanationItem  `json:"explanations"`
}

// historyHandler godoc
// @Summary Historial de la sesión
// @Description Consultas, planes de medicación y explicaciones guardadas para la sesión actual (más recientes primero).
// @Tags history
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Success 200 {object} historyResponse
// @Router /api/me/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		h, err := svc.ForUser(r.Context(), sess.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := historyResponse{
			UserID:        sess.UserID,
			Consultations: make([]consultationItem, 0, len(h.Consultations)),
			Schedules:     make([]scheduleItem, 0, len(h.Schedules)),
			Explanations:  make([]explanationItem, 0, len(h.Explanations)),
		}
		for _, c := range h.Consultations {
			terms := c.Terms
			if terms == nil {
				terms = []ai.Term{}
			}
			out.Consultations = append(out.Consultations, consultationItem{
				ID:        c.ID,
				Source:    string(c.Source),
				Summary:   c.Summary,
				Terms:     terms,
				CreatedAt: c.CreatedAt,
			})
		}
		for _, s := range h.Schedules {
			out.Schedules = append(out.Schedules, scheduleItem{
				ID:          s.ID,
				Medications: s.Entries,
				Events:      s.Schedule.Events,
				Warnings:    s.Schedule.Warnings,
				CreatedAt:   s.CreatedAt,
			})
		}
		for _, e := range h.Explanations {
			sources := e.Sources
			if sources == nil {
				sources = []string{}
			}
			out.Explanations = append(out.Explanations, explanationItem{
				ID:          e.ID,
				Term:        e.Term,
				Explanation: e.Explanation,
				Sources:     sources,
				CreatedAt:   e.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
