package terms

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"patientpal/internal/middleware"
	"patientpal/internal/ports/ai"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/terms", func(tr chi.Router) {
		tr.Post("/explain", explainTermHandler(svc))
		tr.Get("/", listExplanationsHandler(svc))
	})
}

type explainRequest struct {
	Term    string `json:"term" example:"hypertension"`
	Context string `json:"context" example:"diagnosed with hypertension"`
}

type explanationResponse struct {
	ID          string    `json:"id"`
	Term        string    `json:"term"`
	Context     string    `json:"context,omitempty"`
	Explanation string    `json:"explanation"`
	Sources     []string  `json:"sources"`
	Cached      bool      `json:"cached"`
	CreatedAt   time.Time `json:"created_at"`
}

// explainTermHandler godoc
// @Summary Explicar término médico
// @Description Explicación en lenguaje simple con fuentes. Si el término ya se explicó en la sesión se devuelve la explicación guardada.
// @Tags terms
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Param payload body explainRequest true "Término y contexto"
// @Success 200 {object} explanationResponse
// @Failure 400 {string} string "term required"
// @Failure 502 {string} string "servicio externo no disponible"
// @Router /api/terms/explain [post]
func explainTermHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		var req explainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, cached, err := svc.Explain(r.Context(), sess.UserID, req.Term, req.Context)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "term required", http.StatusBadRequest)
			case errors.Is(err, ErrUpstream):
				http.Error(w, ai.UserMessage("explanation", err), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toExplanationResponse(e, cached))
	}
}

// listExplanationsHandler godoc
// @Summary Listar explicaciones
// @Tags terms
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Success 200 {array} explanationResponse
// @Router /api/terms [get]
func listExplanationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), sess.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]explanationResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toExplanationResponse(e, true))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toExplanationResponse(e Explanation, cached bool) explanationResponse {
	sources := e.Sources
	if sources == nil {
		sources = []string{}
	}
	return explanationResponse{
		ID:          e.ID,
		Term:        e.Term,
		Context:     e.Context,
		Explanation: e.Explanation,
		Sources:     sources,
		Cached:      cached,
		CreatedAt:   e.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
