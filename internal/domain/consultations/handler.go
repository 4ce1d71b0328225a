package consultations

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"patientpal/internal/middleware"
	"patientpal/internal/ports/ai"

	"github.com/go-chi/chi/v5"
)

// Límite de subida (el endpoint de transcripción acepta hasta 25MB).
const maxUploadBytes = 25 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/consultations", func(cr chi.Router) {
		cr.Post("/", processConsultationHandler(svc))
		cr.Get("/", listConsultationsHandler(svc))
		cr.Get("/{consultationID}", getConsultationHandler(svc))
	})
}

type textConsultationRequest struct {
	Text string `json:"text" example:"The doctor said my blood pressure is high..."`
}

type consultationResponse struct {
	ID            string    `json:"id"`
	Source        Source    `json:"source"`
	Transcription string    `json:"transcription"`
	Summary       string    `json:"summary"`
	Terms         []ai.Term `json:"terms"`
	CreatedAt     time.Time `json:"created_at"`
}

// processConsultationHandler godoc
// @Summary Procesar consulta
// @Description Recibe audio, imagen de notas o texto (en ese orden de prioridad), obtiene el texto, lo resume y detecta términos médicos.
// @Tags consultations
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Param audio formData file false "Grabación de la consulta"
// @Param image formData file false "Foto de las notas"
// @Param text formData string false "Texto de la consulta"
// @Success 201 {object} consultationResponse
// @Failure 400 {string} string "no input"
// @Failure 502 {string} string "servicio externo no disponible"
// @Router /api/consultations [post]
func processConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		in, err := readInput(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, err := svc.Process(r.Context(), sess.UserID, in)
		if err != nil {
			var se *StageError
			switch {
			case errors.Is(err, ErrEmptyInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.As(err, &se):
				http.Error(w, ai.UserMessage(se.Stage, se.Err), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toConsultationResponse(c))
	}
}

// listConsultationsHandler godoc
// @Summary Listar consultas
// @Tags consultations
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Success 200 {array} consultationResponse
// @Router /api/consultations [get]
func listConsultationsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]consultationResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toConsultationResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getConsultationHandler godoc
// @Summary Ver consulta
// @Tags consultations
// @Produce json
// @Param X-Session-ID header string false "ID de sesión"
// @Param consultationID path string true "Consultation ID"
// @Success 200 {object} consultationResponse
// @Failure 404 {string} string "consultation not found"
// @Router /api/consultations/{consultationID} [get]
func getConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}

		c, err := svc.GetByID(r.Context(), sess.UserID, chi.URLParam(r, "consultationID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "consultation not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toConsultationResponse(c))
	}
}

// readInput acepta multipart (audio, image, text), form urlencoded o JSON {"text": "..."}.
func readInput(r *http.Request) (Input, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "application/json":
		var req textConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Input{}, errors.New("invalid json")
		}
		return Input{Text: req.Text}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return Input{}, errors.New("invalid multipart form")
		}
		in := Input{Text: r.FormValue("text")}

		audio, name, _, err := readFormFile(r, "audio")
		if err != nil {
			return Input{}, err
		}
		in.Audio, in.AudioName = audio, name

		image, _, imageType, err := readFormFile(r, "image")
		if err != nil {
			return Input{}, err
		}
		in.Image, in.ImageType = image, imageType
		return in, nil

	default:
		if err := r.ParseForm(); err != nil {
			return Input{}, errors.New("invalid form")
		}
		return Input{Text: r.PostFormValue("text")}, nil
	}
}

// readFormFile devuelve nil si el campo no vino.
func readFormFile(r *http.Request, field string) ([]byte, string, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", "", nil
		}
		return nil, "", "", errors.New("invalid " + field + " upload")
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, "", "", errors.New("could not read " + field + " upload")
	}

	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(b)
	}
	return b, hdr.Filename, ct, nil
}

func toConsultationResponse(c Consultation) consultationResponse {
	terms := c.Terms
	if terms == nil {
		terms = []ai.Term{}
	}
	return consultationResponse{
		ID:            c.ID,
		Source:        c.Source,
		Transcription: c.Transcription,
		Summary:       c.Summary,
		Terms:         terms,
		CreatedAt:     c.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
