package router

import (
	"net/http"
	"time"

	_ "patientpal/docs"

	"patientpal/internal/adapters/ai/simulated"
	mem "patientpal/internal/adapters/storage/memory"
	"patientpal/internal/adapters/storage/sqlstore"
	"patientpal/internal/domain/consultations"
	"patientpal/internal/domain/history"
	"patientpal/internal/domain/medication"
	"patientpal/internal/domain/terms"
	"patientpal/internal/middleware"
	"patientpal/internal/platform/logger"
	"patientpal/internal/ports/ai"
	"patientpal/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Stores agrupa los repositorios. Los que vengan nil se completan:
// con DB si está seteada, si no in-memory.
type Stores struct {
	Consultations consultations.Repository
	Schedules     medication.Repository
	Explanations  terms.Repository
}

// AI agrupa los servicios externos. Los que vengan nil usan la simulación offline.
type AI struct {
	Transcriber ai.Transcriber
	OCR         ai.TextExtractor
	Summarizer  ai.Summarizer
	Explainer   ai.Explainer
	// MedicationParser es opcional: sin él se usa el parser local.
	MedicationParser ai.MedicationParser
}

type Options struct {
	Logger  logger.Logger // puede ser nil (descarta logs)
	AppName string

	ReminderWindow time.Duration

	// Opcional: si viene, usa la base SQL (postgres o sqlite). Si no, in-memory.
	DB *sqlstore.DB

	Stores Stores
	AI     AI
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	stores := resolveStores(opts)
	deps := resolveAI(opts.AI)

	// Services por módulo
	consultationsSvc := consultations.NewService(stores.Consultations, consultations.Deps{
		Transcriber: deps.Transcriber,
		OCR:         deps.OCR,
		Summarizer:  deps.Summarizer,
		Logger:      log.With(map[string]any{"module": "consultations"}),
	})
	termsSvc := terms.NewService(stores.Explanations, deps.Explainer, log.With(map[string]any{"module": "terms"}))
	medicationSvc := medication.NewService(stores.Schedules, medication.Options{
		Parser:         deps.MedicationParser,
		Logger:         log.With(map[string]any{"module": "medication"}),
		ReminderWindow: opts.ReminderWindow,
	})
	historySvc := history.NewService(consultationsSvc, medicationSvc, termsSvc)

	// Rutas de la app: todas necesitan sesión (cookie o X-Session-ID).
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionContext)

		web.RegisterRoutes(r, opts.AppName, medicationSvc.Window())
		consultations.RegisterRoutes(r, consultationsSvc)
		terms.RegisterRoutes(r, termsSvc)
		medication.RegisterRoutes(r, medicationSvc)
		history.RegisterRoutes(r, historySvc)
	})

	return r
}

func resolveStores(opts Options) Stores {
	s := opts.Stores

	if opts.DB != nil {
		if s.Consultations == nil {
			s.Consultations = sqlstore.NewConsultationsRepo(opts.DB)
		}
		if s.Schedules == nil {
			s.Schedules = sqlstore.NewSchedulesRepo(opts.DB)
		}
		if s.Explanations == nil {
			s.Explanations = sqlstore.NewExplanationsRepo(opts.DB)
		}
	}

	if s.Consultations == nil {
		s.Consultations = mem.NewConsultationRepo()
	}
	if s.Schedules == nil {
		s.Schedules = mem.NewScheduleRepo()
	}
	if s.Explanations == nil {
		s.Explanations = mem.NewExplanationRepo()
	}
	return s
}

func resolveAI(in AI) AI {
	sim := simulated.New()
	if in.Transcriber == nil {
		in.Transcriber = sim
	}
	if in.OCR == nil {
		in.OCR = sim
	}
	if in.Summarizer == nil {
		in.Summarizer = sim
	}
	if in.Explainer == nil {
		in.Explainer = sim
	}
	return in
}
