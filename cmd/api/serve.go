package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"patientpal/internal/adapters/ai/groq"
	"patientpal/internal/adapters/search/firecrawl"
	"patientpal/internal/adapters/storage/mem0"
	"patientpal/internal/adapters/storage/sqlstore"
	"patientpal/internal/platform/config"
	"patientpal/internal/platform/logger"
	"patientpal/internal/ports/ai"
	"patientpal/internal/router"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveCommander struct {
	envFile string
	cfg     config.Config
	log     logger.Logger
}

const serveLongDesc string = `Run the PatientPal HTTP server.

Without GROQ_API_KEY the server runs in simulation mode (canned transcription,
OCR and glossary explanations). Storage is picked from MEM0_API_KEY, then
DB_DSN, then in-memory.`

const serveShortDesc string = "Run the HTTP server"

func newServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.envFile, err = cmd.Flags().GetString("env-file")
			if err != nil {
				return fmt.Errorf("could not get env-file flag: %v", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	var err error
	c.cfg, err = config.Load(c.envFile)
	if err != nil {
		return err
	}

	c.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(c.cfg.LogLevel),
		Format: logger.ParseFormat(c.cfg.LogFormat),
		App:    c.cfg.AppName,
	})

	opts := router.Options{
		Logger:         c.log,
		AppName:        c.cfg.AppName,
		ReminderWindow: c.cfg.ReminderWindow,
	}

	if opts.AI, err = c.newAI(); err != nil {
		return err
	}

	closeStore, err := c.configureStorage(ctx, &opts)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              c.cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		// transcripción + resumen pueden tardar
		WriteTimeout: c.cfg.HTTPTimeout*2 + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		c.log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newAI arma los servicios externos. Sin GROQ_API_KEY devuelve un AI vacío
// y el router usa la simulación.
func (c *serveCommander) newAI() (router.AI, error) {
	if c.cfg.GroqAPIKey == "" {
		c.log.Warn("GROQ_API_KEY not set, running in simulation mode", nil)
		return router.AI{}, nil
	}

	client, err := groq.NewClient(groq.Config{
		BaseURL:         c.cfg.GroqBaseURL,
		APIKey:          c.cfg.GroqAPIKey,
		ChatModel:       c.cfg.GroqChatModel,
		VisionModel:     c.cfg.GroqVisionModel,
		TranscribeModel: c.cfg.GroqTranscribeModel,
		Timeout:         c.cfg.HTTPTimeout,
	})
	if err != nil {
		return router.AI{}, err
	}

	var searcher ai.Searcher
	if c.cfg.FirecrawlAPIKey != "" {
		fc, err := firecrawl.NewClient(firecrawl.Config{
			BaseURL: c.cfg.FirecrawlBaseURL,
			APIKey:  c.cfg.FirecrawlAPIKey,
			Timeout: c.cfg.HTTPTimeout,
		})
		if err != nil {
			return router.AI{}, err
		}
		searcher = fc
	} else {
		c.log.Info("FIRECRAWL_API_KEY not set, term explanations use the model only", nil)
	}

	return router.AI{
		Transcriber:      client,
		OCR:              client,
		Summarizer:       client,
		Explainer:        groq.NewExplainer(client, searcher, c.cfg.SearchResultsPerTerm, c.log.With(map[string]any{"adapter": "explainer"})),
		MedicationParser: client,
	}, nil
}

// configureStorage elige Mem0, SQL o memoria y devuelve cómo cerrar lo abierto.
func (c *serveCommander) configureStorage(ctx context.Context, opts *router.Options) (func(), error) {
	noop := func() {}

	switch {
	case c.cfg.Mem0APIKey != "":
		client, err := mem0.NewClient(mem0.Config{
			BaseURL: c.cfg.Mem0BaseURL,
			APIKey:  c.cfg.Mem0APIKey,
			Timeout: c.cfg.HTTPTimeout,
		})
		if err != nil {
			return noop, err
		}
		opts.Stores = router.Stores{
			Consultations: mem0.NewConsultationsRepo(client),
			Schedules:     mem0.NewSchedulesRepo(client),
			Explanations:  mem0.NewExplanationsRepo(client),
		}
		c.log.Info("using Mem0 storage", map[string]any{"base_url": c.cfg.Mem0BaseURL})
		return noop, nil

	case c.cfg.DBDSN != "":
		db, err := sqlstore.Open(c.cfg.DBDSN)
		if err != nil {
			return noop, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return noop, err
		}
		opts.DB = db
		c.log.Info("using SQL storage", map[string]any{"dialect": string(db.Dialect)})
		return func() { _ = db.Close() }, nil

	default:
		c.log.Info("using in-memory storage", nil)
		return noop, nil
	}
}
