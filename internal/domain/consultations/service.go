package consultations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"patientpal/internal/platform/logger"
	"patientpal/internal/ports/ai"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyInput   = errors.New("please provide an audio recording, an image of your notes, or the consultation text")
)

// FallbackSummary se usa cuando el resumen no se pudo generar.
const FallbackSummary = "Failed to generate summary. Please try again."

// StageError indica qué servicio externo falló (transcription, ocr, summary).
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Deps agrupa los colaboradores externos. Todos son obligatorios salvo Logger.
type Deps struct {
	Transcriber ai.Transcriber
	OCR         ai.TextExtractor
	Summarizer  ai.Summarizer
	Logger      logger.Logger
}

type Service struct {
	repo        Repository
	transcriber ai.Transcriber
	ocr         ai.TextExtractor
	summarizer  ai.Summarizer
	log         logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	l := deps.Logger
	if l == nil {
		l = logger.Nop()
	}
	return &Service{
		repo:        repo,
		transcriber: deps.Transcriber,
		ocr:         deps.OCR,
		summarizer:  deps.Summarizer,
		log:         l,
		now:         time.Now,
	}
}

// Process obtiene el texto de la consulta, lo resume y guarda el resultado.
func (s *Service) Process(ctx context.Context, userID string, in Input) (Consultation, error) {
	if strings.TrimSpace(userID) == "" {
		return Consultation{}, ErrInvalidInput
	}

	source, text, err := s.extract(ctx, in)
	if err != nil {
		return Consultation{}, err
	}
	if strings.TrimSpace(text) == "" {
		// el audio/imagen no produjo texto
		return Consultation{}, ErrEmptyInput
	}

	sum, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.log.Warn("summary failed", map[string]any{"user_id": userID, "error": err.Error()})
		return Consultation{}, &StageError{Stage: "summary", Err: err}
	}

	c := Consultation{
		ID:            uuid.NewString(),
		UserID:        userID,
		Source:        source,
		Transcription: strings.TrimSpace(text),
		Summary:       strings.TrimSpace(sum.Summary),
		Terms:         cleanTerms(sum.Terms),
		CreatedAt:     s.now(),
	}
	if c.Summary == "" {
		c.Summary = FallbackSummary
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Consultation{}, err
	}

	s.log.Info("consultation processed", map[string]any{
		"user_id":         userID,
		"consultation_id": c.ID,
		"source":          string(source),
		"terms":           len(c.Terms),
	})
	return c, nil
}

func (s *Service) extract(ctx context.Context, in Input) (Source, string, error) {
	switch {
	case len(in.Audio) > 0:
		name := strings.TrimSpace(in.AudioName)
		if name == "" {
			name = "consultation.wav"
		}
		text, err := s.transcriber.Transcribe(ctx, in.Audio, name)
		if err != nil {
			return "", "", &StageError{Stage: "transcription", Err: err}
		}
		return SourceAudio, text, nil

	case len(in.Image) > 0:
		text, err := s.ocr.ExtractText(ctx, in.Image, in.ImageType)
		if err != nil {
			return "", "", &StageError{Stage: "image reading", Err: err}
		}
		return SourceImage, text, nil

	case strings.TrimSpace(in.Text) != "":
		return SourceText, in.Text, nil

	default:
		return "", "", ErrEmptyInput
	}
}

func (s *Service) GetByID(ctx context.Context, userID, id string) (Consultation, error) {
	if strings.TrimSpace(userID) == "" {
		return Consultation{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Consultation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// cleanTerms descarta términos vacíos y repetidos (sin distinguir mayúsculas).
func cleanTerms(in []ai.Term) []ai.Term {
	out := make([]ai.Term, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
		name := strings.TrimSpace(t.Term)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ai.Term{Term: name, Context: strings.TrimSpace(t.Context)})
	}
	return out
}
