package terms

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
	// ErrUpstream envuelve fallas del servicio de explicaciones.
	ErrUpstream = errors.New("explanation service failed")
)

const maxTermLen = 200

type Service struct {
	repo      Repository
	explainer ai.Explainer
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, explainer ai.Explainer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		explainer: explainer,
		log:       log,
		now:       time.Now,
	}
}

// Explain devuelve la explicación guardada para el término si ya existe (cached=true);
// si no, la pide al explainer, la guarda y la devuelve.
func (s *Service) Explain(ctx context.Context, userID, term, termContext string) (Explanation, bool, error) {
	userID = strings.TrimSpace(userID)
	term = strings.TrimSpace(term)
	if userID == "" || term == "" || len(term) > maxTermLen {
		return Explanation{}, false, ErrInvalidInput
	}

	prev, err := s.repo.FindByTerm(ctx, userID, term)
	switch {
	case err == nil:
		s.log.Debug("term explanation cache hit", map[string]any{"user_id": userID, "term": term})
		return prev, true, nil
	case !errors.Is(err, ErrNotFound):
		return Explanation{}, false, err
	}

	res, err := s.explainer.Explain(ctx, term, strings.TrimSpace(termContext))
	if err != nil {
		s.log.Warn("term explanation failed", map[string]any{"term": term, "error": err.Error()})
		return Explanation{}, false, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	e := Explanation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Term:        term,
		Context:     strings.TrimSpace(termContext),
		Explanation: strings.TrimSpace(res.Explanation),
		Sources:     cleanSources(res.Sources),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Explanation{}, false, err
	}

	s.log.Info("term explained", map[string]any{
		"user_id": userID,
		"term":    term,
		"sources": len(e.Sources),
	})
	return e, false, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Explanation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func cleanSources(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, src := range in {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
