package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"patientpal/internal/domain/terms"
)

type explanationRepo struct {
	mu     sync.RWMutex
	byUser map[string][]terms.Explanation
}

func NewExplanationRepo() terms.Repository {
	return &explanationRepo{
		byUser: make(map[string][]terms.Explanation),
	}
}

func (r *explanationRepo) Create(ctx context.Context, e terms.Explanation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("explanation id required")
	}
	r.byUser[e.UserID] = append(r.byUser[e.UserID], e)
	return nil
}

func (r *explanationRepo) FindByTerm(ctx context.Context, userID, term string) (terms.Explanation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	for i := len(list) - 1; i >= 0; i-- {
		if strings.EqualFold(list[i].Term, strings.TrimSpace(term)) {
			return list[i], nil
		}
	}
	return terms.Explanation{}, terms.ErrNotFound
}

func (r *explanationRepo) ListByUser(ctx context.Context, userID string) ([]terms.Explanation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	out := make([]terms.Explanation, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
