package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"patientpal/internal/domain/consultations"
)

type consultationRepo struct {
	mu   sync.RWMutex
	byID map[string]consultations.Consultation
}

func NewConsultationRepo() consultations.Repository {
	return &consultationRepo{
		byID: make(map[string]consultations.Consultation),
	}
}

func (r *consultationRepo) Create(ctx context.Context, c consultations.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("consultation id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("consultation already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *consultationRepo) GetByID(ctx context.Context, userID, id string) (consultations.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return consultations.Consultation{}, consultations.ErrNotFound
	}
	return c, nil
}

func (r *consultationRepo) ListByUser(ctx context.Context, userID string) ([]consultations.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]consultations.Consultation, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	// más recientes primero; id como desempate para orden estable
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
