package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"patientpal/internal/domain/medication"
)

// scheduleRepo guarda los planes por usuario en orden de creación.
// El último es el plan vigente.
type scheduleRepo struct {
	mu     sync.RWMutex
	byUser map[string][]medication.ScheduleRecord
}

func NewScheduleRepo() medication.Repository {
	return &scheduleRepo{
		byUser: make(map[string][]medication.ScheduleRecord),
	}
}

func (r *scheduleRepo) Create(ctx context.Context, rec medication.ScheduleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("schedule id required")
	}
	r.byUser[rec.UserID] = append(r.byUser[rec.UserID], rec)
	return nil
}

func (r *scheduleRepo) Latest(ctx context.Context, userID string) (medication.ScheduleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	if len(list) == 0 {
		return medication.ScheduleRecord{}, medication.ErrNotFound
	}
	return list[len(list)-1], nil
}

func (r *scheduleRepo) ListByUser(ctx context.Context, userID string) ([]medication.ScheduleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	out := make([]medication.ScheduleRecord, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
