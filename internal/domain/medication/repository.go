package medication

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, rec ScheduleRecord) error
	// Latest devuelve el plan vigente (el último generado) o ErrNotFound.
	Latest(ctx context.Context, userID string) (ScheduleRecord, error)
	ListByUser(ctx context.Context, userID string) ([]ScheduleRecord, error)
}
