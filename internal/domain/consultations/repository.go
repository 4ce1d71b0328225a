package consultations

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, c Consultation) error
	// GetByID devuelve ErrNotFound también si la consulta es de otro usuario.
	GetByID(ctx context.Context, userID, id string) (Consultation, error)
	// ListByUser devuelve las consultas del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Consultation, error)
}
