package terms

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, e Explanation) error
	// FindByTerm busca sin distinguir mayúsculas y devuelve la más reciente, o ErrNotFound.
	FindByTerm(ctx context.Context, userID, term string) (Explanation, error)
	// ListByUser devuelve las explicaciones del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Explanation, error)
}
