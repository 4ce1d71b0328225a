package terms

import "time"

// Explanation es la explicación en lenguaje simple de un término médico.
type Explanation struct {
	ID          string
	UserID      string
	Term        string
	Context     string // frase de la consulta donde apareció el término
	Explanation string
	Sources     []string
	CreatedAt   time.Time
}
