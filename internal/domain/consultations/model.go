package consultations

import (
	"time"

	"patientpal/internal/ports/ai"
)

// Source indica de dónde salió el texto de la consulta.
type Source string

const (
	SourceAudio Source = "audio"
	SourceImage Source = "image"
	SourceText  Source = "text"
)

type Consultation struct {
	ID            string
	UserID        string
	Source        Source
	Transcription string
	Summary       string
	Terms         []ai.Term
	CreatedAt     time.Time
}

// Input es lo que manda el paciente. Se usa el primero presente: audio > imagen > texto.
type Input struct {
	Audio     []byte
	AudioName string

	Image     []byte
	ImageType string // "image/png", "image/jpeg", ...

	Text string
}
