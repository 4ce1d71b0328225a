// Package ai define los servicios externos que la app consume como cajas negras:
// transcripción, OCR, resumen, explicación de términos y parseo de medicamentos.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured: falta API key / base URL del proveedor.
	ErrNotConfigured = errors.New("service not configured")
	ErrUnauthorized  = errors.New("service rejected credentials")
	ErrRateLimited   = errors.New("service rate limit reached")
	ErrUpstream      = errors.New("service upstream error")
)

// Transcriber convierte audio en texto.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// TextExtractor extrae texto de una imagen (OCR).
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, contentType string) (string, error)
}

type Term struct {
	Term    string `json:"term"`
	Context string `json:"context"`
}

type Summary struct {
	Summary string `json:"summary"`
	Terms   []Term `json:"terms"`
}

// Summarizer resume la consulta e identifica términos médicos.
type Summarizer interface {
	Summarize(ctx context.Context, transcription string) (Summary, error)
}

type Explanation struct {
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// Explainer explica un término en lenguaje simple (RAG).
type Explainer interface {
	Explain(ctx context.Context, term, context string) (Explanation, error)
}

// Medication es la salida del parser de medicamentos.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Timing       string `json:"timing"`
	Instructions string `json:"instructions"`
}

// MedicationParser interpreta una línea libre de medicamento.
type MedicationParser interface {
	ParseMedication(ctx context.Context, line string) (Medication, error)
}

// Document es un resultado de búsqueda web usado como contexto (RAG).
type Document struct {
	Title   string
	URL     string
	Content string
}

// Searcher busca documentos en la web.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}
