package ai

import (
	"context"
	"errors"
	"fmt"
)

// UserMessage traduce un error de un servicio externo a un mensaje para el paciente.
// service es el nombre visible ("transcription", "summary", ...).
func UserMessage(service string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return fmt.Sprintf("The %s service is not configured. Please set its API key.", service)
	case errors.Is(err, ErrUnauthorized):
		return fmt.Sprintf("The %s service rejected our credentials. Please check the API key.", service)
	case errors.Is(err, ErrRateLimited):
		return fmt.Sprintf("The %s service is busy right now (rate limit). Please try again in a moment.", service)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("The %s service took too long to answer. Please try again.", service)
	default:
		return fmt.Sprintf("The %s service is unavailable right now. Please try again.", service)
	}
}
