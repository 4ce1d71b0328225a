package groq

import (
	"context"
	"fmt"
	"strings"

	"patientpal/internal/platform/httpclient"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe manda el audio a Whisper (/audio/transcriptions).
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrGroqNotConfigured
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", ErrGroqUpstream)
	}
	if strings.TrimSpace(filename) == "" {
		filename = "consultation.wav"
	}

	var out transcriptionResponse
	err := c.http.DoMultipart(ctx, "/audio/transcriptions", nil,
		map[string]string{
			"model":           c.cfg.TranscribeModel,
			"response_format": "json",
			"temperature":     "0",
		},
		httpclient.FilePart{Field: "file", Filename: filename, Data: audio},
		&out,
	)
	if err != nil {
		return "", mapErr(err)
	}
	return strings.TrimSpace(out.Text), nil
}
