// Package groq implementa los puertos de IA contra la API compatible con OpenAI de Groq:
// chat completions (resumen, explicaciones, parseo de medicamentos, OCR con visión)
// y /audio/transcriptions (Whisper).
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"patientpal/internal/platform/httpclient"
	"patientpal/internal/ports/ai"
)

var (
	ErrGroqNotConfigured = fmt.Errorf("groq: %w", ai.ErrNotConfigured)
	ErrGroqUnauthorized  = fmt.Errorf("groq: %w", ai.ErrUnauthorized)
	ErrGroqRateLimited   = fmt.Errorf("groq: %w", ai.ErrRateLimited)
	ErrGroqUpstream      = fmt.Errorf("groq: %w", ai.ErrUpstream)
)

const (
	DefaultBaseURL         = "https://api.groq.com/openai/v1"
	DefaultChatModel       = "llama-3.1-8b-instant"
	DefaultVisionModel     = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultTranscribeModel = "whisper-large-v3"
)

// Config del cliente Groq. Normalmente viene de config.Config.
type Config struct {
	BaseURL string
	APIKey  string

	ChatModel       string
	VisionModel     string
	TranscribeModel string

	Timeout time.Duration
}

type Client struct {
	apiKey string
	cfg    Config
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if strings.TrimSpace(cfg.VisionModel) == "" {
		cfg.VisionModel = DefaultVisionModel
	}
	if strings.TrimSpace(cfg.TranscribeModel) == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("groq: %w", err)
	}

	c := &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		cfg:    cfg,
		http:   hc,
	}
	hc.Headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string o []contentPart (visión)
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat llama a /chat/completions y devuelve el contenido del primer choice.
// jsonMode pide response_format json_object.
func (c *Client) chat(ctx context.Context, model string, messages []chatMessage, jsonMode bool) (string, error) {
	if !c.IsConfigured() {
		return "", ErrGroqNotConfigured
	}

	req := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.2,
	}
	if jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out chatResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/chat/completions", nil, req, &out); err != nil {
		return "", mapErr(err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrGroqUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrGroqUpstream, err)
	}
	st, ok := httpclient.StatusOf(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrGroqUpstream, err)
	}
	switch st {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrGroqUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrGroqRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", ErrGroqUpstream, err)
	}
}

// stripFences quita un bloque ```json ... ``` si el modelo lo agregó.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
