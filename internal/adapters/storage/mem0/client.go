// Package mem0 guarda los registros de la app como memorias en Mem0 (memoria como servicio).
// Cada registro es una memoria del usuario con el JSON completo en metadata.
package mem0

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"patientpal/internal/platform/httpclient"
	"patientpal/internal/ports/ai"

	"github.com/bytedance/sonic"
)

var (
	ErrMem0NotConfigured = fmt.Errorf("mem0: %w", ai.ErrNotConfigured)
	ErrMem0Upstream      = fmt.Errorf("mem0: %w", ai.ErrUpstream)
)

const (
	DefaultBaseURL = "https://api.mem0.ai"

	memoriesPath = "/v1/memories/"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	apiKey string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("mem0: %w", err)
	}
	c := &Client{apiKey: strings.TrimSpace(cfg.APIKey), http: hc}
	hc.Headers = map[string]string{"Authorization": "Token " + c.apiKey}
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// Memory es una memoria tal como la devuelve la API.
type Memory struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type addRequest struct {
	Messages []message     `json:"messages"`
	UserID   string         `json:"user_id"`
	Metadata map[string]any `json:"metadata"`
	// infer=false guarda el mensaje tal cual, sin extracción por LLM.
	Infer bool `json:"infer"`
}

// Add guarda una memoria para el usuario.
func (c *Client) Add(ctx context.Context, userID, text string, metadata map[string]any) error {
	if !c.IsConfigured() {
		return ErrMem0NotConfigured
	}
	req := addRequest{
		Messages: []message{{Role: "user", Content: text}},
		UserID:   userID,
		Metadata: metadata,
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, memoriesPath, nil, req, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrMem0Upstream, err)
	}
	return nil
}

// List devuelve todas las memorias del usuario.
func (c *Client) List(ctx context.Context, userID string) ([]Memory, error) {
	if !c.IsConfigured() {
		return nil, ErrMem0NotConfigured
	}

	var raw json.RawMessage
	path := memoriesPath + "?user_id=" + url.QueryEscape(userID)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMem0Upstream, err)
	}
	return decodeMemories(raw)
}

// decodeMemories acepta una lista pelada o {"results": [...]} (según versión de la API).
func decodeMemories(raw []byte) ([]Memory, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []Memory{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var out []Memory
		if err := sonic.UnmarshalString(trimmed, &out); err != nil {
			return nil, fmt.Errorf("%w: decode memories: %v", ErrMem0Upstream, err)
		}
		return out, nil
	}

	var wrapped struct {
		Results []Memory `json:"results"`
	}
	if err := sonic.UnmarshalString(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode memories: %v", ErrMem0Upstream, err)
	}
	if wrapped.Results == nil {
		return []Memory{}, nil
	}
	return wrapped.Results, nil
}
