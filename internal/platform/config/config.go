// Package config carga la configuración del servicio desde defaults, un .env opcional
// y variables de entorno (en ese orden de menor a mayor prioridad).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	AppName   string

	// DBDSN: "postgres://..." usa pgx; "sqlite:<path>" usa sqlite3. Vacío => memoria.
	DBDSN string

	GroqAPIKey           string
	GroqBaseURL          string
	GroqChatModel        string
	GroqVisionModel      string
	GroqTranscribeModel  string
	FirecrawlAPIKey      string
	FirecrawlBaseURL     string
	Mem0APIKey           string
	Mem0BaseURL          string
	ReminderWindow       time.Duration
	HTTPTimeout          time.Duration
	SearchResultsPerTerm int
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "text",
	"APP_NAME":                "patientpal",
	"DB_DSN":                  "",
	"GROQ_API_KEY":            "",
	"GROQ_BASE_URL":           "https://api.groq.com/openai/v1",
	"GROQ_CHAT_MODEL":         "llama-3.1-8b-instant",
	"GROQ_VISION_MODEL":       "meta-llama/llama-4-scout-17b-16e-instruct",
	"GROQ_TRANSCRIBE_MODEL":   "whisper-large-v3",
	"FIRECRAWL_API_KEY":       "",
	"FIRECRAWL_BASE_URL":      "https://api.firecrawl.dev",
	"MEM0_API_KEY":            "",
	"MEM0_BASE_URL":           "https://api.mem0.ai",
	"REMINDER_WINDOW":         "60m",
	"HTTP_TIMEOUT":            "60s",
	"SEARCH_RESULTS_PER_TERM": 3,
}

// Load arma la config. envFile es opcional (p.ej. ".env"); si no existe se ignora.
func Load(envFile string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("dotenv")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:                 strings.TrimSpace(v.GetString("PORT")),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		AppName:              v.GetString("APP_NAME"),
		DBDSN:                strings.TrimSpace(v.GetString("DB_DSN")),
		GroqAPIKey:           strings.TrimSpace(v.GetString("GROQ_API_KEY")),
		GroqBaseURL:          v.GetString("GROQ_BASE_URL"),
		GroqChatModel:        v.GetString("GROQ_CHAT_MODEL"),
		GroqVisionModel:      v.GetString("GROQ_VISION_MODEL"),
		GroqTranscribeModel:  v.GetString("GROQ_TRANSCRIBE_MODEL"),
		FirecrawlAPIKey:      strings.TrimSpace(v.GetString("FIRECRAWL_API_KEY")),
		FirecrawlBaseURL:     v.GetString("FIRECRAWL_BASE_URL"),
		Mem0APIKey:           strings.TrimSpace(v.GetString("MEM0_API_KEY")),
		Mem0BaseURL:          v.GetString("MEM0_BASE_URL"),
		SearchResultsPerTerm: v.GetInt("SEARCH_RESULTS_PER_TERM"),
	}

	var err error
	if cfg.ReminderWindow, err = parseDuration(v, "REMINDER_WINDOW"); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = parseDuration(v, "HTTP_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SearchResultsPerTerm <= 0 {
		cfg.SearchResultsPerTerm = 3
	}
	return cfg, nil
}

// parseDuration acepta "90m", "1h" o minutos pelados ("60").
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err == nil && fmt.Sprint(n) == raw {
		return time.Duration(n) * time.Minute, nil
	}
	return 0, fmt.Errorf("%s must be a duration like 60m: %q", key, raw)
}

// Addr devuelve ":<port>".
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
