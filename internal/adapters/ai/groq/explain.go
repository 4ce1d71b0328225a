package groq

import (
	"context"
	"fmt"
	"strings"

	"patientpal/internal/platform/logger"
	"patientpal/internal/ports/ai"

	"github.com/bytedance/sonic"
)

// FallbackExplanation se devuelve cuando el modelo no responde JSON válido.
const FallbackExplanation = "Failed to generate explanation. Please try again."

const (
	defaultSearchLimit = 3
	maxDocChars        = 1500
)

const explainSystemPrompt = `You are a helpful medical assistant explaining medical terms in simple language.
Provide a clear, concise explanation that would be understandable to someone without medical training.
Include a simple definition, why it's relevant to the patient, and any key information they should know.

Format your response as JSON with the following structure:
{
  "explanation": "Simple explanation in plain language...",
  "sources": ["Mayo Clinic", "MedlinePlus"]
}`

// Explainer explica términos con RAG: busca en la web y pasa los documentos al LLM.
// Sin Searcher (o si la búsqueda falla) pregunta directo al LLM.
type Explainer struct {
	client *Client
	search ai.Searcher
	limit  int
	log    logger.Logger
}

func NewExplainer(c *Client, search ai.Searcher, limit int, log logger.Logger) *Explainer {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Explainer{client: c, search: search, limit: limit, log: log}
}

func (e *Explainer) Explain(ctx context.Context, term, termContext string) (ai.Explanation, error) {
	if !e.client.IsConfigured() {
		return ai.Explanation{}, ErrGroqNotConfigured
	}

	docs := e.retrieve(ctx, term)

	user := fmt.Sprintf("Please explain the medical term '%s'", term)
	if strings.TrimSpace(termContext) != "" {
		user += fmt.Sprintf(" in this context: '%s'", termContext)
	}
	if len(docs) > 0 {
		user += "\n\nUse these reference documents and cite their URLs as sources:\n" + formatDocs(docs)
	}

	content, err := e.client.chat(ctx, e.client.cfg.ChatModel, []chatMessage{
		{Role: "system", Content: explainSystemPrompt},
		{Role: "user", Content: user},
	}, true)
	if err != nil {
		return ai.Explanation{}, err
	}

	out := parseExplanation(content)
	if len(out.Sources) == 0 && out.Explanation != FallbackExplanation {
		for _, d := range docs {
			out.Sources = append(out.Sources, d.URL)
		}
	}
	return out, nil
}

func (e *Explainer) retrieve(ctx context.Context, term string) []ai.Document {
	if e.search == nil {
		return nil
	}
	docs, err := e.search.Search(ctx, term+" medical term meaning for patients", e.limit)
	if err != nil {
		e.log.Warn("term search failed, asking the model directly", map[string]any{
			"term":  term,
			"error": err.Error(),
		})
		return nil
	}
	return docs
}

func formatDocs(docs []ai.Document) string {
	var b strings.Builder
	for i, d := range docs {
		content := strings.TrimSpace(d.Content)
		if r := []rune(content); len(r) > maxDocChars {
			content = string(r[:maxDocChars])
		}
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i+1, d.Title, d.URL, content)
	}
	return strings.TrimSpace(b.String())
}

func parseExplanation(content string) ai.Explanation {
	var out ai.Explanation
	if err := sonic.UnmarshalString(stripFences(content), &out); err != nil || strings.TrimSpace(out.Explanation) == "" {
		return ai.Explanation{Explanation: FallbackExplanation, Sources: []string{}}
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	return out
}
