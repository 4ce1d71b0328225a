package groq

import (
	"context"
	"strings"

	"patientpal/internal/ports/ai"

	"github.com/bytedance/sonic"
)


const summarySystemPrompt = `You are a medical assistant helping patients understand their doctor consultations.
Given a transcription of a medical consultation, provide:
1. A concise summary of the key points in plain language
2. A list of medical terms that might be confusing for the patient

Format your response as JSON with the following structure:
{
  "summary": "Clear, concise summary in plain language...",
  "terms": [
    {"term": "medical term 1", "context": "brief context from the consultation"},
    {"term": "medical term 2", "context": "brief context from the consultation"}
  ]
}`

func (c *Client) Summarize(ctx context.Context, transcription string) (ai.Summary, error) {
	content, err := c.chat(ctx, c.cfg.ChatModel, []chatMessage{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: "Please summarize and identify medical terms in this consultation: " + transcription},
	}, true)
	if err != nil {
		return ai.Summary{}, err
	}
	return parseSummary(content), nil
}

func parseSummary(content string) ai.Summary {
	var out ai.Summary
	if err := sonic.UnmarshalString(stripFences(content), &out); err != nil || strings.TrimSpace(out.Summary) == "" {
		// resumen vacío: el servicio de consultas aplica su propio fallback
		return ai.Summary{Terms: []ai.Term{}}
	}
	if out.Terms == nil {
		out.Terms = []ai.Term{}
	}
	return out
}
