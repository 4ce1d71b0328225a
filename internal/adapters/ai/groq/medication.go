package groq

import (
	"context"
	"fmt"
	"strings"

	"patientpal/internal/ports/ai"

	"github.com/bytedance/sonic"
)

const medicationSystemPrompt = `You are a medical assistant helping patients organize their medications.
Extract the structured information from one medication line written by a patient.
Respond with JSON only:
{
  "name": "medication name",
  "dosage": "dose with unit, e.g. 500mg",
  "frequency": "how often, e.g. twice daily, every 8 hours",
  "timing": "timing hints, e.g. with meals, in the morning (empty if none)",
  "instructions": "any other instructions (empty if none)"
}
Keep the frequency in plain English words. Do not invent information that is not in the line.`

func (c *Client) ParseMedication(ctx context.Context, line string) (ai.Medication, error) {
	content, err := c.chat(ctx, c.cfg.ChatModel, []chatMessage{
		{Role: "system", Content: medicationSystemPrompt},
		{Role: "user", Content: line},
	}, true)
	if err != nil {
		return ai.Medication{}, err
	}

	var out ai.Medication
	if err := sonic.UnmarshalString(stripFences(content), &out); err != nil {
		return ai.Medication{}, fmt.Errorf("%w: invalid medication json: %v", ErrGroqUpstream, err)
	}
	if strings.TrimSpace(out.Name) == "" {
		return ai.Medication{}, fmt.Errorf("%w: medication without name", ErrGroqUpstream)
	}
	return out, nil
}
