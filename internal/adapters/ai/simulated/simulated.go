// Package simulated implementa los puertos de IA sin red. Se usa cuando no hay
// API keys configuradas (modo demo) y en tests end-to-end.
package simulated

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"patientpal/internal/ports/ai"
)

const (
	Transcription = "This is a simulated transcription of a medical consultation. " +
		"The patient has been diagnosed with hypertension and type 2 diabetes. " +
		"The doctor recommends starting on metformin 500mg twice daily and " +
		"lisinopril 10mg once daily in the morning."

	OCRText = "This is a simulated OCR extraction of a medical consultation note.\n" +
		"Diagnosis: Chronic sinusitis\n" +
		"Medications: Fluticasone 50mcg nasal spray, 2 sprays each nostril daily\n" +
		"Amoxicillin 500mg, 1 tablet three times daily for 10 days\n" +
		"Follow-up: 2 weeks"
)

type entry struct {
	explanation string
	source      string
}

var glossary = map[string]entry{
	"hypertension":    {"High blood pressure. The force of blood against your artery walls stays too high, which over time strains the heart and blood vessels.", "https://medlineplus.gov/highbloodpressure.html"},
	"type 2 diabetes": {"A long-term condition where the body does not use insulin well, so sugar builds up in the blood.", "https://medlineplus.gov/diabetestype2.html"},
	"metformin":       {"A medicine that lowers blood sugar in type 2 diabetes. It is usually taken with meals to reduce stomach upset.", "https://medlineplus.gov/druginfo/meds/a696005.html"},
	"lisinopril":      {"A blood pressure medicine (ACE inhibitor) that relaxes blood vessels so the heart pumps more easily.", "https://medlineplus.gov/druginfo/meds/a692051.html"},
	"sinusitis":       {"Swelling of the sinuses, the air spaces behind the forehead and cheeks, often causing a blocked nose and facial pressure.", "https://medlineplus.gov/sinusitis.html"},
	"fluticasone":     {"A steroid nasal spray that reduces swelling inside the nose.", "https://medlineplus.gov/druginfo/meds/a695002.html"},
	"amoxicillin":     {"An antibiotic that treats bacterial infections. Take every dose until the course is finished.", "https://medlineplus.gov/druginfo/meds/a685001.html"},
	"edema":           {"Swelling caused by extra fluid trapped in the body's tissues, often in the feet and ankles.", "https://medlineplus.gov/edema.html"},
	"statin":          {"A medicine that lowers cholesterol in the blood and helps prevent heart attacks and strokes.", "https://medlineplus.gov/statins.html"},
	"cholesterol":     {"A waxy fat in the blood. Too much of it can build up in the arteries.", "https://medlineplus.gov/cholesterol.html"},
}

var reSentence = regexp.MustCompile(`[^.!?]+[.!?]?`)

// AI implementa Transcriber, TextExtractor, Summarizer y Explainer.
type AI struct{}

func New() *AI { return &AI{} }

func (*AI) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return Transcription, ctx.Err()
}

func (*AI) ExtractText(ctx context.Context, image []byte, contentType string) (string, error) {
	return OCRText, ctx.Err()
}

// Summarize arma un resumen con las primeras oraciones y marca los términos del glosario.
func (*AI) Summarize(ctx context.Context, transcription string) (ai.Summary, error) {
	if err := ctx.Err(); err != nil {
		return ai.Summary{}, err
	}

	sentences := reSentence.FindAllString(strings.TrimSpace(transcription), -1)
	var kept []string
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
		if len(kept) == 2 {
			break
		}
	}

	return ai.Summary{
		Summary: "In this consultation: " + strings.Join(kept, " "),
		Terms:   findTerms(transcription, sentences),
	}, nil
}

func (*AI) Explain(ctx context.Context, term, termContext string) (ai.Explanation, error) {
	if err := ctx.Err(); err != nil {
		return ai.Explanation{}, err
	}
	if e, ok := glossary[strings.ToLower(strings.TrimSpace(term))]; ok {
		return ai.Explanation{Explanation: e.explanation, Sources: []string{e.source}}, nil
	}
	return ai.Explanation{
		Explanation: "\"" + strings.TrimSpace(term) + "\" is a medical term from your consultation. Ask your doctor or pharmacist what it means for you.",
		Sources:     []string{"https://medlineplus.gov/"},
	}, nil
}

// findTerms devuelve los términos del glosario presentes en el texto, en orden de aparición.
func findTerms(text string, sentences []string) []ai.Term {
	lower := strings.ToLower(text)

	type hit struct {
		term string
		pos  int
	}
	var hits []hit
	for term := range glossary {
		if i := strings.Index(lower, term); i >= 0 {
			hits = append(hits, hit{term, i})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]ai.Term, 0, len(hits))
	for _, h := range hits {
		out = append(out, ai.Term{Term: h.term, Context: sentenceWith(sentences, h.term)})
	}
	return out
}

func sentenceWith(sentences []string, term string) string {
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), term) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
