package medication

import (
	"regexp"
	"strings"
)

var (
	reBullet = regexp.MustCompile(`^\s*(?:[-*•·]+|\d+[.)])\s*`)
	reDosage = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:mg|mcg|µg|ug|g|ml|iu|units?|tablets?|tabs?|capsules?|caps?|puffs?|drops?|sprays?)\b`)
	reTrim   = regexp.MustCompile(`^[\s,;:.-]+|[\s,;:.-]+$`)
)

// ParseEntry extrae nombre, dosis, frecuencia y timing de una línea libre,
// p.ej. "Metformin 500mg twice daily with meals".
// La frecuencia no reconocida no es error: queda tal cual y Derive la trata como fallback.
func ParseEntry(line string) (MedicationEntry, error) {
	clean := reBullet.ReplaceAllString(strings.TrimSpace(line), "")
	clean = spaces.ReplaceAllString(strings.TrimSpace(clean), " ")
	if clean == "" {
		return MedicationEntry{}, ErrInvalidInput
	}

	var e MedicationEntry
	rest := clean

	if loc := reDosage.FindStringIndex(clean); loc != nil {
		e.Name = trimPunct(clean[:loc[0]])
		e.Dosage = strings.Join(strings.Fields(clean[loc[0]:loc[1]]), "")
		rest = clean[loc[1]:]
	}

	norm := normalize(rest)
	start, end, found := findFrequency(norm)
	if found && len(norm) != len(strings.TrimSpace(rest)) {
		// normalize cambió longitudes (texto no ASCII); trabajamos sobre el normalizado.
		rest = norm
	} else {
		rest = strings.TrimSpace(rest)
	}

	if found {
		if e.Name == "" && e.Dosage == "" {
			e.Name = trimPunct(rest[:start])
		}
		e.Frequency = trimPunct(rest[start:end])
		e.Timing = trimPunct(joinNonEmpty(trimPunct(rest[:start]), trimPunct(rest[end:]), e.Name))
	} else {
		if e.Name == "" && e.Dosage == "" {
			e.Name = trimPunct(rest)
			rest = ""
		}
		// sin frecuencia reconocible: se conserva el texto para el warning de Derive
		e.Frequency = trimPunct(rest)
	}

	if e.Name == "" {
		return MedicationEntry{}, ErrInvalidInput
	}
	return e, nil
}

// ParseEntries parsea una lista de líneas. Las líneas vacías se ignoran.
func ParseEntries(lines []string) ([]MedicationEntry, error) {
	out := make([]MedicationEntry, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		e, err := ParseEntry(l)
		if err != nil {
			return nil, &ParseError{Index: len(out), Entry: strings.TrimSpace(l), Reason: "could not find a medication name"}
		}
		out = append(out, e)
	}
	return out, nil
}

// SplitLines separa el texto del formulario en líneas de medicamentos.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func trimPunct(s string) string {
	return reTrim.ReplaceAllString(s, "")
}

// joinNonEmpty une los fragmentos de timing. skip evita repetir el nombre cuando
// la línea no trae dosis y el nombre quedó antes de la frecuencia.
func joinNonEmpty(before, after, skip string) string {
	parts := make([]string, 0, 2)
	if before != "" && before != skip {
		parts = append(parts, before)
	}
	if after != "" {
		parts = append(parts, after)
	}
	return strings.Join(parts, " ")
}
