package medication

import (
	"regexp"
	"strconv"
	"strings"
)

// Tabla de horarios por defecto según cantidad de tomas diarias.
// Desde 5 tomas se reparte el día en intervalos iguales a partir de las 08:00.
var defaultTimes = map[int][]ClockTime{
	1: {Clock(8, 0)},
	2: {Clock(8, 0), Clock(20, 0)},
	3: {Clock(8, 0), Clock(14, 0), Clock(20, 0)},
	4: {Clock(8, 0), Clock(12, 0), Clock(16, 0), Clock(20, 0)},
}

var (
	firstDose   = Clock(8, 0)
	bedtimeDose = Clock(22, 0)

	// FallbackTime es la hora usada cuando no se entiende la frecuencia.
	FallbackTime = Clock(8, 0)
)

const maxDosesPerDay = 24

// frequency es el resultado de clasificar el texto de frecuencia.
type frequency struct {
	times []ClockTime
	// interval: las tomas van separadas por un intervalo fijo ("every 8 hours").
	interval bool
}

type frequencyRule struct {
	re *regexp.Regexp
	// build recibe los submatches; ok=false si el match no es utilizable (p.ej. "every 0 hours").
	build func(m []string) (frequency, bool)
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
}

// El orden importa: las reglas más específicas primero ("twice daily" antes que "daily").
var frequencyRules = []frequencyRule{
	{
		re: regexp.MustCompile(`\b(?:every|each|q)\s*(\d{1,2})\s*(?:hours?|hrs?|h)\b`),
		build: func(m []string) (frequency, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 || n > 24 {
				return frequency{}, false
			}
			return frequency{times: spread(24/n, n*60), interval: true}, true
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{1,2}|one|two|three|four|five|six)\s*(?:times|x)\s*(?:a|per|each|every|/)?\s*(?:day|daily)\b`),
		build: func(m []string) (frequency, bool) {
			return countedDoses(m[1])
		},
	},
	{
		re: regexp.MustCompile(`\bonce\s*(?:a|per|each|every)?\s*(?:day|daily)\b`),
		build: fixed(1),
	},
	{
		re: regexp.MustCompile(`\btwice\s*(?:a|per|each|every)?\s*(?:day|daily)\b`),
		build: fixed(2),
	},
	{
		re: regexp.MustCompile(`\bthrice\s*(?:a|per|each|every)?\s*(?:day|daily)\b`),
		build: fixed(3),
	},
	{
		re: regexp.MustCompile(`\b(?:at\s+bedtime|before\s+bed(?:time)?|nightly|every\s+night|each\s+night|qhs)\b`),
		build: func([]string) (frequency, bool) {
			return frequency{times: []ClockTime{bedtimeDose}}, true
		},
	},
	{re: regexp.MustCompile(`\b(?:bid|b\.i\.d)\b`), build: fixed(2)},
	{re: regexp.MustCompile(`\b(?:tid|t\.i\.d)\b`), build: fixed(3)},
	{re: regexp.MustCompile(`\b(?:qid|q\.i\.d)\b`), build: fixed(4)},
	{re: regexp.MustCompile(`\b(?:qd|od|q\.d)\b`), build: fixed(1)},
	{
		re:    regexp.MustCompile(`\b(?:daily|every\s+day|each\s+day|every\s+(?:morning|evening)|each\s+(?:morning|evening)|a\s+day|per\s+day)\b`),
		build: fixed(1),
	},
}

func fixed(n int) func([]string) (frequency, bool) {
	return func([]string) (frequency, bool) {
		return frequency{times: timesFor(n)}, true
	}
}

func countedDoses(raw string) (frequency, bool) {
	n, ok := numberWords[raw]
	if !ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return frequency{}, false
		}
		n = v
	}
	if n <= 0 || n > maxDosesPerDay {
		return frequency{}, false
	}
	return frequency{times: timesFor(n)}, true
}

// timesFor devuelve los horarios por defecto para n tomas diarias.
func timesFor(n int) []ClockTime {
	if t, ok := defaultTimes[n]; ok {
		out := make([]ClockTime, len(t))
		copy(out, t)
		return out
	}
	return spread(n, minutesPerDay/n)
}

// spread genera n tomas separadas stepMin minutos desde la primera toma del día.
func spread(n, stepMin int) []ClockTime {
	out := make([]ClockTime, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, clockFromMinutes(firstDose.Minutes()+k*stepMin))
	}
	return out
}

// Frecuencias que no son diarias ("once weekly", "every other day"). No se agendan
// como diarias: caen al horario de respaldo con Warning.
var (
	reNonDaily = regexp.MustCompile(`\b(?:weeks?|weekly|biweekly|fortnight(?:ly)?|months?|monthly|years?|yearly|annually|other\s+days?|alternate\s+days?|every\s+(?:\d+|two|three|four|five|six|seven)\s+days)\b`)
	// "for 10 days", "for 2 weeks" es duración del tratamiento, no frecuencia.
	reDuration = regexp.MustCompile(`\bfor\s+(?:\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|several|a\s+few)\s+(?:days?|weeks?|months?)\b`)
)

func nonDaily(norm string) bool {
	return reNonDaily.MatchString(reDuration.ReplaceAllString(norm, " "))
}

// classifyFrequency interpreta el texto de frecuencia.
func classifyFrequency(s string) (frequency, bool) {
	norm := normalize(s)
	if norm == "" || nonDaily(norm) {
		return frequency{}, false
	}
	for _, rule := range frequencyRules {
		m := rule.re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if f, ok := rule.build(m); ok {
			return f, true
		}
	}
	return frequency{}, false
}

// findFrequency devuelve la posición [start,end) de la primera frase de frecuencia
// reconocida en s (ya normalizado).
func findFrequency(norm string) (int, int, bool) {
	if nonDaily(norm) {
		return 0, 0, false
	}
	for _, rule := range frequencyRules {
		loc := rule.re.FindStringSubmatchIndex(norm)
		if loc == nil {
			continue
		}
		m := make([]string, 0, len(loc)/2)
		for i := 0; i+1 < len(loc); i += 2 {
			if loc[i] < 0 {
				m = append(m, "")
				continue
			}
			m = append(m, norm[loc[i]:loc[i+1]])
		}
		if _, ok := rule.build(m); ok {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

var spaces = regexp.MustCompile(`\s+`)

// normalize pasa a minúsculas y colapsa espacios. Mantiene la longitud en bytes
// de las letras ASCII para que los índices sigan sirviendo sobre el texto original.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return spaces.ReplaceAllString(s, " ")
}
