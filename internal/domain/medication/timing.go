package medication

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// anchor es una hora "preferida" que sale de la indicación de horario.
type anchor struct {
	at   ClockTime
	note string
	pos  int
}

var mealTimes = map[string]ClockTime{
	"breakfast": Clock(8, 0),
	"lunch":     Clock(12, 0),
	"dinner":    Clock(18, 0),
	"supper":    Clock(18, 0),
}

// Comidas que se usan para "with meals" según la cantidad de tomas.
var mealSlots = map[int][]string{
	1: {"breakfast"},
	2: {"lunch", "dinner"},
	3: {"breakfast", "lunch", "dinner"},
}

var timeOfDay = map[string]ClockTime{
	"morning":   Clock(8, 0),
	"noon":      Clock(12, 0),
	"midday":    Clock(12, 0),
	"afternoon": Clock(14, 0),
	"evening":   Clock(18, 0),
	"night":     Clock(22, 0),
	"bedtime":   Clock(22, 0),
}

const mealOffsetMin = 30

var (
	reMealSet      = regexp.MustCompile(`\b(with|before|after)\s+(?:a\s+|each\s+|every\s+)?(?:meals?|food|eating)\b`)
	reEmptyStomach = regexp.MustCompile(`\bon\s+an?\s+empty\s+stomach\b`)
	reMeals        = regexp.MustCompile(`\b(with|before|after)\s+((?:breakfast|lunch|dinner|supper)(?:\s*(?:,|and|&|or)\s*(?:breakfast|lunch|dinner|supper))*)\b`)
	reMealWord     = regexp.MustCompile(`breakfast|lunch|dinner|supper`)
	reTimeOfDay    = regexp.MustCompile(`\b(morning|noon|midday|afternoon|evening|night|bedtime)\b`)
	reClock12      = regexp.MustCompile(`\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	reClock24      = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// timingAnchors extrae las horas preferidas del texto. n es la cantidad de tomas
// (se usa para decidir qué comidas aplican en "with meals").
func timingAnchors(text string, n int) []anchor {
	norm := normalize(text)
	if norm == "" {
		return nil
	}

	// "with meals" manda: reparte las tomas entre las comidas.
	if m := reMealSet.FindStringSubmatch(norm); m != nil {
		return mealSetAnchors(m[1], n)
	}
	if reEmptyStomach.MatchString(norm) {
		return mealSetAnchors("before", n)
	}

	var out []anchor
	consumed := make([]bool, len(norm))
	mark := func(a, b int) {
		for i := a; i < b && i < len(consumed); i++ {
			consumed[i] = true
		}
	}
	free := func(a, b int) bool {
		for i := a; i < b && i < len(consumed); i++ {
			if consumed[i] {
				return false
			}
		}
		return true
	}

	for _, loc := range reMeals.FindAllStringSubmatchIndex(norm, -1) {
		prep := norm[loc[2]:loc[3]]
		list := norm[loc[4]:loc[5]]
		for _, w := range reMealWord.FindAllStringIndex(list, -1) {
			meal := list[w[0]:w[1]]
			out = append(out, mealAnchor(prep, meal, loc[4]+w[0]))
		}
		mark(loc[0], loc[1])
	}

	for _, loc := range reClock12.FindAllStringSubmatchIndex(norm, -1) {
		h, _ := strconv.Atoi(norm[loc[2]:loc[3]])
		if h < 1 || h > 12 {
			continue
		}
		min := 0
		if loc[4] >= 0 {
			min, _ = strconv.Atoi(norm[loc[4]:loc[5]])
		}
		if norm[loc[6]:loc[7]] == "pm" && h != 12 {
			h += 12
		}
		if norm[loc[6]:loc[7]] == "am" && h == 12 {
			h = 0
		}
		out = append(out, anchor{at: Clock(h, min), pos: loc[0]})
		mark(loc[0], loc[1])
	}

	for _, loc := range reClock24.FindAllStringSubmatchIndex(norm, -1) {
		if !free(loc[0], loc[1]) {
			continue
		}
		h, _ := strconv.Atoi(norm[loc[2]:loc[3]])
		min, _ := strconv.Atoi(norm[loc[4]:loc[5]])
		out = append(out, anchor{at: Clock(h, min), pos: loc[0]})
		mark(loc[0], loc[1])
	}

	for _, loc := range reTimeOfDay.FindAllStringSubmatchIndex(norm, -1) {
		if !free(loc[0], loc[1]) {
			continue
		}
		word := norm[loc[2]:loc[3]]
		a := anchor{at: timeOfDay[word], pos: loc[0]}
		if word == "bedtime" {
			a.note = "at bedtime"
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return dedupeAnchors(out)
}

func mealSetAnchors(prep string, n int) []anchor {
	slots, ok := mealSlots[n]
	if !ok {
		slots = mealSlots[3]
	}
	out := make([]anchor, 0, len(slots))
	for i, meal := range slots {
		out = append(out, mealAnchor(prep, meal, i))
	}
	return out
}

func mealAnchor(prep, meal string, pos int) anchor {
	at := mealTimes[meal]
	switch prep {
	case "before":
		at = clockFromMinutes(at.Minutes() - mealOffsetMin)
	case "after":
		at = clockFromMinutes(at.Minutes() + mealOffsetMin)
	}
	return anchor{at: at, note: prep + " " + meal, pos: pos}
}

func dedupeAnchors(in []anchor) []anchor {
	seen := map[int]struct{}{}
	out := make([]anchor, 0, len(in))
	for _, a := range in {
		if _, ok := seen[a.at.Minutes()]; ok {
			continue
		}
		seen[a.at.Minutes()] = struct{}{}
		out = append(out, a)
	}
	return out
}

// applyAnchors mueve, para cada anchor, la toma libre más cercana a esa hora.
// Los anchors que sobran (más anchors que tomas) se ignoran.
func applyAnchors(times []ClockTime, anchors []anchor) ([]ClockTime, []string) {
	outTimes := make([]ClockTime, len(times))
	copy(outTimes, times)
	notes := make([]string, len(times))
	taken := make([]bool, len(times))

	for _, a := range anchors {
		best := -1
		bestDist := 0
		for i, t := range times {
			if taken[i] {
				continue
			}
			d := circularDistance(t.Minutes(), a.at.Minutes())
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		outTimes[best] = a.at
		notes[best] = strings.TrimSpace(a.note)
	}
	return outTimes, notes
}

// alignInterval corre la serie completa para que la toma más cercana al primer
// anchor caiga sobre él. El intervalo entre tomas no cambia; el resto de los anchors se ignora.
func alignInterval(times []ClockTime, anchors []anchor) ([]ClockTime, []string) {
	outTimes := make([]ClockTime, len(times))
	copy(outTimes, times)
	notes := make([]string, len(times))
	if len(anchors) == 0 || len(times) == 0 {
		return outTimes, notes
	}

	a := anchors[0]
	best := 0
	for i, t := range times {
		if circularDistance(t.Minutes(), a.at.Minutes()) < circularDistance(times[best].Minutes(), a.at.Minutes()) {
			best = i
		}
	}
	shift := a.at.Minutes() - times[best].Minutes()
	for i, t := range times {
		outTimes[i] = clockFromMinutes(t.Minutes() + shift)
	}
	notes[best] = strings.TrimSpace(a.note)
	return outTimes, notes
}

func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if minutesPerDay-d < d {
		return minutesPerDay - d
	}
	return d
}
