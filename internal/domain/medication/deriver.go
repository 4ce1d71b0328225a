package medication

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// ParseError indica qué entrada no se pudo interpretar.
type ParseError struct {
	Index  int
	Entry  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("medication #%d (%q): %s", e.Index+1, e.Entry, e.Reason)
}

// Derive arma el plan diario para las entradas dadas.
//
// Cada entrada con frecuencia reconocida produce exactamente N tomas (N = tomas por día).
// Si la frecuencia no se entiende, se agenda una sola toma (FallbackTime o la hora que
// indique el timing) y se agrega un Warning. Es determinista: misma entrada, misma salida.
func Derive(entries []MedicationEntry) (Schedule, error) {
	s := Schedule{
		Events:   []DoseEvent{},
		Warnings: []Warning{},
	}

	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return Schedule{}, &ParseError{Index: i, Entry: describe(e), Reason: "missing medication name"}
		}
		dosage := strings.TrimSpace(e.Dosage)

		freq, recognized := classifyFrequency(e.Frequency)
		times := freq.times
		if !recognized {
			times = []ClockTime{FallbackTime}
		}

		hints := strings.Join([]string{e.Frequency, e.Timing, e.Instructions}, " ")
		anchors := timingAnchors(hints, len(times))
		var notes []string
		if freq.interval {
			times, notes = alignInterval(times, anchors)
		} else {
			times, notes = applyAnchors(times, anchors)
		}

		for k, t := range times {
			s.Events = append(s.Events, DoseEvent{
				Entry:      i,
				Medication: name,
				Dosage:     dosage,
				Time:       t,
				Bucket:     t.Bucket(),
				Note:       notes[k],
				Fallback:   !recognized,
			})
		}

		if !recognized {
			s.Warnings = append(s.Warnings, Warning{
				Entry:      i,
				Medication: name,
				Message:    fallbackMessage(e.Frequency, times[0]),
			})
		}
	}

	sort.SliceStable(s.Events, func(i, j int) bool {
		a, b := s.Events[i], s.Events[j]
		if a.Time.Minutes() != b.Time.Minutes() {
			return a.Time.Minutes() < b.Time.Minutes()
		}
		return a.Entry < b.Entry
	})

	return s, nil
}

func fallbackMessage(freq string, at ClockTime) string {
	freq = strings.TrimSpace(freq)
	if freq == "" {
		return fmt.Sprintf("no frequency given; scheduled once at %s, please check with your doctor or pharmacist", at)
	}
	return fmt.Sprintf("could not understand frequency %q; scheduled once at %s, please check with your doctor or pharmacist", freq, at)
}

func describe(e MedicationEntry) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.Name, e.Dosage, e.Frequency, e.Timing} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
