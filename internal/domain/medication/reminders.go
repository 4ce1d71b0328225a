package medication

import (
	"sort"
	"time"
)

// DefaultReminderWindow es la ventana de "próximas tomas" si no se configura otra.
const DefaultReminderWindow = 60 * time.Minute

// Reminder es una toma que vence dentro de la ventana consultada.
type Reminder struct {
	DoseEvent
	DueAt        time.Time `json:"due_at"`
	DueInMinutes int       `json:"due_in_minutes"`
}

// Due devuelve las tomas cuya hora cae en [now, now+window] sobre el reloj de 24h
// (cruza medianoche). No guarda estado: se recalcula en cada llamada.
func Due(s Schedule, now time.Time, window time.Duration) []DoseEvent {
	rem := dueReminders(s, now, window)
	out := make([]DoseEvent, 0, len(rem))
	for _, r := range rem {
		out = append(out, r.DoseEvent)
	}
	return out
}

func dueReminders(s Schedule, now time.Time, window time.Duration) []Reminder {
	out := make([]Reminder, 0)
	if window < 0 {
		return out
	}

	start := now.Truncate(time.Minute)
	nowMin := ClockOf(now).Minutes()
	windowMin := int(window / time.Minute)

	for _, e := range s.Events {
		delta := (e.Time.Minutes() - nowMin + minutesPerDay) % minutesPerDay
		if delta > windowMin {
			continue
		}
		out = append(out, Reminder{
			DoseEvent:    e,
			DueAt:        start.Add(time.Duration(delta) * time.Minute),
			DueInMinutes: delta,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueInMinutes < out[j].DueInMinutes
	})
	return out
}
