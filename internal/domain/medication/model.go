package medication

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MedicationEntry es un medicamento tal como lo escribió el paciente
// (o como lo extrajo el parser). No se modifica una vez agendado.
type MedicationEntry struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`    // "500mg"
	Frequency    string `json:"frequency"` // "twice daily", "every 8 hours"
	Timing       string `json:"timing"`    // "with meals", "in the morning"
	Instructions string `json:"instructions,omitempty"`
}

// Bucket agrupa las tomas por momento del día.
type Bucket string

const (
	BucketMorning   Bucket = "morning"
	BucketAfternoon Bucket = "afternoon"
	BucketEvening   Bucket = "evening"
	BucketNight     Bucket = "night"
)

// Buckets en orden de presentación.
var Buckets = []Bucket{BucketMorning, BucketAfternoon, BucketEvening, BucketNight}

// ClockTime es una hora del día (sin fecha).
type ClockTime struct {
	Hour   int
	Minute int
}

func Clock(h, m int) ClockTime {
	return clockFromMinutes(h*60 + m)
}

func clockFromMinutes(min int) ClockTime {
	min = ((min % minutesPerDay) + minutesPerDay) % minutesPerDay
	return ClockTime{Hour: min / 60, Minute: min % 60}
}

const minutesPerDay = 24 * 60

// Minutes devuelve los minutos desde medianoche.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Bucket clasifica la hora:
// morning [05:00,12:00), afternoon [12:00,17:00), evening [17:00,21:00), night resto.
func (c ClockTime) Bucket() Bucket {
	switch m := c.Minutes(); {
	case m >= 5*60 && m < 12*60:
		return BucketMorning
	case m >= 12*60 && m < 17*60:
		return BucketAfternoon
	case m >= 17*60 && m < 21*60:
		return BucketEvening
	default:
		return BucketNight
	}
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("clock time: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClock acepta "HH:MM" (24h).
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("clock time must be HH:MM: %q", s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ClockOf toma la hora local de t.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// DoseEvent es una toma concreta dentro del día.
type DoseEvent struct {
	Entry      int       `json:"entry"` // índice en la lista de entradas
	Medication string    `json:"medication"`
	Dosage     string    `json:"dosage"`
	Time       ClockTime `json:"time"`
	Bucket     Bucket    `json:"bucket"`
	Note       string    `json:"note,omitempty"` // "with lunch"
	Fallback   bool      `json:"fallback,omitempty"`
}

// Warning es un aviso no fatal (frecuencia no reconocida, etc.).
type Warning struct {
	Entry      int    `json:"entry"`
	Medication string `json:"medication"`
	Message    string `json:"message"`
}

// Schedule es el plan diario completo. Se regenera entero en cada envío.
type Schedule struct {
	Events   []DoseEvent `json:"events"`
	Warnings []Warning   `json:"warnings"`
}

// BucketGroup es un bloque del día con sus tomas ordenadas.
type BucketGroup struct {
	Bucket Bucket      `json:"bucket"`
	Events []DoseEvent `json:"events"`
}

// Groups agrupa los eventos por bucket. Los buckets vacíos se omiten.
func (s Schedule) Groups() []BucketGroup {
	byBucket := map[Bucket][]DoseEvent{}
	for _, e := range s.Events {
		byBucket[e.Bucket] = append(byBucket[e.Bucket], e)
	}

	out := make([]BucketGroup, 0, len(Buckets))
	for _, b := range Buckets {
		if len(byBucket[b]) == 0 {
			continue
		}
		out = append(out, BucketGroup{Bucket: b, Events: byBucket[b]})
	}
	return out
}

// ScheduleRecord es lo que se persiste por usuario.
type ScheduleRecord struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Entries   []MedicationEntry `json:"medications"`
	Schedule  Schedule          `json:"schedule"`
	CreatedAt time.Time         `json:"created_at"`
}
