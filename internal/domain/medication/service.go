package medication

import (
	"context"
	"errors"
	"strings"
	"time"

	"patientpal/internal/platform/logger"
	"patientpal/internal/ports/ai"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	parser ai.MedicationParser // opcional; si falla se usa ParseEntry
	log    logger.Logger
	window time.Duration
	now    func() time.Time
}

type Options struct {
	Parser         ai.MedicationParser
	Logger         logger.Logger
	ReminderWindow time.Duration
}

func NewService(repo Repository, opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	w := opts.ReminderWindow
	if w <= 0 {
		w = DefaultReminderWindow
	}
	return &Service{
		repo:   repo,
		parser: opts.Parser,
		log:    l,
		window: w,
		now:    time.Now,
	}
}

// Window es la ventana de recordatorios configurada.
func (s *Service) Window() time.Duration {
	return s.window
}

// Generate interpreta el texto libre (una línea por medicamento), arma el plan y lo guarda.
// Texto vacío => plan vacío (no es error).
func (s *Service) Generate(ctx context.Context, userID, text string) (ScheduleRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return ScheduleRecord{}, ErrInvalidInput
	}

	lines := SplitLines(text)
	entries := make([]MedicationEntry, 0, len(lines))
	for i, line := range lines {
		e, err := s.parseLine(ctx, line)
		if err != nil {
			return ScheduleRecord{}, &ParseError{Index: i, Entry: line, Reason: "could not find a medication name"}
		}
		entries = append(entries, e)
	}

	return s.GenerateFromEntries(ctx, userID, entries)
}

// GenerateFromEntries arma el plan a partir de entradas ya estructuradas.
func (s *Service) GenerateFromEntries(ctx context.Context, userID string, entries []MedicationEntry) (ScheduleRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return ScheduleRecord{}, ErrInvalidInput
	}

	sched, err := Derive(entries)
	if err != nil {
		return ScheduleRecord{}, err
	}

	if entries == nil {
		entries = []MedicationEntry{}
	}
	rec := ScheduleRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Entries:   entries,
		Schedule:  sched,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return ScheduleRecord{}, err
	}

	s.log.Info("medication schedule generated", map[string]any{
		"user_id":     userID,
		"schedule_id": rec.ID,
		"medications": len(entries),
		"events":      len(sched.Events),
		"warnings":    len(sched.Warnings),
	})
	return rec, nil
}

// Upcoming devuelve las tomas del plan vigente que vencen dentro de window
// (window <= 0 usa la ventana configurada). Sin plan => lista vacía.
func (s *Service) Upcoming(ctx context.Context, userID string, window time.Duration) ([]Reminder, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	if window <= 0 {
		window = s.window
	}

	rec, err := s.repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Reminder{}, nil
		}
		return nil, err
	}

	return dueReminders(rec.Schedule, s.now(), window), nil
}

// Latest devuelve el plan vigente del usuario o ErrNotFound.
func (s *Service) Latest(ctx context.Context, userID string) (ScheduleRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return ScheduleRecord{}, ErrInvalidInput
	}
	return s.repo.Latest(ctx, userID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]ScheduleRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// parseLine prueba el parser externo (LLM) y cae al parser por reglas.
func (s *Service) parseLine(ctx context.Context, line string) (MedicationEntry, error) {
	if s.parser != nil {
		m, err := s.parser.ParseMedication(ctx, line)
		if err == nil && strings.TrimSpace(m.Name) != "" {
			return MedicationEntry{
				Name:         strings.TrimSpace(m.Name),
				Dosage:       strings.TrimSpace(m.Dosage),
				Frequency:    strings.TrimSpace(m.Frequency),
				Timing:       strings.TrimSpace(m.Timing),
				Instructions: strings.TrimSpace(m.Instructions),
			}, nil
		}
		if err != nil {
			s.log.Warn("medication parser failed, using rules", map[string]any{"error": err.Error()})
		}
	}
	return ParseEntry(line)
}
