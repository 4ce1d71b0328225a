// Package history junta lo guardado para un usuario: consultas, planes de medicación
// y explicaciones de términos.
package history

import (
	"context"
	"fmt"

	"patientpal/internal/domain/consultations"
	"patientpal/internal/domain/medication"
	"patientpal/internal/domain/terms"
)

type ConsultationLister interface {
	ListByUser(ctx context.Context, userID string) ([]consultations.Consultation, error)
}

type ScheduleLister interface {
	ListByUser(ctx context.Context, userID string) ([]medication.ScheduleRecord, error)
}

type ExplanationLister interface {
	ListByUser(ctx context.Context, userID string) ([]terms.Explanation, error)
}

type History struct {
	Consultations []consultations.Consultation
	Schedules     []medication.ScheduleRecord
	Explanations  []terms.Explanation
}

type Service struct {
	consultations ConsultationLister
	schedules     ScheduleLister
	explanations  ExplanationLister
}

func NewService(c ConsultationLister, s ScheduleLister, e ExplanationLister) *Service {
	return &Service{consultations: c, schedules: s, explanations: e}
}

func (s *Service) ForUser(ctx context.Context, userID string) (History, error) {
	var (
		h   History
		err error
	)
	if h.Consultations, err = s.consultations.ListByUser(ctx, userID); err != nil {
		return History{}, fmt.Errorf("consultations: %w", err)
	}
	if h.Schedules, err = s.schedules.ListByUser(ctx, userID); err != nil {
		return History{}, fmt.Errorf("schedules: %w", err)
	}
	if h.Explanations, err = s.explanations.ListByUser(ctx, userID); err != nil {
		return History{}, fmt.Errorf("explanations: %w", err)
	}
	return h, nil
}
