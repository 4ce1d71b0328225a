package mem0

import (
	"context"
	"sort"
	"strings"

	"patientpal/internal/domain/consultations"
	"patientpal/internal/domain/medication"
	"patientpal/internal/domain/terms"

	"github.com/bytedance/sonic"
)

// -------------------------
// Consultations
// -------------------------

type ConsultationsRepo struct {
	store recordStore
}

func NewConsultationsRepo(c *Client) *ConsultationsRepo {
	return &ConsultationsRepo{store: recordStore{c: c, kind: "consultation"}}
}

func (r *ConsultationsRepo) Create(ctx context.Context, c consultations.Consultation) error {
	return r.store.put(ctx, c.UserID, c.ID, "Consultation summary: "+c.Summary, c)
}

func (r *ConsultationsRepo) GetByID(ctx context.Context, userID, id string) (consultations.Consultation, error) {
	list, err := r.ListByUser(ctx, userID)
	if err != nil {
		return consultations.Consultation{}, err
	}
	for _, c := range list {
		if c.ID == id {
			return c, nil
		}
	}
	return consultations.Consultation{}, consultations.ErrNotFound
}

func (r *ConsultationsRepo) ListByUser(ctx context.Context, userID string) ([]consultations.Consultation, error) {
	raws, err := r.store.payloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]consultations.Consultation, 0, len(raws))
	for _, raw := range raws {
		var c consultations.Consultation
		if err := sonic.UnmarshalString(raw, &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// -------------------------
// Medication schedules
// -------------------------

type SchedulesRepo struct {
	store recordStore
}

func NewSchedulesRepo(c *Client) *SchedulesRepo {
	return &SchedulesRepo{store: recordStore{c: c, kind: "medication_schedule"}}
}

func (r *SchedulesRepo) Create(ctx context.Context, rec medication.ScheduleRecord) error {
	names := make([]string, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		names = append(names, e.Name)
	}
	return r.store.put(ctx, rec.UserID, rec.ID, "Medication schedule: "+strings.Join(names, ", "), rec)
}

func (r *SchedulesRepo) Latest(ctx context.Context, userID string) (medication.ScheduleRecord, error) {
	list, err := r.ListByUser(ctx, userID)
	if err != nil {
		return medication.ScheduleRecord{}, err
	}
	if len(list) == 0 {
		return medication.ScheduleRecord{}, medication.ErrNotFound
	}
	return list[0], nil
}

func (r *SchedulesRepo) ListByUser(ctx context.Context, userID string) ([]medication.ScheduleRecord, error) {
	raws, err := r.store.payloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]medication.ScheduleRecord, 0, len(raws))
	for _, raw := range raws {
		var rec medication.ScheduleRecord
		if err := sonic.UnmarshalString(raw, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// -------------------------
// Term explanations
// -------------------------

type ExplanationsRepo struct {
	store recordStore
}

func NewExplanationsRepo(c *Client) *ExplanationsRepo {
	return &ExplanationsRepo{store: recordStore{c: c, kind: "term_explanation"}}
}

func (r *ExplanationsRepo) Create(ctx context.Context, e terms.Explanation) error {
	return r.store.put(ctx, e.UserID, e.ID, e.Term+": "+e.Explanation, e)
}

func (r *ExplanationsRepo) FindByTerm(ctx context.Context, userID, term string) (terms.Explanation, error) {
	list, err := r.ListByUser(ctx, userID)
	if err != nil {
		return terms.Explanation{}, err
	}
	for _, e := range list {
		if strings.EqualFold(e.Term, strings.TrimSpace(term)) {
			return e, nil
		}
	}
	return terms.Explanation{}, terms.ErrNotFound
}

func (r *ExplanationsRepo) ListByUser(ctx context.Context, userID string) ([]terms.Explanation, error) {
	raws, err := r.store.payloads(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]terms.Explanation, 0, len(raws))
	for _, raw := range raws {
		var e terms.Explanation
		if err := sonic.UnmarshalString(raw, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
