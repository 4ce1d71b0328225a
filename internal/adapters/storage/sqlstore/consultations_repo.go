package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"patientpal/internal/domain/consultations"
	"patientpal/internal/ports/ai"

	"github.com/bytedance/sonic"
)

type ConsultationsRepo struct {
	db *DB
}

func NewConsultationsRepo(db *DB) *ConsultationsRepo {
	return &ConsultationsRepo{db: db}
}

func (r *ConsultationsRepo) Create(ctx context.Context, c consultations.Consultation) error {
	terms, err := sonic.MarshalString(nonNilTerms(c.Terms))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO consultations (
			id, user_id, source, transcription, summary, terms, created_at
		) VALUES (?,?,?,?,?,?,?)
	`),
		c.ID,
		c.UserID,
		string(c.Source),
		c.Transcription,
		c.Summary,
		terms,
		c.CreatedAt.UTC(),
	)
	return err
}

func (r *ConsultationsRepo) GetByID(ctx context.Context, userID, id string) (consultations.Consultation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return consultations.Consultation{}, consultations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT id, user_id, source, transcription, summary, terms, created_at
		FROM consultations
		WHERE id = ? AND user_id = ?
	`), id, userID)

	c, err := scanConsultation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return consultations.Consultation{}, consultations.ErrNotFound
	}
	return c, err
}

func (r *ConsultationsRepo) ListByUser(ctx context.Context, userID string) ([]consultations.Consultation, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
		SELECT id, user_id, source, transcription, summary, terms, created_at
		FROM consultations
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
	`), strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]consultations.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConsultation(s scanner) (consultations.Consultation, error) {
	var (
		c      consultations.Consultation
		source string
		terms  string
	)
	if err := s.Scan(&c.ID, &c.UserID, &source, &c.Transcription, &c.Summary, &terms, &c.CreatedAt); err != nil {
		return consultations.Consultation{}, err
	}
	c.Source = consultations.Source(source)
	if err := sonic.UnmarshalString(terms, &c.Terms); err != nil {
		return consultations.Consultation{}, err
	}
	c.Terms = nonNilTerms(c.Terms)
	return c, nil
}

func nonNilTerms(t []ai.Term) []ai.Term {
	if t == nil {
		return []ai.Term{}
	}
	return t
}
