package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"patientpal/internal/domain/terms"

	"github.com/bytedance/sonic"
)

type ExplanationsRepo struct {
	db *DB
}

func NewExplanationsRepo(db *DB) *ExplanationsRepo {
	return &ExplanationsRepo{db: db}
}

func termKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func (r *ExplanationsRepo) Create(ctx context.Context, e terms.Explanation) error {
	sources := e.Sources
	if sources == nil {
		sources = []string{}
	}
	raw, err := sonic.MarshalString(sources)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO term_explanations (
			id, user_id, term, term_key, context, explanation, sources, created_at
		) VALUES (?,?,?,?,?,?,?,?)
	`),
		e.ID,
		e.UserID,
		e.Term,
		termKey(e.Term),
		e.Context,
		e.Explanation,
		raw,
		e.CreatedAt.UTC(),
	)
	return err
}

func (r *ExplanationsRepo) FindByTerm(ctx context.Context, userID, term string) (terms.Explanation, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT id, user_id, term, context, explanation, sources, created_at
		FROM term_explanations
		WHERE user_id = ? AND term_key = ?
		ORDER BY created_at DESC
		LIMIT 1
	`), userID, termKey(term))

	e, err := scanExplanation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return terms.Explanation{}, terms.ErrNotFound
	}
	return e, err
}

func (r *ExplanationsRepo) ListByUser(ctx context.Context, userID string) ([]terms.Explanation, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
		SELECT id, user_id, term, context, explanation, sources, created_at
		FROM term_explanations
		WHERE user_id = ?
		ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]terms.Explanation, 0)
	for rows.Next() {
		e, err := scanExplanation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExplanation(s scanner) (terms.Explanation, error) {
	var (
		e       terms.Explanation
		sources string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Term, &e.Context, &e.Explanation, &sources, &e.CreatedAt); err != nil {
		return terms.Explanation{}, err
	}
	if err := sonic.UnmarshalString(sources, &e.Sources); err != nil {
		return terms.Explanation{}, err
	}
	return e, nil
}
