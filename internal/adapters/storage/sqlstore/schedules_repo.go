package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"patientpal/internal/domain/medication"

	"github.com/bytedance/sonic"
)

type SchedulesRepo struct {
	db *DB
}

func NewSchedulesRepo(db *DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

func (r *SchedulesRepo) Create(ctx context.Context, rec medication.ScheduleRecord) error {
	meds, err := sonic.MarshalString(rec.Entries)
	if err != nil {
		return err
	}
	sched, err := sonic.MarshalString(rec.Schedule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO medication_schedules (id, user_id, medications, schedule, created_at)
		VALUES (?,?,?,?,?)
	`), rec.ID, rec.UserID, meds, sched, rec.CreatedAt.UTC())
	return err
}

func (r *SchedulesRepo) Latest(ctx context.Context, userID string) (medication.ScheduleRecord, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT id, user_id, medications, schedule, created_at
		FROM medication_schedules
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`), userID)

	rec, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return medication.ScheduleRecord{}, medication.ErrNotFound
	}
	return rec, err
}

func (r *SchedulesRepo) ListByUser(ctx context.Context, userID string) ([]medication.ScheduleRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`
		SELECT id, user_id, medications, schedule, created_at
		FROM medication_schedules
		WHERE user_id = ?
		ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medication.ScheduleRecord, 0)
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSchedule(s scanner) (medication.ScheduleRecord, error) {
	var (
		rec   medication.ScheduleRecord
		meds  string
		sched string
	)
	if err := s.Scan(&rec.ID, &rec.UserID, &meds, &sched, &rec.CreatedAt); err != nil {
		return medication.ScheduleRecord{}, err
	}
	if err := sonic.UnmarshalString(meds, &rec.Entries); err != nil {
		return medication.ScheduleRecord{}, err
	}
	if err := sonic.UnmarshalString(sched, &rec.Schedule); err != nil {
		return medication.ScheduleRecord{}, err
	}
	return rec, nil
}
