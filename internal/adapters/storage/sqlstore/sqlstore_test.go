package sqlstore

import (
	"context"
	"testing"
	"time"

	"patientpal/internal/domain/consultations"
	"patientpal/internal/domain/medication"
	"patientpal/internal/domain/terms"
	"patientpal/internal/ports/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))
	// idempotente
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestParseDSN(t *testing.T) {
	d, driver, src, err := parseDSN("postgres://u:p@localhost:5432/pp?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	assert.Equal(t, "pgx", driver)
	assert.Contains(t, src, "localhost:5432")

	d, driver, src, err = parseDSN("sqlite:data/patientpal.db")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, "data/patientpal.db", src)

	_, _, _, err = parseDSN("mysql://x")
	assert.Error(t, err)
	_, _, _, err = parseDSN("sqlite:")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))
	lite := &DB{Dialect: SQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestConsultationsRepo_SQLite(t *testing.T) {
	repo := NewConsultationsRepo(openTestDB(t))
	ctx := context.Background()

	c := consultations.Consultation{
		ID:            "c1",
		UserID:        "u1",
		Source:        consultations.SourceText,
		Transcription: "diagnosed with hypertension",
		Summary:       "High blood pressure.",
		Terms:         []ai.Term{{Term: "hypertension", Context: "diagnosed with hypertension"}},
		CreatedAt:     base,
	}
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Create(ctx, consultations.Consultation{ID: "c2", UserID: "u1", Source: consultations.SourceAudio, CreatedAt: base.Add(time.Hour)}))

	got, err := repo.GetByID(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, c.Terms, got.Terms)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.NotNil(t, list[0].Terms)

	_, err = repo.GetByID(ctx, "u2", "c1")
	assert.ErrorIs(t, err, consultations.ErrNotFound)
}

func TestSchedulesRepo_SQLite(t *testing.T) {
	repo := NewSchedulesRepo(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Latest(ctx, "u1")
	assert.ErrorIs(t, err, medication.ErrNotFound)

	entries := []medication.MedicationEntry{{Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", Timing: "with meals"}}
	sched, err := medication.Derive(entries)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, medication.ScheduleRecord{ID: "s1", UserID: "u1", Entries: entries, Schedule: sched, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, medication.ScheduleRecord{ID: "s2", UserID: "u1", Entries: entries, Schedule: sched, CreatedAt: base.Add(time.Minute)}))

	latest, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s2", latest.ID)
	assert.Equal(t, sched, latest.Schedule)
	assert.Equal(t, entries, latest.Entries)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestExplanationsRepo_SQLite(t *testing.T) {
	repo := NewExplanationsRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, terms.Explanation{ID: "e1", UserID: "u1", Term: "Edema", Explanation: "old", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, terms.Explanation{ID: "e2", UserID: "u1", Term: "edema", Explanation: "new", Sources: []string{"https://medlineplus.gov/edema.html"}, CreatedAt: base.Add(time.Minute)}))

	e, err := repo.FindByTerm(ctx, "u1", "EDEMA")
	require.NoError(t, err)
	assert.Equal(t, "e2", e.ID)
	assert.Equal(t, []string{"https://medlineplus.gov/edema.html"}, e.Sources)

	_, err = repo.FindByTerm(ctx, "u2", "edema")
	assert.ErrorIs(t, err, terms.ErrNotFound)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID)
}
