package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"patientpal/internal/domain/consultations"
	"patientpal/internal/domain/medication"
	"patientpal/internal/domain/terms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultationRepo(t *testing.T) {
	repo := NewConsultationRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, consultations.Consultation{ID: "c1", UserID: "u1", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, consultations.Consultation{ID: "c2", UserID: "u1", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, consultations.Consultation{ID: "c3", UserID: "u2", CreatedAt: base}))
	assert.Error(t, repo.Create(ctx, consultations.Consultation{ID: "c1", UserID: "u1"}))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)

	_, err = repo.GetByID(ctx, "u2", "c1")
	assert.ErrorIs(t, err, consultations.ErrNotFound)
	_, err = repo.GetByID(ctx, "u1", "missing")
	assert.ErrorIs(t, err, consultations.ErrNotFound)
}

func TestScheduleRepo_LatestWins(t *testing.T) {
	repo := NewScheduleRepo()
	ctx := context.Background()

	_, err := repo.Latest(ctx, "u1")
	assert.ErrorIs(t, err, medication.ErrNotFound)

	require.NoError(t, repo.Create(ctx, medication.ScheduleRecord{ID: "s1", UserID: "u1"}))
	require.NoError(t, repo.Create(ctx, medication.ScheduleRecord{ID: "s2", UserID: "u1"}))

	latest, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s2", latest.ID)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s2", list[0].ID)
	assert.Equal(t, "s1", list[1].ID)
}

func TestExplanationRepo_FindByTermCaseInsensitive(t *testing.T) {
	repo := NewExplanationRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, terms.Explanation{ID: "e1", UserID: "u1", Term: "Edema", Explanation: "old"}))
	require.NoError(t, repo.Create(ctx, terms.Explanation{ID: "e2", UserID: "u1", Term: "edema", Explanation: "new"}))

	e, err := repo.FindByTerm(ctx, "u1", " EDEMA ")
	require.NoError(t, err)
	assert.Equal(t, "e2", e.ID)

	_, err = repo.FindByTerm(ctx, "u2", "edema")
	assert.ErrorIs(t, err, terms.ErrNotFound)
}

func TestScheduleRepo_ConcurrentWrites(t *testing.T) {
	repo := NewScheduleRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, medication.ScheduleRecord{ID: time.Duration(i).String(), UserID: "u1"})
			_, _ = repo.Latest(ctx, "u1")
		}(i)
	}
	wg.Wait()

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
