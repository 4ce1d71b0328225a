package terms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"patientpal/internal/ports/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items []Explanation
}

func (r *testRepo) Create(ctx context.Context, e Explanation) error {
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) FindByTerm(ctx context.Context, userID, term string) (Explanation, error) {
	for i := len(r.items) - 1; i >= 0; i-- {
		e := r.items[i]
		if e.UserID == userID && strings.EqualFold(e.Term, term) {
			return e, nil
		}
	}
	return Explanation{}, ErrNotFound
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Explanation, error) {
	out := make([]Explanation, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type fakeExplainer struct {
	calls int
	ctx   string
	out   ai.Explanation
	err   error
}

func (f *fakeExplainer) Explain(ctx context.Context, term, termContext string) (ai.Explanation, error) {
	f.calls++
	f.ctx = termContext
	return f.out, f.err
}

func newTestService(repo Repository, ex ai.Explainer) *Service {
	svc := NewService(repo, ex, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestExplain_StoresThenServesFromCache(t *testing.T) {
	repo := &testRepo{}
	ex := &fakeExplainer{out: ai.Explanation{
		Explanation: "High blood pressure.",
		Sources:     []string{"https://medlineplus.gov/highbloodpressure.html", " ", "https://medlineplus.gov/highbloodpressure.html"},
	}}
	svc := newTestService(repo, ex)
	ctx := context.Background()

	first, cached, err := svc.Explain(ctx, "u1", " Hypertension ", "diagnosed with hypertension")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Hypertension", first.Term)
	assert.Equal(t, "diagnosed with hypertension", ex.ctx)
	assert.Equal(t, []string{"https://medlineplus.gov/highbloodpressure.html"}, first.Sources)

	second, cached, err := svc.Explain(ctx, "u1", "HYPERTENSION", "")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, ex.calls)

	// otro usuario no comparte la cache
	_, cached, err = svc.Explain(ctx, "u2", "hypertension", "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, ex.calls)
}

func TestExplain_InvalidTerm(t *testing.T) {
	svc := newTestService(&testRepo{}, &fakeExplainer{})

	for _, term := range []string{"", "   ", strings.Repeat("x", maxTermLen+1)} {
		_, _, err := svc.Explain(context.Background(), "u1", term, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExplain_UpstreamFailureIsWrapped(t *testing.T) {
	repo := &testRepo{}
	svc := newTestService(repo, &fakeExplainer{err: ai.ErrRateLimited})

	_, _, err := svc.Explain(context.Background(), "u1", "edema", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, ai.ErrRateLimited))
	assert.Empty(t, repo.items)
}

func TestListByUser_MostRecentFirst(t *testing.T) {
	repo := &testRepo{}
	svc := newTestService(repo, &fakeExplainer{out: ai.Explanation{Explanation: "x"}})
	ctx := context.Background()

	_, _, err := svc.Explain(ctx, "u1", "edema", "")
	require.NoError(t, err)
	_, _, err = svc.Explain(ctx, "u1", "statin", "")
	require.NoError(t, err)

	items, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "statin", items[0].Term)
}
