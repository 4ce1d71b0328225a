package consultations

import (
	"context"
	"errors"
	"testing"
	"time"

	"patientpal/internal/ports/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Consultation
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Consultation{}}
}

func (r *testRepo) Create(ctx context.Context, c Consultation) error {
	if c.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, userID, id string) (Consultation, error) {
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return Consultation{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Consultation, error) {
	out := make([]Consultation, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeAI struct {
	transcribed string
	ocr         string
	summary     ai.Summary

	transcribeErr error
	ocrErr        error
	summaryErr    error

	calls []string
	seen  string
}

func (f *fakeAI) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	f.calls = append(f.calls, "transcribe:"+filename)
	return f.transcribed, f.transcribeErr
}

func (f *fakeAI) ExtractText(ctx context.Context, image []byte, contentType string) (string, error) {
	f.calls = append(f.calls, "ocr:"+contentType)
	return f.ocr, f.ocrErr
}

func (f *fakeAI) Summarize(ctx context.Context, transcription string) (ai.Summary, error) {
	f.calls = append(f.calls, "summarize")
	f.seen = transcription
	return f.summary, f.summaryErr
}

func newTestService(repo Repository, f *fakeAI) *Service {
	svc := NewService(repo, Deps{Transcriber: f, OCR: f, Summarizer: f})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestProcess_PriorityAudioOverImageOverText(t *testing.T) {
	f := &fakeAI{
		transcribed: "metformin twice daily",
		ocr:         "from image",
		summary:     ai.Summary{Summary: "ok"},
	}
	svc := newTestService(newTestRepo(), f)

	c, err := svc.Process(context.Background(), "u1", Input{
		Audio: []byte("RIFF"), AudioName: "visit.m4a",
		Image: []byte("PNG"), ImageType: "image/png",
		Text:  "typed",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceAudio, c.Source)
	assert.Equal(t, []string{"transcribe:visit.m4a", "summarize"}, f.calls)
	assert.Equal(t, "metformin twice daily", f.seen)

	f.calls = nil
	c, err = svc.Process(context.Background(), "u1", Input{Image: []byte("PNG"), ImageType: "image/png", Text: "typed"})
	require.NoError(t, err)
	assert.Equal(t, SourceImage, c.Source)
	assert.Equal(t, []string{"ocr:image/png", "summarize"}, f.calls)

	f.calls = nil
	c, err = svc.Process(context.Background(), "u1", Input{Text: "typed"})
	require.NoError(t, err)
	assert.Equal(t, SourceText, c.Source)
	assert.Equal(t, []string{"summarize"}, f.calls)
	assert.Equal(t, "typed", c.Transcription)
}

func TestProcess_EmptyInput(t *testing.T) {
	f := &fakeAI{}
	svc := newTestService(newTestRepo(), f)

	_, err := svc.Process(context.Background(), "u1", Input{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, f.calls)

	// audio sin texto reconocible
	_, err = svc.Process(context.Background(), "u1", Input{Audio: []byte("x")})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestProcess_PersistsSummaryAndCleansTerms(t *testing.T) {
	repo := newTestRepo()
	f := &fakeAI{summary: ai.Summary{
		Summary: " You have hypertension. ",
		Terms: []ai.Term{
			{Term: "Hypertension", Context: "diagnosed with hypertension"},
			{Term: "hypertension"},
			{Term: " "},
			{Term: "Metformin", Context: "500mg twice daily"},
		},
	}}
	svc := newTestService(repo, f)

	c, err := svc.Process(context.Background(), "u1", Input{Text: "consultation"})
	require.NoError(t, err)
	assert.Equal(t, "You have hypertension.", c.Summary)
	require.Len(t, c.Terms, 2)
	assert.Equal(t, "Hypertension", c.Terms[0].Term)
	assert.Equal(t, "Metformin", c.Terms[1].Term)

	stored, err := svc.GetByID(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, stored)

	_, err = svc.GetByID(context.Background(), "someone-else", c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcess_EmptySummaryUsesFallback(t *testing.T) {
	svc := newTestService(newTestRepo(), &fakeAI{})

	c, err := svc.Process(context.Background(), "u1", Input{Text: "consultation"})
	require.NoError(t, err)
	assert.Equal(t, FallbackSummary, c.Summary)
	assert.NotNil(t, c.Terms)
}

func TestProcess_ExternalFailuresCarryStage(t *testing.T) {
	cases := []struct {
		name  string
		fake  *fakeAI
		in    Input
		stage string
	}{
		{"transcription", &fakeAI{transcribeErr: ai.ErrRateLimited}, Input{Audio: []byte("x")}, "transcription"},
		{"ocr", &fakeAI{ocrErr: ai.ErrUnauthorized}, Input{Image: []byte("x")}, "image reading"},
		{"summary", &fakeAI{summaryErr: ai.ErrUpstream}, Input{Text: "hi"}, "summary"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newTestRepo()
			_, err := newTestService(repo, tc.fake).Process(context.Background(), "u1", tc.in)

			var se *StageError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.stage, se.Stage)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestProcess_BlankUser(t *testing.T) {
	_, err := newTestService(newTestRepo(), &fakeAI{}).Process(context.Background(), "", Input{Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
