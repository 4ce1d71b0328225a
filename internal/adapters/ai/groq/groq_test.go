package groq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"patientpal/internal/ports/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer responde /chat/completions con content y guarda el último request.
func chatServer(t *testing.T, content string, last *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		b, _ := io.ReadAll(r.Body)
		if last != nil {
			require.NoError(t, json.Unmarshal(b, last))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func TestSummarize_JSONMode(t *testing.T) {
	var req map[string]any
	ts := chatServer(t, `{"summary":"You have high blood pressure.","terms":[{"term":"hypertension","context":"diagnosed with hypertension"}]}`, &req)
	defer ts.Close()

	sum, err := newTestClient(t, ts.URL).Summarize(context.Background(), "diagnosed with hypertension")
	require.NoError(t, err)
	assert.Equal(t, "You have high blood pressure.", sum.Summary)
	require.Len(t, sum.Terms, 1)
	assert.Equal(t, "hypertension", sum.Terms[0].Term)

	assert.Equal(t, DefaultChatModel, req["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])
}

func TestSummarize_InvalidJSONFallsBack(t *testing.T) {
	ts := chatServer(t, "Sorry, I can't do that.", nil)
	defer ts.Close()

	sum, err := newTestClient(t, ts.URL).Summarize(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, sum.Summary)
	assert.Empty(t, sum.Terms)
}

func TestSummarize_StripsCodeFences(t *testing.T) {
	ts := chatServer(t, "```json\n{\"summary\":\"ok\",\"terms\":[]}\n```", nil)
	defer ts.Close()

	sum, err := newTestClient(t, ts.URL).Summarize(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", sum.Summary)
}

func TestErrors_MappedToPortSentinels(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ai.ErrUnauthorized},
		{http.StatusForbidden, ai.ErrUnauthorized},
		{http.StatusTooManyRequests, ai.ErrRateLimited},
		{http.StatusInternalServerError, ai.ErrUpstream},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"nope"}}`, tc.status)
			}))
			defer ts.Close()

			_, err := newTestClient(t, ts.URL).Summarize(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestNotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, c.IsConfigured())

	_, err = c.Transcribe(context.Background(), []byte("RIFF"), "a.wav")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	_, err = c.Summarize(context.Background(), "x")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	_, err = NewExplainer(c, nil, 0, nil).Explain(context.Background(), "edema", "")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}

func TestTranscribe_Multipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultTranscribeModel, r.FormValue("model"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "visit.m4a", hdr.Filename)
		_, _ = w.Write([]byte(`{"text":" Take metformin twice daily. "}`))
	}))
	defer ts.Close()

	text, err := newTestClient(t, ts.URL).Transcribe(context.Background(), []byte("audio"), "visit.m4a")
	require.NoError(t, err)
	assert.Equal(t, "Take metformin twice daily.", text)
}

func TestExtractText_SendsDataURI(t *testing.T) {
	var req map[string]any
	ts := chatServer(t, "Lisinopril 10mg once daily", &req)
	defer ts.Close()

	png := []byte("\x89PNG\r\n\x1a\n0000")
	text, err := newTestClient(t, ts.URL).ExtractText(context.Background(), png, "")
	require.NoError(t, err)
	assert.Equal(t, "Lisinopril 10mg once daily", text)

	assert.Equal(t, DefaultVisionModel, req["model"])
	raw, _ := json.Marshal(req["messages"])
	assert.Contains(t, string(raw), "data:image/png;base64,")
}

func TestParseMedication(t *testing.T) {
	ts := chatServer(t, `{"name":"Metformin","dosage":"500mg","frequency":"twice daily","timing":"with meals","instructions":""}`, nil)
	defer ts.Close()

	m, err := newTestClient(t, ts.URL).ParseMedication(context.Background(), "metformin 500 twice a day w/ food")
	require.NoError(t, err)
	assert.Equal(t, ai.Medication{Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", Timing: "with meals"}, m)
}

func TestParseMedication_NoNameIsError(t *testing.T) {
	ts := chatServer(t, `{"name":""}`, nil)
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).ParseMedication(context.Background(), "???")
	assert.ErrorIs(t, err, ai.ErrUpstream)
}

type stubSearcher struct {
	docs  []ai.Document
	err   error
	query string
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]ai.Document, error) {
	s.query = query
	return s.docs, s.err
}

func TestExplainer_UsesSearchResults(t *testing.T) {
	var req map[string]any
	ts := chatServer(t, `{"explanation":"Swelling caused by fluid."}`, &req)
	defer ts.Close()

	search := &stubSearcher{docs: []ai.Document{
		{Title: "Edema", URL: "https://medlineplus.gov/edema.html", Content: "Edema is swelling..."},
	}}
	ex := NewExplainer(newTestClient(t, ts.URL), search, 2, nil)

	out, err := ex.Explain(context.Background(), "edema", "ankle edema")
	require.NoError(t, err)
	assert.Equal(t, "Swelling caused by fluid.", out.Explanation)
	assert.Equal(t, []string{"https://medlineplus.gov/edema.html"}, out.Sources)
	assert.True(t, strings.HasPrefix(search.query, "edema"))

	raw, _ := json.Marshal(req["messages"])
	assert.Contains(t, string(raw), "Edema is swelling")
	assert.Contains(t, string(raw), "ankle edema")
}

func TestExplainer_SearchFailureAsksModelDirectly(t *testing.T) {
	ts := chatServer(t, `{"explanation":"A statin lowers cholesterol.","sources":["MedlinePlus"]}`, nil)
	defer ts.Close()

	ex := NewExplainer(newTestClient(t, ts.URL), &stubSearcher{err: errors.New("search down")}, 0, nil)

	out, err := ex.Explain(context.Background(), "statin", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"MedlinePlus"}, out.Sources)
}

func TestExplainer_InvalidJSONFallsBack(t *testing.T) {
	ts := chatServer(t, "not json", nil)
	defer ts.Close()

	out, err := NewExplainer(newTestClient(t, ts.URL), nil, 0, nil).Explain(context.Background(), "statin", "")
	require.NoError(t, err)
	assert.Equal(t, FallbackExplanation, out.Explanation)
	assert.Empty(t, out.Sources)
}
