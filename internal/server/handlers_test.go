package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/pipeline"
	"github.com/spacesedan/commentlens/internal/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	videoID  string
	comments []string
	err      error
}

func (f *fakeSource) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	f.videoID = videoID
	return f.comments, f.err
}

func newTestServer(t *testing.T, source clients.CommentSource) http.Handler {
	t.Helper()
	analyzer, err := pipeline.NewDefaultAnalyzer(pipeline.DefaultOptions())
	require.NoError(t, err)
	return NewServer(":0", analyzer, source, 100).SetupRoutes()
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHomeAndHealth(t *testing.T) {
	h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeResponse(t, rec)["status"])
}

func TestAnalyzeHandler_InlineComments(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, `{"comments": ["This is amazing, I love it!", "This is terrible, I hate it.", "The video is 10 minutes long."]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, float64(3), body["Total Comments"])
	assert.Equal(t, map[string]any{"positive": float64(1), "negative": float64(1), "neutral": float64(1)}, body["Sentiment Summary"])
	assert.NotEmpty(t, body["Comment Summary"])
}

func TestAnalyzeHandler_EmptyBatch(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, `{"comments": []}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, float64(0), body["Total Comments"])
	assert.Empty(t, body["Sentiment Summary"])
	_, ok := body["Comment Summary"]
	assert.False(t, ok, "empty summary is omitted")
}

func TestAnalyzeHandler_VideoURL(t *testing.T) {
	source := &fakeSource{comments: []string{"Great video, thanks!"}}
	h := newTestServer(t, source)

	rec := post(t, h, `{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dQw4w9WgXcQ", source.videoID)
	body := decodeResponse(t, rec)
	assert.Equal(t, float64(1), body["Total Comments"])
	assert.Equal(t, "Great video, thanks!", body["Comment Summary"])
}

func TestAnalyzeHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source clients.CommentSource
		body   string
		status int
	}{
		{"malformed json", nil, `{`, http.StatusBadRequest},
		{"nothing to analyze", nil, `{}`, http.StatusBadRequest},
		{"too many comments", nil, `{"comments": [` + strings.Repeat(`"x",`, 100) + `"x"]}`, http.StatusBadRequest},
		{"no source configured", nil, `{"video_id": "dQw4w9WgXcQ"}`, http.StatusServiceUnavailable},
		{"invalid url", &fakeSource{}, `{"url": "https://vimeo.com/1"}`, http.StatusBadRequest},
		{"video not found", &fakeSource{err: clients.ErrVideoNotFound}, `{"video_id": "dQw4w9WgXcQ"}`, http.StatusNotFound},
		{"upstream failure", &fakeSource{err: errors.New("dial tcp: timeout")}, `{"video_id": "dQw4w9WgXcQ"}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer(t, tt.source), tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeResponse(t, rec)["error"])
		})
	}
}

func TestAnalyzeHandler_CommentsDisabled(t *testing.T) {
	h := newTestServer(t, &fakeSource{err: clients.ErrCommentsDisabled})

	rec := post(t, h, `{"video_id": "dQw4w9WgXcQ"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeResponse(t, rec)["Total Comments"])
}

func TestAnalyzeHandler_AnalysisFailure(t *testing.T) {
	h := NewServer(":0", failingAnalyzer{}, nil, 100).SetupRoutes()

	rec := post(t, h, `{"comments": ["hi"]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze([]string) (models.AnalysisResult, error) {
	return models.AnalysisResult{}, errors.New("boom")
}

func TestAnalyzeHandler_InvalidSentenceCount(t *testing.T) {
	analyzer, err := pipeline.NewDefaultAnalyzer(pipeline.Options{SentenceCount: 0})
	require.NoError(t, err)
	h := NewServer(":0", analyzer, nil, 100).SetupRoutes()

	rec := post(t, h, `{"comments": ["hi"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeResponse(t, rec)["error"], summary.ErrInvalidSentenceCount.Error())
}
