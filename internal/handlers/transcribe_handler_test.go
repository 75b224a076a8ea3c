package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicenote/transcriber/internal/domains/transcript"
	"github.com/voicenote/transcriber/pkg/Logger"
)

type stubService struct {
	result *transcript.TranscribeResult
	err    error
	health transcript.HealthReport
	calls  int
}

func (s *stubService) Transcribe(ctx context.Context, req transcript.TranscribeRequest) (*transcript.TranscribeResult, error) {
	s.calls++
	io.Copy(io.Discard, req.Audio)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) Health(ctx context.Context) transcript.HealthReport {
	return s.health
}

func newTestRouter(svc transcript.Service, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	th := NewTranscribeHandler(svc, maxBytes, Logger.Nop())
	hh := NewHealthHandler(svc)
	r.GET("/", hh.Root)
	r.GET("/health", hh.Health)
	r.POST("/transcribe", th.Transcribe)
	return r
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var eb ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eb))
	return eb.Detail
}

func TestTranscribeEndpointSuccess(t *testing.T) {
	svc := &stubService{result: &transcript.TranscribeResult{
		Filename:      "demo.mp3",
		Transcription: "buy milk and eggs",
		Note:          transcript.Note{Title: "Shopping Reminder", Markdown: "# Shopping Reminder\n\n- Buy milk\n- Buy eggs"},
	}}
	router := newTestRouter(svc, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "file", "demo.mp3", "audio-bytes"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp TranscribeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "demo.mp3", resp.Filename)
	assert.Equal(t, "buy milk and eggs", resp.Transcription)
	assert.Equal(t, "Shopping Reminder", resp.Title)
	assert.Contains(t, resp.Markdown, "- Buy eggs")
}

func TestTranscribeEndpointMissingFileField(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "wrong_field", "demo.mp3", "audio"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeDetail(t, w), "file")
	assert.Zero(t, svc.calls, "service must not run without a file field")
}

func TestTranscribeEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"empty payload", transcript.ErrEmptyUpload, http.StatusBadRequest},
		{"unsupported type", transcript.ErrUnsupportedMediaType, http.StatusBadRequest},
		{"empty transcription", transcript.ErrEmptyTranscription, http.StatusUnprocessableEntity},
		{"transcription failed", transcript.ErrTranscriptionFailed, http.StatusInternalServerError},
		{"structuring failed", transcript.ErrStructuringFailed, http.StatusInternalServerError},
		{"structurer unreachable", transcript.ErrStructurerUnreachable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubService{err: tc.err}, 0)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "file", "empty.wav", ""))

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.err.Error(), decodeDetail(t, w), "detail must carry the error message verbatim")
		})
	}
}

func TestTranscribeEndpointFileTooLarge(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc, 4)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "file", "big.mp3", "way more than four bytes"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, svc.calls)
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(&stubService{}, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RootResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHealthEndpoint(t *testing.T) {
	svc := &stubService{health: transcript.HealthReport{Whisper: "healthy", Structurer: "unreachable"}}
	router := newTestRouter(svc, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.API)
	assert.Equal(t, "healthy", resp.Whisper)
	assert.Equal(t, "unreachable", resp.Structurer)
}
