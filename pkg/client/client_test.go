package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake-audio"), 0o644))
	return path
}

func successServer(t *testing.T, result Result) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err, "payload must be a single-field multipart form")
		json.NewEncoder(w).Encode(result)
	}))
}

func TestSubmitSuccess(t *testing.T) {
	result := Result{
		Success:       true,
		Filename:      "demo.mp3",
		Transcription: "buy milk and eggs",
		Title:         "Shopping Reminder",
		Markdown:      "# Shopping Reminder\n\n- Buy milk\n- Buy eggs",
	}
	srv := successServer(t, result)
	defer srv.Close()

	c := New(srv.URL)
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.SelectFile(writeTempAudio(t)))
	assert.Equal(t, StateFileSelected, c.State())

	got, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateResult, c.State())
	assert.Equal(t, "Shopping Reminder", got.Title)

	stored, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, got, stored)
}

func TestSubmitWithoutFile(t *testing.T) {
	c := New("http://localhost:0")
	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())
}

func TestSelectFileEmpty(t *testing.T) {
	c := New("http://localhost:0")
	require.Error(t, c.SelectFile(""))
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitServerErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Unsupported file type '.txt'"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Unsupported file type '.txt'", err.Error(), "server detail is surfaced verbatim")
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, "Unsupported file type '.txt'", c.Err())
}

func TestSubmitMalformedErrorFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, genericErrMsg, err.Error())
}

func TestResubmitAfterErrorAllowed(t *testing.T) {
	var failFirst atomic.Bool
	failFirst.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failFirst.Swap(false) {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Ollama service unavailable"})
			return
		}
		json.NewEncoder(w).Encode(Result{Success: true, Title: "T", Markdown: "# T"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, c.State())

	// file selection is retained; a user-driven resubmit is allowed
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateResult, c.State())
}

func TestConcurrentSubmitRejected(t *testing.T) {
	var requests atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(arrived)
		<-release
		json.NewEncoder(w).Encode(Result{Success: true, Title: "T", Markdown: "# T"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("first submit never reached the server")
	}

	assert.Equal(t, StateSubmitting, c.State())
	_, err := c.Submit(context.Background())
	require.Error(t, err, "second concurrent submit must be rejected")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), requests.Load(), "no second request may be issued")
}

func TestSaveResultFilenameFromSanitizedTitle(t *testing.T) {
	srv := successServer(t, Result{
		Success:  true,
		Title:    "Meeting Notes: Q3!",
		Markdown: "# Meeting Notes: Q3!\n\n- point",
	})
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := c.SaveResult(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "meetingnotesq3.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Meeting Notes: Q3!\n\n- point", string(content))
}

func TestSaveResultOnlyInResultState(t *testing.T) {
	c := New("http://localhost:0")
	_, err := c.SaveResult(t.TempDir())
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	srv := successServer(t, Result{Success: true, Title: "T", Markdown: "# T"})
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SelectFile(writeTempAudio(t)))
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.Reset()
	assert.Equal(t, StateIdle, c.State())
	_, ok := c.Result()
	assert.False(t, ok)
	assert.Empty(t, c.Err())
}

func TestSanitizeTitle(t *testing.T) {
	cases := map[string]string{
		"Meeting Notes: Q3!": "meetingnotesq3",
		"Shopping Reminder":  "shoppingreminder",
		"  $$$  ":            "voicenote",
		"":                   "voicenote",
		"Déjà Vu 2":          "djvu2",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeTitle(in), "sanitizeTitle(%q)", in)
	}
}
