// Package client implements the upload-side state machine for one
// transcription attempt: Idle -> FileSelected -> Submitting -> Result or
// back to an error state. One outbound request per submit, no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// Client states.
const (
	StateIdle         = "idle"
	StateFileSelected = "file_selected"
	StateSubmitting   = "submitting"
	StateResult       = "result"
	StateError        = "error"
)

const (
	eventSelect  = "select_file"
	eventSubmit  = "submit"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

// DefaultTimeout bounds the whole round trip; model inference on long
// recordings is slow.
const DefaultTimeout = 5 * time.Minute

const genericErrMsg = "transcription request failed"

// Result mirrors the server's transcribe response.
type Result struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	Transcription string `json:"transcription"`
	Title         string `json:"title"`
	Markdown      string `json:"markdown"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Client drives a single transcription attempt against the orchestration
// endpoint. Not safe for concurrent submits by design: the state machine
// rejects a submit while one is in flight.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu      sync.Mutex
	machine *fsm.FSM
	file    string
	result  *Result
	lastErr string
}

// New creates a client for the given API base URL, e.g.
// "http://localhost:8000" or a reverse-proxied ".../api".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		machine: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: eventSelect, Src: []string{StateIdle, StateFileSelected, StateResult, StateError}, Dst: StateFileSelected},
				{Name: eventSubmit, Src: []string{StateFileSelected, StateError}, Dst: StateSubmitting},
				{Name: eventSucceed, Src: []string{StateSubmitting}, Dst: StateResult},
				{Name: eventFail, Src: []string{StateSubmitting}, Dst: StateError},
				{Name: eventReset, Src: []string{StateIdle, StateFileSelected, StateSubmitting, StateResult, StateError}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// State returns the current client state.
func (c *Client) State() string {
	return c.machine.Current()
}

// SelectFile picks the audio file for the next submit and clears any
// previous error. No client-side type or size validation is performed;
// rejection, if any, comes from the backend.
func (c *Client) SelectFile(path string) error {
	if path == "" {
		return errors.New("no file selected")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.machine.Event(context.Background(), eventSelect); err != nil {
		return fmt.Errorf("cannot select file now: %w", err)
	}
	c.file = path
	c.lastErr = ""
	return nil
}

// Submit issues exactly one POST to the transcribe endpoint. A second
// Submit while one is in flight is rejected by the state machine and does
// not produce a second request.
func (c *Client) Submit(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.file == "" {
		c.mu.Unlock()
		return nil, errors.New("no file selected")
	}
	if err := c.machine.Event(ctx, eventSubmit); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("cannot submit now: %w", err)
	}
	file := c.file
	c.mu.Unlock()

	result, err := c.post(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.machine.Event(context.Background(), eventFail)
		c.lastErr = err.Error()
		return nil, err
	}
	c.machine.Event(context.Background(), eventSucceed)
	c.result = result
	c.lastErr = ""
	return result, nil
}

func (c *Client) post(ctx context.Context, file string) (*Result, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(file))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.New(genericErrMsg)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(genericErrMsg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// surface the server-provided detail verbatim when present
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Detail != "" {
			return nil, errors.New(eb.Detail)
		}
		return nil, errors.New(genericErrMsg)
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.New(genericErrMsg)
	}
	return &result, nil
}

// Result returns the stored response, if the last submit succeeded.
func (c *Client) Result() (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.machine.Is(StateResult) {
		return nil, false
	}
	return c.result, true
}

// Err returns the message of the last failed submit, if any.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SaveResult writes the markdown body to dir, named from the sanitized
// title ("Meeting Notes: Q3!" becomes meetingnotesq3.md). Only available
// in the result state.
func (c *Client) SaveResult(dir string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.machine.Is(StateResult) || c.result == nil {
		return "", errors.New("no result to save")
	}

	path := filepath.Join(dir, sanitizeTitle(c.result.Title)+".md")
	if err := os.WriteFile(path, []byte(c.result.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Reset clears file, result, and error.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine.Event(context.Background(), eventReset)
	c.file = ""
	c.result = nil
	c.lastErr = ""
}

// sanitizeTitle lower-cases the title and drops every non-alphanumeric
// character.
func sanitizeTitle(title string) string {
	var b []rune
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, r)
		case r >= 'A' && r <= 'Z':
			b = append(b, r+('a'-'A'))
		}
	}
	if len(b) == 0 {
		return "voicenote"
	}
	return string(b)
}
