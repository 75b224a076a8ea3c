package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voicenote/transcriber/internal/constants/prompts"
	"github.com/voicenote/transcriber/pkg/Logger"
	"github.com/voicenote/transcriber/pkg/assistant"
	"github.com/voicenote/transcriber/pkg/io/stt"
)

// Common errors
var (
	ErrUnsupportedMediaType  = errors.New("unsupported media type")
	ErrEmptyUpload           = errors.New("empty upload payload")
	ErrEmptyTranscription    = errors.New("transcription is empty")
	ErrTranscriptionFailed   = errors.New("transcription failed")
	ErrStructuringFailed     = errors.New("structuring failed")
	ErrStructurerUnreachable = errors.New("structuring service unavailable")
)

// AcceptedExtensions is the fixed set of audio container types the endpoint
// accepts, validated by declared filename extension.
var AcceptedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
}

// TranscribeRequest is one uploaded audio file.
type TranscribeRequest struct {
	Filename string
	Audio    io.Reader
}

// Note is the structured output derived from a transcription.
type Note struct {
	Title    string
	Markdown string
}

// TranscribeResult aggregates everything returned for one upload. It lives
// for a single request/response cycle; nothing is persisted.
type TranscribeResult struct {
	Filename      string
	Transcription string
	Note          Note
}

// HealthReport states downstream reachability without performing work.
type HealthReport struct {
	Whisper    string
	Structurer string
}

// Service defines the transcribe-and-structure pipeline.
type Service interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error)
	Health(ctx context.Context) HealthReport
}

type service struct {
	transcriber  stt.Transcriber
	structurer   assistant.Structurer
	transcribeTO time.Duration
	structureTO  time.Duration
	logger       *Logger.Logger
}

func NewService(
	transcriber stt.Transcriber,
	structurer assistant.Structurer,
	transcribeTimeout time.Duration,
	structureTimeout time.Duration,
	logger *Logger.Logger,
) Service {
	return &service{
		transcriber:  transcriber,
		structurer:   structurer,
		transcribeTO: transcribeTimeout,
		structureTO:  structureTimeout,
		logger:       logger,
	}
}

// Transcribe implements Service. Steps are strictly sequential: validate,
// spool to a temp file, transcribe, structure, parse. Each downstream call
// is made at most once; a failure at any step fails the whole request.
func (s *service) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error) {
	reqID := uuid.New()

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !AcceptedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedMediaType, ext, strings.Join(acceptedList(), ", "))
	}

	tmpPath, size, err := s.spoolUpload(req.Audio, ext)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			s.logger.Warnf("[%s] failed to remove temp upload %s: %v", reqID, tmpPath, rmErr)
		}
	}()

	if size == 0 {
		return nil, ErrEmptyUpload
	}

	s.logger.Infof("[%s] transcribing %s (%d bytes)", reqID, req.Filename, size)

	tctx, tcancel := context.WithTimeout(ctx, s.transcribeTO)
	defer tcancel()
	transcription, err := s.transcriber.TranscribeFile(tctx, tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	text := strings.TrimSpace(transcription.Text)
	if text == "" {
		return nil, ErrEmptyTranscription
	}

	s.logger.Infof("[%s] transcription complete: %d characters, structuring with %s",
		reqID, len(text), s.structurer.Name())

	sctx, scancel := context.WithTimeout(ctx, s.structureTO)
	defer scancel()
	raw, err := s.structurer.Complete(sctx, prompts.StructureNote(text))
	if err != nil {
		if errors.Is(err, assistant.ErrUnreachable) {
			return nil, fmt.Errorf("%w: %v", ErrStructurerUnreachable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
	}

	note := ParseNote(raw)
	s.logger.Infof("[%s] structured markdown created: %s", reqID, note.Title)

	return &TranscribeResult{
		Filename:      req.Filename,
		Transcription: text,
		Note:          note,
	}, nil
}

// Health implements Service.
func (s *service) Health(ctx context.Context) HealthReport {
	report := HealthReport{Whisper: "unreachable", Structurer: "unreachable"}
	if s.transcriber.IsAlive(ctx) {
		report.Whisper = "healthy"
	}
	if s.structurer.IsAlive(ctx) {
		report.Structurer = "healthy"
	}
	return report
}

// spoolUpload writes the upload to a scoped temp file. The caller owns
// removal.
func (s *service) spoolUpload(audio io.Reader, ext string) (string, int64, error) {
	tmp, err := os.CreateTemp("", "voicenote-*"+ext)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(tmp, audio)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("failed to save upload: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("failed to flush upload: %w", closeErr)
	}

	return tmp.Name(), size, nil
}

func acceptedList() []string {
	return []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac"}
}
