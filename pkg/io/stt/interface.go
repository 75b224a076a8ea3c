package stt

import "context"

// Transcription is the verbatim output of the speech-to-text service for a
// single audio file.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcriber maps one audio file on disk to text. Implementations are
// constructed once at startup and must be safe for concurrent use.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (*Transcription, error)
	IsAlive(ctx context.Context) bool
}
