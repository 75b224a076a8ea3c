package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voicenote/transcriber/internal/domains/transcript"
	"github.com/voicenote/transcriber/pkg/Logger"
)

// TranscribeHandler handles audio upload requests
type TranscribeHandler struct {
	service  transcript.Service
	maxBytes int64
	logger   *Logger.Logger
}

// NewTranscribeHandler creates a new transcribe handler
func NewTranscribeHandler(service transcript.Service, maxBytes int64, logger *Logger.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Transcribe handles one multipart audio upload: transcribe, structure,
// return the aggregate result. Stateless; every request fails or succeeds
// independently.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "multipart form must contain a single 'file' field"})
		return
	}

	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Detail: fmt.Sprintf("file too large: %d bytes (limit %d)", fileHeader.Size, h.maxBytes),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Errorf("failed to open upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to read upload"})
		return
	}
	defer file.Close()

	result, err := h.service.Transcribe(c.Request.Context(), transcript.TranscribeRequest{
		Filename: fileHeader.Filename,
		Audio:    file,
	})
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Errorf("transcribe %s failed: %v", fileHeader.Filename, err)
		}
		c.JSON(status, ErrorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TranscribeResponse{
		Success:       true,
		Filename:      result.Filename,
		Transcription: result.Transcription,
		Title:         result.Note.Title,
		Markdown:      result.Note.Markdown,
	})
}

// statusForError maps pipeline failures to HTTP statuses: 4xx for
// validation, 5xx for upstream failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, transcript.ErrUnsupportedMediaType),
		errors.Is(err, transcript.ErrEmptyUpload):
		return http.StatusBadRequest
	case errors.Is(err, transcript.ErrEmptyTranscription):
		return http.StatusUnprocessableEntity
	case errors.Is(err, transcript.ErrStructurerUnreachable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
