package prompts

import (
	"strings"
	"testing"
)

func TestStructureNoteEmbedsTranscription(t *testing.T) {
	prompt := StructureNote("buy milk and eggs")
	if !strings.Contains(prompt, "buy milk and eggs") {
		t.Error("prompt must embed the raw transcription")
	}
	if !strings.Contains(prompt, `"title"`) || !strings.Contains(prompt, `"content"`) {
		t.Error("prompt must request a title/content JSON object")
	}
}
