package transcript

import (
	"encoding/json"
	"strings"
)

const (
	placeholderTitle = "Voice Note"
	fallbackTitle    = "Voice Note Transcription"
)

type structuredOutput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseNote turns the structuring model's raw output into a titled markdown
// note. The response format is not strictly schematized, so this is a
// tolerant best-effort transform: a JSON {title, content} object is used as
// is, a missing title is derived from the markdown, and anything that is not
// JSON at all becomes the body of a placeholder document.
func ParseNote(raw string) Note {
	var out structuredOutput
	if err := json.Unmarshal([]byte(raw), &out); err == nil && strings.TrimSpace(out.Content) != "" {
		title := strings.TrimSpace(out.Title)
		if title == "" {
			title = deriveTitle(out.Content)
		}
		return Note{Title: title, Markdown: out.Content}
	}

	return Note{
		Title:    fallbackTitle,
		Markdown: "# " + fallbackTitle + "\n\n" + raw,
	}
}

// deriveTitle falls back to the first markdown heading, else the first
// non-empty line, else a fixed placeholder.
func deriveTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stripped := strings.TrimSpace(strings.TrimLeft(line, "# "))
		if stripped == "" {
			continue
		}
		return stripped
	}
	return placeholderTitle
}
