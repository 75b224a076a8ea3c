package prompts

import "fmt"

// structureNoteTemplate is the fixed instruction sent to the structuring
// model. The model is asked for a JSON object so the response can be parsed
// without scraping free text; transcript.ParseNote still tolerates models
// that answer with plain prose.
const structureNoteTemplate = `You are a helpful assistant that converts voice note transcriptions into well-structured markdown documents.

Given the following transcription, please:
1. Create a short, descriptive title for the content
2. Structure the content into a well-formatted markdown document with appropriate headings and bullet points, summarizing key points, action items, and decisions
3. Fix any grammar or punctuation issues
4. Make it readable and professional

Transcription:
%s

Please respond with a JSON object containing:
- "title": A concise, descriptive title (without markdown formatting)
- "content": The full formatted markdown content (including the title as # heading)

Example response format:
{
  "title": "Meeting Notes - Project Update",
  "content": "# Meeting Notes - Project Update\n\n## Key Points\n\n- Point 1\n- Point 2\n\n## Action Items\n\n1. Task 1\n2. Task 2"
}`

// StructureNote embeds a raw transcription into the structuring instruction.
func StructureNote(transcription string) string {
	return fmt.Sprintf(structureNoteTemplate, transcription)
}
