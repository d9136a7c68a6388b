package prompts

import (
	"fmt"
	"strings"
	"time"
)

// Fact is one knowledge item injected into a prompt.
type Fact struct {
	Knowledge string
	Source    string
	CreatedAt time.Time
}

const historyHeader = "Conversation so far:"

const knowledgeHeader = "Relevant knowledge:"

const priorKnowledgeHeader = "Prior knowledge:"

// ReplyPrompt assembles the full prompt for a conversational reply:
// persona instructions, then the transcript, then the knowledge items,
// then the new user message. The history and knowledge sections are
// omitted entirely (header included) when empty.
func ReplyPrompt(instructions string, transcript []Entry, knowledge []Fact, userMessage string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instructions))

	if len(transcript) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(historyHeader)
		sb.WriteString("\n")
		sb.WriteString(RenderTranscript(transcript))
	}

	if len(knowledge) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(knowledgeHeader)
		sb.WriteString("\n")
		writeFacts(&sb, knowledge)
	}

	sb.WriteString("\n\nUser message:\n")
	sb.WriteString(userMessage)
	return sb.String()
}

// writeFacts renders knowledge items one per line, stamped with their
// creation time when known.
func writeFacts(sb *strings.Builder, facts []Fact) {
	for _, f := range facts {
		sb.WriteString("- ")
		if !f.CreatedAt.IsZero() {
			fmt.Fprintf(sb, "[%s] ", f.CreatedAt.UTC().Format(time.RFC3339))
		}
		sb.WriteString(f.Knowledge)
		if f.Source != "" {
			fmt.Fprintf(sb, " (source: %s)", f.Source)
		}
		sb.WriteString("\n")
	}
}

// ExtractionPrompt assembles the prompt asking the extract agent to pull
// knowledge items out of a single user message. The facts already in
// the base are included as context so the model does not re-derive
// known facts; the section is omitted when the base is empty.
func ExtractionPrompt(instructions string, known []Fact, userMessage string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instructions))

	if len(known) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(priorKnowledgeHeader)
		sb.WriteString("\n")
		writeFacts(&sb, known)
	}

	sb.WriteString("\n\nMessage:\n")
	sb.WriteString(userMessage)
	return sb.String()
}

// TitlePrompt assembles the prompt asking the summarize agent for a
// short chat title from the transcript so far.
func TitlePrompt(instructions string, transcript []Entry) string {
	return fmt.Sprintf("%s\n\n%s\n%s",
		strings.TrimSpace(instructions), historyHeader, RenderTranscript(transcript))
}

// CompressionPrompt assembles the prompt asking the compress agent to
// fold a run of live messages into one summary. Only live entries are
// passed; earlier summaries are never re-summarized.
func CompressionPrompt(instructions string, entries []Entry) string {
	return fmt.Sprintf("%s\n\nMessages to summarize:\n%s",
		strings.TrimSpace(instructions), RenderTranscript(entries))
}
