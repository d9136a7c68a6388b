// Package prompts assembles the text prompts sent to the generation
// backend. Templates are constants; builders interpolate runtime data.
package prompts

import (
	"fmt"
	"strings"
	"time"
)

// EntryKind distinguishes the two transcript entry variants.
type EntryKind int

const (
	// EntryLive is a verbatim stored message.
	EntryLive EntryKind = iota
	// EntryCompressed is a summary standing in for a folded range of
	// messages.
	EntryCompressed
)

// Entry is one line of a rendered transcript: either a live message or
// a compressed summary. The Kind tag selects which fields are set.
type Entry struct {
	Kind EntryKind

	// Live fields.
	FromUser bool
	Content  string
	Time     time.Time

	// Compressed fields.
	Summary      string
	Start        time.Time
	End          time.Time
	MessageCount int
}

// LiveEntry builds a transcript entry for a stored message.
func LiveEntry(fromUser bool, content string, at time.Time) Entry {
	return Entry{Kind: EntryLive, FromUser: fromUser, Content: content, Time: at}
}

// CompressedEntry builds a transcript entry for a folded summary.
func CompressedEntry(summary string, start, end time.Time, messageCount int) Entry {
	return Entry{
		Kind:         EntryCompressed,
		Summary:      summary,
		Start:        start,
		End:          end,
		MessageCount: messageCount,
	}
}

func (e Entry) render() string {
	switch e.Kind {
	case EntryCompressed:
		return fmt.Sprintf("[%s - %s] Summarized (%d messages): %s",
			e.Start.UTC().Format(time.RFC3339),
			e.End.UTC().Format(time.RFC3339),
			e.MessageCount,
			e.Summary)
	default:
		speaker := "Assistant"
		if e.FromUser {
			speaker = "User"
		}
		return fmt.Sprintf("[%s] %s: %s",
			e.Time.UTC().Format(time.RFC3339),
			speaker,
			e.Content)
	}
}

// RenderTranscript renders entries one per line, in the given order.
// Callers pass compressed summaries first, then live messages, so the
// model reads the history oldest to newest.
func RenderTranscript(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.render()
	}
	return strings.Join(lines, "\n")
}
