package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/llm"
	"github.com/lorekeeper/lorekeeper/internal/prompts"
)

// titleLimit caps a generated chat title.
const titleLimit = 100

// Titler generates a short chat title from the transcript.
type Titler struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewTitler creates a titler.
func NewTitler(client llm.Client, logger *slog.Logger) *Titler {
	return &Titler{llm: client, logger: logger}
}

// Title asks the summarize agent for a title. The reply is reduced to
// its first line, unquoted, and length-capped; an effectively empty
// reply is an error so the provisional title is kept.
func (t *Titler) Title(ctx context.Context, transcript []prompts.Entry) (string, error) {
	prompt := prompts.TitlePrompt(agent.Summarize.Instructions(), transcript)
	res, err := t.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("title call: %w", err)
	}

	title := cleanTitle(res.Text)
	if title == "" {
		return "", fmt.Errorf("empty title from model")
	}
	return title, nil
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > titleLimit {
		s = string(runes[:titleLimit])
	}
	return s
}
