package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/llm"
	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/store"
)

// ExtractedFact is one item in the extract agent's JSON reply.
type ExtractedFact struct {
	Knowledge string `json:"knowledge"`
	Source    string `json:"source"`
}

// Extractor pulls knowledge items out of a user message and persists
// them into a knowledge base.
type Extractor struct {
	store  Store
	llm    llm.Client
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(st Store, client llm.Client, logger *slog.Logger) *Extractor {
	return &Extractor{store: st, llm: client, logger: logger}
}

// Extract asks the extract agent for knowledge items in the message and
// persists each into the knowledge base. The base's existing facts go
// into the prompt so the model can skip what is already known. Items
// with empty knowledge text are dropped. An empty array from the model
// is a normal outcome.
func (e *Extractor) Extract(ctx context.Context, baseID int64, message string) ([]store.Knowledge, error) {
	known, err := e.store.Knowledge(baseID)
	if err != nil {
		return nil, fmt.Errorf("load prior knowledge: %w", err)
	}

	prompt := prompts.ExtractionPrompt(agent.Extract.Instructions(), promptFacts(known), message)
	res, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	items, err := parseExtraction(res.Text)
	if err != nil {
		return nil, fmt.Errorf("parse extraction: %w", err)
	}

	var learned []store.Knowledge
	for _, item := range items {
		if strings.TrimSpace(item.Knowledge) == "" {
			e.logger.Debug("skipping empty extracted item", "source", item.Source)
			continue
		}
		k, err := e.store.CreateKnowledge(baseID, item.Knowledge, item.Source)
		if err != nil {
			e.logger.Warn("persist extracted knowledge failed",
				"base", baseID, "knowledge", item.Knowledge, "error", err)
			continue
		}
		learned = append(learned, *k)
	}

	if len(learned) > 0 {
		e.logger.Info("extracted knowledge", "base", baseID, "count", len(learned))
	}
	return learned, nil
}

// parseExtraction decodes the extract agent's reply: a JSON array of
// {knowledge, source} objects, possibly wrapped in a markdown code
// fence.
func parseExtraction(raw string) ([]ExtractedFact, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, nil
	}

	var items []ExtractedFact
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("unmarshal %q: %w", truncate(cleaned, 120), err)
	}
	return items, nil
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag, and trims whitespace.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line, if any.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
