package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/llm"
	"github.com/lorekeeper/lorekeeper/internal/prompts"
)

// Compactor folds the oldest live messages of a chat into a compressed
// summary once the live tail grows past a threshold. Folded messages
// stay in storage; the watermark hides them from prompt assembly.
type Compactor struct {
	store     Store
	llm       llm.Client
	threshold int
	fold      int
	logger    *slog.Logger
}

// NewCompactor creates a compactor that triggers once the live tail
// exceeds threshold messages and folds the oldest fold of them per run.
// A fold larger than the tail is clamped to it.
func NewCompactor(st Store, client llm.Client, threshold, fold int, logger *slog.Logger) *Compactor {
	return &Compactor{
		store:     st,
		llm:       client,
		threshold: threshold,
		fold:      fold,
		logger:    logger,
	}
}

// Compact performs at most one fold on the chat and reports whether it
// folded anything. The summary row is written before the watermark
// advances, so a failure between the two leaves the live tail intact
// (the next run re-folds; the stale summary is harmless but never
// hides messages).
func (c *Compactor) Compact(ctx context.Context, chatID int64) (bool, error) {
	chat, err := c.store.GetChat(chatID)
	if err != nil {
		return false, fmt.Errorf("get chat: %w", err)
	}

	live, err := c.store.MessagesAfter(chatID, chat.CompactionWatermark)
	if err != nil {
		return false, fmt.Errorf("load live messages: %w", err)
	}
	if len(live) <= c.threshold {
		return false, nil
	}

	folding := live[:min(c.fold, len(live))]
	entries := make([]prompts.Entry, len(folding))
	for i, m := range folding {
		entries[i] = prompts.LiveEntry(m.FromUser(), m.Content, m.CreatedAt)
	}

	prompt := prompts.CompressionPrompt(agent.Compress.Instructions(), entries)
	res, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("compression call: %w", err)
	}

	first, last := folding[0], folding[len(folding)-1]
	if _, err := c.store.CreateCompressedChat(chatID, first.CreatedAt, last.CreatedAt, res.Text, len(folding)); err != nil {
		return false, fmt.Errorf("persist summary: %w", err)
	}
	if err := c.store.UpdateChatWatermark(chatID, last.ID); err != nil {
		return false, fmt.Errorf("advance watermark: %w", err)
	}

	c.logger.Info("compacted chat history",
		"chat", chatID, "folded", len(folding), "watermark", last.ID)
	return true, nil
}
