package llm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"
)

// Archive persists each prompt/response pair to disk for later review.
// Saving is best effort and never blocks the calling pipeline on more
// than a local file write.
type Archive struct {
	dir     string
	encoder *tiktoken.Tiktoken
}

// NewArchive creates an archive writing into dir, creating it if needed.
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	// The encoder needs its BPE vocabulary, which may not be available
	// offline; token estimates fall back to a character heuristic.
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		slog.Debug("tiktoken encoder unavailable, using character estimate", "error", err)
		encoder = nil
	}

	return &Archive{dir: dir, encoder: encoder}, nil
}

// EstimateTokens returns the token count of the text, by real encoding
// when the vocabulary loaded and otherwise by the ~4 chars/token rule.
func (a *Archive) EstimateTokens(text string) int {
	if a.encoder != nil {
		return len(a.encoder.Encode(text, nil, nil))
	}
	return len(text) / 4
}

// Save writes one prompt/response exchange to a new archive file and
// returns its path.
func (a *Archive) Save(label, prompt, response string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("archive id: %w", err)
	}

	path := filepath.Join(a.dir, id.String()+".md")
	content := fmt.Sprintf(
		"# %s\n\ntime: %s\nprompt tokens (estimated): %d\nresponse tokens (estimated): %d\n\n## Prompt\n\n%s\n\n## Response\n\n%s\n",
		label,
		time.Now().UTC().Format(time.RFC3339),
		a.EstimateTokens(prompt),
		a.EstimateTokens(response),
		prompt,
		response,
	)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return path, nil
}
