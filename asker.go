package booktalk

import "context"

// Generator produces free text from a prompt using a language model.
type Generator interface {
	// Generate returns the model output for prompt.
	// Returns ESERVICE if the generation backend fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Asker provides natural language question answering over a book.
type Asker interface {
	// Ask answers a natural language question about the indexed book.
	// Returns EINVALID if the question is empty.
	Ask(ctx context.Context, question string) (string, error)
}

// TokenCounter measures how many tokens a prompt occupies for a model.
// Used only to report prompt sizes; answers never depend on it.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
