package gemini

import (
	"context"

	"github.com/fwojciec/booktalk"
	"google.golang.org/genai"
)

// Default models.
const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultEmbedModel = "text-embedding-004"
)

// Ensure Generator implements booktalk.Generator at compile time.
var _ booktalk.Generator = (*Generator)(nil)

// Generator implements booktalk.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate returns the model's answer to prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", booktalk.Errorf(booktalk.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", booktalk.Errorf(booktalk.ESERVICE, "gemini generate: %v", err)
	}
	if result == nil {
		return "", booktalk.Errorf(booktalk.ESERVICE, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// The persona is part of the prompt itself, so the system instruction only
// sets the answer format.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Keep answers about the book the user is reading. Write plain prose without Markdown headings.",
			}},
		},
		Temperature: &temp,
	}
}
