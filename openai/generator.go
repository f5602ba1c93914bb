package openai

import (
	"context"

	"github.com/fwojciec/booktalk"
	openai "github.com/sashabaranov/go-openai"
)

// Ensure Generator implements booktalk.Generator at compile time.
var _ booktalk.Generator = (*Generator)(nil)

// Generator implements booktalk.Generator with the chat completions endpoint.
// The prompt is sent as a single user message.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate returns the content of the first completion choice.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", booktalk.Errorf(booktalk.EINVALID, "prompt required")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", serviceError("generate", err)
	}
	if len(resp.Choices) == 0 {
		return "", booktalk.Errorf(booktalk.ESERVICE, "generate: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
