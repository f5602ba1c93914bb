// Package openai implements embedding and generation against any
// OpenAI-compatible API, including Ollama.
package openai

import (
	"errors"

	"github.com/fwojciec/booktalk"
	openai "github.com/sashabaranov/go-openai"
)

// Default endpoint and models, matching a local Ollama install.
const (
	DefaultBaseURL    = "http://localhost:11434/v1"
	DefaultModel      = "llama3.2"
	DefaultEmbedModel = "mxbai-embed-large"
)

// NewClient returns a client for the API at baseURL. Ollama ignores the API
// key, so an empty key is allowed.
func NewClient(baseURL, apiKey string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

// serviceError wraps a backend failure as ESERVICE, keeping the HTTP status
// when the API reported one.
func serviceError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return booktalk.Errorf(booktalk.ESERVICE, "%s: %s (status %d)", op, apiErr.Message, apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return booktalk.Errorf(booktalk.ESERVICE, "%s: status %d", op, reqErr.HTTPStatusCode)
	}
	return booktalk.Errorf(booktalk.ESERVICE, "%s: %v", op, err)
}
