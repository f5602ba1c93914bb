package gemini

import (
	"context"

	"github.com/fwojciec/booktalk"
	"google.golang.org/genai"
)

// Ensure Embedder implements booktalk.Embedder at compile time.
var _ booktalk.Embedder = (*Embedder)(nil)

// Embedder implements booktalk.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects DefaultEmbedModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbedModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, booktalk.Errorf(booktalk.ESERVICE, "gemini embed: %v", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, booktalk.Errorf(booktalk.ESERVICE, "gemini returned wrong number of embeddings")
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, booktalk.Errorf(booktalk.ESERVICE, "gemini returned empty embedding %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
