package openai

import (
	"context"

	"github.com/fwojciec/booktalk"
	openai "github.com/sashabaranov/go-openai"
)

// Ensure Embedder implements booktalk.Embedder at compile time.
var _ booktalk.Embedder = (*Embedder)(nil)

// Embedder implements booktalk.Embedder with the embeddings endpoint.
type Embedder struct {
	client *openai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects DefaultEmbedModel.
func NewEmbedder(client *openai.Client, model string) *Embedder {
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

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, serviceError("embed", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, booktalk.Errorf(booktalk.ESERVICE, "embed: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// The API reports each vector's input position; responses are not
	// guaranteed to be in order.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vectors[d.Index] != nil {
			return nil, booktalk.Errorf(booktalk.ESERVICE, "embed: unexpected embedding index %d", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i := range d.Embedding {
			v[i] = float32(d.Embedding[i])
		}
		vectors[d.Index] = v
	}
	return vectors, nil
}
