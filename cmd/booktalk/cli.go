package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/booktalk"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor booktalk.BookExtractor
	Embedder  booktalk.Embedder
	Index     booktalk.FragmentIndex
	Generator booktalk.Generator

	// EmbedModel is part of the index key of a book.
	EmbedModel string
}

// Provider names.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"YAML file with flag defaults." placeholder:"PATH"`

	BookPath     string `arg:"" name:"book_path" type:"existingfile" help:"Path to an EPUB book."`
	Model        string `default:"llama3.2" env:"BOOKTALK_MODEL" help:"Language model used to answer questions."`
	NumFragments int    `name:"num_fragments" default:"10" env:"BOOKTALK_NUM_FRAGMENTS" help:"Number of relevant book fragments to use in RAG."`

	Provider   string `default:"ollama" enum:"ollama,openai,gemini" env:"BOOKTALK_PROVIDER" help:"Model provider (${enum})."`
	EmbedModel string `name:"embed-model" default:"mxbai-embed-large" env:"BOOKTALK_EMBED_MODEL" help:"Embedding model."`
	BaseURL    string `name:"base-url" default:"http://localhost:11434/v1" env:"BOOKTALK_BASE_URL" help:"OpenAI-compatible API endpoint."`

	ChunkSize      int     `name:"chunk-size" default:"1000" help:"Fragment size in characters."`
	ChunkOverlap   int     `name:"chunk-overlap" default:"500" help:"Characters shared by consecutive fragments."`
	Collection     string  `default:"book" help:"Index collection name."`
	DB             string  `name:"db" default:":memory:" env:"BOOKTALK_DB" help:"SQLite index path. A file keeps the index between runs."`
	Workers        int     `default:"4" help:"Concurrent embedding requests."`
	RPS            float64 `name:"rps" default:"0" help:"Embedding requests per second (0 is unlimited)."`
	BatchSize      int     `name:"batch-size" default:"32" help:"Fragments per embedding request."`
	SkipUnreadable bool    `name:"skip-unreadable" help:"Skip book files that cannot be decoded instead of failing."`
	Reindex        bool    `help:"Delete the stored index of the book and build it again."`

	TUI     bool `name:"tui" help:"Use the full-screen chat interface."`
	Verbose bool `short:"v" help:"Log debug output to stderr."`
}

// Validate checks flag combinations kong cannot express.
func (c *CLI) Validate() error {
	if c.NumFragments <= 0 {
		return booktalk.Errorf(booktalk.EINVALID, "--num_fragments must be positive")
	}
	if c.ChunkSize <= 0 {
		return booktalk.Errorf(booktalk.EINVALID, "--chunk-size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return booktalk.Errorf(booktalk.EINVALID, "--chunk-overlap must be between 0 and --chunk-size")
	}
	if c.Workers <= 0 {
		return booktalk.Errorf(booktalk.EINVALID, "--workers must be positive")
	}
	if c.BatchSize <= 0 {
		return booktalk.Errorf(booktalk.EINVALID, "--batch-size must be positive")
	}
	if c.RPS < 0 {
		return booktalk.Errorf(booktalk.EINVALID, "--rps must not be negative")
	}
	return nil
}
