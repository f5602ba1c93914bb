package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/booktalk"
	"github.com/fwojciec/booktalk/epub"
	"github.com/fwojciec/booktalk/gemini"
	"github.com/fwojciec/booktalk/goquery"
	"github.com/fwojciec/booktalk/openai"
	bookslog "github.com/fwojciec/booktalk/slog"
	"github.com/fwojciec/booktalk/sqlite"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorText(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the fragment index.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are built from flags.
	Extractor booktalk.BookExtractor
	Embedder  booktalk.Embedder
	Generator booktalk.Generator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("booktalk"),
		kong.Description("Run an interactive chat with AI to better understand a book."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig, configPaths()...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	switch {
	case cli.Verbose:
		level = slog.LevelDebug
	case cli.TUI:
		// Log lines would draw over the chat screen.
		level = slog.LevelWarn
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open index at %q: %w", cli.DB, err)
	}
	defer m.Close()
	deps.Index = sqlite.NewFragmentIndex(m.DB)

	if m.Extractor == nil {
		ex := epub.NewExtractor(goquery.NewTextExtractor())
		ex.SkipUnreadable = cli.SkipUnreadable
		ex.Logger = deps.Logger
		m.Extractor = ex
	}
	deps.Extractor = bookslog.NewLoggingBookExtractor(m.Extractor, deps.Logger)

	embedder, generator, tokens, err := m.providers(ctx, cli, deps)
	if err != nil {
		return err
	}
	deps.Embedder = bookslog.NewLoggingEmbedder(embedder, deps.Logger)
	deps.Generator = bookslog.NewLoggingGenerator(generator, tokens, deps.Logger)

	return cli.Run(deps)
}

// providers builds the embedder and generator for the selected provider,
// unless Main already holds them. The token counter is nil unless the
// provider has a local tokenizer.
func (m *Main) providers(ctx context.Context, cli *CLI, deps *Dependencies) (booktalk.Embedder, booktalk.Generator, booktalk.TokenCounter, error) {
	model, embedModel, baseURL := cli.Model, cli.EmbedModel, cli.BaseURL
	var tokens booktalk.TokenCounter

	switch cli.Provider {
	case ProviderGemini:
		if model == openai.DefaultModel {
			model = gemini.DefaultModel
		}
		if embedModel == openai.DefaultEmbedModel {
			embedModel = gemini.DefaultEmbedModel
		}
		if m.Embedder == nil || m.Generator == nil {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				fmt.Fprintln(deps.Stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
				return nil, nil, nil, booktalk.Errorf(booktalk.EINVALID, "GEMINI_API_KEY not set")
			}
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				return nil, nil, nil, booktalk.Errorf(booktalk.ESERVICE, "failed to connect to Gemini API: %v", err)
			}
			if m.Embedder == nil {
				m.Embedder = gemini.NewEmbedder(client, embedModel)
			}
			if m.Generator == nil {
				m.Generator = gemini.NewGenerator(client, model)
			}
		}
		if cli.Verbose {
			tc, err := gemini.NewTokenCounter(model)
			if err != nil {
				deps.Logger.Warn("token counting disabled", "err", err)
			} else {
				tokens = tc
			}
		}

	case ProviderOpenAI:
		if model == openai.DefaultModel {
			model = defaultOpenAIModel
		}
		if embedModel == openai.DefaultEmbedModel {
			embedModel = defaultOpenAIEmbedModel
		}
		if baseURL == openai.DefaultBaseURL {
			baseURL = ""
		}
		fallthrough

	default:
		client := openai.NewClient(baseURL, os.Getenv("OPENAI_API_KEY"))
		if m.Embedder == nil {
			m.Embedder = openai.NewEmbedder(client, embedModel)
		}
		if m.Generator == nil {
			m.Generator = openai.NewGenerator(client, model)
		}
	}

	deps.EmbedModel = embedModel
	return m.Embedder, m.Generator, tokens, nil
}

// Models used with the hosted OpenAI API when the Ollama defaults are left in place.
const (
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultOpenAIEmbedModel = "text-embedding-3-small"
)

// errorText returns the user-facing text of err. Application errors show
// their message; other errors show in full.
func errorText(err error) string {
	if booktalk.ErrorCode(err) == booktalk.EINTERNAL {
		return err.Error()
	}
	return booktalk.ErrorMessage(err)
}
