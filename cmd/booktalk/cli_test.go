package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/booktalk"
	main "github.com/fwojciec/booktalk/cmd/booktalk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates an empty file for the book_path argument.
func touch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestCLI_HelpShowsAllFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, flag := range []string{"book_path", "--model", "--num_fragments", "--provider", "--embed-model", "--db", "--config"} {
		assert.Contains(t, helpOutput, flag, "Help should mention %s", flag)
	}
}

func TestCLI_Defaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	book := touch(t)
	_, err = parser.Parse([]string{book})

	require.NoError(t, err)
	assert.Equal(t, book, cli.BookPath)
	assert.Equal(t, 10, cli.NumFragments)
	assert.Equal(t, 1000, cli.ChunkSize)
	assert.Equal(t, 500, cli.ChunkOverlap)
	assert.Equal(t, main.ProviderOllama, cli.Provider)
	assert.Equal(t, ":memory:", cli.DB)
	assert.Equal(t, "book", cli.Collection)
}

func TestCLI_RejectsMissingBook(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{filepath.Join(t.TempDir(), "missing.epub")})

	assert.Error(t, err)
}

func TestCLI_RejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--provider", "anthropic", touch(t)})

	assert.Error(t, err)
}

func TestCLI_Validate(t *testing.T) {
	t.Parallel()

	valid := func() main.CLI {
		return main.CLI{NumFragments: 10, ChunkSize: 1000, ChunkOverlap: 500, Workers: 4, BatchSize: 32}
	}

	tests := []struct {
		name   string
		modify func(*main.CLI)
		want   string
	}{
		{"defaults", func(*main.CLI) {}, ""},
		{"zero fragments", func(c *main.CLI) { c.NumFragments = 0 }, "--num_fragments"},
		{"zero chunk size", func(c *main.CLI) { c.ChunkSize = 0 }, "--chunk-size"},
		{"negative overlap", func(c *main.CLI) { c.ChunkOverlap = -1 }, "--chunk-overlap"},
		{"overlap equals size", func(c *main.CLI) { c.ChunkOverlap = 1000 }, "--chunk-overlap"},
		{"zero overlap", func(c *main.CLI) { c.ChunkOverlap = 0 }, ""},
		{"zero workers", func(c *main.CLI) { c.Workers = 0 }, "--workers"},
		{"zero batch size", func(c *main.CLI) { c.BatchSize = 0 }, "--batch-size"},
		{"negative rps", func(c *main.CLI) { c.RPS = -1 }, "--rps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := valid()
			tt.modify(&cli)

			err := cli.Validate()

			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, booktalk.EINVALID, booktalk.ErrorCode(err))
			assert.Contains(t, booktalk.ErrorMessage(err), tt.want)
		})
	}
}
