package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/booktalk"
	main "github.com/fwojciec/booktalk/cmd/booktalk"
	"github.com/fwojciec/booktalk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoAsker(asked *[]string) *mock.Asker {
	return &mock.Asker{
		AskFn: func(_ context.Context, question string) (string, error) {
			*asked = append(*asked, question)
			return "Answer to " + question, nil
		},
	}
}

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("answers until q", func(t *testing.T) {
		t.Parallel()

		var asked []string
		stdout := &bytes.Buffer{}

		err := main.Chat(context.Background(), echoAsker(&asked), strings.NewReader("Who is Ahab?\nq\nnever asked\n"), stdout)

		require.NoError(t, err)
		assert.Equal(t, []string{"Who is Ahab?"}, asked)
		assert.Equal(t, main.Prompt+"\nAnswer to Who is Ahab?\n\n"+main.Prompt, stdout.String())
	})

	t.Run("stops at end of input", func(t *testing.T) {
		t.Parallel()

		var asked []string
		stdout := &bytes.Buffer{}

		err := main.Chat(context.Background(), echoAsker(&asked), strings.NewReader("first\nsecond"), stdout)

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, asked)
		assert.Equal(t, 3, strings.Count(stdout.String(), main.Prompt))
	})

	t.Run("ignores empty lines", func(t *testing.T) {
		t.Parallel()

		var asked []string

		err := main.Chat(context.Background(), echoAsker(&asked), strings.NewReader("\n   \nreal\r\nq\n"), &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, []string{"real"}, asked)
	})

	t.Run("only a lone q quits", func(t *testing.T) {
		t.Parallel()

		var asked []string

		err := main.Chat(context.Background(), echoAsker(&asked), strings.NewReader("quit\n q\nq\n"), &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, []string{"quit", " q"}, asked)
	})

	t.Run("returns asker errors", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(context.Context, string) (string, error) {
				return "", booktalk.Errorf(booktalk.ESERVICE, "connection refused")
			},
		}

		err := main.Chat(context.Background(), asker, strings.NewReader("why?\n"), &bytes.Buffer{})

		assert.Equal(t, booktalk.ESERVICE, booktalk.ErrorCode(err))
	})
}
