package booktalk

import (
	"strings"
)

// FormatFragments joins fragment texts in the given order, separated by blank lines.
func FormatFragments(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Fragment == nil {
			continue
		}
		parts = append(parts, r.Fragment.Content)
	}

	return strings.Join(parts, "\n\n")
}

// FormatPrompt builds the prompt sent to the language model. Fragments are
// rendered as raw text in the order given, which is the index order
// (most similar first). The book label is mentioned when the book has a title.
func FormatPrompt(book *Book, results []SearchResult, question string) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful literature expert, which helps people with understanding books.\n")
	if book != nil && book.Label() != "" {
		sb.WriteString("The user is reading the book " + book.Label() + ".\n")
	}
	sb.WriteString("Here are some relevant fragments from the book: ")
	sb.WriteString(FormatFragments(results))
	sb.WriteString(".\n")
	sb.WriteString("Here is the user's question: ")
	sb.WriteString(question)
	sb.WriteString(".\n")
	sb.WriteString("Answer the question as if you had read the whole book, not only the fragments above.\n")
	sb.WriteString("Format your answer in multiple paragraphs rather than one block of text.\n")

	return sb.String()
}
