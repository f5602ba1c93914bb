package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/booktalk"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements booktalk.TextExtractor at compile time.
var _ booktalk.TextExtractor = (*TextExtractor)(nil)

// TextExtractor uses goquery to strip markup from book content.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// BodyHTML returns the inner markup of the document's body element.
func (e *TextExtractor) BodyHTML(document string) (string, error) {
	doc, err := parse(document)
	if err != nil {
		return "", err
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", nil
	}

	markup, err := body.Html()
	if err != nil {
		return "", booktalk.Errorf(booktalk.EFORMAT, "failed to render body: %v", err)
	}
	return markup, nil
}

// ExtractText removes every anchor element, including its descendants,
// and returns the remaining text content in document order.
func (e *TextExtractor) ExtractText(markup string) (string, error) {
	if markup == "" {
		return "", nil
	}

	doc, err := parse(markup)
	if err != nil {
		return "", err
	}

	// Anchors carry footnote markers; ordinary link text goes with them.
	doc.Find("a").Remove()

	return doc.Text(), nil
}

func parse(markup string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "failed to parse HTML: %v", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
