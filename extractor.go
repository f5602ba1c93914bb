package booktalk

// TextExtractor turns HTML markup into plain text.
type TextExtractor interface {
	// BodyHTML returns the inner markup of the body element of an HTML
	// document. Returns an empty string if the document has no body content.
	BodyHTML(document string) (string, error)

	// ExtractText returns the text content of markup in document order.
	// Every anchor element is removed together with everything nested in it
	// before the text is collected, which drops footnote markers along with
	// any other link text.
	ExtractText(markup string) (string, error)
}
