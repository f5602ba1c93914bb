package epub

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/fwojciec/booktalk"
	"golang.org/x/net/html/charset"
)

var (
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
	xmlEncoding = regexp.MustCompile(`^<\?xml[^>]*\sencoding=["']([A-Za-z0-9._:-]+)["']`)
)

// decodeItem returns the content of a document item as UTF-8. Items that are
// not valid UTF-8 are transcoded when their XML declaration names a known
// encoding. Anything else is an EENCODING error.
func decodeItem(name string, data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}

	m := xmlEncoding.FindSubmatch(data)
	if m == nil {
		return nil, booktalk.Errorf(booktalk.EENCODING, "%s is not valid UTF-8", name)
	}

	enc, _ := charset.Lookup(string(m[1]))
	if enc == nil {
		return nil, booktalk.Errorf(booktalk.EENCODING, "%s declares unknown encoding %q", name, m[1])
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(decoded) {
		return nil, booktalk.Errorf(booktalk.EENCODING, "%s cannot be decoded as %s", name, m[1])
	}
	return decoded, nil
}

// xhtmlBody returns the inner markup of the <body> element of an XHTML
// document. End tags are always written and namespace prefixes dropped so
// that the result reads the same when parsed as HTML.
func xhtmlBody(data []byte) (string, bool) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Entity: xml.HTMLEntity,
		// Content is already UTF-8.
		CharsetReader: func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		},
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return "", false
	}

	bodies := descendants(&doc.Element, "body")
	if len(bodies) == 0 {
		return "", false
	}

	body := bodies[0].Copy()
	dropPrefixes(body)
	out := etree.NewDocument()
	out.WriteSettings.CanonicalEndTags = true
	for _, tok := range append([]etree.Token(nil), body.Child...) {
		out.AddChild(tok)
	}

	s, err := out.WriteToString()
	if err != nil {
		return "", false
	}
	return s, true
}

// dropPrefixes clears the namespace prefix of e and every element below it,
// so that <h:a> is written as <a> and reads as an anchor when parsed as HTML.
func dropPrefixes(e *etree.Element) {
	e.Space = ""
	for _, c := range e.ChildElements() {
		dropPrefixes(c)
	}
}
