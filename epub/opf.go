package epub

import (
	"errors"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/booktalk"
)

// packageDoc is the subset of the OPF package document the extractor uses.
type packageDoc struct {
	title   string
	creator string
	items   []manifestItem // Manifest order
}

// manifestItem is one <item> of the OPF manifest.
type manifestItem struct {
	id         string
	href       string // Resolved against the package document directory
	mediaType  string
	properties []string
}

// isDocument reports whether the item is a content document. Navigation
// documents, stylesheets, images, fonts and the NCX are not.
func (i manifestItem) isDocument() bool {
	switch i.mediaType {
	case "application/xhtml+xml", "text/html":
	default:
		return false
	}
	for _, p := range i.properties {
		if p == "nav" {
			return false
		}
	}
	return true
}

// readPackage parses the OPF package document at opfPath.
func (a *archive) readPackage(opfPath string) (*packageDoc, error) {
	doc, err := a.readXML(opfPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "missing package document %s", opfPath)
	}
	if err != nil {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "invalid package document %s: %v", opfPath, err)
	}

	root := doc.Root()
	if root.Tag != "package" {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "invalid package document %s: root element is <%s>", opfPath, root.Tag)
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	pkg := &packageDoc{}

	for _, metadata := range children(root, "metadata") {
		if pkg.title == "" {
			pkg.title = firstText(descendants(metadata, "title"))
		}
		if pkg.creator == "" {
			pkg.creator = firstText(descendants(metadata, "creator"))
		}
	}

	manifests := children(root, "manifest")
	if len(manifests) == 0 {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "package document %s has no manifest", opfPath)
	}
	for _, item := range children(manifests[0], "item") {
		href := item.SelectAttrValue("href", "")
		if href == "" {
			continue
		}
		pkg.items = append(pkg.items, manifestItem{
			id:         item.SelectAttrValue("id", ""),
			href:       resolveHref(baseDir, href),
			mediaType:  strings.ToLower(strings.TrimSpace(item.SelectAttrValue("media-type", ""))),
			properties: strings.Fields(item.SelectAttrValue("properties", "")),
		})
	}

	return pkg, nil
}

// documents returns the content documents of the manifest, in manifest order.
func (p *packageDoc) documents() []manifestItem {
	var docs []manifestItem
	for _, item := range p.items {
		if item.isDocument() {
			docs = append(docs, item)
		}
	}
	return docs
}

// resolveHref resolves a manifest href against the package document directory.
func resolveHref(baseDir, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return path.Clean(href)
	}
	return path.Join(baseDir, href)
}

// firstText returns the trimmed text of the first element, which is the
// "first value" of a Dublin Core field. Empty when there is none.
func firstText(elems []*etree.Element) string {
	if len(elems) == 0 {
		return ""
	}
	return strings.TrimSpace(elems[0].Text())
}
