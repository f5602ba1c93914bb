package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/booktalk"
)

const (
	containerPath = "META-INF/container.xml"
	rightsPath    = "META-INF/rights.xml"
	encryptPath   = "META-INF/encryption.xml"

	opfMediaType = "application/oebps-package+xml"
)

// archive wraps the ZIP container of an EPUB.
type archive struct {
	files map[string]*zip.File
}

// openArchive opens data as a ZIP archive.
func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "not an EPUB archive: %v", err)
	}

	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a, nil
}

// has reports whether the archive contains a file with the given name.
func (a *archive) has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// read returns the contents of the named file.
// Returns fs.ErrNotExist if the archive has no such file.
func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// readXML reads and parses the named XML file.
func (a *archive) readXML(name string) (*etree.Document, error) {
	data, err := a.read(name)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "%s has no root element", name)
	}
	return doc, nil
}

// rootfile returns the path of the package document named by container.xml.
// The first rootfile with the OPF media type wins; otherwise the first rootfile.
func (a *archive) rootfile() (string, error) {
	if !a.has(containerPath) {
		return "", booktalk.Errorf(booktalk.EFORMAT, "missing %s", containerPath)
	}

	doc, err := a.readXML(containerPath)
	if err != nil {
		return "", booktalk.Errorf(booktalk.EFORMAT, "invalid %s: %v", containerPath, err)
	}

	var first string
	for _, rootfiles := range children(doc.Root(), "rootfiles") {
		for _, rf := range children(rootfiles, "rootfile") {
			fullPath := rf.SelectAttrValue("full-path", "")
			if fullPath == "" {
				continue
			}
			if rf.SelectAttrValue("media-type", "") == opfMediaType {
				return fullPath, nil
			}
			if first == "" {
				first = fullPath
			}
		}
	}

	if first == "" {
		return "", booktalk.Errorf(booktalk.EFORMAT, "no rootfile in %s", containerPath)
	}
	return first, nil
}

// checkDRM rejects archives whose content documents are encrypted.
// Font obfuscation is not DRM and is allowed.
func (a *archive) checkDRM() error {
	if a.has(rightsPath) {
		return booktalk.Errorf(booktalk.EFORMAT, "DRM-protected EPUB cannot be read")
	}
	if !a.has(encryptPath) {
		return nil
	}

	doc, err := a.readXML(encryptPath)
	if err != nil {
		// An unreadable encryption manifest is treated as DRM.
		return booktalk.Errorf(booktalk.EFORMAT, "DRM-protected EPUB cannot be read")
	}

	for _, data := range descendants(doc.Root(), "EncryptedData") {
		var algorithm, uri string
		for _, method := range descendants(data, "EncryptionMethod") {
			algorithm = method.SelectAttrValue("Algorithm", "")
		}
		for _, ref := range descendants(data, "CipherReference") {
			uri = ref.SelectAttrValue("URI", "")
		}
		if isFontObfuscation(algorithm) {
			continue
		}
		if isContentFile(uri) {
			return booktalk.Errorf(booktalk.EFORMAT, "DRM-protected EPUB cannot be read")
		}
	}
	return nil
}

func isFontObfuscation(algorithm string) bool {
	return strings.Contains(algorithm, "obfuscation") &&
		(strings.Contains(algorithm, "idpf.org") || strings.Contains(algorithm, "adobe.com"))
}

func isContentFile(uri string) bool {
	uri = strings.ToLower(uri)
	for _, ext := range []string{".xhtml", ".html", ".htm", ".xml", ".css"} {
		if strings.HasSuffix(uri, ext) {
			return true
		}
	}
	return false
}

// children returns the child elements of e with the given local name,
// ignoring namespace prefixes.
func children(e *etree.Element, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// descendants returns all elements below e with the given local name, in
// document order.
func descendants(e *etree.Element, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
		out = append(out, descendants(c, tag)...)
	}
	return out
}
