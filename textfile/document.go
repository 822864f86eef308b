package textfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/npillmayer/lineindex"
)

// ErrNotText is returned by Load for files which are not valid UTF-8.
var ErrNotText = errors.New("textfile: not a UTF-8 text file")

// Document is a mutable text together with its line index.
// Offsets are byte offsets.
type Document struct {
	text  []byte
	lines *lineindex.Manager
}

// NewDocument creates a document holding text. Options are handed on to the
// line index.
func NewDocument(text string, opts ...lineindex.Option) *Document {
	doc := &Document{text: []byte(text)}
	doc.lines = lineindex.NewManager(doc, opts...)
	doc.lines.Rebuild(text)
	return doc
}

// Load reads a file, which must be a UTF-8 text file, into a document.
func Load(name string, opts ...lineindex.Option) (*Document, error) {
	file, err := openFile(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("textfile: error loading %s: %w", name, err)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, name)
	}
	doc := NewDocument(string(b), opts...)
	tracer().Infof("loaded %s: %d bytes in %d lines", name, doc.Len(), doc.lines.LineCount())
	return doc, nil
}

// openFile opens an OS file for reading, checking that it is a regular file.
func openFile(name string) (*os.File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("textfile: %s is not a regular file", name)
	}
	return os.Open(name) // just open for read access
}

// CharAt returns the byte at offset. It is part of interface
// lineindex.CharacterSource.
func (doc *Document) CharAt(offset int) byte {
	return doc.text[offset]
}

// Len returns the length of the document in bytes.
func (doc *Document) Len() int {
	return len(doc.text)
}

func (doc *Document) String() string {
	return string(doc.text)
}

// Manager returns the line index of the document.
func (doc *Document) Manager() *lineindex.Manager {
	return doc.lines
}

// Insert inserts s at offset.
func (doc *Document) Insert(offset int, s string) error {
	if offset < 0 || offset > len(doc.text) {
		return fmt.Errorf("%w: insert at %d, document has %d bytes",
			lineindex.ErrIndexOutOfBounds, offset, len(doc.text))
	}
	doc.text = slices.Insert(doc.text, offset, []byte(s)...)
	doc.lines.InsertText(s, offset)
	return nil
}

// Delete removes length bytes at offset.
func (doc *Document) Delete(offset, length int) error {
	if err := doc.checkRange(offset, length); err != nil {
		return err
	}
	doc.text = slices.Delete(doc.text, offset, offset+length)
	doc.lines.RemoveCharacters(offset, length)
	return nil
}

// Replace replaces length bytes at offset by s.
func (doc *Document) Replace(offset, length int, s string) error {
	if err := doc.checkRange(offset, length); err != nil {
		return err
	}
	doc.text = slices.Concat(doc.text[:offset], []byte(s), doc.text[offset+length:])
	doc.lines.ReplaceCharacters(offset, length, s)
	return nil
}

func (doc *Document) checkRange(offset, length int) error {
	if length < 0 {
		return fmt.Errorf("%w: negative length %d", lineindex.ErrIllegalArguments, length)
	}
	if offset < 0 || offset+length > len(doc.text) {
		return fmt.Errorf("%w: range [%d,%d), document has %d bytes",
			lineindex.ErrIndexOutOfBounds, offset, offset+length, len(doc.text))
	}
	return nil
}

// Line returns the content of the line with 0-based index, without its
// delimiter.
func (doc *Document) Line(index int) (string, error) {
	if index < 0 || index >= doc.lines.LineCount() {
		return "", fmt.Errorf("%w: line %d, document has %d lines",
			lineindex.ErrIndexOutOfBounds, index, doc.lines.LineCount())
	}
	line := doc.lines.LineAt(index)
	return string(doc.text[line.Start() : line.Start()+line.Length()]), nil
}
