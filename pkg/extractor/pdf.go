// Package extractor turns PDF bytes into per-page table and plain-text views.
package extractor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnreadableDocument is returned for corrupt, encrypted or non-PDF content.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrPartialExtraction is returned alongside the pages that did parse when a later page fails.
	ErrPartialExtraction = errors.New("partial extraction")
)

// Pages gives page-by-page access to an opened document. Page numbers start at 1.
type Pages interface {
	NumPages() int
	Page(n int) (models.PageTextUnit, error)
}

// PDFExtractor opens documents with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// Open parses the PDF cross-reference table without extracting any page yet.
func (PDFExtractor) Open(data []byte) (Pages, error) {
	doc, err := Open(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Document is an opened PDF.
type Document struct {
	reader *pdf.Reader
}

// Open parses the PDF cross-reference table without extracting any page yet.
func Open(data []byte) (doc *Document, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrUnreadableDocument)
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}
	if reader.NumPage() == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrUnreadableDocument)
	}
	return &Document{reader: reader}, nil
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Page extracts both views of page n. The table view may be empty; the plain
// text view is always computed from the page content independently of it.
func (d *Document) Page(n int) (unit models.PageTextUnit, err error) {
	unit.Number = n

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: page %d: %v", ErrUnreadableDocument, n, r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return unit, fmt.Errorf("%w: page %d missing", ErrUnreadableDocument, n)
	}

	content := p.Content()
	lines := groupLines(content.Text)
	unit.Tables = detectTables(lines, len(content.Rect) > 0)
	unit.PlainText = plainText(lines)

	if unit.PlainText == "" {
		// Fall back to the library's own text walk when positioned glyphs are unavailable.
		text, err := p.GetPlainText(nil)
		if err != nil {
			return unit, fmt.Errorf("%w: page %d: %w", ErrUnreadableDocument, n, err)
		}
		unit.PlainText = text
	}
	return unit, nil
}

// Extract returns every page of data. If a page fails after earlier pages
// parsed, those pages are returned with an error wrapping ErrPartialExtraction.
func Extract(data []byte) ([]models.PageTextUnit, error) {
	doc, err := Open(data)
	if err != nil {
		return nil, err
	}

	pages := make([]models.PageTextUnit, 0, doc.NumPages())
	for n := 1; n <= doc.NumPages(); n++ {
		unit, err := doc.Page(n)
		if err != nil {
			if len(pages) == 0 {
				return nil, err
			}
			return pages, fmt.Errorf("%w: stopped at page %d of %d: %w", ErrPartialExtraction, n, doc.NumPages(), err)
		}
		pages = append(pages, unit)
	}
	return pages, nil
}
