// Package pdf implements the DocumentRenderer port on top of a pure Go PDF
// parser, so viewing needs no external renderer binary.
package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

// Renderer opens PDF files for page text extraction.
type Renderer struct{}

var _ driven.DocumentRenderer = (*Renderer)(nil)

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Open parses the PDF at path. A missing file surfaces as the underlying
// os error; a present but unparseable file wraps domain.ErrRenderFailed.
func (r *Renderer) Open(_ context.Context, path string) (driven.RenderedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("statting document: %w", err)
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing pdf: %v", domain.ErrRenderFailed, err)
	}

	return &renderedDocument{file: file, reader: reader}, nil
}

// renderedDocument holds an open PDF file and its parsed reader.
type renderedDocument struct {
	file   *os.File
	reader *pdf.Reader
}

var _ driven.RenderedDocument = (*renderedDocument)(nil)

// PageCount returns the number of pages.
func (d *renderedDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts the text layer of a 1-indexed page.
func (d *renderedDocument) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 1 || page > d.reader.NumPage() {
		return "", fmt.Errorf("%w: page %d out of range 1..%d",
			domain.ErrInvalidInput, page, d.reader.NumPage())
	}

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", fmt.Errorf("%w: page %d is missing", domain.ErrRenderFailed, page)
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("%w: extracting page %d text: %v", domain.ErrRenderFailed, page, err)
	}
	return text, nil
}

// Close releases the underlying file handle.
func (d *renderedDocument) Close() error {
	return d.file.Close()
}
