// Package pdf extracts text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const maxTitleLen = 200

// PageExtractor returns the text of each page in order.
type PageExtractor func(content []byte) ([]string, error)

// Normaliser handles PDF documents.
type Normaliser struct {
	extract PageExtractor
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithPageExtractor replaces the PDF parser. Used in tests.
func WithPageExtractor(fn PageExtractor) Option {
	return func(n *Normaliser) {
		if fn != nil {
			n.extract = fn
		}
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{extract: ExtractPages}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every non-empty page, joined by a blank line.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := n.extract(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", raw.Source, err)
	}

	content := JoinPages(pages)

	now := time.Now()
	doc := domain.Document{
		ID:        uuid.New().String(),
		Source:    raw.Source,
		URI:       raw.URI,
		Title:     extractTitle(content, raw.Source),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["pages"] = len(pages)

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// JoinPages strips each page, skips empty ones and joins the rest with "\n\n".
func JoinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			kept = append(kept, page)
		}
	}
	return strings.Join(kept, "\n\n")
}

// ExtractPages parses a PDF and returns the plain text of each page.
// Malformed files can make the parser panic; that is reported as an error.
func ExtractPages(content []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, source string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLen {
			return line
		}
	}
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
