package html

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 10
}

// Normalise converts an HTML document to a normalised document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	title, content := extract(string(raw.Content))
	if title == "" {
		title = titleFromFilename(raw.Source)
	}

	now := time.Now()
	doc := domain.Document{
		ID:        uuid.New().String(),
		Source:    raw.Source,
		URI:       raw.URI,
		Title:     title,
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "html"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
}

// paragraphs are separated by a blank line; blocks by a newline.
var paragraphs = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Blockquote: true,
	atom.Pre: true, atom.Section: true, atom.Article: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true,
}

var blocks = map[atom.Atom]bool{
	atom.Div: true, atom.Li: true, atom.Tr: true, atom.Header: true,
	atom.Footer: true, atom.Dt: true, atom.Dd: true, atom.Main: true,
	atom.Nav: true, atom.Aside: true, atom.Hr: true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\n\f]+`)
	innerSpace = regexp.MustCompile(`[ \t]{2,}`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// extract returns the <title> text and the readable body text.
func extract(content string) (title, text string) {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		b       strings.Builder
		tb      strings.Builder
		depth   int
		inHead  bool
		inTitle bool
		inCell  bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(spaceRun.ReplaceAllString(tb.String(), " ")), tidy(b.String())

		case html.TextToken:
			switch {
			case inTitle:
				tb.Write(z.Text())
			case depth == 0 && !inHead:
				b.WriteString(spaceRun.ReplaceAllString(string(z.Text()), " "))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = tt == html.StartTagToken
				continue
			case a == atom.Head:
				inHead = tt == html.StartTagToken
				continue
			case a == atom.Body:
				inHead = false
				continue
			case skipped[a]:
				if tt == html.StartTagToken {
					depth++
				}
				continue
			}
			if depth > 0 || inHead {
				continue
			}
			switch {
			case a == atom.Br:
				b.WriteByte('\n')
			case a == atom.Td || a == atom.Th:
				if inCell {
					b.WriteString(" | ")
				}
				inCell = true
			case a == atom.Tr:
				inCell = false
				breakLine(&b, 1)
			case paragraphs[a]:
				breakLine(&b, 2)
			case blocks[a]:
				breakLine(&b, 1)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = false
				continue
			case a == atom.Head:
				inHead = false
				continue
			case skipped[a]:
				if depth > 0 {
					depth--
				}
				continue
			}
			if depth > 0 || inHead {
				continue
			}
			switch {
			case paragraphs[a]:
				breakLine(&b, 2)
			case blocks[a]:
				breakLine(&b, 1)
			}
		}
	}
}

// breakLine ensures the text written so far ends with at least n newlines.
func breakLine(b *strings.Builder, n int) {
	s := strings.TrimRight(b.String(), " ")
	if s == "" {
		return
	}
	for have := len(s) - len(strings.TrimRight(s, "\n")); have < n; have++ {
		b.WriteByte('\n')
	}
}

// tidy trims every line and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = innerSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

func titleFromFilename(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
