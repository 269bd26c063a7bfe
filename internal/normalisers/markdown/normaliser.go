// Package markdown normalises Markdown files to plain text.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var multiNewlines = regexp.MustCompile(`\n{3,}`)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 10
}

// Normalise parses the Markdown and keeps its readable text. Headings become
// their own lines so section detection can see them; code blocks, images and
// raw HTML are dropped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src := raw.Content
	root := n.md.Parser().Parse(text.NewReader(src))

	title := headingTitle(root, src)
	if title == "" {
		title = titleFromFilename(raw.Source)
	}

	now := time.Now()
	doc := domain.Document{
		ID:        uuid.New().String(),
		Source:    raw.Source,
		URI:       raw.URI,
		Title:     title,
		Content:   plainText(root, src),
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// plainText renders block nodes as text. Tight list items are separated by a
// single newline and everything else by a blank line.
func plainText(root ast.Node, src []byte) string {
	var b strings.Builder

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.List, *east.Table:
			b.WriteString("\n")
			return ast.WalkContinue, nil
		}
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node.(type) {
		case *ast.Heading, *ast.Paragraph:
			inlineText(node, src, &b)
			b.WriteString("\n\n")
			return ast.WalkSkipChildren, nil
		case *ast.TextBlock:
			inlineText(node, src, &b)
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil
		case *east.TableHeader, *east.TableRow:
			var cells []string
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				var cell strings.Builder
				inlineText(c, src, &cell)
				cells = append(cells, strings.TrimSpace(cell.String()))
			}
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	content := multiNewlines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(content)
}

func inlineText(n ast.Node, src []byte, b *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
		case *ast.Image, *ast.RawHTML:
		default:
			inlineText(c, src, b)
		}
	}
}

// headingTitle returns the text of the first level-1 heading.
func headingTitle(root ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := node.(*ast.Heading); ok && entering && h.Level == 1 {
			var b strings.Builder
			inlineText(h, src, &b)
			title = strings.TrimSpace(b.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
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
