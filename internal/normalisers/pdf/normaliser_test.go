package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func pages(p ...string) PageExtractor {
	return func(_ []byte) ([]string, error) { return p, nil }
}

func TestSupportedMIMETypes(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"application/pdf"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_JoinsNonEmptyPages(t *testing.T) {
	n := New(WithPageExtractor(pages("  Jane Doe\nSkills  ", "", "   \n", "Education\nBSc")))
	raw := &domain.RawDocument{
		Source:   "jane_doe-cv.pdf",
		URI:      "/tmp/jane_doe-cv.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
		Metadata: map[string]any{"size": 8},
	}

	result, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "jane_doe-cv.pdf", doc.Source)
	assert.Equal(t, "/tmp/jane_doe-cv.pdf", doc.URI)
	assert.Equal(t, "Jane Doe\nSkills\n\nEducation\nBSc", doc.Content)
	assert.Equal(t, "Jane Doe", doc.Title)
	assert.Equal(t, "application/pdf", doc.Metadata["mime_type"])
	assert.Equal(t, 4, doc.Metadata["pages"])
	assert.Equal(t, 8, doc.Metadata["size"])
	_, leaked := raw.Metadata["pages"]
	assert.False(t, leaked, "raw metadata must not be modified")
}

func TestNormalise_AllPagesEmpty(t *testing.T) {
	result, err := New(WithPageExtractor(pages("", "  "))).Normalise(context.Background(), &domain.RawDocument{Source: "scan.pdf"})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
	assert.Equal(t, "scan", result.Document.Title)
}

func TestNormalise_ExtractError(t *testing.T) {
	boom := errors.New("boom")
	n := New(WithPageExtractor(func(_ []byte) ([]string, error) { return nil, boom }))

	_, err := n.Normalise(context.Background(), &domain.RawDocument{Source: "bad.pdf"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad.pdf")
}

func TestNormalise_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithPageExtractor(pages("x"))).Normalise(ctx, &domain.RawDocument{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractPages_NotAPDF(t *testing.T) {
	_, err := ExtractPages([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", JoinPages(nil))
	assert.Equal(t, "a\n\nb", JoinPages([]string{"a", "\n", "b\n"}))
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		source   string
		expected string
	}{
		{"first line as title", "Document Title\n\nSome content here.", "doc.pdf", "Document Title"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "doc.pdf", "Actual Title"},
		{"fallback to filename", "", "my_document.pdf", "my document"},
		{"skip very long first line", strings.Repeat("x", 250) + "\nShort Title", "doc.pdf", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.source))
		})
	}
}
