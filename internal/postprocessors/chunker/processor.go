// Package chunker turns extracted document text into labelled,
// deduplicated chunks.
//
// The pipeline runs four stages per call: section detection against a
// header vocabulary, segmentation of each section body, greedy packing of
// segments into chunks prefixed with "[Label] ", and suppression of chunks
// whose normalised text was already emitted. It performs no I/O and keeps
// no state between calls, so one Processor may be used concurrently.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DefaultChunkSize is the default target chunk length in characters.
const DefaultChunkSize = 400

// DefaultOverlap is the default number of segments carried between chunks.
// Zero avoids near-duplicate vectors from repeated boundary text.
const DefaultOverlap = 0

// DefaultSegmentThreshold is the paragraph length above which paragraphs
// are split into smaller segments.
const DefaultSegmentThreshold = 400

// Processor chunks document content.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize        int
	overlap          int
	segmentThreshold int
	headers          []string
	contact          ContactDetector
	detector         *SectionDetector
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets how many trailing segments are repeated in the next chunk.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSegmentThreshold sets the paragraph length above which paragraphs
// are split at list items and sentence boundaries.
func WithSegmentThreshold(threshold int) Option {
	return func(p *Processor) {
		if threshold > 0 {
			p.segmentThreshold = threshold
		}
	}
}

// WithHeaders replaces the section header vocabulary.
// An empty list keeps the current vocabulary.
func WithHeaders(headers ...string) Option {
	return func(p *Processor) {
		if len(headers) > 0 {
			p.headers = append([]string(nil), headers...)
		}
	}
}

// WithContactDetector replaces the predicate that relabels a leading
// unlabelled block as "Contact". Nil disables relabelling.
func WithContactDetector(fn ContactDetector) Option {
	return func(p *Processor) {
		p.contact = fn
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:        DefaultChunkSize,
		overlap:          DefaultOverlap,
		segmentThreshold: DefaultSegmentThreshold,
		headers:          DefaultHeaders,
		contact:          LooksLikeContact,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.detector = NewSectionDetector(p.headers, p.contact)
	return p
}

// ChunkText chunks text with a processor built from opts.
func ChunkText(text string, opts ...Option) []domain.Chunk {
	return New(opts...).Chunk(text)
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured target chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured segment overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text into chunks with IDs chunk_0, chunk_1, ... in emission
// order. Blank text yields an empty slice. Chunks whose normalised text was
// already emitted in this call are dropped without consuming an ID.
func (p *Processor) Chunk(text string) []domain.Chunk {
	chunks := make([]domain.Chunk, 0)
	if strings.TrimSpace(text) == "" {
		return chunks
	}

	seen := NewSeen()
	for _, section := range p.detector.Detect(text) {
		segments := SplitSegments(section.Body, p.segmentThreshold)
		for _, content := range Pack(segments, section.Label, p.chunkSize, p.overlap) {
			if !seen.Add(content) {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				ID:       domain.ChunkID(len(chunks)),
				Content:  content,
				Section:  section.Label,
				Position: len(chunks),
			})
		}
	}
	return chunks
}

// Process chunks the document content.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks := p.Chunk(doc.Content)
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	return chunks, nil
}
