package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// DefaultMaxFileSize is the largest file read, in bytes.
const DefaultMaxFileSize = 64 << 20

// Loader reads files from the local filesystem.
type Loader struct {
	supported   func(mimeType string) bool
	maxFileSize int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSupportedTypes limits directory walks to the given MIME types.
func WithSupportedTypes(mimeTypes ...string) LoaderOption {
	return func(l *Loader) {
		set := make(map[string]bool, len(mimeTypes))
		for _, t := range mimeTypes {
			set[t] = true
		}
		l.supported = func(mimeType string) bool { return set[mimeType] }
	}
}

// WithMaxFileSize sets the size limit. Larger files are rejected.
func WithMaxFileSize(size int64) LoaderOption {
	return func(l *Loader) {
		if size > 0 {
			l.maxFileSize = size
		}
	}
}

// NewLoader creates a loader. Without WithSupportedTypes every file is loaded.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		supported:   func(string) bool { return true },
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the files named by paths. Explicitly named files are always
// read so unsupported types surface as ingest failures; files found while
// walking a directory are filtered by MIME type.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]domain.RawDocument, error) {
	files, err := l.collect(ctx, paths)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.RawDocument, 0, len(files))
	for _, path := range files {
		doc, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// collect expands directories and returns a sorted, de-duplicated file list.
func (l *Loader) collect(ctx context.Context, paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNotFound, path)
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			add(abs)
			continue
		}

		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, _ := filepath.Rel(abs, p)
			if isHidden(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if l.supported(DetectMIMEType(p)) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadFile reads one file into a raw document.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > l.maxFileSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, path, l.maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return &domain.RawDocument{
		Source:   name,
		URI:      path,
		MIMEType: DetectMIMEType(path),
		Content:  content,
		Metadata: map[string]any{
			"filename":  name,
			"extension": strings.TrimPrefix(filepath.Ext(name), "."),
			"size":      info.Size(),
			"modified":  info.ModTime().UTC(),
		},
	}, nil
}
