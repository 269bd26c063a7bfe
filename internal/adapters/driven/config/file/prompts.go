package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptFile describes one user-editable prompt.
type promptFile struct {
	name     string
	summary  string
	fallback string
}

// knownPrompts lists every prompt the store seeds and can fall back on.
var knownPrompts = []promptFile{
	{
		name:     driven.PromptAnswerSystem,
		summary:  "system prompt sent with every question",
		fallback: domain.DefaultAnswerSystemPrompt,
	},
}

func lookupPrompt(name string) (promptFile, bool) {
	for _, p := range knownPrompts {
		if p.name == name {
			return p, true
		}
	}
	return promptFile{}, false
}

// PromptStore reads answer prompts from <dir>/<name>.txt.
// The directory is created and seeded with the built-in prompts on the
// first Load, never by the constructor.
type PromptStore struct {
	dir string

	mu      sync.Mutex
	seeded  bool
	seedErr error
	cache   map[string]string
}

// NewPromptStore creates a prompt store rooted at dir.
// An empty dir means ~/.sercha-rag/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".sercha-rag", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the named prompt. A missing or unreadable file yields the
// built-in text for known prompts and an error for unknown ones.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		s.seedErr = s.seed()
		s.seeded = true
	}
	if text, ok := s.cache[name]; ok {
		return text, nil
	}

	known, isKnown := lookupPrompt(name)

	text, err := s.read(name)
	switch {
	case err == nil:
	case isKnown:
		text = known.fallback
	case s.seedErr != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, errors.Join(s.seedErr, err))
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.cache[name] = text
	return text, nil
}

// Reload drops cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed creates the directory, writes any missing prompt files and a README.
// Existing files are left untouched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	for _, p := range knownPrompts {
		if err := writeIfMissing(s.path(p.name), p.fallback); err != nil {
			return fmt.Errorf("seed prompt %q: %w", p.name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme())
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

func promptReadme() string {
	var b strings.Builder
	b.WriteString("# sercha-rag prompts\n\n")
	b.WriteString("Prompts used by `sercha-rag ask` and the MCP `ask` tool.\n\n")
	for _, p := range knownPrompts {
		fmt.Fprintf(&b, "- `%s.txt`: %s\n", p.name, p.summary)
	}
	b.WriteString("\nEdits apply from the next command. Delete a file to restore the built-in text.\n")
	return b.String()
}
