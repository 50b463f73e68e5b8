// Package workspace is the file-loading layer spec.md §1 deliberately keeps
// out of the tokenizer itself: it turns a relative path into bytes, feeds
// those bytes to eex.Tokenize, and caches the result. This is what the CLI
// and the LSP server both sit on top of.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bentduso/eex/internal/eex"
)

type Workspace struct {
	rootPath string
	opts     eex.Options

	mu      sync.Mutex
	tokens  map[string][]eex.Token
	ordered []string
}

func New(rootPath string, opts eex.Options) *Workspace {
	return &Workspace{
		rootPath: rootPath,
		opts:     opts,
		tokens:   make(map[string][]eex.Token),
	}
}

// Load tokenizes relPath, reading it from disk the first time and serving
// the cached result on subsequent calls for the same path.
func (w *Workspace) Load(relPath string) ([]eex.Token, error) {
	fullPath := w.abs(relPath)

	w.mu.Lock()
	if toks, ok := w.tokens[fullPath]; ok {
		w.mu.Unlock()
		return toks, nil
	}
	w.mu.Unlock()

	contents, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return w.store(fullPath, contents)
}

// LoadWithContents tokenizes contents directly, bypassing the filesystem
// and overwriting whatever was cached for relPath. It exists for editor
// integrations, which hold the authoritative in-memory buffer rather than
// the file on disk (see the teacher's LSP server for the same need).
func (w *Workspace) LoadWithContents(relPath string, contents []byte) ([]eex.Token, error) {
	return w.store(w.abs(relPath), contents)
}

// Invalidate drops relPath's cached tokens, forcing the next Load to read
// it from disk again.
func (w *Workspace) Invalidate(relPath string) {
	fullPath := w.abs(relPath)

	w.mu.Lock()
	delete(w.tokens, fullPath)
	w.mu.Unlock()
}

// RequestedFiles returns every absolute path Load or LoadWithContents has
// successfully read and tokenized, in the order each was first stored, so a
// caller can watch them all. A request that failed is not recorded.
func (w *Workspace) RequestedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, len(w.ordered))
	copy(out, w.ordered)
	return out
}

func (w *Workspace) store(fullPath string, contents []byte) ([]eex.Token, error) {
	toks, err := eex.Tokenize(contents, 1, w.opts)
	if err != nil {
		return nil, fmt.Errorf("tokenize file: %w", err)
	}

	w.mu.Lock()
	if _, seen := w.tokens[fullPath]; !seen {
		w.ordered = append(w.ordered, fullPath)
	}
	w.tokens[fullPath] = toks
	w.mu.Unlock()

	return toks, nil
}

func (w *Workspace) abs(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	return filepath.Join(w.rootPath, relPath)
}
