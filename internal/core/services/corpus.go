package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/nexova-agent/internal/core/domain"
	"github.com/custodia-labs/nexova-agent/internal/core/ports/driven"
	"github.com/custodia-labs/nexova-agent/internal/logger"
)

const plainTextMIME = "text/plain"

// knownMIMETypes covers corpus extensions that the platform MIME table
// may not know about.
var knownMIMETypes = map[string]string{
	".txt":      plainTextMIME,
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".pdf":      "application/pdf",
}

// CorpusLoader reads the knowledge corpus file and fills the passage store.
type CorpusLoader struct {
	registry driven.NormaliserRegistry
	store    driven.PassageStore
	baseDir  string
}

// NewCorpusLoader creates a loader that resolves relative paths against
// the directory of the running executable.
func NewCorpusLoader(registry driven.NormaliserRegistry, store driven.PassageStore) *CorpusLoader {
	baseDir := "."
	if exe, err := os.Executable(); err == nil {
		baseDir = filepath.Dir(exe)
	}
	return &CorpusLoader{
		registry: registry,
		store:    store,
		baseDir:  baseDir,
	}
}

// SetBaseDir overrides the directory relative corpus paths resolve against.
func (l *CorpusLoader) SetBaseDir(dir string) {
	l.baseDir = dir
}

// ResolvePath returns the absolute location of a corpus path.
func (l *CorpusLoader) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.baseDir, path)
}

// Load reads, normalises and splits the corpus at path, replacing the
// stored passages. A missing file leaves the store empty and logs a
// warning; it is not an error. Returns the number of passages loaded.
func (l *CorpusLoader) Load(ctx context.Context, path string) (int, error) {
	resolved := l.ResolvePath(path)
	logger.Debug("Loading knowledge corpus from %s", resolved)

	content, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Knowledge file not found at %s, answers will have no context", resolved)
			l.store.Replace(nil)
			return 0, nil
		}
		return 0, fmt.Errorf("read knowledge file: %w", err)
	}

	raw := &domain.RawDocument{
		URI:      resolved,
		MIMEType: DetectMIMEType(resolved),
		Content:  content,
	}

	text, err := l.registry.Normalise(ctx, raw)
	if errors.Is(err, domain.ErrUnsupportedType) && raw.MIMEType != plainTextMIME {
		logger.Debug("No normaliser for %s, reading %s as plain text", raw.MIMEType, resolved)
		raw.MIMEType = plainTextMIME
		text, err = l.registry.Normalise(ctx, raw)
	}
	if err != nil {
		return 0, fmt.Errorf("normalise knowledge file: %w", err)
	}

	passages := SplitPassages(text)
	l.store.Replace(passages)
	logger.Info("Loaded %d passages from %s (%s)", len(passages), resolved, raw.MIMEType)
	return len(passages), nil
}

// DetectMIMEType returns the media type of a corpus file from its extension,
// without parameters. Unknown extensions are treated as plain text.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := knownMIMETypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
	}
	return plainTextMIME
}
