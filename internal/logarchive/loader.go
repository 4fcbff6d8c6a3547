package logarchive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"impuls/internal/logtags"
)

var DefaultPatterns = []string{"*.md", "*.txt"}

type Result struct {
	Entries []*Entry
	Skipped int
	Errors  []error
}

type Loader struct {
	kernel   Kernel
	patterns []string
	exclude  []string
	logger   *zap.Logger
}

type Option func(*Loader)

// WithPatterns sets the doublestar patterns, relative to the corpus
// directory, that select documents. "*.md" does not descend into
// subdirectories; "**/*.md" does.
func WithPatterns(patterns ...string) Option {
	return func(l *Loader) {
		if len(patterns) > 0 {
			l.patterns = patterns
		}
	}
}

func WithExclude(patterns ...string) Option {
	return func(l *Loader) { l.exclude = patterns }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoader(kernel Kernel, opts ...Option) *Loader {
	l := &Loader{
		kernel:   kernel,
		patterns: DefaultPatterns,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Kernel() Kernel {
	return l.kernel
}

// DirError reports a directory below the corpus root that could not be
// read. The walk continues past it.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", e.Path, e.Err)
}

func (e *DirError) Unwrap() error {
	return e.Err
}

// Files lists the corpus documents under dir in lexical order. Only the
// corpus root itself must be readable; failures below it are returned as
// *DirError values in the second result. Directories no pattern can reach
// are not entered.
func (l *Loader) Files(dir string) ([]string, []error, error) {
	root := filepath.Clean(dir)
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("logs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("logs directory %s is not a directory", root)
	}

	var files []string
	var dirErrs []error
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			l.logger.Warn("reading directory failed", zap.String("path", path), zap.Error(err))
			dirErrs = append(dirErrs, &DirError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if l.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !l.reachable(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.selected(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, dirErrs, nil
}

// reachable reports whether any pattern could select a file below the
// directory rel.
func (l *Loader) reachable(rel string) bool {
	for _, p := range l.patterns {
		if patternReaches(p, rel) {
			return true
		}
	}
	return false
}

func patternReaches(pattern, rel string) bool {
	if strings.ContainsAny(pattern, "{}") {
		return true
	}
	segs := strings.Split(pattern, "/")
	dirs := strings.Split(rel, "/")
	for i, dir := range dirs {
		if i >= len(segs) {
			return false
		}
		if segs[i] == "**" {
			return true
		}
		if ok, _ := doublestar.Match(segs[i], dir); !ok {
			return false
		}
	}
	return len(segs) > len(dirs)
}

func (l *Loader) selected(rel string) bool {
	for _, p := range l.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (l *Loader) excluded(rel string) bool {
	for _, p := range l.exclude {
		if p == "" {
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// LoadDir reads and parses every selected document. Invalid documents are
// skipped and counted; read failures, including unreadable subdirectories,
// are collected in Result.Errors and do not stop the load.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Result, error) {
	files, dirErrs, err := l.Files(dir)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: dirErrs}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := l.LoadFile(path)
		if err != nil {
			if errors.Is(err, logtags.ErrParse) {
				l.logger.Debug("skipping document", zap.String("path", path), zap.Error(err))
				result.Skipped++
				continue
			}
			l.logger.Warn("reading document failed", zap.String("path", path), zap.Error(err))
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	l.logger.Debug("corpus loaded",
		zap.String("dir", dir),
		zap.Int("entries", len(result.Entries)),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// LoadFile reads and parses a single document, stamping CreatedAt with the
// file's modification time.
func (l *Loader) LoadFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	entry, err := l.kernel.ParseFile(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		entry.CreatedAt = info.ModTime().UTC()
	}
	return entry, nil
}
