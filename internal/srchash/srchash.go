// Package srchash computes content hashes of Go source trees, used as custom
// asset hashes so Lambda bundles only rebuild when their inputs change.
package srchash

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/moby/patternmatcher"
)

// DefaultIgnoreFile is read from the root of the hashed tree.
const DefaultIgnoreFile = ".lambdaignore"

// Hasher computes a content hash of a file tree.
type Hasher struct {
	logger        *slog.Logger
	ignoreFile    string
	alwaysInclude map[string]bool
	skipDirs      map[string]bool
	length        int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithLogger logs every visited, skipped and hashed path at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hasher) {
		h.logger = l
	}
}

// WithIgnoreFile sets the name of the dockerignore-style file at the tree root.
func WithIgnoreFile(name string) Option {
	return func(h *Hasher) {
		h.ignoreFile = name
	}
}

// WithAlwaysInclude sets paths that are hashed regardless of ignore patterns.
func WithAlwaysInclude(paths ...string) Option {
	return func(h *Hasher) {
		for _, p := range paths {
			h.alwaysInclude[p] = true
		}
	}
}

// WithSkipDirs replaces the directory names that are never descended into.
func WithSkipDirs(names ...string) Option {
	return func(h *Hasher) {
		h.skipDirs = map[string]bool{}
		for _, n := range names {
			h.skipDirs[n] = true
		}
	}
}

// WithLength sets the hash output length (0 for the full hash).
func WithLength(n int) Option {
	return func(h *Hasher) {
		h.length = n
	}
}

// New creates a Hasher. By default go.mod and go.sum are always included and
// .git and cdk.out are skipped.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		logger:        slog.New(slog.DiscardHandler),
		ignoreFile:    DefaultIgnoreFile,
		alwaysInclude: map[string]bool{"go.mod": true, "go.sum": true},
		skipDirs:      map[string]bool{".git": true, "cdk.out": true},
		length:        16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash computes the content hash of fsys.
func (h *Hasher) Hash(fsys fs.FS) (string, error) {
	files, err := h.Files(fsys)
	if err != nil {
		return "", err
	}

	sum := sha256.New()
	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", name)
		}
		sum.Write([]byte(name))
		sum.Write([]byte{0})
		sum.Write(content)
		sum.Write([]byte{0})
	}

	full := fmt.Sprintf("%x", sum.Sum(nil))
	if h.length > 0 && len(full) > h.length {
		return full[:h.length], nil
	}
	return full, nil
}

// Files returns the sorted slash-separated paths that Hash reads.
func (h *Hasher) Files(fsys fs.FS) ([]string, error) {
	pm, negates, err := h.patterns(fsys)
	if err != nil {
		return nil, err
	}

	parents := map[string]patternmatcher.MatchInfo{}
	var files []string

	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name == "." {
			return nil
		}

		if d.IsDir() && h.skipDirs[d.Name()] {
			h.logger.Debug("skip dir", slog.String("path", name))
			return fs.SkipDir
		}

		if h.alwaysInclude[name] {
			if !d.IsDir() {
				h.logger.Debug("hash file", slog.String("path", name), slog.String("reason", "always included"))
				files = append(files, name)
			}
			return nil
		}

		parent := ""
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			parent = name[:i]
		}

		matched, info, err := pm.MatchesUsingParentResults(name, parents[parent])
		if err != nil {
			return errors.Wrapf(err, "pattern match failed for %s", name)
		}

		if d.IsDir() {
			parents[name] = info
			if matched && !negates {
				h.logger.Debug("skip dir", slog.String("path", name))
				return fs.SkipDir
			}
			return nil
		}

		if matched {
			h.logger.Debug("skip file", slog.String("path", name))
			return nil
		}

		h.logger.Debug("hash file", slog.String("path", name))
		files = append(files, name)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk source tree")
	}

	slices.Sort(files)
	return files, nil
}

func (h *Hasher) patterns(fsys fs.FS) (*patternmatcher.PatternMatcher, bool, error) {
	f, err := fsys.Open(h.ignoreFile)
	if errors.Is(err, fs.ErrNotExist) {
		pm, err := patternmatcher.New(nil)
		return pm, false, err
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to open %s", h.ignoreFile)
	}
	defer f.Close()

	patterns, err := parseIgnore(f)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to parse %s", h.ignoreFile)
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to compile patterns from %s", h.ignoreFile)
	}
	return pm, pm.Exclusions(), nil
}

func parseIgnore(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
