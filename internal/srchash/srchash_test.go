package srchash_test

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/advdv/apigw/internal/srchash"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestHash_Length(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"main.go": file("package main")}

	hash, err := srchash.New().Hash(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hash) != 16 {
		t.Errorf("expected 16 char hash, got %d: %s", len(hash), hash)
	}

	full, err := srchash.New(srchash.WithLength(0)).Hash(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(full) != 64 || !strings.HasPrefix(full, hash) {
		t.Errorf("expected full sha256 prefixed by %s, got %s", hash, full)
	}
}

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.go":     file("package a"),
		"b/b.go":   file("package b"),
		"c/d/d.go": file("package d"),
	}

	h := srchash.New()
	hash1, _ := h.Hash(fsys)
	hash2, _ := h.Hash(fsys)
	if hash1 != hash2 {
		t.Errorf("hashes not deterministic: %s, %s", hash1, hash2)
	}
}

func TestHash_Changes(t *testing.T) {
	t.Parallel()

	base := fstest.MapFS{"main.go": file("package main")}
	baseHash, _ := srchash.New().Hash(base)

	for name, fsys := range map[string]fstest.MapFS{
		"content": {"main.go": file("package main // modified")},
		"rename":  {"app.go": file("package main")},
		"added":   {"main.go": file("package main"), "util.go": file("package main")},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hash, err := srchash.New().Hash(fsys)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hash == baseHash {
				t.Errorf("hash should change, got %s for both", hash)
			}
		})
	}
}

func TestFiles_IgnoreFile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		".lambdaignore":        file("# comment\n\n**/*_test.go\ndocs\n!docs/keep.md\n"),
		"go.mod":               file("module x"),
		"main.go":              file("package main"),
		"main_test.go":         file("package main"),
		"docs/readme.md":       file("x"),
		"docs/keep.md":         file("x"),
		".git/HEAD":            file("ref"),
		"cdk.out/tree.json":    file("{}"),
		"internal/a/a.go":      file("package a"),
		"internal/a/a_test.go": file("package a"),
	}

	files, err := srchash.New().Files(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{".lambdaignore", "docs/keep.md", "go.mod", "internal/a/a.go", "main.go"}
	if !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFiles_AlwaysInclude(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		".lambdaignore": file("*.mod\n*.sum\n*.txt\n"),
		"go.mod":        file("module x"),
		"go.sum":        file(""),
		"notes.txt":     file("x"),
		"version.txt":   file("1"),
	}

	files, err := srchash.New(srchash.WithAlwaysInclude("version.txt")).Files(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{".lambdaignore", "go.mod", "go.sum", "version.txt"}
	if !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFiles_CustomIgnoreAndSkipDirs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		".dockerignore": file("*.md\n"),
		"README.md":     file("x"),
		"main.go":       file("package main"),
		"vendor/v/v.go": file("package v"),
		".git/config":   file("x"),
	}

	files, err := srchash.New(
		srchash.WithIgnoreFile(".dockerignore"),
		srchash.WithSkipDirs("vendor"),
	).Files(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{".dockerignore", ".git/config", "main.go"}
	if !slices.Equal(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFiles_InvalidPattern(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{".lambdaignore": file("[\n")}

	if _, err := srchash.New().Files(fsys); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestHash_Logger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fsys := fstest.MapFS{
		".lambdaignore": file("*.md\n"),
		"main.go":       file("package main"),
		"README.md":     file("x"),
	}

	if _, err := srchash.New(srchash.WithLogger(logger)).Hash(fsys); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "path=main.go") || !strings.Contains(out, "msg=\"skip file\" path=README.md") {
		t.Errorf("unexpected log output:\n%s", out)
	}
}
