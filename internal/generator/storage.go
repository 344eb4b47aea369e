package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage  writeCategory = "page"
	categoryIndex writeCategory = "index"
	categoryFeed  writeCategory = "feed"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
}

// ArtifactWriter abstracts where build outputs land so tests and dry runs
// can intercept writes.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	RemoveAll(ctx context.Context) error
}

type filesystemWriter struct {
	root string
}

func newFilesystemWriter(root string) *filesystemWriter {
	return &filesystemWriter{root: filepath.Clean(root)}
}

func (w *filesystemWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(filepath.Join(w.root, filepath.FromSlash(dir)), 0o755)
}

func (w *filesystemWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}

	target := filepath.Join(w.root, filepath.FromSlash(req.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return fmt.Errorf("generator: write %s: %w", req.Path, err)
	}
	return file.Close()
}

func (w *filesystemWriter) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// Remove contents, not the directory itself, so a configured output
	// path keeps existing.
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error           { return nil }
func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
func (noopWriter) RemoveAll(context.Context) error                   { return nil }

// pagePath returns the pretty URL location for a post page.
func pagePath(slug string) string {
	return path.Join(slug, "index.html")
}
