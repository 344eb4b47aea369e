package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/internal/commands"
	postscmd "github.com/goliatone/go-press/internal/commands/posts"
	"github.com/goliatone/go-press/internal/posts"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("press import: %v", err)
	}
}

func runImport(args []string, out *os.File) error {
	fs := flag.NewFlagSet("press-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "posts", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories of the content root")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")
	force := fs.Bool("force", false, "Reimport posts even when the source is unchanged")
	storageDriver := fs.String("storage-driver", "memory", "Post storage driver (memory, sqlite)")
	storageDSN := fs.String("storage-dsn", "", "Storage DSN (required for sqlite)")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	logFormat := fs.String("log-format", "console", "Log format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     *recursive,
		StorageDriver: *storageDriver,
		StorageDSN:    *storageDSN,
		LogLevel:      *logLevel,
		LogFormat:     *logFormat,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	sink := func(result *posts.ImportResult) {
		for _, outcome := range result.Outcomes {
			fmt.Fprintf(out, "%-8s %s (%s)\n", outcome.Action, outcome.Slug, outcome.SourcePath)
		}
		fmt.Fprintf(out, "imported: %d created, %d updated, %d skipped\n", result.Created, result.Updated, result.Skipped)
	}

	logger := commands.CommandLogger(module.Module.LoggerProvider(), "posts")
	handler := postscmd.NewImportDirectoryHandler(module.Module.Posts(), logger, sink)
	cmd := postscmd.ImportDirectoryCommand{
		Dir:    *directory,
		DryRun: *dryRun,
		Force:  *force,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	return nil
}
