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
	sitecmd "github.com/goliatone/go-press/internal/commands/site"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/generator"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("press build: %v", err)
	}
}

func runBuild(args []string, out *os.File) error {
	fs := flag.NewFlagSet("press-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "posts", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories of the content root")
	outputDir := fs.String("output-dir", "dist", "Directory the generated site is written to")
	layoutDir := fs.String("layout-dir", "", "Directory holding custom HTML layouts")
	baseURL := fs.String("base-url", "", "Absolute base URL used for links and the feed")
	siteTitle := fs.String("site-title", "", "Site title rendered in layouts and the feed")
	slugs := fs.String("slugs", "", "Comma separated slugs to rebuild (defaults to all published posts)")
	dryRun := fs.Bool("dry-run", false, "Report what would be generated without writing files")
	skipImport := fs.Bool("skip-import", false, "Build from the current catalog without importing first")
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
		OutputDir:     *outputDir,
		LayoutDir:     *layoutDir,
		BaseURL:       *baseURL,
		SiteTitle:     *siteTitle,
		StorageDriver: *storageDriver,
		StorageDSN:    *storageDSN,
		Generator:     true,
		LogLevel:      *logLevel,
		LogFormat:     *logFormat,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	// The memory driver starts empty, so a build normally imports the content
	// directory first. Persistent drivers can skip that step.
	if !*skipImport {
		importSink := func(result *posts.ImportResult) {
			fmt.Fprintf(out, "imported: %d created, %d updated, %d skipped\n", result.Created, result.Updated, result.Skipped)
		}
		importHandler := postscmd.NewImportDirectoryHandler(module.Module.Posts(),
			commands.CommandLogger(module.Module.LoggerProvider(), "posts"), importSink)
		if err := importHandler.Execute(ctx, postscmd.ImportDirectoryCommand{Dir: "."}); err != nil {
			return fmt.Errorf("execute import command: %w", err)
		}
	}

	sink := func(result *generator.BuildResult) {
		for _, artifact := range result.Artifacts {
			fmt.Fprintf(out, "wrote %s\n", artifact)
		}
		fmt.Fprintf(out, "built %d pages, %d feeds in %s\n", result.PagesBuilt, result.FeedsBuilt, result.Duration)
	}

	handler := sitecmd.NewBuildSiteHandler(module.Module.Generator(),
		commands.CommandLogger(module.Module.LoggerProvider(), "site"), sink)
	cmd := sitecmd.BuildSiteCommand{
		Slugs:  bootstrap.SplitSlugs(*slugs),
		DryRun: *dryRun,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	return nil
}
