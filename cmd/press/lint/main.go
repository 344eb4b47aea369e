package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/internal/commands"
	lintcmd "github.com/goliatone/go-press/internal/commands/lint"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLint(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, lintcmd.ErrLintFailed) {
			fmt.Fprintf(os.Stderr, "press lint: %v\n", err)
			os.Exit(1)
		}
		log.Fatalf("press lint: %v", err)
	}
}

func runLint(args []string, out *os.File) error {
	fs := flag.NewFlagSet("press-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "posts", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories of the content root")
	directory := fs.String("directory", ".", "Directory to lint, relative to the content root")
	failOnWarnings := fs.Bool("fail-on-warnings", false, "Treat warnings as failures")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	logFormat := fs.String("log-format", "console", "Log format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  *recursive,
		LogLevel:   *logLevel,
		LogFormat:  *logFormat,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	reporter := func(report interfaces.LintReport) {
		for _, issue := range report.Issues {
			if issue.Line > 0 {
				fmt.Fprintf(out, "%s:%d: %s: %s (%s)\n", report.FilePath, issue.Line, issue.Severity, issue.Message, issue.Rule)
				continue
			}
			fmt.Fprintf(out, "%s: %s: %s (%s)\n", report.FilePath, issue.Severity, issue.Message, issue.Rule)
		}
	}

	logger := commands.CommandLogger(module.Module.LoggerProvider(), "lint")
	handler := lintcmd.NewLintDirectoryHandler(module.Module.Lint(), logger, reporter,
		commands.WithTelemetry(commands.DefaultTelemetry[lintcmd.LintDirectoryCommand](logger)))
	cmd := lintcmd.LintDirectoryCommand{
		Dir:            *directory,
		FailOnWarnings: *failOnWarnings,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return err
	}

	fmt.Fprintln(out, "lint passed")
	return nil
}
