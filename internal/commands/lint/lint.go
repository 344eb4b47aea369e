// Package lintcmd exposes the lint workflow as dispatchable commands.
package lintcmd

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const lintDirectoryMessageType = "press.lint.lint_directory"

// ErrLintFailed reports that linting surfaced blocking issues.
var ErrLintFailed = errors.New("lint: issues found")

// LintDirectoryCommand requests a lint run over every Markdown file in a
// directory tree.
type LintDirectoryCommand struct {
	Dir string `json:"dir"`
	// FailOnWarnings escalates warnings to a failed run.
	FailOnWarnings bool `json:"fail_on_warnings,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m LintDirectoryCommand) Validate() error {
	errs := validation.Errors{}
	if m.Dir == "" {
		errs["dir"] = validation.NewError("press.lint.dir_required", "dir is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Reporter receives each lint report as it is produced, typically to print it.
type Reporter func(report interfaces.LintReport)

// LintDirectoryHandler runs the lint service over a directory using the
// shared command handler foundation.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler constructs a handler wired to the provided lint service.
func NewLintDirectoryHandler(service interfaces.LintService, logger interfaces.Logger, reporter Reporter, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		reports, err := service.LintDirectory(ctx, msg.Dir)
		if err != nil {
			return err
		}

		var errorCount, warningCount int
		for _, report := range reports {
			if reporter != nil {
				reporter(report)
			}
			for _, issue := range report.Issues {
				if issue.Severity == interfaces.SeverityError {
					errorCount++
				} else {
					warningCount++
				}
			}
		}

		if errorCount > 0 || (msg.FailOnWarnings && warningCount > 0) {
			return fmt.Errorf("%w: %d errors, %d warnings in %d files",
				ErrLintFailed, errorCount, warningCount, len(reports))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](logger),
		commands.WithOperation[LintDirectoryCommand]("lint.directory"),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			return map[string]any{"dir": msg.Dir}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler[LintDirectoryCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].Execute.
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
