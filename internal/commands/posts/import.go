// Package postscmd exposes catalog import operations as dispatchable commands.
package postscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const importDirectoryMessageType = "press.posts.import_directory"

// ImportDirectoryCommand requests importing every Markdown document in a
// directory into the catalog.
type ImportDirectoryCommand struct {
	Dir    string `json:"dir"`
	DryRun bool   `json:"dry_run,omitempty"`
	Force  bool   `json:"force,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ImportDirectoryCommand) Validate() error {
	errs := validation.Errors{}
	if m.Dir == "" {
		errs["dir"] = validation.NewError("press.posts.dir_required", "dir is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResultSink receives the aggregated import result, typically to print it.
type ResultSink func(result *posts.ImportResult)

// ImportDirectoryHandler drives the catalog importer through the shared
// command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler constructs a handler wired to the catalog service.
func NewImportDirectoryHandler(service *posts.Service, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, posts.ImportOptions{
			Dir:    msg.Dir,
			DryRun: msg.DryRun,
			Force:  msg.Force,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand]("posts.import_directory"),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			return map[string]any{
				"dir":     msg.Dir,
				"dry_run": msg.DryRun,
				"force":   msg.Force,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler[ImportDirectoryCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].Execute.
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
