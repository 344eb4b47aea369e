// Package sitecmd exposes static site generation as dispatchable commands.
package sitecmd

import (
	"context"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const buildSiteMessageType = "press.site.build"

// BuildSiteCommand requests a static site build from the current catalog.
type BuildSiteCommand struct {
	Slugs  []string `json:"slugs,omitempty"`
	DryRun bool     `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate implements command.Message; every field combination is legal.
func (BuildSiteCommand) Validate() error { return nil }

// ResultSink receives the build result, typically to print a summary.
type ResultSink func(result *generator.BuildResult)

// BuildSiteHandler drives the generator through the shared command handler
// foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{
			Slugs:  msg.Slugs,
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](logger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			return map[string]any{
				"slugs":   len(msg.Slugs),
				"dry_run": msg.DryRun,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler[BuildSiteCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].Execute.
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
