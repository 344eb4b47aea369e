// Package generator exposes the static site generation API for go-press
// hosts. Use NewService with Config and Dependencies to render post pages,
// the index, and the feed from the publishing catalog.
package generator

import internal "github.com/goliatone/go-press/internal/generator"

type (
	Service        = internal.Service
	Config         = internal.Config
	BuildOptions   = internal.BuildOptions
	BuildResult    = internal.BuildResult
	Dependencies   = internal.Dependencies
	PostSource     = internal.PostSource
	ArtifactWriter = internal.ArtifactWriter
)

var ErrServiceDisabled = internal.ErrServiceDisabled

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}
