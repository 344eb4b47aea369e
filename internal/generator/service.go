// Package generator renders the published catalog into a static site:
// one HTML page per post under <slug>/index.html, an index listing, and an
// RSS feed. Drafts and archived posts never reach the output directory.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	errSourceRequired  = errors.New("generator: post source is required")
	errOutputRequired  = errors.New("generator: output directory is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	// LayoutDir holds the html/template layout files keyed by name. When a
	// post names a layout with no matching file the generator falls back to
	// DefaultLayout, then to a built-in template.
	LayoutDir     string
	DefaultLayout string
	CleanBuild    bool
	GenerateFeed  bool
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Slugs limits the build to the named posts. Empty builds everything.
	Slugs  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	PagesSkipped int
	FeedsBuilt   int
	Artifacts    []string
	Duration     time.Duration
	DryRun       bool
}

// PostSource supplies the records a build renders.
type PostSource interface {
	ListPublished(ctx context.Context) ([]*post.Post, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Posts  PostSource
	Logger interfaces.Logger
	// Writer overrides the default filesystem writer, mainly for tests.
	Writer ArtifactWriter
}

// NewService wires a generator with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Posts == nil {
		return nil, errSourceRequired
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errOutputRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	writer := deps.Writer
	if writer == nil {
		writer = newFilesystemWriter(cfg.OutputDir)
	}
	if strings.TrimSpace(cfg.DefaultLayout) == "" {
		cfg.DefaultLayout = "post"
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}, nil
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	writer ArtifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error { return ErrServiceDisabled }

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()

	records, err := s.deps.Posts.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: list posts: %w", err)
	}
	records = filterBySlugs(records, opts.Slugs)

	layouts, err := loadLayouts(s.cfg.LayoutDir)
	if err != nil {
		return nil, err
	}

	writer := s.writer
	if opts.DryRun {
		writer = noopWriter{}
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}

	result := &BuildResult{DryRun: opts.DryRun}
	generatedAt := s.now()

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !record.IsVisible() {
			result.PagesSkipped++
			continue
		}
		artifact, err := s.renderPost(ctx, writer, layouts, record, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("generator: render %s: %w", record.Slug, err)
		}
		result.PagesBuilt++
		result.Artifacts = append(result.Artifacts, artifact)
	}

	if len(opts.Slugs) == 0 {
		artifact, err := s.renderIndex(ctx, writer, layouts, records, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("generator: render index: %w", err)
		}
		result.PagesBuilt++
		result.Artifacts = append(result.Artifacts, artifact)

		if s.cfg.GenerateFeed {
			artifact, err := s.writeFeed(ctx, writer, records, generatedAt)
			if err != nil {
				return nil, fmt.Errorf("generator: write feed: %w", err)
			}
			result.FeedsBuilt++
			result.Artifacts = append(result.Artifacts, artifact)
		}
	}

	sort.Strings(result.Artifacts)
	result.Duration = s.now().Sub(start)

	s.logger.Info("generator.build",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"feeds_built", result.FeedsBuilt,
		"dry_run", result.DryRun,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (s *service) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writer.RemoveAll(ctx)
}

func filterBySlugs(records []*post.Post, slugs []string) []*post.Post {
	if len(slugs) == 0 {
		return records
	}
	wanted := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		wanted[strings.TrimSpace(slug)] = struct{}{}
	}
	var out []*post.Post
	for _, record := range records {
		if _, ok := wanted[record.Slug]; ok {
			out = append(out, record)
		}
	}
	return out
}
