// Package press turns a directory of Markdown blog posts into a lintable,
// importable, publishable catalog and a generated static site. Posts carry
// YAML front matter (layout, title, author, release); the module loads and
// renders them, checks their structural properties, and writes the site.
package press

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/lint"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/migrations"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// MarkdownService exports the Markdown loading and rendering contract.
type MarkdownService = interfaces.MarkdownService

// LintService exports the lint contract.
type LintService = interfaces.LintService

// PostService exports the catalog service.
type PostService = *posts.Service

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// ImportOptions exports the catalog import options.
type ImportOptions = posts.ImportOptions

// ImportResult exports the catalog import result.
type ImportResult = posts.ImportResult

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build result.
type BuildResult = generator.BuildResult

// Option overrides a default dependency when constructing the module.
type Option func(*moduleOptions)

type moduleOptions struct {
	loggerProvider interfaces.LoggerProvider
	repository     posts.PostRepository
	artifactWriter generator.ArtifactWriter
	cacheService   cache.CacheService
	keySerializer  cache.KeySerializer
	db             *bun.DB
}

// WithLoggerProvider installs a custom logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.loggerProvider = provider
	}
}

// WithPostRepository replaces the storage-driver-selected catalog repository.
func WithPostRepository(repo posts.PostRepository) Option {
	return func(o *moduleOptions) {
		o.repository = repo
	}
}

// WithArtifactWriter redirects generator output, mainly for embedding hosts.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(o *moduleOptions) {
		o.artifactWriter = writer
	}
}

// WithDB reuses an existing bun handle instead of opening one from the DSN.
func WithDB(db *bun.DB) Option {
	return func(o *moduleOptions) {
		o.db = db
	}
}

// WithRepositoryCache enables read-through caching on the bun-backed catalog.
func WithRepositoryCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(o *moduleOptions) {
		o.cacheService = service
		o.keySerializer = serializer
	}
}

// Module is the top level press runtime facade.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	markdown  *markdown.Service
	lint      *lint.Service
	posts     *posts.Service
	generator generator.Service
	db        *bun.DB
	ownsDB    bool
}

// New constructs a press module from the configuration, wiring the Markdown
// loader, lint engine, catalog, and generator together.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &moduleOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider, err := buildLoggerProvider(cfg, options)
	if err != nil {
		return nil, err
	}

	mod := &Module{cfg: cfg, provider: provider}

	parserOpts := interfaces.ParseOptions{
		Extensions: cfg.Markdown.Parser.Extensions,
		Sanitize:   cfg.Markdown.Parser.Sanitize,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
	}

	mod.markdown, err = markdown.NewService(markdown.Config{
		BasePath:  cfg.Markdown.ContentDir,
		Pattern:   cfg.Markdown.Pattern,
		Recursive: cfg.Markdown.Recursive,
		Parser:    parserOpts,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("press: markdown service: %w", err)
	}

	mod.lint, err = lint.NewService(lint.Config{
		BasePath:  cfg.Markdown.ContentDir,
		Pattern:   cfg.Markdown.Pattern,
		Recursive: cfg.Markdown.Recursive,
		Parser:    parserOpts,
	}, logging.LintLogger(provider))
	if err != nil {
		return nil, fmt.Errorf("press: lint service: %w", err)
	}

	repo, err := mod.buildRepository(options)
	if err != nil {
		return nil, err
	}

	mod.posts, err = posts.NewService(posts.Config{
		Repository: repo,
		Markdown:   mod.markdown,
		Logger:     logging.PostsLogger(provider),
	})
	if err != nil {
		return nil, fmt.Errorf("press: posts service: %w", err)
	}

	if cfg.Features.Generator || cfg.Generator.Enabled {
		mod.generator, err = generator.NewService(generator.Config{
			OutputDir:       cfg.Generator.OutputDir,
			BaseURL:         cfg.BaseURL,
			SiteTitle:       cfg.SiteTitle,
			SiteDescription: cfg.SiteDescription,
			LayoutDir:       cfg.Generator.LayoutDir,
			DefaultLayout:   cfg.Generator.DefaultLayout,
			CleanBuild:      cfg.Generator.CleanBuild,
			GenerateFeed:    cfg.Generator.GenerateFeed,
		}, generator.Dependencies{
			Posts:  mod.posts,
			Logger: logging.GeneratorLogger(provider),
			Writer: options.artifactWriter,
		})
		if err != nil {
			return nil, fmt.Errorf("press: generator service: %w", err)
		}
	} else {
		mod.generator = generator.NewDisabledService()
	}

	return mod, nil
}

func buildLoggerProvider(cfg Config, options *moduleOptions) (interfaces.LoggerProvider, error) {
	if options.loggerProvider != nil {
		return options.loggerProvider, nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "", "noop":
		return nil, nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
}

func (m *Module) buildRepository(options *moduleOptions) (posts.PostRepository, error) {
	if options.repository != nil {
		return options.repository, nil
	}

	driver := strings.ToLower(strings.TrimSpace(m.cfg.Storage.Driver))
	switch driver {
	case "", "memory":
		return posts.NewMemoryPostRepository(), nil
	case "bun", "sqlite":
		db := options.db
		if db == nil {
			sqldb, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
			if err != nil {
				return nil, fmt.Errorf("press: open catalog database: %w", err)
			}
			db = bun.NewDB(sqldb, sqlitedialect.New())
			m.ownsDB = true
		}
		if err := migrations.Run(context.Background(), db); err != nil {
			return nil, fmt.Errorf("press: %w", err)
		}
		m.db = db
		if m.cfg.Features.Cache && options.cacheService != nil {
			return posts.NewBunPostRepositoryWithCache(db, options.cacheService, options.keySerializer), nil
		}
		return posts.NewBunPostRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
}

// Markdown returns the configured Markdown service.
func (m *Module) Markdown() MarkdownService {
	return m.markdown
}

// Lint returns the configured lint service.
func (m *Module) Lint() LintService {
	return m.lint
}

// Posts returns the configured catalog service.
func (m *Module) Posts() PostService {
	return m.posts
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.generator
}

// LoggerProvider exposes the provider used for module loggers; nil when
// logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}

// DB exposes the catalog database handle when the bun driver is active.
func (m *Module) DB() *bun.DB {
	if m == nil {
		return nil
	}
	return m.db
}

// Close releases resources owned by the module, currently the catalog
// database handle when the module opened it.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	err := m.db.Close()
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}
