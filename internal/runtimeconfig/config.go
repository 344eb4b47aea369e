// Package runtimeconfig aggregates the knobs a host application sets before
// wiring the press module.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMarkdownContentDirRequired flags a missing source directory.
	ErrMarkdownContentDirRequired = errors.New("press config: markdown content directory is required")
	// ErrGeneratorOutputDirRequired flags a missing output directory.
	ErrGeneratorOutputDirRequired = errors.New("press config: generator output directory is required when generator is enabled")
	// ErrStorageDSNRequired flags a catalog database binding without a DSN.
	ErrStorageDSNRequired = errors.New("press config: storage dsn is required when the bun driver is selected")
	// ErrStorageDriverUnknown flags an unsupported storage driver.
	ErrStorageDriverUnknown = errors.New("press config: storage driver is invalid")
	// ErrLoggingProviderUnknown flags an unsupported logging provider.
	ErrLoggingProviderUnknown = errors.New("press config: logging provider is invalid")
	// ErrLoggingLevelInvalid flags an unsupported logging level.
	ErrLoggingLevelInvalid = errors.New("press config: logging level is invalid")
	// ErrLoggingFormatInvalid flags an unsupported logging format.
	ErrLoggingFormatInvalid = errors.New("press config: logging format is invalid")
)

// Config aggregates feature flags and adapter bindings for the press module.
// Fields intentionally use simple types so host applications can extend them
// later.
type Config struct {
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	Markdown        MarkdownConfig
	Lint            LintConfig
	Generator       GeneratorConfig
	Storage         StorageConfig
	Logging         LoggingConfig
	Features        Features
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown
// ingestion.
type MarkdownConfig struct {
	ContentDir string
	Pattern    string
	Recursive  bool
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime
// configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LintConfig captures lint run behaviour.
type LintConfig struct {
	FailOnWarnings bool
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled       bool
	OutputDir     string
	LayoutDir     string
	DefaultLayout string
	CleanBuild    bool
	GenerateFeed  bool
}

// StorageConfig selects where the catalog persists. The memory driver keeps
// everything in process; bun opens a SQLite database at DSN.
type StorageConfig struct {
	Driver string
	DSN    string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Generator bool
	Cache     bool
}

// DefaultConfig returns opinionated defaults for a file-first blog.
func DefaultConfig() Config {
	return Config{
		Markdown: MarkdownConfig{
			ContentDir: "posts",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Lint: LintConfig{},
		Generator: GeneratorConfig{
			OutputDir:     "dist",
			DefaultLayout: "post",
			CleanBuild:    true,
			GenerateFeed:  true,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if cfg.Features.Generator || cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch driver {
	case "", "memory":
	case "bun", "sqlite":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
