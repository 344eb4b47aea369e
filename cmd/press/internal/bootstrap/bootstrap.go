package bootstrap

import (
	"fmt"
	"strings"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Options captures the shared configuration surface for the press CLIs.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	OutputDir      string
	LayoutDir      string
	BaseURL        string
	SiteTitle      string
	StorageDriver  string
	StorageDSN     string
	Generator      bool
	LogLevel       string
	LogFormat      string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module the CLIs operate on.
type Module struct {
	Module *press.Module
}

// BuildModule constructs a press module from CLI options, applying the same
// defaults the library uses when a flag is left blank.
func BuildModule(opts Options) (*Module, error) {
	cfg := press.DefaultConfig()

	if trimmed := strings.TrimSpace(opts.ContentDir); trimmed != "" {
		cfg.Markdown.ContentDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Markdown.Recursive = opts.Recursive

	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Generator.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LayoutDir); trimmed != "" {
		cfg.Generator.LayoutDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.BaseURL); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	if trimmed := strings.TrimSpace(opts.SiteTitle); trimmed != "" {
		cfg.SiteTitle = trimmed
	}
	if opts.Generator {
		cfg.Features.Generator = true
		cfg.Generator.Enabled = true
	}

	if trimmed := strings.TrimSpace(opts.StorageDriver); trimmed != "" {
		cfg.Storage.Driver = trimmed
	}
	if trimmed := strings.TrimSpace(opts.StorageDSN); trimmed != "" {
		cfg.Storage.DSN = trimmed
	}

	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}

	moduleOpts := []press.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, press.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := press.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	return &Module{Module: module}, nil
}

// SplitSlugs parses a comma separated slug list into a trimmed slice.
func SplitSlugs(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	slugs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			slugs = append(slugs, trimmed)
		}
	}
	return slugs
}
