// Package lint checks Markdown posts for the structural properties an
// external renderer depends on: canonical front-matter keys, balanced
// footnotes, resolvable link references, closed code fences, and a body that
// renders to well-formed HTML. Findings are reported, never fixed.
package lint

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Config controls how the lint service discovers and checks files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Rule checks one aspect of a document and reports its findings.
type Rule interface {
	Name() string
	Check(ctx context.Context, doc *document) []interfaces.LintIssue
}

// Service implements interfaces.LintService over a filesystem.
type Service struct {
	cfg    Config
	fs     fs.FS
	rules  []Rule
	logger interfaces.Logger
}

var _ interfaces.LintService = (*Service)(nil)

// NewService constructs a lint service rooted at cfg.BasePath with the
// default rule set.
func NewService(cfg Config, logger interfaces.Logger) (*Service, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("lint service: stat base path %s: %w", basePath, err)
	}
	return NewServiceWithFS(cfg, logger, os.DirFS(basePath)), nil
}

// NewServiceWithFS constructs a lint service over the supplied filesystem.
func NewServiceWithFS(cfg Config, logger interfaces.Logger, filesystem fs.FS) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	// Raw HTML must survive rendering for the well-formedness check to see it.
	parserOpts := cfg.Parser
	parserOpts.Sanitize = false
	parserOpts.SafeMode = false
	return &Service{
		cfg:    cfg,
		fs:     filesystem,
		rules:  DefaultRules(markdown.NewGoldmarkParser(parserOpts)),
		logger: logger,
	}
}

// DefaultRules returns the rule set covering every checked property, in the
// order findings should be reported.
func DefaultRules(parser interfaces.MarkdownParser) []Rule {
	return []Rule{
		frontMatterRule{},
		footnoteRule{},
		linkReferenceRule{},
		fenceRule{},
		htmlRule{parser: parser},
	}
}

// LintSource checks a single document provided as raw bytes. The returned
// report aggregates the findings of every rule; rules never short-circuit
// each other.
func (s *Service) LintSource(ctx context.Context, path string, source []byte) (interfaces.LintReport, error) {
	report := interfaces.LintReport{FilePath: path}

	select {
	case <-ctx.Done():
		return report, ctx.Err()
	default:
	}

	doc := newDocument(path, source)
	for _, rule := range s.rules {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		issues := rule.Check(ctx, doc)
		report.Issues = append(report.Issues, issues...)
	}

	if len(report.Issues) > 0 {
		logging.WithDocumentContext(s.logger, path, "", "").Debug(
			"lint.report", "issue_count", len(report.Issues))
	}
	return report, nil
}

// LintFile reads and checks a single file relative to the configured base path.
func (s *Service) LintFile(ctx context.Context, path string) (interfaces.LintReport, error) {
	rel := filepath.ToSlash(filepath.Clean(path))
	source, err := fs.ReadFile(s.fs, rel)
	if err != nil {
		return interfaces.LintReport{FilePath: rel}, fmt.Errorf("lint read %s: %w", rel, err)
	}
	return s.LintSource(ctx, rel, source)
}

// LintDirectory walks dir and checks every matching Markdown file. Reports
// are ordered by file path; a file that fails to read aborts the walk.
func (s *Service) LintDirectory(ctx context.Context, dir string) ([]interfaces.LintReport, error) {
	root := filepath.ToSlash(filepath.Clean(dir))
	if strings.TrimSpace(root) == "" {
		root = "."
	}

	var reports []interfaces.LintReport

	walkErr := fs.WalkDir(s.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !s.cfg.Recursive && filepath.Clean(path) != filepath.Clean(root) {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.matchesPattern(path) {
			return nil
		}
		report, err := s.LintFile(ctx, path)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].FilePath < reports[j].FilePath
	})
	return reports, nil
}

func (s *Service) matchesPattern(path string) bool {
	pattern := s.cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	match, err := filepath.Match(filepath.ToSlash(pattern), filepath.Base(path))
	if err != nil {
		return false
	}
	return match
}
