package posts

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/util"
	"github.com/goliatone/go-press/post"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	ErrRepositoryRequired = errors.New("posts: repository is required")
	ErrMarkdownRequired   = errors.New("posts: markdown service is required")
)

// ImportAction describes what the importer did with one source document.
type ImportAction string

const (
	ActionCreated ImportAction = "created"
	ActionUpdated ImportAction = "updated"
	ActionSkipped ImportAction = "skipped"
)

// ImportOptions controls a catalog import run.
type ImportOptions struct {
	Dir string
	// DryRun reports what would change without touching the repository.
	DryRun bool
	// Force reimports documents even when their checksum is unchanged.
	Force bool
	Load  interfaces.LoadOptions
}

// ImportOutcome records the fate of a single document.
type ImportOutcome struct {
	Action     ImportAction
	Slug       string
	SourcePath string
	Post       *post.Post
}

// ImportResult aggregates a whole import run.
type ImportResult struct {
	Outcomes []ImportOutcome
	Created  int
	Updated  int
	Skipped  int
}

// Config wires the catalog service dependencies.
type Config struct {
	Repository PostRepository
	Markdown   interfaces.MarkdownService
	Logger     interfaces.Logger
}

// Service imports documents into the catalog and manages their lifecycle.
type Service struct {
	repo     PostRepository
	markdown interfaces.MarkdownService
	logger   interfaces.Logger
	now      func() time.Time
}

// NewService validates the configuration and returns a catalog service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Repository == nil {
		return nil, ErrRepositoryRequired
	}
	if cfg.Markdown == nil {
		return nil, ErrMarkdownRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		repo:     cfg.Repository,
		markdown: cfg.Markdown,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// ImportDirectory loads every Markdown document under opts.Dir and imports
// each one. A document whose checksum matches the stored record is skipped
// unless opts.Force is set.
func (s *Service) ImportDirectory(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	docs, err := s.markdown.LoadDirectory(ctx, opts.Dir, opts.Load)
	if err != nil {
		return nil, fmt.Errorf("posts import: load %s: %w", opts.Dir, err)
	}

	result := &ImportResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := s.ImportDocument(ctx, doc, opts)
		if err != nil {
			return nil, fmt.Errorf("posts import %s: %w", doc.FilePath, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Action {
		case ActionCreated:
			result.Created++
		case ActionUpdated:
			result.Updated++
		case ActionSkipped:
			result.Skipped++
		}
	}

	s.logger.Info("posts.import_directory",
		"dir", opts.Dir,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// ImportDocument upserts the catalog record for one loaded document. Record
// identity derives from the slug, so reimporting the same source updates in
// place instead of duplicating.
func (s *Service) ImportDocument(ctx context.Context, doc *interfaces.Document, opts ImportOptions) (ImportOutcome, error) {
	outcome := ImportOutcome{SourcePath: doc.FilePath}

	slug, err := slugForDocument(doc)
	if err != nil {
		return outcome, err
	}
	outcome.Slug = slug
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil && !post.IsNotFound(err) {
		return outcome, err
	}

	if existing != nil && existing.Checksum == checksum && !opts.Force {
		outcome.Action = ActionSkipped
		outcome.Post = existing
		logging.WithDocumentContext(s.logger, doc.FilePath, slug, "").Debug("posts.import.skip_unchanged")
		return outcome, nil
	}

	record := s.buildRecord(doc, existing, slug, checksum)
	if err := validateRecord(record); err != nil {
		return outcome, err
	}

	if opts.DryRun {
		if existing != nil {
			outcome.Action = ActionUpdated
		} else {
			outcome.Action = ActionCreated
		}
		outcome.Post = record
		return outcome, nil
	}

	if existing != nil {
		stored, err := s.repo.Update(ctx, record)
		if err != nil {
			return outcome, err
		}
		outcome.Action = ActionUpdated
		outcome.Post = stored
	} else {
		stored, err := s.repo.Create(ctx, record)
		if err != nil {
			return outcome, err
		}
		outcome.Action = ActionCreated
		outcome.Post = stored
	}

	logging.WithDocumentContext(s.logger, doc.FilePath, slug, "").Info("posts.import.document",
		"action", string(outcome.Action),
		"status", string(outcome.Post.Status),
	)
	return outcome, nil
}

func (s *Service) buildRecord(doc *interfaces.Document, existing *post.Post, slug, checksum string) *post.Post {
	fm := doc.FrontMatter
	now := s.now()

	record := &post.Post{
		ID:         identity.PostUUID(slug),
		Slug:       slug,
		Title:      strings.TrimSpace(fm.Title),
		Author:     strings.TrimSpace(fm.Author),
		Layout:     layoutOrDefault(fm.Layout),
		Tags:       append([]string(nil), fm.Tags...),
		Status:     domain.StatusForRelease(fm.Release),
		Body:       string(doc.Body),
		BodyHTML:   string(doc.BodyHTML),
		SourcePath: doc.FilePath,
		Checksum:   checksum,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if summary := strings.TrimSpace(fm.Summary); summary != "" {
		record.Summary = &summary
	}
	if len(fm.Custom) > 0 {
		record.Metadata = util.CloneAnyMap(fm.Custom)
	}

	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}

	if fm.Release {
		switch {
		case !fm.Date.IsZero():
			published := fm.Date
			record.PublishedAt = &published
		case existing != nil && existing.PublishedAt != nil:
			record.PublishedAt = existing.PublishedAt
		default:
			record.PublishedAt = &now
		}
	}
	return record
}

// Publish flips a post to published. A nil timestamp publishes now.
func (s *Service) Publish(ctx context.Context, slug string, at *time.Time) (*post.Post, error) {
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	when := s.now()
	if at != nil {
		when = *at
	}
	record.Status = domain.StatusPublished
	record.PublishedAt = &when
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithDocumentContext(s.logger, record.SourcePath, slug, "").Info("posts.publish")
	return updated, nil
}

// Unpublish returns a post to draft and clears its publication timestamp.
func (s *Service) Unpublish(ctx context.Context, slug string) (*post.Post, error) {
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	record.Status = domain.StatusDraft
	record.PublishedAt = nil
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithDocumentContext(s.logger, record.SourcePath, slug, "").Info("posts.unpublish")
	return updated, nil
}

// Archive retires a post without deleting its record.
func (s *Service) Archive(ctx context.Context, slug string) (*post.Post, error) {
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	record.Status = domain.StatusArchived
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

// GetBySlug fetches a single catalog record.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*post.Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns every catalog record, newest published first.
func (s *Service) List(ctx context.Context) ([]*post.Post, error) {
	return s.repo.List(ctx)
}

// ListPublished returns only records visible to readers.
func (s *Service) ListPublished(ctx context.Context) ([]*post.Post, error) {
	return s.repo.ListByStatus(ctx, domain.StatusPublished)
}

// slugForDocument prefers the slug declared in front matter and falls back
// to the source file name.
func slugForDocument(doc *interfaces.Document) (string, error) {
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := filepath.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if candidate == "" {
		return "", post.ErrSlugRequired
	}
	normalized, err := post.NormalizeSlug(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %q", post.ErrSlugInvalid, candidate)
	}
	if normalized == "" || !post.IsValidSlug(normalized) {
		return "", fmt.Errorf("%w: %q", post.ErrSlugInvalid, candidate)
	}
	return normalized, nil
}

func layoutOrDefault(layout string) string {
	return util.FirstNonEmpty(strings.TrimSpace(layout), "post")
}

func validateRecord(record *post.Post) error {
	if record.Title == "" {
		return post.ErrTitleRequired
	}
	if record.Author == "" {
		return post.ErrAuthorRequired
	}
	if strings.TrimSpace(record.Body) == "" {
		return post.ErrBodyRequired
	}
	if !record.Status.IsValid() {
		return post.ErrStatusInvalid
	}
	return nil
}
