package posts

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/post"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// stubMarkdownService feeds the importer canned documents.
type stubMarkdownService struct {
	docs []*interfaces.Document
	err  error
}

func (s *stubMarkdownService) Load(_ context.Context, path string, _ interfaces.LoadOptions) (*interfaces.Document, error) {
	for _, doc := range s.docs {
		if doc.FilePath == path {
			return doc, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubMarkdownService) LoadDirectory(_ context.Context, _ string, _ interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return s.docs, s.err
}

func (s *stubMarkdownService) Render(_ context.Context, markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return markdown, nil
}

func (s *stubMarkdownService) RenderDocument(_ context.Context, doc *interfaces.Document, _ interfaces.ParseOptions) ([]byte, error) {
	return doc.Body, nil
}

func newTestService(t *testing.T, repo PostRepository, md interfaces.MarkdownService) *Service {
	t.Helper()
	if md == nil {
		md = &stubMarkdownService{}
	}
	svc, err := NewService(Config{Repository: repo, Markdown: md})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func testDocument(path string, fm interfaces.FrontMatter, body string) *interfaces.Document {
	sum := sha256.Sum256([]byte(body))
	return &interfaces.Document{
		FilePath:    path,
		FrontMatter: fm,
		Body:        []byte(body),
		BodyHTML:    []byte("<p>" + body + "</p>"),
		Checksum:    sum[:],
	}
}

func TestImportDocument_CreatesPublishedRecord(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	date := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	doc := testDocument("posts/announcing-effect-generics.md", interfaces.FrontMatter{
		Layout:  "post",
		Title:   "Announcing the Effect Generics Initiative",
		Author:  "June Park",
		Release: true,
		Date:    date,
		Tags:    []string{"effects"},
		Custom:  map[string]any{"series": "generics"},
	}, "The initiative kicks off this quarter.")

	outcome, err := svc.ImportDocument(context.Background(), doc, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if outcome.Action != ActionCreated {
		t.Fatalf("expected created, got %s", outcome.Action)
	}
	if outcome.Slug != "announcing-effect-generics" {
		t.Fatalf("unexpected slug %q", outcome.Slug)
	}

	stored, err := repo.GetBySlug(context.Background(), outcome.Slug)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.ID != identity.PostUUID(outcome.Slug) {
		t.Fatal("record ID must derive from the slug")
	}
	if stored.Status != domain.StatusPublished {
		t.Fatalf("release: true should publish, got %s", stored.Status)
	}
	if stored.PublishedAt == nil || !stored.PublishedAt.Equal(date) {
		t.Fatalf("published_at should come from front matter date, got %v", stored.PublishedAt)
	}
	if stored.Metadata["series"] != "generics" {
		t.Fatalf("custom front matter should land in metadata, got %v", stored.Metadata)
	}
}

func TestImportDocument_ReleaseFalseStaysDraft(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	doc := testDocument("posts/design-notes.md", interfaces.FrontMatter{
		Layout: "post",
		Title:  "Design Notes",
		Author: "June Park",
	}, "Not ready yet.")

	outcome, err := svc.ImportDocument(context.Background(), doc, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if outcome.Post.Status != domain.StatusDraft {
		t.Fatalf("expected draft, got %s", outcome.Post.Status)
	}
	if outcome.Post.PublishedAt != nil {
		t.Fatal("drafts carry no publication timestamp")
	}
	if outcome.Post.IsVisible() {
		t.Fatal("drafts are not visible")
	}
}

func TestImportDocument_SkipsUnchangedChecksum(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	doc := testDocument("posts/stable.md", interfaces.FrontMatter{
		Title: "Stable", Author: "A", Release: true,
	}, "Same bytes.")

	if _, err := svc.ImportDocument(context.Background(), doc, ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := svc.ImportDocument(context.Background(), doc, ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Action != ActionSkipped {
		t.Fatalf("expected skip, got %s", second.Action)
	}

	forced, err := svc.ImportDocument(context.Background(), doc, ImportOptions{Force: true})
	if err != nil {
		t.Fatalf("forced import: %v", err)
	}
	if forced.Action != ActionUpdated {
		t.Fatalf("force should update, got %s", forced.Action)
	}
}

func TestImportDocument_UpdateKeepsIdentity(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	fm := interfaces.FrontMatter{Title: "Evolving", Author: "A", Release: true}
	first, err := svc.ImportDocument(context.Background(), testDocument("posts/evolving.md", fm, "v1"), ImportOptions{})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := svc.ImportDocument(context.Background(), testDocument("posts/evolving.md", fm, "v2"), ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Action != ActionUpdated {
		t.Fatalf("expected update, got %s", second.Action)
	}
	if second.Post.ID != first.Post.ID {
		t.Fatal("update must keep the original record ID")
	}
	if second.Post.Body != "v2" {
		t.Fatalf("body not refreshed: %q", second.Post.Body)
	}
	if !second.Post.PublishedAt.Equal(*first.Post.PublishedAt) {
		t.Fatal("existing publication timestamp should survive reimport")
	}
}

func TestImportDocument_SlugPrefersFrontMatter(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	doc := testDocument("posts/2026-01-05-long-file-name.md", interfaces.FrontMatter{
		Title: "Short", Author: "A", Slug: "Short Slug", Release: true,
	}, "body")

	outcome, err := svc.ImportDocument(context.Background(), doc, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if outcome.Slug != "short-slug" {
		t.Fatalf("expected normalized front matter slug, got %q", outcome.Slug)
	}
}

func TestImportDocument_MissingAuthorFails(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	doc := testDocument("posts/anon.md", interfaces.FrontMatter{Title: "Anon", Release: true}, "body")
	if _, err := svc.ImportDocument(context.Background(), doc, ImportOptions{}); !errors.Is(err, post.ErrAuthorRequired) {
		t.Fatalf("expected ErrAuthorRequired, got %v", err)
	}
}

func TestImportDirectory_DryRunLeavesRepositoryEmpty(t *testing.T) {
	repo := NewMemoryPostRepository()
	md := &stubMarkdownService{docs: []*interfaces.Document{
		testDocument("posts/one.md", interfaces.FrontMatter{Title: "One", Author: "A", Release: true}, "one"),
		testDocument("posts/two.md", interfaces.FrontMatter{Title: "Two", Author: "A"}, "two"),
	}}
	svc := newTestService(t, repo, md)

	result, err := svc.ImportDirectory(context.Background(), ImportOptions{Dir: "posts", DryRun: true})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if result.Created != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("dry run must not persist, found %d records", len(records))
	}
}

func TestPublishAndUnpublish(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	doc := testDocument("posts/toggle.md", interfaces.FrontMatter{Title: "Toggle", Author: "A"}, "body")
	if _, err := svc.ImportDocument(context.Background(), doc, ImportOptions{}); err != nil {
		t.Fatalf("import: %v", err)
	}

	published, err := svc.Publish(context.Background(), "toggle", nil)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected publish timestamp %v, got %v", fixedNow, published.PublishedAt)
	}

	draft, err := svc.Unpublish(context.Background(), "toggle")
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if draft.Status != domain.StatusDraft || draft.PublishedAt != nil {
		t.Fatalf("unpublish should reset status and timestamp, got %+v", draft)
	}
}

func TestListPublished_NewestFirst(t *testing.T) {
	repo := NewMemoryPostRepository()
	svc := newTestService(t, repo, nil)

	older := interfaces.FrontMatter{Title: "Older", Author: "A", Release: true,
		Date: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)}
	newer := interfaces.FrontMatter{Title: "Newer", Author: "A", Release: true,
		Date: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)}
	draft := interfaces.FrontMatter{Title: "Draft", Author: "A"}

	for path, fm := range map[string]interfaces.FrontMatter{
		"posts/older.md": older,
		"posts/newer.md": newer,
		"posts/draft.md": draft,
	} {
		if _, err := svc.ImportDocument(context.Background(), testDocument(path, fm, "body "+path), ImportOptions{}); err != nil {
			t.Fatalf("import %s: %v", path, err)
		}
	}

	visible, err := svc.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(visible))
	}
	if visible[0].Slug != "newer" || visible[1].Slug != "older" {
		t.Fatalf("expected newest first, got %s then %s", visible[0].Slug, visible[1].Slug)
	}
}

func TestNewService_RequiresDependencies(t *testing.T) {
	if _, err := NewService(Config{}); !errors.Is(err, ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
	if _, err := NewService(Config{Repository: NewMemoryPostRepository()}); !errors.Is(err, ErrMarkdownRequired) {
		t.Fatalf("expected ErrMarkdownRequired, got %v", err)
	}
}
