package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/post"
)

type stubSource struct {
	records []*post.Post
	err     error
}

func (s stubSource) ListPublished(context.Context) ([]*post.Post, error) {
	return s.records, s.err
}

type memoryWriter struct {
	files   map[string][]byte
	dirs    []string
	removed bool
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string][]byte{}}
}

func (w *memoryWriter) EnsureDir(_ context.Context, dir string) error {
	w.dirs = append(w.dirs, dir)
	return nil
}

func (w *memoryWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	buf := make([]byte, 0, req.Size)
	tmp := make([]byte, 1024)
	for {
		n, err := req.Content.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	w.files[req.Path] = buf
	return nil
}

func (w *memoryWriter) RemoveAll(context.Context) error {
	w.removed = true
	return nil
}

func publishedPost(slug, title string, published time.Time) *post.Post {
	when := published
	return &post.Post{
		ID:          identity.PostUUID(slug),
		Slug:        slug,
		Title:       title,
		Author:      "June Park",
		Layout:      "post",
		Status:      domain.StatusPublished,
		Body:        "# " + title,
		BodyHTML:    "<h1>" + title + "</h1>",
		PublishedAt: &when,
	}
}

func newBuildService(t *testing.T, cfg Config, source PostSource, writer ArtifactWriter) *service {
	t.Helper()
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	svc, err := NewService(cfg, Dependencies{Posts: source, Writer: writer})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time {
		return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	}
	return impl
}

func TestBuild_RendersPublishedPosts(t *testing.T) {
	writer := newMemoryWriter()
	source := stubSource{records: []*post.Post{
		publishedPost("first-light", "First Light", time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		publishedPost("second-wind", "Second Wind", time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newBuildService(t, Config{
		BaseURL:      "https://press.example.com",
		SiteTitle:    "Press Notes",
		GenerateFeed: true,
	}, source, writer)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 3 || result.FeedsBuilt != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	page, ok := writer.files["first-light/index.html"]
	if !ok {
		t.Fatalf("missing post page, wrote %v", result.Artifacts)
	}
	if !strings.Contains(string(page), "<h1>First Light</h1>") {
		t.Fatalf("page body missing rendered content: %s", page)
	}

	index, ok := writer.files["index.html"]
	if !ok {
		t.Fatal("missing index page")
	}
	if !strings.Contains(string(index), "https://press.example.com/second-wind/") {
		t.Fatalf("index missing permalink: %s", index)
	}

	feed, ok := writer.files["feed.xml"]
	if !ok {
		t.Fatal("missing feed")
	}
	if !strings.Contains(string(feed), "<title>Press Notes</title>") {
		t.Fatalf("feed missing channel title: %s", feed)
	}
}

func TestBuild_SkipsInvisibleRecords(t *testing.T) {
	writer := newMemoryWriter()
	draft := publishedPost("hidden", "Hidden", time.Time{})
	draft.Status = domain.StatusDraft
	draft.PublishedAt = nil
	source := stubSource{records: []*post.Post{draft}}
	svc := newBuildService(t, Config{}, source, writer)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesSkipped != 1 {
		t.Fatalf("expected 1 skipped, got %+v", result)
	}
	if _, ok := writer.files["hidden/index.html"]; ok {
		t.Fatal("draft must not be rendered")
	}
}

func TestBuild_UsesLayoutDirectory(t *testing.T) {
	writer := newMemoryWriter()
	source := stubSource{records: []*post.Post{
		publishedPost("styled", "Styled", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newBuildService(t, Config{LayoutDir: "testdata/layouts"}, source, writer)

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	page := string(writer.files["styled/index.html"])
	if !strings.Contains(page, `data-layout="custom-post"`) {
		t.Fatalf("expected layout from directory, got: %s", page)
	}
	index := string(writer.files["index.html"])
	if !strings.Contains(index, `data-layout="custom-index"`) {
		t.Fatalf("expected index layout from directory, got: %s", index)
	}
}

func TestBuild_FallsBackToDefaultLayout(t *testing.T) {
	writer := newMemoryWriter()
	record := publishedPost("essay", "Essay", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	record.Layout = "longform"
	source := stubSource{records: []*post.Post{record}}
	svc := newBuildService(t, Config{LayoutDir: "testdata/layouts"}, source, writer)

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	// longform has no template file; the post layout stands in.
	page := string(writer.files["essay/index.html"])
	if !strings.Contains(page, `data-layout="custom-post"`) {
		t.Fatalf("expected default layout fallback, got: %s", page)
	}
}

func TestBuild_SlugFilterSkipsIndexAndFeed(t *testing.T) {
	writer := newMemoryWriter()
	source := stubSource{records: []*post.Post{
		publishedPost("keep", "Keep", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
		publishedPost("drop", "Drop", time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newBuildService(t, Config{GenerateFeed: true}, source, writer)

	result, err := svc.Build(context.Background(), BuildOptions{Slugs: []string{"keep"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 1 || result.FeedsBuilt != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := writer.files["drop/index.html"]; ok {
		t.Fatal("filtered slug must not be rendered")
	}
	if _, ok := writer.files["index.html"]; ok {
		t.Fatal("scoped builds skip the index page")
	}
}

func TestBuild_DryRunWritesNothing(t *testing.T) {
	writer := newMemoryWriter()
	source := stubSource{records: []*post.Post{
		publishedPost("ghost", "Ghost", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newBuildService(t, Config{GenerateFeed: true}, source, writer)

	result, err := svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !result.DryRun || result.PagesBuilt != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(writer.files) != 0 {
		t.Fatalf("dry run must not write, got %v", writer.files)
	}
}

func TestBuildRSSFeed_EscapesMarkup(t *testing.T) {
	svc := newBuildService(t, Config{SiteTitle: "Notes & Sketches"}, stubSource{}, newMemoryWriter())

	record := publishedPost("amp", "Q&A <live>", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	feed := svc.buildRSSFeed(svc.buildFeedItems([]*post.Post{record}), time.Now())

	if !strings.Contains(feed, "Q&amp;A &lt;live&gt;") {
		t.Fatalf("item title not escaped: %s", feed)
	}
	if !strings.Contains(feed, "Notes &amp; Sketches") {
		t.Fatalf("channel title not escaped: %s", feed)
	}
}

func TestFilesystemWriter_CleanKeepsRoot(t *testing.T) {
	root := t.TempDir()
	writer := newFilesystemWriter(root)

	if err := writer.WriteFile(context.Background(), writeFileRequest{
		Path:    "old/index.html",
		Content: strings.NewReader("stale"),
		Size:    5,
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.RemoveAll(context.Background()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := os.Stat(root); err != nil {
		t.Fatalf("output root should survive clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "old")); !os.IsNotExist(err) {
		t.Fatal("clean should remove previous artifacts")
	}
}
