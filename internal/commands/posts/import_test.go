package postscmd

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/posts"
)

const importablePost = `---
layout: post
title: Imported
author: June Park
release: true
---

Body text.
`

func newCatalog(t *testing.T, files map[string]string) (*posts.Service, *posts.MemoryPostRepository) {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	md := markdown.NewServiceWithFS(markdown.Config{Recursive: true}, nil, fsys)
	repo := posts.NewMemoryPostRepository()
	svc, err := posts.NewService(posts.Config{Repository: repo, Markdown: md})
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	return svc, repo
}

func TestImportDirectoryHandler_ImportsPosts(t *testing.T) {
	svc, repo := newCatalog(t, map[string]string{"posts/imported.md": importablePost})

	var result *posts.ImportResult
	handler := NewImportDirectoryHandler(svc, nil, func(r *posts.ImportResult) { result = r })

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{Dir: "posts"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result == nil || result.Created != 1 {
		t.Fatalf("expected 1 created, got %+v", result)
	}

	stored, err := repo.GetBySlug(context.Background(), "imported")
	if err != nil {
		t.Fatalf("stored record: %v", err)
	}
	if stored.Title != "Imported" {
		t.Fatalf("unexpected record: %+v", stored)
	}
}

func TestImportDirectoryHandler_DryRun(t *testing.T) {
	svc, repo := newCatalog(t, map[string]string{"posts/imported.md": importablePost})
	handler := NewImportDirectoryHandler(svc, nil, nil)

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{Dir: "posts", DryRun: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("dry run must not persist, got %d records", len(records))
	}
}

func TestImportDirectoryCommand_Validate(t *testing.T) {
	if err := (ImportDirectoryCommand{}).Validate(); err == nil {
		t.Fatal("expected validation error for missing dir")
	}
	if err := (ImportDirectoryCommand{Dir: "posts"}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
