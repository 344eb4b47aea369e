package lintcmd

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-press/internal/lint"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const cleanPost = `---
layout: post
title: Clean
author: A
release: true
---

All good here.
`

const brokenPost = `---
layout: post
title: Broken
release: true
---

A dangling claim[^missing].
`

func newLintService(files map[string]string) interfaces.LintService {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return lint.NewServiceWithFS(lint.Config{Recursive: true}, nil, fsys)
}

func TestLintDirectoryHandler_CleanRunSucceeds(t *testing.T) {
	var reports []interfaces.LintReport
	handler := NewLintDirectoryHandler(
		newLintService(map[string]string{"posts/clean.md": cleanPost}),
		nil,
		func(report interfaces.LintReport) { reports = append(reports, report) },
	)

	if err := handler.Execute(context.Background(), LintDirectoryCommand{Dir: "posts"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
}

func TestLintDirectoryHandler_ErrorsFailTheRun(t *testing.T) {
	handler := NewLintDirectoryHandler(
		newLintService(map[string]string{"posts/broken.md": brokenPost}),
		nil, nil,
	)

	err := handler.Execute(context.Background(), LintDirectoryCommand{Dir: "posts"})
	if !errors.Is(err, ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed, got %v", err)
	}
}

func TestLintDirectoryHandler_FailOnWarnings(t *testing.T) {
	// The shortcut reference downgrades to a warning only.
	warningPost := `---
layout: post
title: Warned
author: A
release: true
---

See [the appendix] for details.
`
	service := newLintService(map[string]string{"posts/warned.md": warningPost})

	handler := NewLintDirectoryHandler(service, nil, nil)
	if err := handler.Execute(context.Background(), LintDirectoryCommand{Dir: "posts"}); err != nil {
		t.Fatalf("warnings alone should pass by default: %v", err)
	}

	strict := NewLintDirectoryHandler(service, nil, nil)
	err := strict.Execute(context.Background(), LintDirectoryCommand{Dir: "posts", FailOnWarnings: true})
	if !errors.Is(err, ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed with FailOnWarnings, got %v", err)
	}
}

func TestLintDirectoryCommand_Validate(t *testing.T) {
	if err := (LintDirectoryCommand{}).Validate(); err == nil {
		t.Fatal("expected validation error for missing dir")
	}
	if err := (LintDirectoryCommand{Dir: "posts"}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
