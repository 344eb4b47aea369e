package lint

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func issuesForRule(report []interfaces.LintIssue, rule string) []interfaces.LintIssue {
	var out []interfaces.LintIssue
	for _, issue := range report {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestFrontMatterRule_MissingAndMistyped(t *testing.T) {
	doc := newDocument("broken.md", readFixture(t, "broken.md"))
	issues := frontMatterRule{}.Check(context.Background(), doc)

	if len(issues) != 2 {
		t.Fatalf("expected 2 front matter issues, got %d: %+v", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.Severity != interfaces.SeverityError {
			t.Fatalf("front matter issues must be errors, got %s", issue.Severity)
		}
	}

	var sawAuthor, sawRelease bool
	for _, issue := range issues {
		if strings.Contains(issue.Message, "author") {
			sawAuthor = true
		}
		if strings.Contains(issue.Message, "release") {
			sawRelease = true
			if issue.Line != 4 {
				t.Fatalf("release issue should anchor at line 4, got %d", issue.Line)
			}
		}
	}
	if !sawAuthor || !sawRelease {
		t.Fatalf("expected author and release findings, got %+v", issues)
	}
}

func TestFrontMatterRule_NoBlock(t *testing.T) {
	doc := newDocument("plain.md", []byte("# Just a heading\n"))
	issues := frontMatterRule{}.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Line != 1 || issues[0].Severity != interfaces.SeverityError {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
}

func TestFootnoteRule_Balance(t *testing.T) {
	doc := newDocument("broken.md", readFixture(t, "broken.md"))
	issues := footnoteRule{}.Check(context.Background(), doc)

	if len(issues) != 2 {
		t.Fatalf("expected 2 footnote issues, got %d: %+v", len(issues), issues)
	}

	ghost := issues[0]
	if !strings.Contains(ghost.Message, "[^ghost]") || ghost.Severity != interfaces.SeverityError {
		t.Fatalf("expected missing definition error for ghost, got %+v", ghost)
	}
	if ghost.Line != 7 {
		t.Fatalf("ghost reference should anchor at line 7, got %d", ghost.Line)
	}

	orphan := issues[1]
	if !strings.Contains(orphan.Message, "[^orphan]") || orphan.Severity != interfaces.SeverityWarning {
		t.Fatalf("expected unused definition warning for orphan, got %+v", orphan)
	}
	if orphan.Line != 11 {
		t.Fatalf("orphan definition should anchor at line 11, got %d", orphan.Line)
	}
}

func TestFootnoteRule_DuplicateDefinition(t *testing.T) {
	source := []byte(`---
layout: post
title: Dupes
author: A
release: true
---

Point[^n].

[^n]: First.
[^n]: Second.
`)
	issues := footnoteRule{}.Check(context.Background(), newDocument("dupes.md", source))
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Severity != interfaces.SeverityError || issues[0].Line != 11 {
		t.Fatalf("duplicate definition should error at line 11, got %+v", issues[0])
	}
}

func TestFootnoteRule_IgnoresCodeSpansAndFences(t *testing.T) {
	source := []byte("---\nlayout: post\ntitle: T\nauthor: A\nrelease: true\n---\n\nUse `[^literal]` syntax.\n\n```\n[^inside]: fences do not count\n```\n")
	issues := footnoteRule{}.Check(context.Background(), newDocument("code.md", source))
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestLinkRule_ExplicitReferenceWithoutDefinition(t *testing.T) {
	doc := newDocument("broken.md", readFixture(t, "broken.md"))
	issues := linkReferenceRule{}.Check(context.Background(), doc)

	if len(issues) != 1 {
		t.Fatalf("expected 1 link issue, got %d: %+v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Severity != interfaces.SeverityError || issue.Line != 9 {
		t.Fatalf("roadmap reference should error at line 9, got %+v", issue)
	}
	if !strings.Contains(issue.Message, "[roadmap]") {
		t.Fatalf("unexpected message: %s", issue.Message)
	}
}

func TestLinkRule_ShortcutAndUnusedDefinition(t *testing.T) {
	source := []byte(`---
layout: post
title: Links
author: A
release: true
---

Read the [field notes] before the demo.

[archive]: https://example.com/archive
`)
	issues := linkReferenceRule{}.Check(context.Background(), newDocument("links.md", source))
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.Severity != interfaces.SeverityWarning {
			t.Fatalf("expected warnings only, got %+v", issue)
		}
	}
	if !strings.Contains(issues[0].Message, "[field notes]") {
		t.Fatalf("expected shortcut warning first, got %+v", issues[0])
	}
	if !strings.Contains(issues[1].Message, "[archive]") {
		t.Fatalf("expected unused definition warning, got %+v", issues[1])
	}
}

func TestLinkRule_ResolvedReferencesAreQuiet(t *testing.T) {
	doc := newDocument("clean.md", readFixture(t, "clean.md"))
	issues := linkReferenceRule{}.Check(context.Background(), doc)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestLinkRule_InlineLinksSkipped(t *testing.T) {
	source := []byte("---\nlayout: post\ntitle: T\nauthor: A\nrelease: true\n---\n\nAn [inline link](https://example.com) needs no definition.\n")
	issues := linkReferenceRule{}.Check(context.Background(), newDocument("inline.md", source))
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestFenceRule_UnclosedFence(t *testing.T) {
	doc := newDocument("broken.md", readFixture(t, "broken.md"))
	issues := fenceRule{}.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 fence issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Line != 16 || issues[0].Severity != interfaces.SeverityError {
		t.Fatalf("fence issue should error at line 16, got %+v", issues[0])
	}
}

func TestFenceRule_CloseNeedsMatchingMarkerAndLength(t *testing.T) {
	source := []byte("---\nlayout: post\ntitle: T\nauthor: A\nrelease: true\n---\n\n````\ncode with ``` inside\n````\n\n~~~~\nstill open, short close\n~~~\n")
	doc := newDocument("fences.md", source)
	issues := fenceRule{}.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Line != 12 {
		t.Fatalf("tilde fence opens at line 12, got %+v", issues[0])
	}
}

func TestHTMLRule_UnclosedRawTag(t *testing.T) {
	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	doc := newDocument("broken.md", readFixture(t, "broken.md"))
	issues := htmlRule{parser: parser}.Check(context.Background(), doc)

	if len(issues) != 1 {
		t.Fatalf("expected 1 html issue, got %d: %+v", len(issues), issues)
	}
	if !strings.Contains(issues[0].Message, "<div>") && !strings.Contains(issues[0].Message, "<div") {
		t.Fatalf("expected unclosed div finding, got %+v", issues[0])
	}
	if issues[0].Line != 13 {
		t.Fatalf("div opens at line 13, got %d", issues[0].Line)
	}
}

func TestHTMLRule_BalancedMarkupIsQuiet(t *testing.T) {
	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	doc := newDocument("clean.md", readFixture(t, "clean.md"))
	issues := htmlRule{parser: parser}.Check(context.Background(), doc)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestMaskInlineCode(t *testing.T) {
	masked := maskInlineCode("before `[^not-a-ref]` after")
	if strings.Contains(masked, "[^not-a-ref]") {
		t.Fatalf("code span contents should be blanked: %q", masked)
	}
	if !strings.HasPrefix(masked, "before `") || !strings.HasSuffix(masked, "` after") {
		t.Fatalf("text outside the span must survive: %q", masked)
	}
}
