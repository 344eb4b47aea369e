package lint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-press/internal/validation"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// RuleFrontMatter names the front-matter schema rule.
const RuleFrontMatter = "frontmatter/keys"

// frontMatterRule validates the YAML front-matter block against the
// canonical schema: layout, title, author, and a boolean release flag.
type frontMatterRule struct{}

func (frontMatterRule) Name() string { return RuleFrontMatter }

func (frontMatterRule) Check(_ context.Context, doc *document) []interfaces.LintIssue {
	if doc.metaErr != nil {
		return []interfaces.LintIssue{{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Line:     1,
			Message:  fmt.Sprintf("front matter could not be parsed: %v", doc.metaErr),
		}}
	}
	if doc.meta == nil {
		return []interfaces.LintIssue{{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Line:     1,
			Message:  "document has no front matter block",
		}}
	}

	err := validation.ValidateFrontMatter(doc.meta)
	if err == nil {
		return nil
	}

	var payloadErr *validation.PayloadValidationError
	if !errors.As(err, &payloadErr) {
		return []interfaces.LintIssue{{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Line:     1,
			Message:  err.Error(),
		}}
	}

	var issues []interfaces.LintIssue
	for _, detail := range payloadErr.Issues {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Line:     doc.frontMatterKeyLine(anchorKey(detail.Location)),
			Message:  frontMatterMessage(detail),
		})
	}
	return issues
}

// anchorKey extracts the top-level key from a JSON pointer like /release.
func anchorKey(location string) string {
	trimmed := strings.TrimPrefix(location, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

func frontMatterMessage(detail validation.ValidationIssue) string {
	if detail.Location == "" || detail.Location == "/" {
		return fmt.Sprintf("front matter: %s", detail.Message)
	}
	return fmt.Sprintf("front matter key %s: %s", anchorKey(detail.Location), detail.Message)
}
