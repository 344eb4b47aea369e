package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// RuleFences names the code fence balance rule.
const RuleFences = "fence/balance"

// fenceRule reports fence delimiters that are still open at end of input.
// An unclosed fence swallows the rest of the document, so this is always
// an error.
type fenceRule struct{}

func (fenceRule) Name() string { return RuleFences }

func (fenceRule) Check(_ context.Context, doc *document) []interfaces.LintIssue {
	var issues []interfaces.LintIssue
	for _, open := range doc.openFences {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleFences,
			Severity: interfaces.SeverityError,
			Line:     open.line,
			Message: fmt.Sprintf("code fence %s opened on line %d is never closed",
				strings.Repeat(string(open.marker), open.length), open.line),
		})
	}
	return issues
}
