package interfaces

import "context"

// LintSeverity grades lint findings. Errors fail a lint run; warnings are
// hygiene nits (unused link definitions, orphan footnotes) that do not.
type LintSeverity string

const (
	// SeverityError marks a structural problem in the document.
	SeverityError LintSeverity = "error"
	// SeverityWarning marks a documentation-quality concern.
	SeverityWarning LintSeverity = "warning"
)

// LintIssue captures a single finding produced by a lint rule.
type LintIssue struct {
	// Rule names the originating rule (e.g. "footnote/balance").
	Rule     string       `json:"rule"`
	Severity LintSeverity `json:"severity"`
	// Line is 1-based within the source file. Zero means the issue has no
	// meaningful line anchor (e.g. rendered-HTML checks).
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// LintReport aggregates the findings for one document.
type LintReport struct {
	FilePath string      `json:"file_path"`
	Issues   []LintIssue `json:"issues"`
}

// HasErrors reports whether any issue carries error severity.
func (r LintReport) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// LintService checks Markdown posts for the structural properties an external
// renderer depends on: parseable front matter with the canonical keys,
// balanced footnote references, resolvable link references, closed code
// fences, and a body that renders to well-formed HTML.
type LintService interface {
	LintSource(ctx context.Context, path string, source []byte) (LintReport, error)
	LintFile(ctx context.Context, path string) (LintReport, error)
	LintDirectory(ctx context.Context, dir string) ([]LintReport, error)
}
