package lint

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// RuleLinks names the link reference rule.
const RuleLinks = "link/reference"

var (
	linkDefRe      = regexp.MustCompile(`^\s{0,3}\[([^\^\]][^\]]*)\]:\s*\S`)
	linkFullRefRe  = regexp.MustCompile(`\[([^\]\[]*)\]\[([^\]\[]*)\]`)
	linkInlineRe   = regexp.MustCompile(`\[[^\]\[]*\]\([^)]*\)`)
	linkShortcutRe = regexp.MustCompile(`\[([^\]\[\^][^\]\[]*)\]`)
)

type linkUse struct {
	line     int
	label    string
	explicit bool
}

// linkReferenceRule resolves reference-style links against their
// definitions. Explicit references with no definition are errors; bare
// [label] occurrences are treated as probable shortcut references and
// downgraded to warnings, since they can also be plain bracketed prose.
type linkReferenceRule struct{}

func (linkReferenceRule) Name() string { return RuleLinks }

func (linkReferenceRule) Check(_ context.Context, doc *document) []interfaces.LintIssue {
	defs := map[string]int{}
	used := map[string]bool{}
	var uses []linkUse

	doc.bodyLines(func(lineNo int, line string) {
		masked := maskInlineCode(line)

		if m := linkDefRe.FindStringSubmatch(masked); m != nil {
			label := normalizeLinkLabel(m[1])
			if _, ok := defs[label]; !ok {
				defs[label] = lineNo
			}
			return
		}

		masked = linkFullRefRe.ReplaceAllStringFunc(masked, func(match string) string {
			m := linkFullRefRe.FindStringSubmatch(match)
			label := m[2]
			if label == "" {
				label = m[1]
			}
			if !strings.HasPrefix(m[1], "^") && !strings.HasPrefix(label, "^") {
				uses = append(uses, linkUse{line: lineNo, label: normalizeLinkLabel(label), explicit: true})
			}
			return strings.Repeat(" ", len(match))
		})

		masked = linkInlineRe.ReplaceAllStringFunc(masked, func(match string) string {
			return strings.Repeat(" ", len(match))
		})

		for _, m := range linkShortcutRe.FindAllStringSubmatchIndex(masked, -1) {
			if next := m[1]; next < len(masked) {
				switch masked[next] {
				case '(', '[', ':':
					continue
				}
			}
			label := masked[m[2]:m[3]]
			uses = append(uses, linkUse{line: lineNo, label: normalizeLinkLabel(label)})
		}
	})

	var issues []interfaces.LintIssue
	for _, use := range uses {
		used[use.label] = true
		if _, ok := defs[use.label]; ok {
			continue
		}
		severity := interfaces.SeverityWarning
		wording := "bracketed text [%s] looks like a link reference with no definition"
		if use.explicit {
			severity = interfaces.SeverityError
			wording = "link reference [%s] has no definition"
		}
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleLinks,
			Severity: severity,
			Line:     use.line,
			Message:  fmt.Sprintf(wording, use.label),
		})
	}

	for label, lineNo := range defs {
		if used[label] {
			continue
		}
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleLinks,
			Severity: interfaces.SeverityWarning,
			Line:     lineNo,
			Message:  fmt.Sprintf("link definition [%s] is never used", label),
		})
	}
	sortIssuesByLine(issues)
	return issues
}

// normalizeLinkLabel folds case and collapses internal whitespace the way
// reference labels are matched in Markdown.
func normalizeLinkLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
