package lint

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// RuleFootnotes names the footnote balance rule.
const RuleFootnotes = "footnote/balance"

var (
	footnoteDefRe = regexp.MustCompile(`^\s{0,3}\[\^([^\]\s]+)\]:`)
	footnoteRefRe = regexp.MustCompile(`\[\^([^\]\s]+)\]`)
)

// footnoteRule pairs footnote references with definitions: every reference
// needs exactly one definition, and every definition must be referenced.
type footnoteRule struct{}

func (footnoteRule) Name() string { return RuleFootnotes }

func (footnoteRule) Check(_ context.Context, doc *document) []interfaces.LintIssue {
	refs := map[string][]int{}
	defs := map[string][]int{}

	doc.bodyLines(func(lineNo int, line string) {
		masked := maskInlineCode(line)
		if m := footnoteDefRe.FindStringSubmatch(masked); m != nil {
			defs[m[1]] = append(defs[m[1]], lineNo)
			// The definition line may still reference other footnotes.
			masked = footnoteDefRe.ReplaceAllString(masked, "")
		}
		for _, m := range footnoteRefRe.FindAllStringSubmatchIndex(masked, -1) {
			label := masked[m[2]:m[3]]
			// A trailing colon marks a definition, not a reference.
			if m[1] < len(masked) && masked[m[1]] == ':' {
				continue
			}
			refs[label] = append(refs[label], lineNo)
		}
	})

	var issues []interfaces.LintIssue
	for _, label := range sortedKeys(refs) {
		if _, ok := defs[label]; !ok {
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleFootnotes,
				Severity: interfaces.SeverityError,
				Line:     refs[label][0],
				Message:  fmt.Sprintf("footnote reference [^%s] has no definition", label),
			})
		}
	}
	for _, label := range sortedKeys(defs) {
		lines := defs[label]
		if len(lines) > 1 {
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleFootnotes,
				Severity: interfaces.SeverityError,
				Line:     lines[1],
				Message:  fmt.Sprintf("footnote [^%s] is defined %d times", label, len(lines)),
			})
		}
		if _, ok := refs[label]; !ok {
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleFootnotes,
				Severity: interfaces.SeverityWarning,
				Line:     lines[0],
				Message:  fmt.Sprintf("footnote [^%s] is defined but never referenced", label),
			})
		}
	}
	return issues
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
