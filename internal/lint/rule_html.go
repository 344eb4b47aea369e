package lint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// RuleHTML names the rendered HTML well-formedness rule.
const RuleHTML = "html/wellformed"

// voidElements close themselves and never get an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// htmlRule renders the body and tokenizes the output, checking that every
// open tag is closed in order. Markdown rendering produces balanced markup
// on its own; mismatches come from raw HTML embedded in the source.
type htmlRule struct {
	parser interfaces.MarkdownParser
}

func (htmlRule) Name() string { return RuleHTML }

func (r htmlRule) Check(_ context.Context, doc *document) []interfaces.LintIssue {
	if r.parser == nil {
		return nil
	}
	rendered, err := r.parser.Parse(doc.body)
	if err != nil {
		return []interfaces.LintIssue{{
			Rule:     RuleHTML,
			Severity: interfaces.SeverityError,
			Line:     doc.bodyStart,
			Message:  fmt.Sprintf("body failed to render: %v", err),
		}}
	}

	var issues []interfaces.LintIssue
	var stack []string

	tok := html.NewTokenizer(bytes.NewReader(rendered))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			if err := tok.Err(); err != io.EOF {
				issues = append(issues, interfaces.LintIssue{
					Rule:     RuleHTML,
					Severity: interfaces.SeverityError,
					Line:     doc.bodyStart,
					Message:  fmt.Sprintf("rendered HTML could not be tokenized: %v", err),
				})
			}
			break
		}

		name, _ := tok.TagName()
		tag := strings.ToLower(string(name))
		switch tt {
		case html.StartTagToken:
			if !voidElements[tag] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			if len(stack) > 0 && stack[len(stack)-1] == tag {
				stack = stack[:len(stack)-1]
				continue
			}
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleHTML,
				Severity: interfaces.SeverityError,
				Line:     rawTagLine(doc, tag),
				Message:  fmt.Sprintf("rendered HTML closes </%s> that was never opened", tag),
			})
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleHTML,
			Severity: interfaces.SeverityError,
			Line:     rawTagLine(doc, stack[i]),
			Message:  fmt.Sprintf("rendered HTML leaves <%s> unclosed", stack[i]),
		})
	}
	return issues
}

// rawTagLine tries to point the issue at the raw HTML tag in the source,
// since tokenizer offsets refer to rendered output. Falls back to the start
// of the body.
func rawTagLine(doc *document, tag string) int {
	line := doc.bodyStart
	doc.bodyLines(func(lineNo int, text string) {
		if line != doc.bodyStart {
			return
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "<"+tag) || strings.Contains(lower, "</"+tag) {
			line = lineNo
		}
	})
	return line
}
