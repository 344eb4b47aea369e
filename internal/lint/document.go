package lint

import (
	"bytes"
	"sort"
	"strings"

	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// fenceOpen records an opening fence delimiter that is waiting on a close.
type fenceOpen struct {
	line   int
	marker byte
	length int
}

// document is the shared view of one source file that every rule reads.
// Line numbers are 1-based and refer to the original file, front matter
// included.
type document struct {
	path       string
	source     []byte
	lines      []string
	meta       map[string]any
	metaErr    error
	body       []byte
	bodyStart  int
	fenced     []bool
	openFences []fenceOpen
}

func newDocument(path string, source []byte) *document {
	doc := &document{
		path:   path,
		source: source,
		lines:  splitLines(source),
	}

	meta, body, err := markdown.ParseFrontMatterMap(source)
	if err != nil {
		doc.metaErr = err
		doc.body = source
		doc.bodyStart = 1
	} else {
		doc.meta = meta
		doc.body = body
		prefix := len(source) - len(body)
		if prefix < 0 || prefix > len(source) {
			prefix = 0
		}
		doc.bodyStart = bytes.Count(source[:prefix], []byte("\n")) + 1
	}

	doc.scanFences()
	return doc
}

// scanFences walks the body lines tracking fenced code blocks. fenced marks
// every line that belongs to a fence, delimiters included, so text rules can
// skip code. Delimiters still open at end of input are kept for the fence
// balance rule.
func (d *document) scanFences() {
	d.fenced = make([]bool, len(d.lines))

	var open *fenceOpen
	for i := d.bodyStart - 1; i < len(d.lines); i++ {
		line := d.lines[i]
		marker, length, ok := fenceDelimiter(line)
		if !ok {
			if open != nil {
				d.fenced[i] = true
			}
			continue
		}
		d.fenced[i] = true
		if open == nil {
			open = &fenceOpen{line: i + 1, marker: marker, length: length}
			continue
		}
		// A close must reuse the opening marker and be at least as long,
		// with nothing but the delimiter on the line.
		if marker == open.marker && length >= open.length && isBareDelimiter(line) {
			open = nil
			continue
		}
		// Backtick fences may nest tilde delimiters as content, and the
		// other way round.
	}
	if open != nil {
		d.openFences = append(d.openFences, *open)
	}
}

// bodyLines yields each body line with its 1-based file line number,
// skipping fenced code.
func (d *document) bodyLines(fn func(lineNo int, line string)) {
	for i := d.bodyStart - 1; i < len(d.lines); i++ {
		if d.fenced[i] {
			continue
		}
		fn(i+1, d.lines[i])
	}
}

// frontMatterKeyLine locates the line declaring a top-level front-matter
// key, falling back to the opening delimiter.
func (d *document) frontMatterKeyLine(key string) int {
	for i := 0; i < d.bodyStart-1 && i < len(d.lines); i++ {
		trimmed := strings.TrimLeft(d.lines[i], " ")
		if strings.HasPrefix(trimmed, key+":") {
			return i + 1
		}
	}
	return 1
}

// fenceDelimiter reports whether a line opens or closes a code fence:
// up to three spaces of indentation followed by at least three backticks
// or tildes.
func fenceDelimiter(line string) (marker byte, length int, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return 0, 0, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	// An info string on a backtick fence cannot contain backticks.
	if c == '`' && strings.Contains(trimmed[n:], "`") {
		return 0, 0, false
	}
	return c, n, true
}

func isBareDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	c := trimmed[0]
	return strings.TrimRight(trimmed, string(c)) == ""
}

func sortIssuesByLine(issues []interfaces.LintIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
}

func splitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	return strings.Split(text, "\n")
}

// maskInlineCode blanks the contents of inline code spans so bracket and
// caret characters inside them do not register as footnotes or links.
func maskInlineCode(line string) string {
	out := []byte(line)
	i := 0
	for i < len(out) {
		if out[i] != '`' {
			i++
			continue
		}
		run := 0
		for i+run < len(out) && out[i+run] == '`' {
			run++
		}
		start := i + run
		end := -1
		for j := start; j < len(out); j++ {
			if out[j] != '`' {
				continue
			}
			k := 0
			for j+k < len(out) && out[j+k] == '`' {
				k++
			}
			if k == run {
				end = j
				break
			}
			j += k - 1
		}
		if end == -1 {
			i = start
			continue
		}
		for j := start; j < end; j++ {
			out[j] = ' '
		}
		i = end + run
	}
	return string(out)
}
