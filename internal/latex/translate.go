// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex translates a constrained subset of LaTeX into Markdown.
//
// Translation is a single pass over the document body, one trimmed line at a
// time, with exactly one block mode active. Sectioning commands become
// headings. Starred equations, display math and align* rows become $$...$$
// lines. Itemize blocks become indented bullets. Everything else passes
// through verbatim.
package latex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Mode is the block the translator is currently inside.
type Mode int

const (
	ModePlain Mode = iota
	ModeDisplayMath
	ModeStarredEquation
	ModeAlignedEquation
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeDisplayMath:
		return "display math"
	case ModeStarredEquation:
		return "equation*"
	case ModeAlignedEquation:
		return "align*"
	case ModeList:
		return "itemize"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrMalformedDirective is wrapped by every DirectiveError.
var ErrMalformedDirective = errors.New("malformed directive")

// DirectiveError reports a sectioning command whose argument could not be
// captured. It aborts the whole conversion.
type DirectiveError struct {
	Line      int
	Directive string
	Text      string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("line %d: malformed \\%s directive: %q", e.Line, e.Directive, e.Text)
}

func (e *DirectiveError) Unwrap() error { return ErrMalformedDirective }

// Warning is a non-fatal diagnostic. Unterminated blocks produce one.
type Warning struct {
	Line  int
	Block Mode
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: unterminated %s block discarded", w.Line, w.Block)
}

// Result is the outcome of a conversion.
type Result struct {
	Markdown string
	Metadata Metadata
	Warnings []Warning
}

// tocNotice replaces \tableofcontents, which Markdown cannot generate.
var tocNotice = []string{
	"## Table of Contents",
	"*(Generated automatically in LaTeX, list sections manually in Markdown if needed)*",
	"",
}

var itemToken = regexp.MustCompile(`\\item\s+`)

// Convert translates a full LaTeX document into Markdown. It is a pure
// function of doc and safe for concurrent use.
func Convert(doc string) (*Result, error) {
	meta := ExtractMetadata(doc)
	t := &translator{}
	t.out = append(t.out, meta.Lines()...)

	body, first := locateBody(doc)
	if strings.Contains(body, tableOfContents) {
		t.out = append(t.out, tocNotice...)
	}

	for i, line := range strings.Split(body, "\n") {
		if err := t.step(first+i, strings.TrimSpace(line)); err != nil {
			return nil, err
		}
	}
	t.finish()

	return &Result{
		Markdown: strings.Join(t.out, "\n"),
		Metadata: meta,
		Warnings: t.warnings,
	}, nil
}

// translator holds the scan state for one Convert call.
type translator struct {
	mode     Mode
	opened   int // line on which the current block opened
	math     strings.Builder
	depth    int
	out      []string
	warnings []Warning
}

func (t *translator) emit(line string) {
	t.out = append(t.out, line)
}

func (t *translator) step(n int, line string) error {
	switch t.mode {
	case ModePlain:
		return t.plain(n, line)
	case ModeList:
		t.list(line)
		return nil
	default:
		return t.mathLine(n, line)
	}
}

func (t *translator) plain(n int, line string) error {
	for _, o := range mathOpeners {
		if strings.HasPrefix(line, o.prefix) {
			t.mode, t.opened = o.mode, n
			t.math.Reset()
			return t.seedMath(n, strings.TrimSpace(line[len(o.prefix):]))
		}
	}
	if strings.HasPrefix(line, `\begin{itemize}`) {
		t.mode, t.opened = ModeList, n
		t.depth++
		return nil
	}
	for _, r := range headingRules {
		if !r.matches(line) {
			continue
		}
		title, ok := r.extract(line)
		if !ok {
			return &DirectiveError{Line: n, Directive: r.directive, Text: line}
		}
		t.emit(r.marker + " " + title)
		return nil
	}
	if ignored(line) {
		return nil
	}
	t.emit(line)
	return nil
}

// seedMath starts the buffer with the text that followed the opener.
func (t *translator) seedMath(n int, rest string) error {
	before, after, found := strings.Cut(rest, mathClosers[t.mode])
	if !found {
		t.math.WriteString(rest)
		return nil
	}
	t.math.WriteString(strings.TrimSpace(before))
	return t.closeMath(n, after)
}

// mathLine appends one continuation line to the buffer, joined by a single
// space even when the line is blank. A line containing the block's closer
// contributes the text before it and closes the block.
func (t *translator) mathLine(n int, line string) error {
	before, after, found := strings.Cut(line, mathClosers[t.mode])
	if !found {
		t.math.WriteString(" " + line)
		return nil
	}
	if before = strings.TrimSpace(before); before != "" {
		t.math.WriteString(" " + before)
	}
	return t.closeMath(n, after)
}

// closeMath emits the buffered block and returns to PLAIN mode. Text that
// followed the closer is then scanned as a PLAIN line.
func (t *translator) closeMath(n int, tail string) error {
	buf := strings.TrimSpace(t.math.String())
	if t.mode == ModeAlignedEquation {
		for _, row := range strings.Split(buf, `\\`) {
			row = strings.TrimSpace(row)
			row = strings.ReplaceAll(row, "&=", "=")
			row = strings.ReplaceAll(row, "&", "")
			if row != "" {
				t.emit("$$" + row + "$$")
			}
		}
	} else if buf != "" {
		t.emit("$$" + buf + "$$")
	}
	t.math.Reset()
	t.mode = ModePlain

	if tail = strings.TrimSpace(tail); tail != "" {
		return t.plain(n, tail)
	}
	return nil
}

func (t *translator) list(line string) {
	switch {
	case strings.HasPrefix(line, `\end{itemize}`):
		t.depth--
		t.mode = ModePlain
	case strings.HasPrefix(line, `\item`):
		text := strings.TrimSpace(itemToken.ReplaceAllString(line, ""))
		t.emit(strings.Repeat("  ", t.depth) + "- " + text)
	default:
		t.emit(line)
	}
}

// finish records a warning for a block left open at end of input. The
// block's buffered content is dropped.
func (t *translator) finish() {
	if t.mode == ModePlain {
		return
	}
	t.warnings = append(t.warnings, Warning{Line: t.opened, Block: t.mode})
	t.math.Reset()
}
