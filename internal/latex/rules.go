// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"regexp"
	"strings"
)

// Extractor pulls a single argument out of text. It reports false when the
// argument is absent.
type Extractor func(text string) (string, bool)

// argumentOf returns an Extractor for the first non-greedy, single-line
// argument of \command{...} anywhere in the text.
func argumentOf(command string) Extractor {
	re := regexp.MustCompile(`\\` + regexp.QuoteMeta(command) + `\{(.+?)\}`)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// headingRule maps a sectioning directive to a Markdown heading level.
type headingRule struct {
	directive string
	prefix    string
	marker    string
	extract   Extractor
}

func newHeadingRule(directive string, level int) headingRule {
	return headingRule{
		directive: directive,
		prefix:    `\` + directive + `{`,
		marker:    strings.Repeat("#", level),
		extract:   argumentOf(directive),
	}
}

// matches reports whether line opens with this rule's directive.
func (r headingRule) matches(line string) bool {
	return strings.HasPrefix(line, r.prefix)
}

// headingRules is checked in order; \section{ is never a prefix of the others.
var headingRules = []headingRule{
	newHeadingRule("section", 1),
	newHeadingRule("subsection", 2),
	newHeadingRule("subsubsection", 3),
}

// mathOpener starts a math block when a PLAIN line begins with prefix.
type mathOpener struct {
	prefix string
	mode   Mode
}

var mathOpeners = []mathOpener{
	{prefix: `\begin{equation*}`, mode: ModeStarredEquation},
	{prefix: `\begin{align*}`, mode: ModeAlignedEquation},
	{prefix: `\[`, mode: ModeDisplayMath},
}

// mathClosers ends the block opened for each math mode.
var mathClosers = map[Mode]string{
	ModeDisplayMath:     `\]`,
	ModeStarredEquation: `\end{equation*}`,
	ModeAlignedEquation: `\end{align*}`,
}

// ignored reports whether a PLAIN line is a presentation-only directive that
// produces no output.
func ignored(line string) bool {
	return strings.HasPrefix(line, `\newpage`) ||
		line == `\maketitle` ||
		line == tableOfContents
}
