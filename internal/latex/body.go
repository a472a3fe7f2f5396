// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strings"
	"unicode"
)

const (
	beginDocument   = `\begin{document}`
	endDocument     = `\end{document}`
	tableOfContents = `\tableofcontents`
)

// IsolateBody returns the trimmed text between \begin{document} and the
// first \end{document} after it. If either marker is missing the whole
// document is returned unchanged.
func IsolateBody(doc string) string {
	body, _ := locateBody(doc)
	return body
}

// locateBody is IsolateBody plus the 1-based document line on which the
// returned body starts.
func locateBody(doc string) (string, int) {
	start := strings.Index(doc, beginDocument)
	if start < 0 {
		return doc, 1
	}
	from := start + len(beginDocument)
	end := strings.Index(doc[from:], endDocument)
	if end < 0 {
		return doc, 1
	}
	inner := doc[from : from+end]
	left := strings.TrimLeftFunc(inner, unicode.IsSpace)
	offset := from + len(inner) - len(left)
	return strings.TrimRightFunc(left, unicode.IsSpace), strings.Count(doc[:offset], "\n") + 1
}
