// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

// Metadata holds the title, author and date declared in a document. An empty
// field means the declaration was absent.
type Metadata struct {
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
}

// IsEmpty reports whether no field was declared.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Author == "" && m.Date == ""
}

// Lines returns the Markdown header for the metadata: a title heading, bold
// author and date lines, and one blank separator. It returns nil when no
// field was declared.
func (m Metadata) Lines() []string {
	if m.IsEmpty() {
		return nil
	}
	var lines []string
	if m.Title != "" {
		lines = append(lines, "# "+m.Title)
	}
	if m.Author != "" {
		lines = append(lines, "**Author:** "+m.Author)
	}
	if m.Date != "" {
		lines = append(lines, "**Date:** "+m.Date)
	}
	return append(lines, "")
}

type fieldRule struct {
	extract Extractor
	assign  func(*Metadata, string)
}

var metadataRules = []fieldRule{
	{extract: argumentOf("title"), assign: func(m *Metadata, v string) { m.Title = v }},
	{extract: argumentOf("author"), assign: func(m *Metadata, v string) { m.Author = v }},
	{extract: argumentOf("date"), assign: func(m *Metadata, v string) { m.Date = v }},
}

// ExtractMetadata searches the whole document for the first \title, \author
// and \date declarations. Later declarations are ignored.
func ExtractMetadata(doc string) Metadata {
	var m Metadata
	for _, r := range metadataRules {
		if v, ok := r.extract(doc); ok {
			r.assign(&m, v)
		}
	}
	return m
}
