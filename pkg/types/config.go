package types

// ConversionBackend identifies the tool that turns LaTeX into Markdown.
type ConversionBackend string

const (
	BackendBuiltin ConversionBackend = "builtin"
	BackendPandoc  ConversionBackend = "pandoc"
)

// Valid reports whether b names a known backend.
func (b ConversionBackend) Valid() bool {
	return b == BackendBuiltin || b == BackendPandoc
}

// ConvertConfig holds settings for the convert command after flags,
// environment, and config file have been merged.
type ConvertConfig struct {
	// Backend selects the converter: builtin or pandoc.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Frontmatter prepends YAML front matter built from the document metadata.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// Force converts even when the ledger shows the source is unchanged.
	Force bool `json:"force" yaml:"force"`

	// LedgerPath is the SQLite ledger location. Empty disables the ledger.
	LedgerPath string `json:"ledger" yaml:"ledger"`

	// PandocImage is the container image used by the pandoc backend.
	PandocImage string `json:"pandoc_image" yaml:"pandoc_image"`
}
