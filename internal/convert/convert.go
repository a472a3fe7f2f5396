// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns LaTeX source files into sibling Markdown files with
// pluggable backends, records each attempt in a ledger, and reports per-file
// status to an io.Writer.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/texmark/internal/latex"
	"github.com/pdiddy/texmark/pkg/types"
)

const (
	markdownExt = ".md"
	sourceExt   = ".tex"
)

// Output is the Markdown produced for one source file.
type Output struct {
	Markdown string
	Metadata latex.Metadata
	Warnings []string
}

// Converter transforms a LaTeX file into Markdown. Different backends
// (builtin, pandoc) implement this interface.
type Converter interface {
	// Convert reads the LaTeX file at texPath and returns the Markdown.
	Convert(texPath string) (Output, error)
}

// Builtin is the line-mode translator backend.
type Builtin struct{}

// Convert decodes the source and runs latex.Convert over it.
func (Builtin) Convert(texPath string) (Output, error) {
	doc, err := ReadSource(texPath)
	if err != nil {
		return Output{}, err
	}
	res, err := latex.Convert(doc)
	if err != nil {
		return Output{}, fmt.Errorf("translating %s: %w", texPath, err)
	}
	out := Output{Markdown: res.Markdown, Metadata: res.Metadata}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	return out, nil
}

// Ledger records conversion attempts and answers whether a source changed
// since it was last converted. *ledger.Store implements it.
type Ledger interface {
	Latest(ctx context.Context, source string) (*types.ConversionRecord, error)
	Record(ctx context.Context, rec *types.ConversionRecord) error
}

// Options controls a conversion run.
type Options struct {
	// Output overrides the derived output path. Only valid for one source.
	Output string

	// Force converts even when the ledger shows the source unchanged.
	Force bool

	// Frontmatter prepends YAML front matter to the Markdown.
	Frontmatter bool

	// Backend is the name recorded in the ledger.
	Backend types.ConversionBackend

	// Ledger is optional; nil disables skip detection and recording.
	Ledger Ledger
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of sources processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any source failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the sibling Markdown path for src: the extension is
// replaced by .md, or .md is appended when there is none. A Markdown source
// is rejected so it is never overwritten.
func OutputPath(src string) (string, error) {
	ext := filepath.Ext(src)
	if strings.EqualFold(ext, markdownExt) {
		return "", fmt.Errorf("source %s is already Markdown", src)
	}
	return strings.TrimSuffix(src, ext) + markdownExt, nil
}

// Render runs c over src and returns its output without writing anything.
// With frontmatter set, YAML front matter stamped with at is prepended to
// the Markdown.
func Render(c Converter, src string, frontmatter bool, at time.Time) (Output, error) {
	res, err := c.Convert(src)
	if err != nil {
		return Output{}, err
	}
	if frontmatter {
		md, err := addFrontmatter(res.Metadata, src, at, res.Markdown)
		if err != nil {
			return Output{}, err
		}
		res.Markdown = md
	}
	return res, nil
}

// ConvertFile converts a single source file and writes the Markdown next to
// it (or to opts.Output). It returns the status of the conversion. When a
// ledger shows the same source bytes were already converted and the output
// still exists, the conversion is skipped.
func ConvertFile(ctx context.Context, c Converter, src string, opts Options, w io.Writer) types.ConversionStatus {
	out := opts.Output
	if out == "" {
		var err error
		if out, err = OutputPath(src); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", src, err)
			return types.ConversionFailed
		}
	}

	rec := &types.ConversionRecord{
		SourcePath: LedgerKey(src),
		Backend:    opts.Backend,
	}

	digest, err := fileDigest(src)
	if err != nil {
		return fail(ctx, opts.Ledger, rec, src, err, w)
	}
	rec.SourceSHA256 = digest

	if !opts.Force && unchanged(ctx, opts.Ledger, rec.SourcePath, digest, out) {
		fmt.Fprintf(w, "skipped: %s (unchanged)\n", src)
		return types.ConversionUnchanged
	}

	rec.ConvertedAt = time.Now().UTC()
	res, err := Render(c, src, opts.Frontmatter, rec.ConvertedAt)
	if err != nil {
		return fail(ctx, opts.Ledger, rec, src, err, w)
	}

	if err := os.WriteFile(out, []byte(res.Markdown), 0o644); err != nil {
		return fail(ctx, opts.Ledger, rec, src, err, w)
	}

	for _, msg := range res.Warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", src, msg)
	}

	rec.Status = types.ConversionDone
	rec.OutputPath = out
	rec.Warnings = res.Warnings
	record(ctx, opts.Ledger, rec, w)

	fmt.Fprintf(w, "converted: %s -> %s\n", src, out)
	return types.ConversionDone
}

// ConvertBatch processes a list of sources through the converter, printing
// per-file status to w and returning a summary. opts.Output is ignored.
func ConvertBatch(ctx context.Context, c Converter, sources []string, opts Options, w io.Writer) BatchResult {
	opts.Output = ""
	var result BatchResult
	for _, src := range sources {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", src, ctx.Err())
			result.Failed++
			continue
		}
		switch ConvertFile(ctx, c, src, opts, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionUnchanged:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// CollectSources returns the .tex files directly inside dir, sorted.
func CollectSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", dir, err)
	}
	var sources []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), sourceExt) {
			continue
		}
		sources = append(sources, filepath.Join(dir, e.Name()))
	}
	sort.Strings(sources)
	return sources, nil
}

func fail(ctx context.Context, l Ledger, rec *types.ConversionRecord, src string, err error, w io.Writer) types.ConversionStatus {
	fmt.Fprintf(w, "failed:  %s (%v)\n", src, err)
	rec.Status = types.ConversionFailed
	rec.Error = err.Error()
	rec.ConvertedAt = time.Now().UTC()
	record(ctx, l, rec, w)
	return types.ConversionFailed
}

// record writes rec to the ledger. Ledger errors are reported but never
// change the conversion outcome.
func record(ctx context.Context, l Ledger, rec *types.ConversionRecord, w io.Writer) {
	if l == nil {
		return
	}
	if err := l.Record(ctx, rec); err != nil {
		fmt.Fprintf(w, "warning: ledger: %v\n", err)
	}
}

func unchanged(ctx context.Context, l Ledger, key, digest, out string) bool {
	if l == nil {
		return false
	}
	last, err := l.Latest(ctx, key)
	if err != nil {
		return false
	}
	if last.Status != types.ConversionDone || last.SourceSHA256 != digest || last.OutputPath != out {
		return false
	}
	_, err = os.Stat(out)
	return err == nil
}

// LedgerKey is the absolute form of src under which conversions are
// recorded, so the same file is found again from any working directory.
func LedgerKey(src string) string {
	abs, err := filepath.Abs(src)
	if err != nil {
		return filepath.Clean(src)
	}
	return abs
}

type frontmatter struct {
	Title       string `yaml:"title,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Date        string `yaml:"date,omitempty"`
	Source      string `yaml:"source"`
	ConvertedAt string `yaml:"converted_at"`
}

// addFrontmatter prepends YAML front matter to the converted Markdown.
func addFrontmatter(meta latex.Metadata, src string, at time.Time, body string) (string, error) {
	data, err := yaml.Marshal(frontmatter{
		Title:       meta.Title,
		Author:      meta.Author,
		Date:        meta.Date,
		Source:      filepath.Base(src),
		ConvertedAt: at.Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
