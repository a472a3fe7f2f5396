// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texmark/internal/container"
	"github.com/pdiddy/texmark/internal/convert"
	"github.com/pdiddy/texmark/internal/ledger"
	"github.com/pdiddy/texmark/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert LaTeX files to Markdown",
	Long: `Convert translates LaTeX files into Markdown written next to each input
with a .md extension. Use --dir to convert every .tex file in a directory.

Each conversion is recorded in the ledger. A file whose bytes have not
changed since its last successful conversion is skipped unless --force is
given. Unterminated math or list blocks are dropped with a warning; a
malformed \section, \subsection or \subsubsection fails the file.

Backends: builtin (default) or pandoc, which runs the pandoc container
image through docker or podman.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (single input only)")
	convertCmd.Flags().String("dir", "", "convert every .tex file in this directory")
	convertCmd.Flags().Bool("stdout", false, "print Markdown to stdout instead of writing files")
	convertCmd.Flags().Bool("force", false, "convert even if the source is unchanged")
	convertCmd.Flags().Bool("frontmatter", false, "prepend YAML front matter with title, author and date")
	convertCmd.Flags().String("backend", string(types.BackendBuiltin), "conversion backend: builtin or pandoc")
	convertCmd.Flags().String("pandoc-image", convert.DefaultPandocImage, "container image for the pandoc backend")

	_ = viper.BindPFlag("convert.force", convertCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("convert.frontmatter", convertCmd.Flags().Lookup("frontmatter"))
	_ = viper.BindPFlag("convert.backend", convertCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("convert.pandoc_image", convertCmd.Flags().Lookup("pandoc-image"))

	rootCmd.AddCommand(convertCmd)
}

// convertConfig resolves convert settings from flags, environment and the
// config file.
func convertConfig() types.ConvertConfig {
	return types.ConvertConfig{
		Backend:     types.ConversionBackend(viper.GetString("convert.backend")),
		Frontmatter: viper.GetBool("convert.frontmatter"),
		Force:       viper.GetBool("convert.force"),
		LedgerPath:  viper.GetString("convert.ledger"),
		PandocImage: viper.GetString("convert.pandoc_image"),
	}
}

func newConverter(cfg types.ConvertConfig) (convert.Converter, error) {
	if !cfg.Backend.Valid() {
		return nil, fmt.Errorf("unsupported backend %q: use builtin or pandoc", cfg.Backend)
	}
	if cfg.Backend == types.BackendBuiltin {
		return convert.Builtin{}, nil
	}
	rt, err := container.DetectRuntime()
	if err != nil {
		return nil, err
	}
	return convert.NewPandoc(rt, cfg.PandocImage)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig()
	output, _ := cmd.Flags().GetString("output")
	dir, _ := cmd.Flags().GetString("dir")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	sources := append([]string(nil), args...)
	if dir != "" {
		found, err := convert.CollectSources(dir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintf(os.Stderr, "warning: no .tex files in %s\n", dir)
		}
		sources = append(sources, found...)
	}
	if len(sources) == 0 {
		return fmt.Errorf("provide one or more .tex files or --dir")
	}
	if output != "" && len(sources) != 1 {
		return fmt.Errorf("--output requires exactly one input, got %d", len(sources))
	}

	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}

	if toStdout {
		return printMarkdown(conv, sources, cfg.Frontmatter)
	}

	opts := convert.Options{
		Output:      output,
		Force:       cfg.Force,
		Frontmatter: cfg.Frontmatter,
		Backend:     cfg.Backend,
	}
	if cfg.LedgerPath != "" {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Ledger = store
	}

	ctx := cmd.Context()
	if len(sources) == 1 {
		src := sources[0]
		switch convert.ConvertFile(ctx, conv, src, opts, os.Stdout) {
		case types.ConversionFailed:
			return fmt.Errorf("conversion of %s failed", src)
		case types.ConversionDone:
			out := output
			if out == "" {
				out, _ = convert.OutputPath(src)
			}
			fmt.Printf("Conversion complete. Output written to %s\n", out)
		}
		return nil
	}

	result := convert.ConvertBatch(ctx, conv, sources, opts, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// printMarkdown writes each source's Markdown to stdout and its warnings to
// stderr. Nothing is written to disk or recorded in the ledger.
func printMarkdown(conv convert.Converter, sources []string, frontmatter bool) error {
	for i, src := range sources {
		out, err := convert.Render(conv, src, frontmatter, time.Now().UTC())
		if err != nil {
			return err
		}
		for _, msg := range out.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", src, msg)
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(out.Markdown)
	}
	return nil
}
