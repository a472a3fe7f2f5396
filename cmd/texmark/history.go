// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texmark/internal/convert"
	"github.com/pdiddy/texmark/internal/ledger"
	"github.com/pdiddy/texmark/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [source]",
	Short: "Show recorded conversions",
	Long: `History lists conversions recorded in the ledger, newest first. Pass a
source file to see only its conversions.

Use --json for machine-readable output or --export to dump the matching
records as a YAML document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("status", "", "filter by status: converted or failed")
	historyCmd.Flags().Int("limit", 20, "maximum number of records (0 for all)")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Bool("export", false, "write matching records as YAML")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("convert.ledger")
	if path == "" {
		return fmt.Errorf("no ledger configured: set --ledger or convert.ledger")
	}

	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	export, _ := cmd.Flags().GetBool("export")

	opts := ledger.ListOptions{
		Status: types.ConversionStatus(status),
		Limit:  limit,
	}
	if len(args) == 1 {
		opts.Source = convert.LedgerKey(args[0])
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if export {
		return store.ExportYAML(cmd.Context(), os.Stdout, opts)
	}

	recs, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatHistory(os.Stdout, recs, jsonOutput)
}

func formatHistory(w io.Writer, recs []types.ConversionRecord, jsonOutput bool) error {
	if jsonOutput {
		if recs == nil {
			recs = []types.ConversionRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-9s  %-8s  %-12s  %s\n",
		"ID", "Converted", "Status", "Backend", "Digest", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range recs {
		digest := r.SourceSHA256
		if len(digest) > 12 {
			digest = digest[:12]
		}
		detail := r.SourcePath
		if r.Error != "" {
			detail += " (" + r.Error + ")"
		} else if n := len(r.Warnings); n > 0 {
			detail += fmt.Sprintf(" (%d warning(s))", n)
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-9s  %-8s  %-12s  %s\n",
			r.ID, r.ConvertedAt.UTC().Format("2006-01-02 15:04:05"), r.Status, r.Backend, digest, detail)
	}

	fmt.Fprintf(w, "\n%d conversions\n", len(recs))
	return nil
}
