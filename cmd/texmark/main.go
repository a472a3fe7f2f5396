// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the texmark CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texmark/internal/convert"
	"github.com/pdiddy/texmark/internal/ledger"
	"github.com/pdiddy/texmark/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the texmark CLI. Given file arguments it
// behaves like "texmark convert".
var rootCmd = &cobra.Command{
	Use:   "texmark [file.tex]",
	Short: "Convert LaTeX documents to Markdown",
	Long: `texmark converts a practical subset of LaTeX into Markdown: section
headings, itemize lists, display math, equation* and align* blocks. Title,
author and date declarations become a header. Presentation-only commands
are dropped and everything else passes through unchanged.

The output is written next to the input with a .md extension. Running
texmark with a file is shorthand for "texmark convert".`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("provide the input file to convert")
		}
		return runConvert(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./texmark.yaml or ~/.config/texmark/texmark.yaml)")
	rootCmd.PersistentFlags().String("ledger", ledger.DefaultPath, "conversion ledger database (empty disables the ledger)")

	viper.SetDefault("convert.backend", string(types.BackendBuiltin))
	viper.SetDefault("convert.pandoc_image", convert.DefaultPandocImage)
	_ = viper.BindPFlag("convert.ledger", rootCmd.PersistentFlags().Lookup("ledger"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texmark")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texmark"))
		}
	}

	viper.SetEnvPrefix("TEXMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
