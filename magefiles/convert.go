//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleDir holds the LaTeX documents used for manual checks.
const sampleDir = "testdata"

// Samples converts every document in testdata/ with the built binary.
func Samples() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "convert", "--dir", sampleDir, "--force",
		"--ledger", filepath.Join(sampleDir, ".texmark", "ledger.db"))
}

// History prints the sample ledger.
func History() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "history", "--ledger", filepath.Join(sampleDir, ".texmark", "ledger.db"))
}
