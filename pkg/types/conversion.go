// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for texmark: conversion
// status, ledger records, and resolved configuration.
package types

import "time"

// ConversionStatus indicates the outcome of converting one source file.
type ConversionStatus string

const (
	ConversionDone      ConversionStatus = "converted"
	ConversionUnchanged ConversionStatus = "unchanged"
	ConversionFailed    ConversionStatus = "failed"
)

// ConversionRecord is one ledger entry: a single attempt to convert a source
// file, successful or not.
type ConversionRecord struct {
	// ID is the ledger row ID; zero until recorded.
	ID int64 `json:"id" yaml:"id"`

	// SourcePath is the cleaned path of the LaTeX input.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// SourceSHA256 is the hex digest of the raw input bytes.
	SourceSHA256 string `json:"source_sha256" yaml:"source_sha256"`

	// OutputPath is where the Markdown was written. Empty on failure.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Backend names the converter that ran (e.g. "builtin", "pandoc").
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Warnings holds non-fatal diagnostics such as unterminated blocks.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error is the failure message when Status is ConversionFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
