// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/texmark/pkg/types"
)

func TestFormatHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	recs := []types.ConversionRecord{
		{
			ID:           2,
			SourcePath:   "/docs/paper.tex",
			SourceSHA256: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
			Backend:      types.BackendBuiltin,
			Status:       types.ConversionFailed,
			Error:        `line 3: malformed \section directive: "\\section{Intro"`,
			ConvertedAt:  at,
		},
		{
			ID:           1,
			SourcePath:   "/docs/paper.tex",
			SourceSHA256: "abc",
			Backend:      types.BackendPandoc,
			Status:       types.ConversionDone,
			Warnings:     []string{"line 9: unterminated itemize block discarded"},
			ConvertedAt:  at,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, recs, false))
	out := buf.String()
	assert.Contains(t, out, "2026-03-01 09:30:00")
	assert.Contains(t, out, "ba7816bf8f01 ")
	assert.Contains(t, out, "malformed")
	assert.Contains(t, out, "(1 warning(s))")
	assert.Contains(t, out, "2 conversions")
}

func TestFormatHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, nil, false))
	assert.Equal(t, "No conversions recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, true))
	assert.JSONEq(t, "[]", buf.String())
}

func TestFormatHistoryJSON(t *testing.T) {
	recs := []types.ConversionRecord{{ID: 1, SourcePath: "a.tex", Status: types.ConversionDone}}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, recs, true))

	var got []types.ConversionRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a.tex", got[0].SourcePath)
	assert.Equal(t, types.ConversionDone, got[0].Status)
}

func TestNewConverter(t *testing.T) {
	conv, err := newConverter(types.ConvertConfig{Backend: types.BackendBuiltin})
	require.NoError(t, err)
	assert.NotNil(t, conv)

	_, err = newConverter(types.ConvertConfig{Backend: "latexml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}
