// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReadSource reads a LaTeX file as NFC-normalized UTF-8 text. A UTF-8 byte
// order mark is dropped and BOM-prefixed UTF-16 input is transcoded.
func ReadSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening source %s: %w", path, err)
	}
	defer f.Close()

	text, err := DecodeSource(f)
	if err != nil {
		return "", fmt.Errorf("decoding source %s: %w", path, err)
	}
	return text, nil
}

// DecodeSource decodes r the same way ReadSource decodes a file. Invalid
// UTF-8 sequences become U+FFFD.
func DecodeSource(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", err
	}
	return norm.NFC.String(string(data)), nil
}

// fileDigest returns the hex SHA-256 of the raw file bytes.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
