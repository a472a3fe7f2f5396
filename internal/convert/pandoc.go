// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdiddy/texmark/internal/container"
	"github.com/pdiddy/texmark/internal/latex"
)

// DefaultPandocImage is used when no image is configured.
const DefaultPandocImage = "pandoc/core:latest"

var pandocArgs = []string{"--from", "latex", "--to", "gfm", "--wrap", "none"}

// Pandoc converts LaTeX by piping it through a pandoc container. It depends
// on a container.Runtime (docker or podman) injected at construction time.
type Pandoc struct {
	runtime container.Runtime
	image   string
}

// NewPandoc creates a converter that runs image on rt. It verifies that the
// image exists locally before returning.
func NewPandoc(rt container.Runtime, image string) (*Pandoc, error) {
	if image == "" {
		image = DefaultPandocImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &Pandoc{runtime: rt, image: image}, nil
}

// Convert decodes the source, pipes it through pandoc, and returns the
// resulting Markdown. Metadata is still taken from the LaTeX declarations so
// front matter matches the builtin backend.
func (p *Pandoc) Convert(texPath string) (Output, error) {
	doc, err := ReadSource(texPath)
	if err != nil {
		return Output{}, err
	}

	var out bytes.Buffer
	if err := p.runtime.Run(p.image, pandocArgs, strings.NewReader(doc), &out); err != nil {
		return Output{}, fmt.Errorf("converting %s with pandoc: %w", texPath, err)
	}
	if out.Len() == 0 {
		return Output{}, fmt.Errorf("pandoc produced empty output for %s", texPath)
	}

	return Output{
		Markdown: strings.TrimRight(out.String(), "\n"),
		Metadata: latex.ExtractMetadata(doc),
	}, nil
}
