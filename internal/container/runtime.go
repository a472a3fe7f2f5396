// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a docker or podman engine and runs one-shot,
// network-isolated containers that read stdin and write stdout. The pandoc
// backend uses it.
package container

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runtime runs filter containers on a detected engine.
type Runtime interface {
	// Name is the engine binary, "docker" or "podman".
	Name() string

	// Available reports whether the engine is on PATH and its daemon or
	// service answers.
	Available() bool

	// ImageExists returns nil when image is present locally.
	ImageExists(image string) error

	// Run starts image with args, feeding stdin and collecting stdout. The
	// container has no network. Its stderr is folded into the error.
	Run(image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// engine describes one supported container CLI.
type engine struct {
	bin        string
	imageCheck []string
}

// engines is in detection order.
var engines = []engine{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

type runtime struct {
	engine
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string(nil), r.imageCheck...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

// runArgs builds the engine command line for a filter container.
func runArgs(image string, args []string) []string {
	full := []string{"run", "--rm", "-i", "--network", "none", image}
	return append(full, args...)
}

func (r *runtime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	err := r.exec.RunPiped(r.bin, runArgs(image, args), stdin, stdout, &stderr)
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("running %s in %s: %w: %s", image, r.bin, err, msg)
	}
	return fmt.Errorf("running %s in %s: %w", image, r.bin, err)
}

// DetectRuntime returns the first working engine, preferring docker.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(osExecutor{})
}

func detectRuntime(exec executor) (Runtime, error) {
	tried := make([]string, 0, len(engines))
	for _, e := range engines {
		rt := &runtime{engine: e, exec: exec}
		if rt.Available() {
			return rt, nil
		}
		tried = append(tried, e.bin)
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(tried, ", "))
}
