// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec answers commands from a set of working command lines and records
// what was run.
type fakeExec struct {
	onPath map[string]bool
	ok     map[string]bool
	piped  func(stdin io.Reader, stdout, stderr io.Writer) error

	silent  []string
	gotBin  string
	gotArgs []string
}

func (f *fakeExec) LookPath(file string) (string, error) {
	if f.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExec) RunSilent(name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	f.silent = append(f.silent, line)
	if f.ok[line] {
		return nil
	}
	return errors.New("exit status 1")
}

func (f *fakeExec) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f.gotBin, f.gotArgs = name, args
	if f.piped == nil {
		return nil
	}
	return f.piped(stdin, stdout, stderr)
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name   string
		onPath map[string]bool
		ok     map[string]bool
		want   string
	}{
		{name: "docker", onPath: set("docker"), ok: set("docker info"), want: "docker"},
		{name: "podman only", onPath: set("podman"), ok: set("podman info"), want: "podman"},
		{name: "docker daemon down", onPath: set("docker", "podman"), ok: set("podman info"), want: "podman"},
		{name: "docker preferred", onPath: set("docker", "podman"), ok: set("docker info", "podman info"), want: "docker"},
		{name: "none", onPath: set(), ok: set()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&fakeExec{onPath: tt.onPath, ok: tt.ok})
			if tt.want == "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "tried docker, podman")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.Name())
		})
	}
}

func TestImageExistsUsesEngineCheck(t *testing.T) {
	const image = "pandoc/core:3.5"
	for _, e := range engines {
		t.Run(e.bin, func(t *testing.T) {
			check := e.bin + " " + strings.Join(e.imageCheck, " ") + " " + image

			fx := &fakeExec{ok: set(check)}
			rt := &runtime{engine: e, exec: fx}
			require.NoError(t, rt.ImageExists(image))
			assert.Equal(t, []string{check}, fx.silent)

			err := (&runtime{engine: e, exec: &fakeExec{}}).ImageExists(image)
			require.Error(t, err)
			assert.Contains(t, err.Error(), image)
		})
	}
}

func TestRunPipesThroughFilter(t *testing.T) {
	fx := &fakeExec{piped: func(stdin io.Reader, stdout, _ io.Writer) error {
		_, err := io.Copy(stdout, stdin)
		return err
	}}
	rt := &runtime{engine: engines[1], exec: fx}

	var out bytes.Buffer
	pandoc := []string{"--from", "latex", "--to", "gfm", "--wrap", "none"}
	require.NoError(t, rt.Run("pandoc/core:latest", pandoc, strings.NewReader(`\section{Intro}`), &out))

	assert.Equal(t, `\section{Intro}`, out.String())
	assert.Equal(t, "podman", fx.gotBin)
	assert.Equal(t, []string{
		"run", "--rm", "-i", "--network", "none", "pandoc/core:latest",
		"--from", "latex", "--to", "gfm", "--wrap", "none",
	}, fx.gotArgs)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   []string
	}{
		{name: "bare exit", want: []string{"running pandoc/core:latest in docker", "exit status 64"}},
		{name: "stderr folded in", stderr: "Unknown reader: latexx\n", want: []string{"exit status 64: Unknown reader: latexx"}},
		{name: "blank stderr ignored", stderr: "  \n", want: []string{"in docker: exit status 64"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := &fakeExec{piped: func(_ io.Reader, _, stderr io.Writer) error {
				_, _ = io.WriteString(stderr, tt.stderr)
				return errors.New("exit status 64")
			}}
			rt := &runtime{engine: engines[0], exec: fx}

			err := rt.Run("pandoc/core:latest", nil, strings.NewReader(""), io.Discard)
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
			if tt.stderr == "  \n" {
				assert.True(t, strings.HasSuffix(err.Error(), "exit status 64"))
			}
		})
	}
}
