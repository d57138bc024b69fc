package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRunDefaultPot(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, code := runCLI(t, "-out", dir, "-name", "Hex", "-segments", "16")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Hex: run ")
	assert.Contains(t, stdout, "13 pieces")

	floor, err := os.ReadFile(filepath.Join(dir, "Hex", "floor.scad"))
	require.NoError(t, err)
	assert.Contains(t, string(floor), "$fn = 16;")
	assert.FileExists(t, filepath.Join(dir, "Hex", "Hex.scad"))
	assert.NoFileExists(t, filepath.Join(dir, "Hex", "floor.stl"))
}

func TestRunScriptSelectsDesign(t *testing.T) {
	dir := t.TempDir()
	_, stderr, code := runCLI(t, "-script", "../../examples/hexpot.lignin", "-name", "TallHexPot", "-out", dir)
	require.Equal(t, 0, code, stderr)
	assert.DirExists(t, filepath.Join(dir, "TallHexPot"))
	assert.NoDirExists(t, filepath.Join(dir, "HexPot"))
	assert.FileExists(t, filepath.Join(dir, "TallHexPot", "wall(layer_2-side_5).scad"))
}

func TestRunConfigCuts(t *testing.T) {
	stdout, stderr, code := runCLI(t, "-config", "../../examples/pots.yaml", "-cuts")
	require.Equal(t, 0, code, stderr)
	for _, name := range []string{"HexPot", "OctoPot", "SquarePlanter"} {
		assert.Contains(t, stdout, name)
	}
	assert.Equal(t, 3, strings.Count(stdout, "floor plank"))
}

func TestRunSTL(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing is slow")
	}
	dir := t.TempDir()
	_, stderr, code := runCLI(t, "-out", dir, "-stl", "-mesh-cells", "32", "-workers", "4")
	require.Equal(t, 0, code, stderr)
	info, err := os.Stat(filepath.Join(dir, "pot", "floor.stl"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"config and script", []string{"-config", "a.yaml", "-script", "b.lignin"}, "mutually exclusive"},
		{"missing config", []string{"-config", "does-not-exist.yaml"}, "does-not-exist.yaml"},
		{"unknown design", []string{"-script", "../../examples/hexpot.lignin", "-name", "Nope", "-cuts"}, `no design named "Nope"`},
		{"unknown kernel", []string{"-out", "${TMP}", "-stl", "-kernel", "cgal"}, "unknown kernel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				args[i] = strings.ReplaceAll(a, "${TMP}", dir)
			}
			_, stderr, code := runCLI(t, args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRunBadFlag(t *testing.T) {
	_, stderr, code := runCLI(t, "-bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "bogus")
}
