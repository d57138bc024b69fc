package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/woodpot/pkg/config"
	"github.com/chazu/woodpot/pkg/export"
	"github.com/chazu/woodpot/pkg/pot"
)

func quietApp() *App {
	return NewApp(log.New(io.Discard, "", 0))
}

// TestE2EHexpotExample exercises the script path: source → engine →
// designs → pot.
func TestE2EHexpotExample(t *testing.T) {
	app := quietApp()

	source, err := os.ReadFile("../../examples/hexpot.lignin")
	if err != nil {
		t.Fatalf("failed to read hexpot.lignin: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	if len(result.Designs) != 2 {
		t.Fatalf("expected 2 designs, got %d", len(result.Designs))
	}
	tall := result.Designs[1]
	if tall.Name != "TallHexPot" || tall.Config.Layers != 3 || tall.Config.RoundEdges {
		t.Errorf("TallHexPot = %+v", tall)
	}

	for _, d := range result.Designs {
		p, err := app.Build(d)
		if err != nil {
			t.Fatalf("Build(%s): %v", d.Name, err)
		}
		want := 1 + d.Config.Sides*d.Config.Layers
		if p.Len() != want {
			t.Errorf("%s: %d pieces, want %d", d.Name, p.Len(), want)
		}
	}
}

func TestE2EEmptySource(t *testing.T) {
	result := quietApp().Evaluate("")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Designs) != 0 {
		t.Errorf("expected no designs, got %d", len(result.Designs))
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := quietApp().Evaluate("(defpot \"A\"\n  :sides 6")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for unbalanced source")
	}
	if len(result.Designs) != 0 {
		t.Errorf("designs must be empty on error, got %d", len(result.Designs))
	}
}

func TestE2EInvalidConfig(t *testing.T) {
	result := quietApp().Evaluate(`(defpot "Flat" :height 0)`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for zero height")
	}
	if !strings.Contains(result.Errors[0].Message, "height") {
		t.Errorf("error = %q, want mention of height", result.Errors[0].Message)
	}
}

func TestBuildDegenerate(t *testing.T) {
	cfg := pot.DefaultConfig()
	cfg.Radius = 5
	_, err := quietApp().Build(pot.Design{Name: "Tiny", Config: cfg})
	if err == nil {
		t.Fatal("expected a degenerate geometry error")
	}
	if !strings.Contains(err.Error(), "Tiny") {
		t.Errorf("error %q does not name the design", err)
	}
}

func TestE2ERapidEvaluation(t *testing.T) {
	// Sequential on purpose: zygomys keeps global state that is not safe
	// for concurrent sandbox creation.
	app := quietApp()
	sources := []string{
		`(defpot "a" :layers 3)`,
		`(defpot "b" :sides 2)`,
		``,
		`(+ 1 2)`,
		`(defpot "c" :base (default-pot) :sides 8)`,
		`(defpot "d"`,
	}
	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			result := app.Evaluate(source)
			if len(result.Errors) > 0 && len(result.Designs) > 0 {
				t.Errorf("iteration %d: designs returned alongside errors", i)
			}
		}()
	}
}

func TestAppExportSCAD(t *testing.T) {
	dir := t.TempDir()
	settings := config.ExportSettings{OutDir: dir, Workers: 2, Segments: 24}
	d := pot.Design{Name: "HexPot", Config: pot.DefaultConfig()}

	m, err := quietApp().Export(context.Background(), d, settings, false)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(m.Pieces) != 13 {
		t.Errorf("manifest has %d pieces, want 13", len(m.Pieces))
	}
	if m.Kernel != "" {
		t.Errorf("kernel = %q, want none without STL", m.Kernel)
	}
	for _, name := range []string{"floor.scad", "wall(layer_1-side_5).scad", "HexPot.scad", export.ManifestName} {
		if _, err := os.Stat(filepath.Join(dir, "HexPot", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestAppExportRetryNothingFailed(t *testing.T) {
	dir := t.TempDir()
	settings := config.ExportSettings{OutDir: dir, Workers: 1}
	d := pot.Design{Name: "HexPot", Config: pot.DefaultConfig()}
	app := quietApp()

	first, err := app.Export(context.Background(), d, settings, false)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	again, err := app.Export(context.Background(), d, settings, true)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if again.RunID != first.RunID {
		t.Errorf("retry with nothing failed started run %s, want %s", again.RunID, first.RunID)
	}
}

func TestAppExportRetryWithoutManifest(t *testing.T) {
	settings := config.ExportSettings{OutDir: t.TempDir()}
	d := pot.Design{Name: "HexPot", Config: pot.DefaultConfig()}
	if _, err := quietApp().Export(context.Background(), d, settings, true); err == nil {
		t.Fatal("expected an error when there is no previous manifest")
	}
}

func TestNewKernel(t *testing.T) {
	k, err := newKernel(config.ExportSettings{Kernel: config.KernelSdfx, MeshCells: 32})
	if err != nil {
		t.Fatalf("sdfx: %v", err)
	}
	if k.Name() != "sdfx" {
		t.Errorf("Name() = %q, want sdfx", k.Name())
	}
	if _, err := newKernel(config.ExportSettings{Kernel: "cgal"}); err == nil {
		t.Error("expected an error for an unknown kernel")
	}
}

func TestPrintCuts(t *testing.T) {
	p, err := pot.New(pot.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PrintCuts(&buf, "HexPot", p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"HexPot", "floor plank", "8", "192.6", "wall board", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("cut list missing %q:\n%s", want, out)
		}
	}
}
