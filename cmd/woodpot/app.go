package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/chazu/woodpot/pkg/config"
	"github.com/chazu/woodpot/pkg/engine"
	"github.com/chazu/woodpot/pkg/export"
	"github.com/chazu/woodpot/pkg/kernel"
	"github.com/chazu/woodpot/pkg/kernel/manifold"
	"github.com/chazu/woodpot/pkg/kernel/sdfx"
	"github.com/chazu/woodpot/pkg/pot"
	"github.com/chazu/woodpot/pkg/shape"
)

// App ties the script engine, the pot builder and the exporter together.
type App struct {
	engine *engine.Engine
	logger *log.Logger
}

// EvalErrorData is a script error with its location.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalErrorData) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalResult is the outcome of evaluating a pot script.
type EvalResult struct {
	Designs []pot.Design    `json:"designs"`
	Errors  []EvalErrorData `json:"errors"`
}

// NewApp creates a new App. A nil logger means log.Default().
func NewApp(logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		engine: engine.NewEngine(),
		logger: logger,
	}
}

// Evaluate runs a pot script and returns its designs or its errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Designs: []pot.Design{},
		Errors:  []EvalErrorData{},
	}

	designs, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if len(result.Errors) == 0 {
		result.Designs = designs
	}
	return result
}

// EvaluateFile reads and evaluates the script at path.
func (a *App) EvaluateFile(path string) ([]pot.Design, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res := a.Evaluate(string(src))
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", path, res.Errors[0])
	}
	return res.Designs, nil
}

// Build constructs the pot for d and logs its size.
func (a *App) Build(d pot.Design) (*pot.Pot, error) {
	p, err := pot.New(d.Config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	st := shape.Count(p.Model())
	a.logger.Printf("%s: %d pieces, %d nodes, %d primitives, model %s",
		d.Name, p.Len(), st.Nodes, st.Primitives, shape.Hash(p.Model()).Short())
	return p, nil
}

// Export builds d and writes it according to settings. When retry is
// set only the pieces that failed in the previous manifest are written.
func (a *App) Export(ctx context.Context, d pot.Design, settings config.ExportSettings, retry bool) (*export.Manifest, error) {
	p, err := a.Build(d)
	if err != nil {
		return nil, err
	}
	opts := export.Options{
		OutDir:   settings.OutDir,
		Segments: settings.Segments,
		Workers:  settings.Workers,
		Logger:   a.logger,
	}
	if settings.WantSTL() {
		k, err := newKernel(settings)
		if err != nil {
			return nil, err
		}
		opts.Kernel = k
	}
	if retry {
		prev, err := export.ReadManifest(manifestPath(settings, d.Name))
		if err != nil {
			return nil, err
		}
		opts.Only = prev.Failed()
		if len(opts.Only) == 0 {
			a.logger.Printf("%s: nothing to retry", d.Name)
			return prev, nil
		}
	}
	return export.Export(ctx, p, d.Name, opts)
}

func manifestPath(settings config.ExportSettings, name string) string {
	return filepath.Join(settings.OutDir, name, export.ManifestName)
}

// newKernel returns the meshing backend named in settings.
func newKernel(settings config.ExportSettings) (kernel.Kernel, error) {
	switch settings.Kernel {
	case config.KernelSdfx, "":
		return sdfx.New(sdfx.WithMeshCells(settings.MeshCells)), nil
	case config.KernelManifold:
		return manifold.New()
	default:
		return nil, fmt.Errorf("unknown kernel %q", settings.Kernel)
	}
}

// PrintCuts writes the cut list of p as a table.
func PrintCuts(w io.Writer, name string, p *pot.Pot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", name)
	fmt.Fprintf(tw, "piece\tcount\tlength\twidth\tthickness\n")
	for _, c := range p.CutList() {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\n", c.Name, c.Count, c.Length, c.Width, c.Thickness)
	}
	return tw.Flush()
}
