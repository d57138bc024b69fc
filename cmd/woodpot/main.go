// Command woodpot generates the boards of a log-cabin plant pot as
// OpenSCAD sources, optionally meshed to STL.
//
// Designs come from a YAML design file (-config), a pot script (-script)
// or, with neither, a single default pot called -name.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/chazu/woodpot/pkg/config"
	"github.com/chazu/woodpot/pkg/pot"
)

type flags struct {
	configPath string
	scriptPath string
	name       string
	outDir     string
	stl        bool
	kernel     string
	workers    int
	segments   int
	meshCells  int
	cuts       bool
	retry      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var fl flags
	fs := flag.NewFlagSet("woodpot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&fl.configPath, "config", "", "YAML design file")
	fs.StringVar(&fl.scriptPath, "script", "", "pot script (.lignin)")
	fs.StringVar(&fl.name, "name", "", "design to export (default pot name when no file is given)")
	fs.StringVar(&fl.outDir, "out", "", "output directory")
	fs.BoolVar(&fl.stl, "stl", false, "also mesh pieces to STL")
	fs.StringVar(&fl.kernel, "kernel", "", "meshing kernel: sdfx or manifold")
	fs.IntVar(&fl.workers, "workers", 0, "concurrent piece exports")
	fs.IntVar(&fl.segments, "segments", 0, "OpenSCAD $fn")
	fs.IntVar(&fl.meshCells, "mesh-cells", 0, "sdfx marching cubes resolution")
	fs.BoolVar(&fl.cuts, "cuts", false, "print the cut list instead of exporting")
	fs.BoolVar(&fl.retry, "retry", false, "re-export only the pieces that failed last run")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := log.New(stderr, "woodpot: ", log.LstdFlags)
	app := NewApp(logger)

	designs, settings, err := resolve(app, fl)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			settings.OutDir = fl.outDir
		case "stl":
			settings.STL = &fl.stl
		case "kernel":
			settings.Kernel = fl.kernel
		case "workers":
			settings.Workers = fl.workers
		case "segments":
			settings.Segments = fl.segments
		case "mesh-cells":
			settings.MeshCells = fl.meshCells
		}
	})

	status := 0
	for _, d := range designs {
		if fl.cuts {
			p, err := app.Build(d)
			if err != nil {
				logger.Printf("%v", err)
				status = 1
				continue
			}
			if err := PrintCuts(stdout, d.Name, p); err != nil {
				logger.Printf("%v", err)
				return 1
			}
			continue
		}
		m, err := app.Export(ctx, d, settings, fl.retry)
		if err != nil {
			logger.Printf("%s: %v", d.Name, err)
			status = 1
			if ctx.Err() != nil {
				return status
			}
			continue
		}
		fmt.Fprintf(stdout, "%s: run %s, %d pieces\n", d.Name, m.RunID, len(m.Pieces))
	}
	return status
}

// resolve returns the designs selected by fl and the export settings
// that apply to them.
func resolve(app *App, fl flags) ([]pot.Design, config.ExportSettings, error) {
	if fl.configPath != "" && fl.scriptPath != "" {
		return nil, config.ExportSettings{}, errors.New("-config and -script are mutually exclusive")
	}

	var file *config.File
	var err error
	if fl.configPath != "" {
		file, err = config.Load(fl.configPath)
	} else {
		file, err = config.Parse(strings.NewReader(""))
	}
	if err != nil {
		return nil, config.ExportSettings{}, err
	}

	var designs []pot.Design
	switch {
	case fl.configPath != "":
		designs, err = file.Resolve()
	case fl.scriptPath != "":
		designs, err = app.EvaluateFile(fl.scriptPath)
	default:
		name := fl.name
		if name == "" {
			name = "pot"
		}
		return []pot.Design{{Name: name, Config: pot.DefaultConfig()}}, file.Export, nil
	}
	if err != nil {
		return nil, config.ExportSettings{}, err
	}
	if len(designs) == 0 {
		return nil, config.ExportSettings{}, errors.New("no designs defined")
	}
	if fl.name == "" {
		return designs, file.Export, nil
	}
	for _, d := range designs {
		if d.Name == fl.name {
			return []pot.Design{d}, file.Export, nil
		}
	}
	return nil, config.ExportSettings{}, fmt.Errorf("no design named %q", fl.name)
}
