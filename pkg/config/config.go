// Package config loads pot design files.
//
// A design file lists named pots and the export settings used by the
// woodpot command:
//
//	export:
//	  out_dir: out
//	  stl: true
//	designs:
//	  - name: HexPot
//	    radius: 60
//	  - name: TallHexPot
//	    base: HexPot
//	    height: 60
//
// Fields left out of a design take the value of its base, or of
// pot.DefaultConfig when there is none.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/chazu/woodpot/pkg/pot"
	"github.com/chazu/woodpot/pkg/scad"
	"gopkg.in/yaml.v3"
)

// Kernel names accepted in ExportSettings.Kernel.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// File is the root of a design file.
type File struct {
	Export  ExportSettings `yaml:"export"`
	Designs []Design       `yaml:"designs"`
}

// ExportSettings controls where and how pieces are written.
type ExportSettings struct {
	// OutDir is the output root (default "out").
	OutDir string `yaml:"out_dir"`

	// STL also meshes every piece when true (default false).
	STL *bool `yaml:"stl"`

	// Kernel is the meshing backend, "sdfx" or "manifold" (default "sdfx").
	Kernel string `yaml:"kernel"`

	// Workers bounds concurrent piece exports (default GOMAXPROCS).
	Workers int `yaml:"workers"`

	// Segments is the SCAD $fn value (default 120).
	Segments int `yaml:"segments"`

	// MeshCells is the sdfx marching cubes resolution (default 200).
	MeshCells int `yaml:"mesh_cells"`
}

// WantSTL handles the nil-pointer case for the default (false).
func (e ExportSettings) WantSTL() bool {
	return e.STL != nil && *e.STL
}

// Design is one named pot. Base names an earlier design to inherit from.
type Design struct {
	Name        string `yaml:"name"`
	Base        string `yaml:"base,omitempty"`
	PotSettings `yaml:",inline"`
}

// PotSettings mirrors pot.Config with optional fields.
type PotSettings struct {
	Sides         *int     `yaml:"sides,omitempty"`
	Height        *float64 `yaml:"height,omitempty"`
	Radius        *float64 `yaml:"radius,omitempty"`
	Layers        *int     `yaml:"layers,omitempty"`
	WallThickness *float64 `yaml:"wall_thickness,omitempty"`
	RoundEdges    *bool    `yaml:"round_edges,omitempty"`
	LeveledTop    *bool    `yaml:"leveled_top,omitempty"`
	Overlap       *float64 `yaml:"overlap,omitempty"`
}

// Apply returns c with every set field overridden.
func (s PotSettings) Apply(c pot.Config) pot.Config {
	if s.Sides != nil {
		c.Sides = *s.Sides
	}
	if s.Height != nil {
		c.Height = *s.Height
	}
	if s.Radius != nil {
		c.Radius = *s.Radius
	}
	if s.Layers != nil {
		c.Layers = *s.Layers
	}
	if s.WallThickness != nil {
		c.WallThickness = *s.WallThickness
	}
	if s.RoundEdges != nil {
		c.RoundEdges = *s.RoundEdges
	}
	if s.LeveledTop != nil {
		c.LeveledTop = *s.LeveledTop
	}
	if s.Overlap != nil {
		c.Overlap = *s.Overlap
	}
	return c
}

// Load reads and validates the design file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a design file from r, fills in defaults and validates it.
// Unknown keys are rejected. An empty document is a valid file with no
// designs.
func Parse(r io.Reader) (*File, error) {
	var cfg File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults sets default values for zero-valued fields.
func (f *File) applyDefaults() {
	if f.Export.OutDir == "" {
		f.Export.OutDir = "out"
	}
	if f.Export.Kernel == "" {
		f.Export.Kernel = KernelSdfx
	}
	if f.Export.Workers == 0 {
		f.Export.Workers = runtime.GOMAXPROCS(0)
	}
	if f.Export.Segments == 0 {
		f.Export.Segments = scad.DefaultSegments
	}
}

// Validate checks export settings and design names and resolves every
// design, reporting all problems at once.
func (f *File) Validate() error {
	var errs []error
	switch f.Export.Kernel {
	case KernelSdfx, KernelManifold:
	default:
		errs = append(errs, fmt.Errorf("export.kernel %q: must be %q or %q", f.Export.Kernel, KernelSdfx, KernelManifold))
	}
	if f.Export.Workers < 0 {
		errs = append(errs, fmt.Errorf("export.workers %d: must not be negative", f.Export.Workers))
	}
	if f.Export.Segments < 3 {
		errs = append(errs, fmt.Errorf("export.segments %d: must be at least 3", f.Export.Segments))
	}
	if f.Export.MeshCells < 0 {
		errs = append(errs, fmt.Errorf("export.mesh_cells %d: must not be negative", f.Export.MeshCells))
	}
	if _, err := f.Resolve(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve returns the designs as pot designs, in file order, with bases
// applied and every config validated.
func (f *File) Resolve() ([]pot.Design, error) {
	out := make([]pot.Design, 0, len(f.Designs))
	index := make(map[string]int, len(f.Designs))
	var errs []error
	for i, d := range f.Designs {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("designs[%d]: name is required", i))
			continue
		}
		if _, dup := index[d.Name]; dup {
			errs = append(errs, fmt.Errorf("design %q: defined more than once", d.Name))
			continue
		}
		base := pot.DefaultConfig()
		if d.Base != "" {
			j, ok := index[d.Base]
			if !ok {
				errs = append(errs, fmt.Errorf("design %q: base %q must name an earlier design", d.Name, d.Base))
				continue
			}
			base = out[j].Config
		}
		cfg := d.Apply(base)
		if err := cfg.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("design %q: %w", d.Name, err))
			continue
		}
		index[d.Name] = len(out)
		out = append(out, pot.Design{Name: d.Name, Config: cfg})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Lookup returns the resolved design called name.
func (f *File) Lookup(name string) (pot.Design, error) {
	designs, err := f.Resolve()
	if err != nil {
		return pot.Design{}, err
	}
	for _, d := range designs {
		if d.Name == name {
			return d, nil
		}
	}
	return pot.Design{}, fmt.Errorf("config: no design named %q", name)
}
