// Package export writes a pot's pieces to disk as OpenSCAD source and,
// with a kernel, binary STL meshes, plus a YAML manifest of the run.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chazu/woodpot/pkg/kernel"
	"github.com/chazu/woodpot/pkg/pot"
	"github.com/chazu/woodpot/pkg/scad"
	"github.com/chazu/woodpot/pkg/shape"
	"github.com/chazu/woodpot/pkg/tessellate"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file written next to the pieces.
const ManifestName = "manifest.yaml"

// Options controls an export run.
type Options struct {
	OutDir   string        // output root; pieces go to OutDir/<design>
	Segments int           // SCAD $fn; scad.DefaultSegments when zero
	Kernel   kernel.Kernel // also write STL meshes when non-nil
	Workers  int           // concurrent pieces; 1 when non-positive
	Only     []string      // export just these pieces (the design name selects the model)
	Logger   *log.Logger   // log.Default() when nil
}

// PieceResult records what was written for one piece.
type PieceResult struct {
	Name      string `yaml:"name"`
	SCAD      string `yaml:"scad,omitempty"`
	STL       string `yaml:"stl,omitempty"`
	Hash      string `yaml:"hash"`
	Triangles int    `yaml:"triangles,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// Failed reports whether the piece could not be written.
func (r PieceResult) Failed() bool {
	return r.Error != ""
}

// Manifest describes one export run.
type Manifest struct {
	RunID   string        `yaml:"run_id"`
	Design  string        `yaml:"design"`
	Created time.Time     `yaml:"created"`
	Kernel  string        `yaml:"kernel,omitempty"`
	Config  pot.Config    `yaml:"config"`
	Pieces  []PieceResult `yaml:"pieces"`
	Model   *PieceResult  `yaml:"model,omitempty"`
	CutList []pot.Cut     `yaml:"cut_list"`
}

// Failed returns the names of pieces, and the design name for the
// model, that were not written.
func (m *Manifest) Failed() []string {
	var out []string
	for _, r := range m.Pieces {
		if r.Failed() {
			out = append(out, r.Name)
		}
	}
	if m.Model != nil && m.Model.Failed() {
		out = append(out, m.Design)
	}
	return out
}

func (m *Manifest) setPiece(r PieceResult) {
	for i := range m.Pieces {
		if m.Pieces[i].Name == r.Name {
			m.Pieces[i] = r
			return
		}
	}
	m.Pieces = append(m.Pieces, r)
}

// PieceError reports a piece that failed to export.
type PieceError struct {
	Piece string
	Err   error
}

func (e *PieceError) Error() string {
	return fmt.Sprintf("export: piece %s: %v", e.Piece, e.Err)
}

func (e *PieceError) Unwrap() error {
	return e.Err
}

type job struct {
	name  string
	shape *shape.Node
}

// Export writes every piece of p and the assembled model under
// OutDir/name, then the manifest. A failing piece does not stop the
// others; their errors are joined in the returned error and recorded in
// the manifest. Cancelling ctx stops the run without writing a manifest.
func Export(ctx context.Context, p *pot.Pot, name string, opts Options) (*Manifest, error) {
	if name == "" {
		return nil, errors.New("export: design name is required")
	}
	if opts.Segments == 0 {
		opts.Segments = scad.DefaultSegments
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	jobs, err := selectJobs(p, name, opts.Only)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(opts.OutDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	results := make([]PieceResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = writePiece(dir, j, opts)
			if results[i].Failed() {
				logger.Printf("export: %s/%s failed: %s", name, j.name, results[i].Error)
			} else {
				logger.Printf("export: wrote %s/%s", name, j.name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	m := &Manifest{
		RunID:   uuid.New().String(),
		Design:  name,
		Created: time.Now().UTC(),
		Config:  p.Config(),
		CutList: p.CutList(),
	}
	if opts.Kernel != nil {
		m.Kernel = opts.Kernel.Name()
	}
	manifestPath := filepath.Join(dir, ManifestName)
	if len(opts.Only) > 0 {
		// a partial run updates the entries of the previous one
		if prev, err := ReadManifest(manifestPath); err == nil && prev.Config == m.Config {
			m.Pieces = prev.Pieces
			m.Model = prev.Model
		}
	}
	var errs []error
	for i, r := range results {
		if r.Failed() {
			errs = append(errs, &PieceError{Piece: r.Name, Err: errors.New(r.Error)})
		}
		if jobs[i].name == name {
			r := r
			m.Model = &r
			continue
		}
		m.setPiece(r)
	}

	if err := WriteManifest(manifestPath, m); err != nil {
		errs = append(errs, err)
	}
	logger.Printf("export: %s: %d pieces, %d failed, run %s", name, len(results), len(m.Failed()), m.RunID)
	return m, errors.Join(errs...)
}

// selectJobs lists the pieces in construction order followed by the
// model, filtered by only.
func selectJobs(p *pot.Pot, name string, only []string) ([]job, error) {
	all := make([]job, 0, p.Len()+1)
	for _, pc := range p.Pieces() {
		if pc.Name == name {
			return nil, fmt.Errorf("export: design name %q collides with a piece name", name)
		}
		all = append(all, job{name: pc.Name, shape: pc.Shape})
	}
	all = append(all, job{name: name, shape: p.Model()})
	if len(only) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(only))
	for _, n := range only {
		want[n] = true
	}
	var out []job
	for _, j := range all {
		if want[j.name] {
			out = append(out, j)
			delete(want, j.name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("export: unknown pieces %q", missing)
	}
	return out, nil
}

func writePiece(dir string, j job, opts Options) PieceResult {
	r := PieceResult{Name: j.name, Hash: shape.Hash(j.shape).Short()}

	scadPath := filepath.Join(dir, j.name+".scad")
	err := writeFile(scadPath, func(f *os.File) error {
		return scad.Render(f, j.shape, scad.Options{Segments: opts.Segments, Comment: j.name})
	})
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.SCAD = filepath.Base(scadPath)

	if opts.Kernel == nil {
		return r
	}
	mesh, err := tessellate.Piece(j.name, j.shape, opts.Kernel)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	stlPath := filepath.Join(dir, j.name+".stl")
	if err := writeFile(stlPath, func(f *os.File) error { return kernel.WriteSTL(f, mesh) }); err != nil {
		r.Error = err.Error()
		return r
	}
	r.STL = filepath.Base(stlPath)
	r.Triangles = mesh.TriangleCount()
	return r
}

// writeFile writes through a temporary file so a failed piece never
// leaves a truncated output behind.
func writeFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".woodpot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteManifest writes m as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}
	err = writeFile(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("export: manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Export.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("export: manifest %s: %w", path, err)
	}
	return &m, nil
}
