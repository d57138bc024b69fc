// Package scad renders shape trees as OpenSCAD source.
package scad

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/woodpot/pkg/shape"
)

// DefaultSegments is the circle resolution written as $fn.
const DefaultSegments = 120

// Options controls rendering.
type Options struct {
	Segments int    // $fn; DefaultSegments when zero
	Comment  string // optional header line
}

// Render writes n as a complete OpenSCAD program.
func Render(w io.Writer, n *shape.Node, opts Options) error {
	if n == nil {
		return fmt.Errorf("scad: nil shape")
	}
	if opts.Segments == 0 {
		opts.Segments = DefaultSegments
	}
	if opts.Segments < 3 {
		return fmt.Errorf("scad: segments %d: must be at least 3", opts.Segments)
	}

	r := &renderer{w: bufio.NewWriter(w)}
	if opts.Comment != "" {
		for _, line := range strings.Split(opts.Comment, "\n") {
			r.printf("// %s\n", line)
		}
	}
	r.printf("$fn = %d;\n\n", opts.Segments)
	r.node(n, 0)
	if r.err != nil {
		return fmt.Errorf("scad: %w", r.err)
	}
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("scad: %w", err)
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(n *shape.Node, opts Options) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, n, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type renderer struct {
	w   *bufio.Writer
	err error
}

func (r *renderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) node(n *shape.Node, depth int) {
	ind := strings.Repeat("  ", depth)
	switch d := n.Data().(type) {
	case shape.CuboidData:
		r.printf("%scube([%s, %s, %s], center = %t);\n", ind, num(d.Size.X), num(d.Size.Y), num(d.Size.Z), d.Center)
	case shape.CylinderData:
		r.printf("%scylinder(r = %s, h = %s, center = %t);\n", ind, num(d.Radius), num(d.Height), d.Center)
	case shape.RotateData:
		r.printf("%srotate(a = %s)\n", ind, num(d.Angle))
		r.children(n, depth)
	case shape.TranslateData:
		r.printf("%stranslate([%s, %s, %s])\n", ind, num(d.Offset.X), num(d.Offset.Y), num(d.Offset.Z))
		r.children(n, depth)
	case shape.UnionData:
		r.printf("%sunion()", ind)
		r.block(n, depth)
	case shape.DifferenceData:
		r.printf("%sdifference()", ind)
		r.block(n, depth)
	default:
		if r.err == nil {
			r.err = fmt.Errorf("unsupported node kind %s", n.Kind())
		}
	}
}

// children renders the single child of a transform one level deeper.
func (r *renderer) children(n *shape.Node, depth int) {
	for _, c := range n.Children() {
		r.node(c, depth+1)
	}
}

func (r *renderer) block(n *shape.Node, depth int) {
	if n.NumChildren() == 0 {
		r.printf(" {}\n")
		return
	}
	r.printf(" {\n")
	r.children(n, depth)
	r.printf("%s}\n", strings.Repeat("  ", depth))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
