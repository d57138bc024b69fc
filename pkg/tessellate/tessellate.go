// Package tessellate walks shape trees and produces triangle meshes
// using a geometry kernel. One mesh is produced per pot piece.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/woodpot/pkg/kernel"
	"github.com/chazu/woodpot/pkg/pot"
	"github.com/chazu/woodpot/pkg/shape"
)

// ErrEmpty is returned for a tree that denotes no solid at all.
var ErrEmpty = errors.New("tessellate: empty solid")

// Build converts a shape tree into a kernel solid. Kernel panics are
// returned as errors. The tree is never mutated.
func Build(n *shape.Node, k kernel.Kernel) (s kernel.Solid, err error) {
	if n == nil || n.IsEmpty() {
		return nil, ErrEmpty
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("tessellate: kernel %s: %v", k.Name(), r)
		}
	}()
	s, err = walkNode(k, n, "")
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrEmpty
	}
	return s, nil
}

// Piece builds one piece and meshes it.
func Piece(name string, n *shape.Node, k kernel.Kernel) (*kernel.Mesh, error) {
	solid, err := Build(n, k)
	if err != nil {
		return nil, fmt.Errorf("tessellate: piece %s: %w", name, err)
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for piece %s: %w", name, err)
	}
	mesh.PartName = name
	return mesh, nil
}

// Tessellate produces one mesh per piece, in order. It stops at the first
// failing piece.
func Tessellate(pieces []pot.Piece, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(pieces))
	for _, p := range pieces {
		m, err := Piece(p.Name, p.Shape, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// walkNode returns nil without error for a subtree that is empty by
// construction, so unions and differences can skip it.
func walkNode(k kernel.Kernel, n *shape.Node, path string) (kernel.Solid, error) {
	if n.IsEmpty() {
		return nil, nil
	}
	switch d := n.Data().(type) {
	case shape.CuboidData:
		return k.Cuboid(d.Size.X, d.Size.Y, d.Size.Z, d.Center), nil

	case shape.CylinderData:
		// zero segments lets the kernel pick its own resolution
		return k.Cylinder(d.Height, d.Radius, 0, d.Center), nil

	case shape.RotateData:
		child, err := walkChild(k, n, 0, path)
		if err != nil || child == nil {
			return nil, err
		}
		return k.Rotate(child, 0, 0, d.Angle), nil

	case shape.TranslateData:
		child, err := walkChild(k, n, 0, path)
		if err != nil || child == nil {
			return nil, err
		}
		return k.Translate(child, d.Offset.X, d.Offset.Y, d.Offset.Z), nil

	case shape.UnionData:
		return handleUnion(k, n, path)

	case shape.DifferenceData:
		return handleDifference(k, n, path)

	default:
		return nil, fmt.Errorf("tessellate: node %s at %q has unsupported data type %T", n.Kind(), path, n.Data())
	}
}

func walkChild(k kernel.Kernel, n *shape.Node, i int, path string) (kernel.Solid, error) {
	if i >= n.NumChildren() {
		return nil, fmt.Errorf("tessellate: %s at %q is missing child %d", n.Kind(), path, i)
	}
	return walkNode(k, n.Child(i), childPath(path, i))
}

// handleUnion folds the non-empty children left to right.
func handleUnion(k kernel.Kernel, n *shape.Node, path string) (kernel.Solid, error) {
	var acc kernel.Solid
	for i := 0; i < n.NumChildren(); i++ {
		s, err := walkChild(k, n, i, path)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		if acc == nil {
			acc = s
		} else {
			acc = k.Union(acc, s)
		}
	}
	return acc, nil
}

func handleDifference(k kernel.Kernel, n *shape.Node, path string) (kernel.Solid, error) {
	base, err := walkChild(k, n, 0, path)
	if err != nil || base == nil {
		return nil, err
	}
	cutter, err := walkChild(k, n, 1, path)
	if err != nil {
		return nil, err
	}
	if cutter == nil {
		return base, nil
	}
	return k.Difference(base, cutter), nil
}

func childPath(path string, i int) string {
	if path == "" {
		return fmt.Sprint(i)
	}
	return fmt.Sprintf("%s/%d", path, i)
}
