// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, manifold) turn shape trees into solids and
// triangle meshes, so the pot pipeline never depends on a specific
// solid modeller.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Name identifies the backend in logs and manifests.
	Name() string

	// Primitives. Uncentered solids start at the origin; centered ones
	// are symmetric about it. Cylinders run along Z.
	Cuboid(x, y, z float64, center bool) Solid
	Cylinder(height, radius float64, segments int, center bool) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
