package kernel

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, -2, 3, -4, 5, 0, 2, 2, 2}}
	min, max, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false for non-empty mesh")
	}
	if min != [3]float32{-4, -2, 0} {
		t.Errorf("min = %v, want [-4 -2 0]", min)
	}
	if max != [3]float32{2, 5, 3} {
		t.Errorf("max = %v, want [2 5 3]", max)
	}
	if _, _, ok := (&Mesh{}).Bounds(); ok {
		t.Error("Bounds() ok = true for empty mesh")
	}
}

// --- STL output ---

func triangleMesh() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
		PartName: "floor",
	}
}

func TestWriteSTL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, triangleMesh()); err != nil {
		t.Fatalf("WriteSTL() error = %v", err)
	}
	b := buf.Bytes()
	if len(b) != 80+4+50 {
		t.Fatalf("len = %d, want %d", len(b), 80+4+50)
	}
	if !bytes.HasPrefix(b, []byte("woodpot floor")) {
		t.Errorf("header = %q", b[:16])
	}
	if n := binary.LittleEndian.Uint32(b[80:84]); n != 1 {
		t.Errorf("triangle count = %d, want 1", n)
	}
	// normal computed from winding: +Z
	nz := math.Float32frombits(binary.LittleEndian.Uint32(b[84+8 : 84+12]))
	if nz != 1 {
		t.Errorf("normal z = %v, want 1", nz)
	}
	// second vertex x
	vx := math.Float32frombits(binary.LittleEndian.Uint32(b[84+24 : 84+28]))
	if vx != 1 {
		t.Errorf("vertex 1 x = %v, want 1", vx)
	}
}

func TestWriteSTLUsesMeshNormals(t *testing.T) {
	m := triangleMesh()
	m.Normals = []float32{0, 0, -1, 0, 0, -1, 0, 0, -1}
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL() error = %v", err)
	}
	nz := math.Float32frombits(binary.LittleEndian.Uint32(buf.Bytes()[84+8 : 84+12]))
	if nz != -1 {
		t.Errorf("normal z = %v, want -1", nz)
	}
}

func TestWriteSTLRejectsBadIndices(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
	}{
		{"partial triangle", []uint32{0, 1}},
		{"out of range", []uint32{0, 1, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangleMesh()
			m.Indices = tt.indices
			if err := WriteSTL(&bytes.Buffer{}, m); err == nil {
				t.Error("WriteSTL() error = nil, want error")
			}
		})
	}
}

func TestWriteSTLEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, &Mesh{}); err != nil {
		t.Fatalf("WriteSTL() error = %v", err)
	}
	if buf.Len() != 84 {
		t.Errorf("len = %d, want 84", buf.Len())
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. Transforms and booleans return their first operand.
type stubKernel struct{}

func (k *stubKernel) Name() string { return "stub" }

func (k *stubKernel) Cuboid(x, y, z float64, center bool) Solid {
	if center {
		return &stubSolid{
			minBB: [3]float64{-x / 2, -y / 2, -z / 2},
			maxBB: [3]float64{x / 2, y / 2, z / 2},
		}
	}
	return &stubSolid{maxBB: [3]float64{x, y, z}}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int, center bool) Solid {
	lo, hi := 0.0, height
	if center {
		lo, hi = -height/2, height/2
	}
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, lo},
		maxBB: [3]float64{radius, radius, hi},
	}
}

func (k *stubKernel) Union(a, _ Solid) Solid      { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelCuboidBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	min, max := k.Cuboid(10, 20, 30, false).BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Cuboid min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Cuboid max = %v, want [10 20 30]", max)
	}
	min, _ = k.Cuboid(10, 20, 30, true).BoundingBox()
	if min != [3]float64{-5, -10, -15} {
		t.Errorf("centered Cuboid min = %v, want [-5 -10 -15]", min)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	m, err := k.ToMesh(k.Cuboid(1, 1, 1, true))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
