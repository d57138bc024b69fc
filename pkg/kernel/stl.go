package kernel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteSTL writes m as binary STL. The 80-byte header carries the part
// name. Facet normals come from the first vertex normal of each
// triangle, or from the winding when the mesh has none.
func WriteSTL(w io.Writer, m *Mesh) error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("stl: index count %d is not a multiple of 3", len(m.Indices))
	}
	nv := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= nv {
			return fmt.Errorf("stl: index %d out of range for %d vertices", idx, nv)
		}
	}

	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "woodpot "+m.PartName)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("stl: %w", err)
	}

	var facet [12]float32
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		n := facetNormal(m, i0, i1, i2)
		copy(facet[0:3], n[:])
		copy(facet[3:6], m.Vertices[i0*3:i0*3+3])
		copy(facet[6:9], m.Vertices[i1*3:i1*3+3])
		copy(facet[9:12], m.Vertices[i2*3:i2*3+3])
		if err := binary.Write(bw, binary.LittleEndian, facet); err != nil {
			return fmt.Errorf("stl: %w", err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("stl: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	return nil
}

func facetNormal(m *Mesh, i0, i1, i2 uint32) [3]float32 {
	if len(m.Normals) == len(m.Vertices) {
		return [3]float32{m.Normals[i0*3], m.Normals[i0*3+1], m.Normals[i0*3+2]}
	}
	v := func(i uint32) [3]float64 {
		return [3]float64{float64(m.Vertices[i*3]), float64(m.Vertices[i*3+1]), float64(m.Vertices[i*3+2])}
	}
	a, b, c := v(i0), v(i1), v(i2)
	e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
