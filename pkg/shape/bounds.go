package shape

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// Size returns the extent of the box on each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Box) union(o Box) Box {
	return Box{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Bounds returns a conservative bounding box for n. A difference is
// bounded by its base. ok is false for empty solids.
func Bounds(n *Node) (b Box, ok bool) {
	if n.IsEmpty() {
		return Box{}, false
	}
	switch d := n.data.(type) {
	case CuboidData:
		if d.Center {
			h := Vec3{d.Size.X / 2, d.Size.Y / 2, d.Size.Z / 2}
			return Box{Min: Vec3{-h.X, -h.Y, -h.Z}, Max: h}, true
		}
		return Box{Max: d.Size}, true
	case CylinderData:
		lo, hi := 0.0, d.Height
		if d.Center {
			lo, hi = -d.Height/2, d.Height/2
		}
		return Box{
			Min: Vec3{-d.Radius, -d.Radius, lo},
			Max: Vec3{d.Radius, d.Radius, hi},
		}, true
	case RotateData:
		cb, ok := Bounds(n.children[0])
		if !ok {
			return Box{}, false
		}
		corners := [4]Vec3{
			{cb.Min.X, cb.Min.Y, 0},
			{cb.Max.X, cb.Min.Y, 0},
			{cb.Min.X, cb.Max.Y, 0},
			{cb.Max.X, cb.Max.Y, 0},
		}
		first := corners[0].RotateZ(d.Angle)
		out := Box{Min: first, Max: first}
		for _, c := range corners[1:] {
			r := c.RotateZ(d.Angle)
			out = out.union(Box{Min: r, Max: r})
		}
		out.Min.Z, out.Max.Z = cb.Min.Z, cb.Max.Z
		return out, true
	case TranslateData:
		cb, ok := Bounds(n.children[0])
		if !ok {
			return Box{}, false
		}
		return Box{Min: cb.Min.Add(d.Offset), Max: cb.Max.Add(d.Offset)}, true
	case UnionData:
		var out Box
		found := false
		for _, c := range n.children {
			cb, ok := Bounds(c)
			if !ok {
				continue
			}
			if !found {
				out, found = cb, true
				continue
			}
			out = out.union(cb)
		}
		return out, found
	case DifferenceData:
		return Bounds(n.children[0])
	default:
		return Box{}, false
	}
}
