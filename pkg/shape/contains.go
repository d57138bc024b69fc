package shape

import "math"

// Contains reports whether point p lies in the solid denoted by n.
// Primitives are closed sets, so a point on a cutter's surface is removed
// by a difference.
func Contains(n *Node, p Vec3) bool {
	if n == nil {
		return false
	}
	switch d := n.data.(type) {
	case CuboidData:
		return inCuboid(d, p)
	case CylinderData:
		return inCylinder(d, p)
	case RotateData:
		return len(n.children) == 1 && Contains(n.children[0], p.RotateZ(-d.Angle))
	case TranslateData:
		return len(n.children) == 1 && Contains(n.children[0], p.Sub(d.Offset))
	case UnionData:
		for _, c := range n.children {
			if Contains(c, p) {
				return true
			}
		}
		return false
	case DifferenceData:
		if len(n.children) != 2 {
			return false
		}
		return Contains(n.children[0], p) && !Contains(n.children[1], p)
	default:
		return false
	}
}

func inCuboid(d CuboidData, p Vec3) bool {
	if d.Center {
		return math.Abs(p.X) <= d.Size.X/2 &&
			math.Abs(p.Y) <= d.Size.Y/2 &&
			math.Abs(p.Z) <= d.Size.Z/2
	}
	return p.X >= 0 && p.X <= d.Size.X &&
		p.Y >= 0 && p.Y <= d.Size.Y &&
		p.Z >= 0 && p.Z <= d.Size.Z
}

func inCylinder(d CylinderData, p Vec3) bool {
	if p.X*p.X+p.Y*p.Y > d.Radius*d.Radius {
		return false
	}
	if d.Center {
		return math.Abs(p.Z) <= d.Height/2
	}
	return p.Z >= 0 && p.Z <= d.Height
}
