package shape

// Kind enumerates the node variants of a shape tree.
type Kind int

const (
	KindCuboid     Kind = iota // rectangular solid
	KindCylinder               // solid cylinder along Z
	KindRotate                 // rotation about the vertical axis
	KindTranslate              // rigid translation
	KindUnion                  // boolean union of any number of children
	KindDifference             // first child minus second child
)

func (k Kind) String() string {
	switch k {
	case KindCuboid:
		return "cuboid"
	case KindCylinder:
		return "cylinder"
	case KindRotate:
		return "rotate"
	case KindTranslate:
		return "translate"
	case KindUnion:
		return "union"
	case KindDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether nodes of this kind are leaves.
func (k Kind) IsPrimitive() bool {
	return k == KindCuboid || k == KindCylinder
}

// Data is the kind-specific payload of a node.
type Data interface {
	shapeData() // marker method restricting implementations to this package
}

// CuboidData describes a box. When Center is false the box spans
// [0, Size] on every axis, otherwise [-Size/2, Size/2].
type CuboidData struct {
	Size   Vec3
	Center bool
}

func (CuboidData) shapeData() {}

// CylinderData describes a cylinder whose axis is Z. When Center is false
// the cylinder spans z in [0, Height], otherwise [-Height/2, Height/2].
type CylinderData struct {
	Radius float64
	Height float64
	Center bool
}

func (CylinderData) shapeData() {}

// RotateData rotates its child about the vertical axis.
type RotateData struct {
	Angle float64 // degrees
}

func (RotateData) shapeData() {}

// TranslateData moves its child.
type TranslateData struct {
	Offset Vec3
}

func (TranslateData) shapeData() {}

// UnionData marks a union node.
type UnionData struct{}

func (UnionData) shapeData() {}

// DifferenceData marks a difference node.
type DifferenceData struct{}

func (DifferenceData) shapeData() {}

// Node is one vertex of an immutable shape tree.
type Node struct {
	kind     Kind
	data     Data
	children []*Node
}

// Cuboid returns a box of the given dimensions.
func Cuboid(x, y, z float64, center bool) *Node {
	return &Node{kind: KindCuboid, data: CuboidData{Size: Vec3{x, y, z}, Center: center}}
}

// Cylinder returns a cylinder of radius r and height h along Z.
func Cylinder(r, h float64, center bool) *Node {
	return &Node{kind: KindCylinder, data: CylinderData{Radius: r, Height: h, Center: center}}
}

// Rotate rotates n by angle degrees about the vertical axis.
func Rotate(angle float64, n *Node) *Node {
	return &Node{kind: KindRotate, data: RotateData{Angle: angle}, children: []*Node{n}}
}

// Translate moves n by (x, y, z).
func Translate(x, y, z float64, n *Node) *Node {
	return &Node{kind: KindTranslate, data: TranslateData{Offset: Vec3{x, y, z}}, children: []*Node{n}}
}

// Union combines nodes. A union without children is the empty solid.
func Union(nodes ...*Node) *Node {
	children := make([]*Node, len(nodes))
	copy(children, nodes)
	return &Node{kind: KindUnion, data: UnionData{}, children: children}
}

// Difference returns a with b removed.
func Difference(a, b *Node) *Node {
	return &Node{kind: KindDifference, data: DifferenceData{}, children: []*Node{a, b}}
}

// Empty returns the empty solid.
func Empty() *Node {
	return Union()
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Data returns the node payload. The concrete type matches Kind.
func (n *Node) Data() Data {
	return n.data
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th child.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// IsEmpty reports whether the node denotes the empty solid by
// construction: a union of empty solids, a difference with an empty base,
// or a transform of an empty solid. Primitives are never empty.
func (n *Node) IsEmpty() bool {
	if n == nil {
		return true
	}
	switch n.kind {
	case KindCuboid, KindCylinder:
		return false
	case KindRotate, KindTranslate:
		return len(n.children) == 0 || n.children[0].IsEmpty()
	case KindUnion:
		for _, c := range n.children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	case KindDifference:
		return len(n.children) == 0 || n.children[0].IsEmpty()
	default:
		return true
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Stats summarises a tree.
type Stats struct {
	Nodes      int
	Primitives int
	Depth      int
}

// Count returns node, primitive and depth totals for n.
func Count(n *Node) Stats {
	var st Stats
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil {
			return
		}
		st.Nodes++
		if n.kind.IsPrimitive() {
			st.Primitives++
		}
		if depth > st.Depth {
			st.Depth = depth
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(n, 1)
	return st
}
