package shape

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// wireNode is the serialised form of a Node. It flattens the per-kind
// payloads into optional fields so that JSON and msgpack share one schema.
type wireNode struct {
	Kind     string      `json:"kind" msgpack:"kind"`
	Size     *Vec3       `json:"size,omitempty" msgpack:"size,omitempty"`
	Radius   float64     `json:"radius,omitempty" msgpack:"radius,omitempty"`
	Height   float64     `json:"height,omitempty" msgpack:"height,omitempty"`
	Center   bool        `json:"center,omitempty" msgpack:"center,omitempty"`
	Angle    float64     `json:"angle,omitempty" msgpack:"angle,omitempty"`
	Offset   *Vec3       `json:"offset,omitempty" msgpack:"offset,omitempty"`
	Children []*wireNode `json:"children,omitempty" msgpack:"children,omitempty"`
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for k := KindCuboid; k <= KindDifference; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("shape: unknown kind %q", s)
}

func toWire(n *Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{Kind: n.kind.String()}
	switch d := n.data.(type) {
	case CuboidData:
		size := d.Size
		w.Size = &size
		w.Center = d.Center
	case CylinderData:
		w.Radius = d.Radius
		w.Height = d.Height
		w.Center = d.Center
	case RotateData:
		w.Angle = d.Angle
	case TranslateData:
		off := d.Offset
		w.Offset = &off
	}
	if len(n.children) > 0 {
		w.Children = make([]*wireNode, len(n.children))
		for i, c := range n.children {
			w.Children[i] = toWire(c)
		}
	}
	return w
}

func fromWire(w *wireNode) (*Node, error) {
	if w == nil {
		return nil, fmt.Errorf("shape: nil node in encoded tree")
	}
	kind, err := ParseKind(w.Kind)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, len(w.Children))
	for i, cw := range w.Children {
		c, err := fromWire(cw)
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", kind, i, err)
		}
		children[i] = c
	}

	arity := func(want int) error {
		if len(children) != want {
			return fmt.Errorf("shape: %s has %d children, want %d", kind, len(children), want)
		}
		return nil
	}

	switch kind {
	case KindCuboid:
		if w.Size == nil {
			return nil, fmt.Errorf("shape: cuboid without size")
		}
		if err := arity(0); err != nil {
			return nil, err
		}
		return Cuboid(w.Size.X, w.Size.Y, w.Size.Z, w.Center), nil
	case KindCylinder:
		if err := arity(0); err != nil {
			return nil, err
		}
		return Cylinder(w.Radius, w.Height, w.Center), nil
	case KindRotate:
		if err := arity(1); err != nil {
			return nil, err
		}
		return Rotate(w.Angle, children[0]), nil
	case KindTranslate:
		if err := arity(1); err != nil {
			return nil, err
		}
		var off Vec3
		if w.Offset != nil {
			off = *w.Offset
		}
		return Translate(off.X, off.Y, off.Z, children[0]), nil
	case KindUnion:
		return Union(children...), nil
	default: // KindDifference
		if err := arity(2); err != nil {
			return nil, err
		}
		return Difference(children[0], children[1]), nil
	}
}

// EncodeMsgpack serialises n to msgpack.
func EncodeMsgpack(n *Node) ([]byte, error) {
	return msgpack.Marshal(toWire(n))
}

// DecodeMsgpack parses a tree produced by EncodeMsgpack.
func DecodeMsgpack(b []byte) (*Node, error) {
	var w wireNode
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("shape: decode msgpack: %w", err)
	}
	return fromWire(&w)
}

// MarshalMsgpack implements msgpack.Marshaler.
func (n *Node) MarshalMsgpack() ([]byte, error) {
	return EncodeMsgpack(n)
}

// UnmarshalMsgpack implements msgpack.Unmarshaler. It is meant for
// decoding into a fresh zero Node only.
func (n *Node) UnmarshalMsgpack(b []byte) error {
	decoded, err := DecodeMsgpack(b)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(n))
}

// UnmarshalJSON implements json.Unmarshaler. It is meant for decoding
// into a fresh zero Node only.
func (n *Node) UnmarshalJSON(b []byte) error {
	var w wireNode
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("shape: decode json: %w", err)
	}
	decoded, err := fromWire(&w)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}
