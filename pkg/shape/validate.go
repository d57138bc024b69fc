package shape

import (
	"fmt"
	"strconv"
)

// kindInvalid labels findings that have no node to attach to.
const kindInvalid Kind = -1

// ValidationError describes a malformed node.
type ValidationError struct {
	Path    string // slash-separated child indices from the root, "" for the root
	Kind    Kind
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("shape: root %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("shape: %s at %s: %s", e.Kind, e.Path, e.Message)
}

// Validate checks that n is a well-formed tree: non-nil children, the
// right arity for each kind, finite numbers and positive primitive
// dimensions. An empty slice means the tree can be handed to a backend.
// Validate never mutates the tree.
func Validate(n *Node) []ValidationError {
	if n == nil {
		return []ValidationError{{Kind: kindInvalid, Message: "nil tree"}}
	}
	var errs []ValidationError
	validateNode(n, "", &errs)
	return errs
}

func validateNode(n *Node, path string, errs *[]ValidationError) {
	report := func(format string, args ...interface{}) {
		*errs = append(*errs, ValidationError{
			Path:    path,
			Kind:    n.kind,
			Message: fmt.Sprintf(format, args...),
		})
	}

	switch d := n.data.(type) {
	case CuboidData:
		if n.kind != KindCuboid {
			report("cuboid payload on %s node", n.kind)
		}
		if !d.Size.finite() {
			report("non-finite size %v", d.Size)
		} else if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			report("size %.4f x %.4f x %.4f must be positive", d.Size.X, d.Size.Y, d.Size.Z)
		}
	case CylinderData:
		if n.kind != KindCylinder {
			report("cylinder payload on %s node", n.kind)
		}
		if !isFinite(d.Radius) || !isFinite(d.Height) {
			report("non-finite radius %v or height %v", d.Radius, d.Height)
		} else if d.Radius <= 0 || d.Height <= 0 {
			report("radius %.4f and height %.4f must be positive", d.Radius, d.Height)
		}
	case RotateData:
		if n.kind != KindRotate {
			report("rotate payload on %s node", n.kind)
		}
		if !isFinite(d.Angle) {
			report("non-finite angle %v", d.Angle)
		}
	case TranslateData:
		if n.kind != KindTranslate {
			report("translate payload on %s node", n.kind)
		}
		if !d.Offset.finite() {
			report("non-finite offset %v", d.Offset)
		}
	case UnionData:
		if n.kind != KindUnion {
			report("union payload on %s node", n.kind)
		}
	case DifferenceData:
		if n.kind != KindDifference {
			report("difference payload on %s node", n.kind)
		}
	default:
		report("unsupported payload %T", n.data)
	}

	want := -1 // any
	switch n.kind {
	case KindCuboid, KindCylinder:
		want = 0
	case KindRotate, KindTranslate:
		want = 1
	case KindDifference:
		want = 2
	}
	if want >= 0 && len(n.children) != want {
		report("has %d children, want %d", len(n.children), want)
	}

	for i, c := range n.children {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "/" + childPath
		}
		if c == nil {
			*errs = append(*errs, ValidationError{
				Path:    childPath,
				Kind:    kindInvalid,
				Message: "nil child",
			})
			continue
		}
		validateNode(c, childPath, errs)
	}
}
