package pot

import "github.com/chazu/woodpot/pkg/shape"

// roundingCutter is the ring outside VertexLen. The inner cylinder is
// taller than the outer one so no cap is left over the pot.
func roundingCutter(cfg Config, geo Geometry) *shape.Node {
	outer := shape.Cylinder(2*geo.VertexLen, 4*cfg.Height, true)
	inner := shape.Cylinder(geo.VertexLen, 5*cfg.Height, true)
	return shape.Difference(outer, inner)
}

// roundEdges subtracts the same cutter from every piece and the model.
func roundEdges(pieces []Piece, model, cutter *shape.Node) ([]Piece, *shape.Node) {
	out := make([]Piece, len(pieces))
	for i, p := range pieces {
		out[i] = Piece{Name: p.Name, Shape: shape.Difference(p.Shape, cutter)}
	}
	return out, shape.Difference(model, cutter)
}
