package pot

import "github.com/chazu/woodpot/pkg/shape"

// WallPlacement positions one wall board.
type WallPlacement struct {
	Layer  int     `json:"layer" yaml:"layer"`
	Side   int     `json:"side" yaml:"side"`
	TransY float64 `json:"trans_y" yaml:"trans_y"`
	TransZ float64 `json:"trans_z" yaml:"trans_z"`
	Angle  float64 `json:"angle" yaml:"angle"`
}

// Name returns the piece key of the board.
func (w WallPlacement) Name() string {
	return WallName(w.Layer, w.Side)
}

// PlanWalls places sides*layers boards, layer-major. Odd sides sit half a
// course higher than even ones so each board end overlaps its neighbours
// above and below. With LeveledTop the final layer drops that offset.
func PlanWalls(cfg Config, geo Geometry) []WallPlacement {
	out := make([]WallPlacement, 0, cfg.Sides*cfg.Layers)
	for layer := 0; layer < cfg.Layers; layer++ {
		base := float64(layer) * geo.BlockHeight * 2
		leveled := layer == cfg.Layers-1 && cfg.LeveledTop
		for side := 0; side < cfg.Sides; side++ {
			w := WallPlacement{
				Layer:  layer,
				Side:   side,
				TransY: cfg.Radius,
				TransZ: base,
				Angle:  geo.InteriorAngle * float64(side),
			}
			if side%2 == 1 {
				w.TransY = -cfg.Radius
				if !leveled {
					w.TransZ = base + geo.BlockHeight
				}
			}
			out = append(out, w)
		}
	}
	return out
}

// BoardLength returns the length of every wall board.
func (g Geometry) BoardLength(cfg Config) float64 {
	return g.BlockLength + g.BlockWidth*cfg.Overlap
}

func buildWall(cfg Config, geo Geometry, w WallPlacement) *shape.Node {
	board := shape.Cuboid(geo.BoardLength(cfg), cfg.WallThickness, geo.BlockHeight, true)
	return shape.Rotate(w.Angle, shape.Translate(0, w.TransY, w.TransZ, board))
}
