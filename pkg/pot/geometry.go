package pot

import "math"

// Geometry holds the quantities derived once from a Config.
type Geometry struct {
	BlockLength   float64 `json:"block_length" yaml:"block_length"` // polygon side length
	BlockWidth    float64 `json:"block_width" yaml:"block_width"`
	BlockHeight   float64 `json:"block_height" yaml:"block_height"`     // one half-course
	InteriorAngle float64 `json:"interior_angle" yaml:"interior_angle"` // degrees
	VertexLen     float64 `json:"vertex_len" yaml:"vertex_len"`         // circumscribing radius used by the cutters
}

// DeriveGeometry computes the polygon geometry for cfg. It rejects the
// parameters it depends on with a *ConfigError; use Config.Validate for
// the full set of checks.
func DeriveGeometry(cfg Config) (Geometry, error) {
	switch {
	case cfg.Sides < 3:
		return Geometry{}, &ConfigError{Field: "sides", Value: cfg.Sides, Reason: "must be at least 3"}
	case !positive(cfg.Radius):
		return Geometry{}, &ConfigError{Field: "radius", Value: cfg.Radius, Reason: "must be positive and finite"}
	case !positive(cfg.WallThickness):
		return Geometry{}, &ConfigError{Field: "wall_thickness", Value: cfg.WallThickness, Reason: "must be positive and finite"}
	case !finite(cfg.Height):
		return Geometry{}, &ConfigError{Field: "height", Value: cfg.Height, Reason: "must be finite"}
	case !finite(cfg.Overlap):
		return Geometry{}, &ConfigError{Field: "overlap", Value: cfg.Overlap, Reason: "must be finite"}
	}

	n := float64(cfg.Sides)
	g := Geometry{
		BlockLength:   2 * cfg.Radius * math.Tan(math.Pi/n),
		BlockWidth:    cfg.WallThickness,
		InteriorAngle: (n - 2) * 180 / n,
	}
	if cfg.Layers > 0 {
		g.BlockHeight = cfg.Height / float64(cfg.Layers*2)
	}
	g.VertexLen = vertexLen(cfg, g)
	return g, nil
}

func vertexLen(cfg Config, g Geometry) float64 {
	switch cfg.Sides {
	case 3:
		return 2 * cfg.Radius
	case 4:
		return cfg.Radius * math.Sqrt2
	default:
		reach := g.BlockLength/2 + g.BlockWidth/2*cfg.Overlap
		return math.Sqrt(cfg.Radius*cfg.Radius + reach*reach)
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
