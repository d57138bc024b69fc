package pot

import "math"

// Config is the immutable input of the pipeline. Lengths are in mm.
type Config struct {
	Sides         int     `json:"sides" yaml:"sides"`
	Height        float64 `json:"height" yaml:"height"`
	Radius        float64 `json:"radius" yaml:"radius"` // centre to inner wall face
	Layers        int     `json:"layers" yaml:"layers"` // interlocking course pairs
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
	RoundEdges    bool    `json:"round_edges" yaml:"round_edges"`
	LeveledTop    bool    `json:"leveled_top" yaml:"leveled_top"`
	Overlap       float64 `json:"overlap" yaml:"overlap"` // board length factor for joint pressure
}

// DefaultConfig returns the reference hexagonal pot.
func DefaultConfig() Config {
	return Config{
		Sides:         6,
		Height:        30,
		Radius:        60,
		Layers:        2,
		WallThickness: 12,
		RoundEdges:    true,
		LeveledTop:    true,
		Overlap:       1.05,
	}
}

// Validate returns a *ConfigError for the first invalid field, or nil.
// NaN and infinite lengths are rejected.
func (c Config) Validate() error {
	switch {
	case c.Sides < 3:
		return &ConfigError{Field: "sides", Value: c.Sides, Reason: "must be at least 3"}
	case c.Layers < 1:
		return &ConfigError{Field: "layers", Value: c.Layers, Reason: "must be at least 1"}
	case !positive(c.Radius):
		return &ConfigError{Field: "radius", Value: c.Radius, Reason: "must be positive and finite"}
	case !positive(c.WallThickness):
		return &ConfigError{Field: "wall_thickness", Value: c.WallThickness, Reason: "must be positive and finite"}
	case !positive(c.Height):
		return &ConfigError{Field: "height", Value: c.Height, Reason: "must be positive and finite"}
	case !(c.Overlap >= 1) || math.IsInf(c.Overlap, 1):
		return &ConfigError{Field: "overlap", Value: c.Overlap, Reason: "must be finite and at least 1.0"}
	}
	return nil
}

// positive reports whether x is a finite length greater than zero.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// Design pairs a config with the name used for the aggregate model.
type Design struct {
	Name   string `json:"name" yaml:"name"`
	Config Config `json:"config" yaml:"config"`
}
