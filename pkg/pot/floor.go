package pot

import (
	"math"

	"github.com/chazu/woodpot/pkg/shape"
)

const (
	// floorLayers is the number of crossed plank layers in the floor.
	floorLayers = 2
	// minPlankSlots keeps at least one interior plank once the first and
	// last slots, which fall outside the trimmed footprint, are dropped.
	minPlankSlots = 3
)

// FloorPlan is the plank layout of the floor blank.
type FloorPlan struct {
	Distance    float64 `json:"distance" yaml:"distance"`       // blank span across the tiling axis
	PlankCount  int     `json:"plank_count" yaml:"plank_count"` // slots per layer, including the two dropped ones
	Spacing     float64 `json:"spacing" yaml:"spacing"`
	Origin      float64 `json:"origin" yaml:"origin"`
	PlankLength float64 `json:"plank_length" yaml:"plank_length"`
}

// PlanksPerLayer returns the number of planks placed in each layer.
func (f FloorPlan) PlanksPerLayer() int {
	return f.PlankCount - 2
}

// TotalPlanks returns the number of planks in the floor blank.
func (f FloorPlan) TotalPlanks() int {
	return floorLayers * f.PlanksPerLayer()
}

// PlankOffset returns the offset of slot p along the tiling axis.
func (f FloorPlan) PlankOffset(p int, wallThickness float64) float64 {
	return f.Origin + wallThickness + f.Spacing*float64(p)
}

// PlanFloor lays out the floor planks for cfg.
func PlanFloor(cfg Config, geo Geometry) (FloorPlan, error) {
	wt := cfg.WallThickness
	distance := 2*cfg.Radius + 2*wt
	count := int(math.Floor(distance / wt / 2))
	if count < minPlankSlots {
		return FloorPlan{}, &DegenerateError{FloorDistance: distance, WallThickness: wt, PlankCount: count}
	}
	residual := distance - float64(count)*wt
	return FloorPlan{
		Distance:    distance,
		PlankCount:  count,
		Spacing:     2 * residual / float64(count),
		Origin:      -distance / 2,
		PlankLength: 3*cfg.Radius + wt*cfg.Overlap,
	}, nil
}

// floorBlank unions both plank layers, each rotated a quarter turn from
// the other.
func floorBlank(cfg Config, geo Geometry, plan FloorPlan) *shape.Node {
	planks := make([]*shape.Node, 0, plan.TotalPlanks())
	for l := 0; l < floorLayers; l++ {
		angle := geo.InteriorAngle - 90 + float64(l)*90
		for p := 1; p < plan.PlankCount-1; p++ {
			board := shape.Cuboid(plan.PlankLength, cfg.WallThickness, geo.BlockHeight, true)
			board = shape.Translate(0, plan.PlankOffset(p, cfg.WallThickness), float64(l)*geo.BlockHeight, board)
			planks = append(planks, shape.Rotate(angle, board))
		}
	}
	return shape.Union(planks...)
}

// floorCutter removes everything beyond side s of the footprint: a large
// cube minus a slab as wide as the pot across that side.
func floorCutter(cfg Config, geo Geometry, s int) *shape.Node {
	vl := geo.VertexLen
	outer := shape.Rotate(geo.InteriorAngle*float64(s), shape.Cuboid(3*vl, 3*vl, 3*vl, true))
	inner := shape.Rotate(geo.InteriorAngle*float64(s)-90,
		shape.Cuboid(2*cfg.Radius+cfg.WallThickness, 2*vl, 2*vl, true))
	return shape.Difference(outer, inner)
}

// buildFloor trims the blank to the polygon footprint, one side at a time.
func buildFloor(cfg Config, geo Geometry, plan FloorPlan) *shape.Node {
	floor := floorBlank(cfg, geo, plan)
	for s := 0; s < cfg.Sides; s++ {
		floor = shape.Difference(floor, floorCutter(cfg, geo, s))
	}
	return floor
}
