package pot

// Cut is one line of a cut list: Count boards of the same stock size.
// Floor planks are listed at blank length, before the footprint trim.
type Cut struct {
	Name      string  `json:"name" yaml:"name"`
	Length    float64 `json:"length" yaml:"length"`
	Width     float64 `json:"width" yaml:"width"` // one half-course
	Thickness float64 `json:"thickness" yaml:"thickness"`
	Count     int     `json:"count" yaml:"count"`
}

// CutList returns the stock boards needed to build p.
func (p *Pot) CutList() []Cut {
	return []Cut{
		{
			Name:      "floor plank",
			Length:    p.floor.PlankLength,
			Width:     p.geo.BlockHeight,
			Thickness: p.cfg.WallThickness,
			Count:     p.floor.TotalPlanks(),
		},
		{
			Name:      "wall board",
			Length:    p.geo.BoardLength(p.cfg),
			Width:     p.geo.BlockHeight,
			Thickness: p.cfg.WallThickness,
			Count:     len(p.walls),
		},
	}
}
