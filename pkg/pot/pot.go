package pot

import (
	"fmt"

	"github.com/chazu/woodpot/pkg/shape"
)

// FloorName is the piece key of the floor.
const FloorName = "floor"

// WallName returns the piece key of the wall board at layer, side.
func WallName(layer, side int) string {
	return fmt.Sprintf("wall(layer_%d-side_%d)", layer, side)
}

// Piece is one individually fabricable board.
type Piece struct {
	Name  string
	Shape *shape.Node
}

// Stage is a step of the construction pipeline.
type Stage int

const (
	StageConfigured Stage = iota
	StageGeometryDerived
	StageFloorBuilt
	StageWallsBuilt
	StageEdgesRounded
	StageReady
)

func (s Stage) String() string {
	switch s {
	case StageConfigured:
		return "configured"
	case StageGeometryDerived:
		return "geometry-derived"
	case StageFloorBuilt:
		return "floor-built"
	case StageWallsBuilt:
		return "walls-built"
	case StageEdgesRounded:
		return "edges-rounded"
	case StageReady:
		return "ready"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Pot is the assembled result. All accessors return copies or immutable
// trees; a Pot is never modified after New returns.
type Pot struct {
	cfg    Config
	geo    Geometry
	floor  FloorPlan
	walls  []WallPlacement
	pieces []Piece
	index  map[string]int
	model  *shape.Node
	stages []Stage
}

// New validates cfg and builds every piece. It returns a *ConfigError or
// *DegenerateError without building anything when the input is unusable.
func New(cfg Config) (*Pot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &builder{p: &Pot{cfg: cfg, index: make(map[string]int)}}
	b.p.stages = []Stage{StageConfigured}

	geo, err := DeriveGeometry(cfg)
	if err != nil {
		return nil, err
	}
	b.p.geo = geo
	b.advance(StageGeometryDerived)

	plan, err := PlanFloor(cfg, geo)
	if err != nil {
		return nil, err
	}
	b.p.floor = plan
	floor := buildFloor(cfg, geo, plan)
	b.add(FloorName, floor)
	b.advance(StageFloorBuilt)

	b.p.walls = PlanWalls(cfg, geo)
	walls := make([]*shape.Node, 0, len(b.p.walls))
	for _, w := range b.p.walls {
		board := buildWall(cfg, geo, w)
		b.add(w.Name(), board)
		walls = append(walls, board)
	}
	b.p.model = shape.Union(floor, shape.Union(walls...))
	b.advance(StageWallsBuilt)

	if cfg.RoundEdges {
		b.p.pieces, b.p.model = roundEdges(b.p.pieces, b.p.model, roundingCutter(cfg, geo))
		b.advance(StageEdgesRounded)
	}

	b.advance(StageReady)
	return b.p, nil
}

// builder enforces the linear stage order while a Pot is assembled.
type builder struct {
	p     *Pot
	stage Stage
}

func (b *builder) advance(next Stage) {
	ok := next == b.stage+1 || (b.stage == StageWallsBuilt && next == StageReady)
	if !ok {
		panic(fmt.Sprintf("pot: invalid stage transition %s -> %s", b.stage, next))
	}
	b.stage = next
	b.p.stages = append(b.p.stages, next)
}

func (b *builder) add(name string, n *shape.Node) {
	if _, dup := b.p.index[name]; dup {
		panic(fmt.Sprintf("pot: duplicate piece %q", name))
	}
	b.p.index[name] = len(b.p.pieces)
	b.p.pieces = append(b.p.pieces, Piece{Name: name, Shape: n})
}

// Config returns the input configuration.
func (p *Pot) Config() Config {
	return p.cfg
}

// Geometry returns the derived polygon geometry.
func (p *Pot) Geometry() Geometry {
	return p.geo
}

// Floor returns the floor plank layout.
func (p *Pot) Floor() FloorPlan {
	return p.floor
}

// Walls returns the wall board placements in construction order.
func (p *Pot) Walls() []WallPlacement {
	out := make([]WallPlacement, len(p.walls))
	copy(out, p.walls)
	return out
}

// Pieces returns the pieces in construction order: the floor, then the
// walls layer by layer.
func (p *Pot) Pieces() []Piece {
	out := make([]Piece, len(p.pieces))
	copy(out, p.pieces)
	return out
}

// Piece returns the shape stored under name.
func (p *Pot) Piece(name string) (*shape.Node, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.pieces[i].Shape, true
}

// Names returns the piece keys in construction order.
func (p *Pot) Names() []string {
	out := make([]string, len(p.pieces))
	for i, pc := range p.pieces {
		out[i] = pc.Name
	}
	return out
}

// Len returns the number of pieces.
func (p *Pot) Len() int {
	return len(p.pieces)
}

// Model returns the union of all pieces.
func (p *Pot) Model() *shape.Node {
	return p.model
}

// Stages returns the pipeline steps taken, ending with StageReady.
func (p *Pot) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}
