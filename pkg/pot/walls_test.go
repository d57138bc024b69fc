package pot

import (
	"testing"

	"github.com/chazu/woodpot/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanWallsParity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LeveledTop = false
	geo, err := DeriveGeometry(cfg)
	require.NoError(t, err)

	walls := PlanWalls(cfg, geo)
	require.Len(t, walls, cfg.Sides*cfg.Layers)

	seen := make(map[string]bool)
	for i, w := range walls {
		assert.Equal(t, i/cfg.Sides, w.Layer, "walls are layer-major")
		assert.Equal(t, i%cfg.Sides, w.Side)
		assert.False(t, seen[w.Name()], "duplicate %s", w.Name())
		seen[w.Name()] = true

		base := float64(w.Layer) * 2 * geo.BlockHeight
		assert.InDelta(t, geo.InteriorAngle*float64(w.Side), w.Angle, 1e-9)
		if w.Side%2 == 0 {
			assert.Equal(t, cfg.Radius, w.TransY)
			assert.Equal(t, base, w.TransZ)
		} else {
			assert.Equal(t, -cfg.Radius, w.TransY)
			assert.Equal(t, base+geo.BlockHeight, w.TransZ)
		}
	}
}

func TestPlanWallsLeveledTop(t *testing.T) {
	tests := []struct {
		sides, layers int
	}{
		{6, 2}, {3, 3}, {4, 3}, {5, 3}, {7, 3}, {8, 3},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Sides, cfg.Layers = tt.sides, tt.layers
		geo, err := DeriveGeometry(cfg)
		require.NoError(t, err)

		top := float64(cfg.Layers-1) * 2 * geo.BlockHeight
		for _, w := range PlanWalls(cfg, geo) {
			want := float64(w.Layer) * 2 * geo.BlockHeight
			if w.Layer != cfg.Layers-1 && w.Side%2 == 1 {
				want += geo.BlockHeight
			}
			assert.InDelta(t, want, w.TransZ, 1e-9, "sides=%d %s", tt.sides, w.Name())
			if w.Layer == cfg.Layers-1 {
				assert.InDelta(t, top, w.TransZ, 1e-9, "sides=%d %s", tt.sides, w.Name())
			}
		}
	}

	// the reference hexagon levels its top course at 15
	cfg := DefaultConfig()
	geo, err := DeriveGeometry(cfg)
	require.NoError(t, err)
	for _, w := range PlanWalls(cfg, geo) {
		if w.Layer == cfg.Layers-1 {
			assert.Equal(t, 15.0, w.TransZ, "%s", w.Name())
		}
	}
}

func TestWallName(t *testing.T) {
	assert.Equal(t, "wall(layer_1-side_4)", WallName(1, 4))
	assert.Equal(t, "wall(layer_0-side_0)", WallPlacement{}.Name())
}

func TestBuildWallPlacement(t *testing.T) {
	cfg := DefaultConfig()
	geo, err := DeriveGeometry(cfg)
	require.NoError(t, err)
	walls := PlanWalls(cfg, geo)

	even := buildWall(cfg, geo, walls[0])
	assert.True(t, shape.Contains(even, shape.Vec3{X: 0, Y: cfg.Radius, Z: 0}))
	assert.False(t, shape.Contains(even, shape.Vec3{X: 0, Y: -cfg.Radius, Z: 0}))

	odd := buildWall(cfg, geo, walls[1])
	p := shape.Vec3{X: 0, Y: -cfg.Radius, Z: geo.BlockHeight}.RotateZ(geo.InteriorAngle)
	assert.True(t, shape.Contains(odd, p))

	b, ok := shape.Bounds(even)
	require.True(t, ok)
	assert.InDelta(t, geo.BoardLength(cfg), b.Size().X, 1e-9)
	assert.InDelta(t, cfg.WallThickness, b.Size().Y, 1e-9)
	assert.InDelta(t, geo.BlockHeight, b.Size().Z, 1e-9)
}
