package recess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/chazu/mandrel/pkg/kernel/sdfx"
)

func newTestFactory(t *testing.T, opts ...Option) *Factory {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewFactory(sdfx.New(), opts...)
}

func conical(fc kernel.Face) bool     { return fc.Class == kernel.FaceConical }
func cylindrical(fc kernel.Face) bool { return fc.Class == kernel.FaceCylindrical }
func toroidal(fc kernel.Face) bool    { return fc.Class == kernel.FaceToroidal }

func TestSocketToolGeometry(t *testing.T) {
	f := newTestFactory(t)
	tool, err := f.SocketTool(4, 3, 0, 0)
	require.NoError(t, err)

	min, max := tool.Solid.BoundingBox()
	assert.InDelta(t, -4.4667, min[2], 1e-3, "hexagon reaches past the drill point")
	assert.InDelta(t, clearance, max[2], 1e-9)
	assert.InDelta(t, 4/math.Sqrt(3), max[0], 1e-9, "hexagon vertex radius")
	assert.InDelta(t, 2.0, max[1], 1e-9, "half the width across flats")

	probes := []struct {
		name string
		p    [3]float64
		want bool
	}{
		{"inside wall", [3]float64{1, 0, -1}, true},
		{"above top clearance", [3]float64{1, 0, 1.2}, false},
		{"above drill cone", [3]float64{1, 0, -3.6}, true},
		{"in drill cone", [3]float64{1, 0, -4.0}, false},
		{"axis above point", [3]float64{0, 0, -4.2}, true},
		{"under drill point", [3]float64{0.1, 0, -4.4}, false},
		{"beyond vertex", [3]float64{2.5, 0, 0}, false},
		{"inside flat", [3]float64{0, 1.9, 0}, true},
		{"outside flat", [3]float64{0, 2.1, 0}, false},
	}
	for _, tt := range probes {
		assert.Equal(t, tt.want, tool.Solid.Contains(tt.p), tt.name)
	}

	require.NotNil(t, tool.Shell)
	assert.Equal(t, 8, tool.Shell.FaceCount())
	require.Len(t, tool.Shell.Omitted, 1)
	top := tool.Shell.Omitted[0]
	assert.Equal(t, kernel.FacePlanar, top.Class)
	assert.InDelta(t, clearance, top.ZMax, 1e-9, "the open face sits at the overshoot plane")
	assert.Len(t, tool.Shell.Select(conical), 1, "drill cone")
	assert.Len(t, tool.Shell.Select(toroidal), 1, "point round-over")
}

func TestSocketToolRelieved(t *testing.T) {
	f := newTestFactory(t)
	tool, err := f.SocketTool(4, 2, 3.5, 0)
	require.NoError(t, err)

	min, _ := tool.Solid.BoundingBox()
	assert.InDelta(t, -4.3468, min[2], 1e-3, "hexagon reaches past the relief bore point")

	probes := []struct {
		name string
		p    [3]float64
		want bool
	}{
		{"hex wall above shoulder", [3]float64{1.6, 0, -1.5}, true},
		{"below shoulder", [3]float64{1.6, 0, -2.05}, false},
		{"deep below shoulder", [3]float64{1.9, 0, -3.4}, false},
		{"relief spike", [3]float64{0.5, 0, -3}, true},
		{"beside the spike", [3]float64{1.5, 0, -3}, false},
		{"below spike point", [3]float64{0.5, 0, -4.1}, false},
	}
	for _, tt := range probes {
		assert.Equal(t, tt.want, tool.Solid.Contains(tt.p), tt.name)
	}

	assert.Equal(t, 9, tool.Shell.FaceCount())
	require.Len(t, tool.Shell.Omitted, 1)
	assert.Len(t, tool.Shell.Select(conical), 2, "shoulder and bore point")
	assert.Len(t, tool.Shell.Select(cylindrical), 1, "relief bore wall")
}

func TestSocketToolValidation(t *testing.T) {
	f := newTestFactory(t)
	for _, tt := range []struct {
		name          string
		af, depth, bd float64
	}{
		{"zero width", 0, 3, 0},
		{"negative depth", 4, -1, 0},
		{"shallow relief bore", 4, 3, 2.5},
	} {
		tool, err := f.SocketTool(tt.af, tt.depth, tt.bd, 0)
		assert.Nil(t, tool, tt.name)
		var ce *kernel.ConstructionError
		require.ErrorAs(t, err, &ce, tt.name)
		assert.Equal(t, "socket tool", ce.Stage, tt.name)
	}
}

func TestSocketToolCachedPlacement(t *testing.T) {
	f := newTestFactory(t)

	base, err := f.SocketTool(5, 3, 0, 0)
	require.NoError(t, err)
	again, err := f.SocketTool(5, 3, 0, 0)
	require.NoError(t, err)
	raised, err := f.SocketTool(5, 3, 0, 10)
	require.NoError(t, err)

	assert.Same(t, base.Solid, again.Solid, "repeat build must come from the cache")
	stats := f.CacheStats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)

	probe := [3]float64{1.5, 0, -1}
	assert.True(t, base.Solid.Contains(probe))
	assert.True(t, raised.Solid.Contains([3]float64{1.5, 0, 9}), "cached hit still lands at the requested height")
	assert.False(t, raised.Solid.Contains(probe))

	_, maxBase := base.Solid.BoundingBox()
	_, maxRaised := raised.Solid.BoundingBox()
	assert.InDelta(t, maxBase[2]+10, maxRaised[2], 1e-9)

	require.Len(t, raised.Shell.Omitted, 1)
	top := raised.Shell.Omitted[0]
	assert.InDelta(t, clearance+10, (top.ZMin+top.ZMax)/2, 1e-9, "shell faces follow the placement")
}

func TestCrossToolGeometry(t *testing.T) {
	spec := CrossSpec{B: 1.98, EMean: 0.79, G: 2.41, Alpha: 140, Beta: 5.75}
	const m = 4.4

	f := newTestFactory(t)
	tool, err := f.CrossTool(spec, m, 0)
	require.NoError(t, err)

	min, max := tool.Solid.BoundingBox()
	assert.InDelta(t, m/4, max[2], 1e-9, "rim plane")
	assert.InDelta(t, -2.636, min[2], 1e-3, "core tip")
	assert.InDelta(t, 2.748, max[0], 1e-3, "rim radius")

	probes := []struct {
		name string
		p    [3]float64
		want bool
	}{
		{"axis mid", [3]float64{0, 0, -1}, true},
		{"axis near rim", [3]float64{0, 0, 1.0}, true},
		{"above rim", [3]float64{0, 0, 1.2}, false},
		{"wing at 45 degrees", [3]float64{1.5 / math.Sqrt2, 1.5 / math.Sqrt2, -1}, true},
		{"deep wing", [3]float64{1 / math.Sqrt2, 1 / math.Sqrt2, -2}, true},
		{"corner slot", [3]float64{1.5, 0, -1}, false},
		{"corner slot near rim", [3]float64{2.0, 0, 1.05}, false},
		{"slot at reference plane", [3]float64{2.1, 0, 0}, false},
		{"wing at reference plane", [3]float64{2.1 / math.Sqrt2, 2.1 / math.Sqrt2, 0}, true},
		{"outside cone", [3]float64{1.9, 1.9, 0}, false},
	}
	for _, tt := range probes {
		assert.Equal(t, tt.want, tool.Solid.Contains(tt.p), tt.name)
	}

	assert.Equal(t, 18, tool.Shell.FaceCount())
	require.Len(t, tool.Shell.Omitted, 1)
	assert.InDelta(t, m/4, tool.Shell.Omitted[0].ZMax, 1e-9, "open face on the rim plane")
	assert.Len(t, tool.Shell.Select(conical), 2, "recess cone and core tip")
	assert.Len(t, tool.Shell.Select(kernel.Face.Planar), 16, "four flanks per corner cutter")
}

func TestCrossToolValidation(t *testing.T) {
	f := newTestFactory(t)
	spec := CrossSpec{B: 1.98, EMean: 0.79, G: 2.41, Alpha: 140, Beta: 5.75}

	tool, err := f.CrossTool(spec, 2.0, 0)
	assert.Nil(t, tool)
	var ce *kernel.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cross tool", ce.Stage)

	_, err = f.CrossTool(CrossSpec{B: -1, EMean: 0.79, G: 2.41, Alpha: 140, Beta: 5.75}, 4.4, 0)
	require.ErrorAs(t, err, &ce)

	_, err = f.CrossTool(CrossSpec{B: 1.98, EMean: 0.79, G: 2.41, Alpha: 190, Beta: 5.75}, 4.4, 0)
	require.ErrorAs(t, err, &ce)
}

func TestHexalobularClosedForm(t *testing.T) {
	tests := []struct {
		name string
		spec HexalobularSpec
	}{
		{"T8", HexalobularSpec{A: 2.40, B: 1.75, Re: 0.24}},
		{"T20", HexalobularSpec{A: 3.95, B: 2.85, Re: 0.40}},
		{"T30", HexalobularSpec{A: 5.60, B: 4.05, Re: 0.56}},
		{"T45", HexalobularSpec{A: 7.94, B: 5.72, Re: 0.80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ri := tt.spec.InnerRadius()
			require.Greater(t, ri, 0.0)

			// Tangency between an inner relief arc and its neighboring
			// lobe arc: centers sit 30 degrees apart, so the law of
			// cosines must give exactly the sum of the two radii.
			p := tt.spec.B/2 + ri
			q := tt.spec.A/2 - tt.spec.Re
			assert.InDelta(t, (ri+tt.spec.Re)*(ri+tt.spec.Re),
				p*p+q*q-math.Sqrt(3)*p*q, 1e-9)

			beta := tt.spec.BlendAngle()
			assert.Greater(t, beta, 0.0)
			assert.Less(t, beta, math.Pi/3)
			assert.InDelta(t, tt.spec.A-2*tt.spec.Re,
				4*(ri+tt.spec.Re)*math.Cos(beta+math.Pi/6), 1e-9)
		})
	}
}

func TestHexalobularToolGeometry(t *testing.T) {
	spec := HexalobularSpec{A: 3.95, B: 2.85, Re: 0.40}

	f := newTestFactory(t)
	tool, err := f.HexalobularTool(spec, 2, 0)
	require.NoError(t, err)

	min, max := tool.Solid.BoundingBox()
	assert.InDelta(t, -2.9875, min[2], 1e-9, "lobes reach past the drill point")
	assert.InDelta(t, clearance, max[2], 1e-9)
	assert.InDelta(t, spec.A/2, max[0], 1e-6, "lobe tip radius")

	probes := []struct {
		name string
		p    [3]float64
		want bool
	}{
		{"lobe tip", [3]float64{1.9, 0, -0.5}, true},
		{"beyond lobe", [3]float64{2.05, 0, -0.5}, false},
		{"waist inside", [3]float64{1.1691, 0.675, -0.5}, true},
		{"waist outside", [3]float64{1.2990, 0.75, -0.5}, false},
		{"axis above point", [3]float64{0, 0, -2.9}, true},
		{"under floor round-over", [3]float64{0.1, 0, -2.975}, false},
		{"top clearance", [3]float64{1, 0, 0.9}, true},
		{"above top clearance", [3]float64{1, 0, 1.1}, false},
	}
	for _, tt := range probes {
		assert.Equal(t, tt.want, tool.Solid.Contains(tt.p), tt.name)
	}

	assert.Equal(t, 14, tool.Shell.FaceCount())
	require.Len(t, tool.Shell.Omitted, 1)
	walls := tool.Shell.Select(cylindrical)
	assert.Len(t, walls, 12, "six lobes and six reliefs")
	lobes := 0
	for _, w := range walls {
		if w.RMax > spec.A/2-0.01 {
			lobes++
		}
	}
	assert.Equal(t, 6, lobes, "every second wall bulges to the tip radius")
}

func TestHexalobularToolValidation(t *testing.T) {
	f := newTestFactory(t)
	for _, tt := range []struct {
		name  string
		spec  HexalobularSpec
		depth float64
	}{
		{"zero size", HexalobularSpec{A: 0, B: 1, Re: 0.1}, 1},
		{"root too wide", HexalobularSpec{A: 3, B: 3, Re: 0.3}, 1},
		{"zero depth", HexalobularSpec{A: 3.95, B: 2.85, Re: 0.40}, 0},
	} {
		tool, err := f.HexalobularTool(tt.spec, tt.depth, 0)
		assert.Nil(t, tool, tt.name)
		var ce *kernel.ConstructionError
		require.ErrorAs(t, err, &ce, tt.name)
		assert.Equal(t, "hexalobular tool", ce.Stage, tt.name)
	}
}

func TestSlotToolGeometry(t *testing.T) {
	f := newTestFactory(t)
	tool, err := f.SlotTool(1.2, 2.5, 8, 0)
	require.NoError(t, err)

	min, max := tool.Solid.BoundingBox()
	assert.InDelta(t, 4, max[0], 1e-9)
	assert.InDelta(t, 0.6, max[1], 1e-9)
	assert.InDelta(t, -2.5, min[2], 1e-9)
	assert.InDelta(t, clearance, max[2], 1e-9)

	probes := []struct {
		name string
		p    [3]float64
		want bool
	}{
		{"near the end", [3]float64{3.9, 0.5, -2.4}, true},
		{"in the overshoot", [3]float64{3.9, 0, 0.5}, true},
		{"past the end", [3]float64{4.1, 0, 0}, false},
		{"beside the slot", [3]float64{0, 0.7, 0}, false},
		{"below the floor", [3]float64{0, 0, -2.6}, false},
	}
	for _, tt := range probes {
		assert.Equal(t, tt.want, tool.Solid.Contains(tt.p), tt.name)
	}

	assert.Equal(t, 5, tool.Shell.FaceCount())
	require.Len(t, tool.Shell.Omitted, 1)

	_, err = f.SlotTool(0, 2, 8, 0)
	var ce *kernel.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "slot tool", ce.Stage)
}
