package recess

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// SlotTool builds a straight slot cutter: width across the slot, depth
// below the reference plane, and length spanning the head diameter.
func (f *Factory) SlotTool(width, depth, length, h float64) (*Tool, error) {
	if width <= 0 || depth <= 0 || length <= 0 {
		return nil, kernel.Constructf("slot tool", "need positive dimensions, got width=%g depth=%g length=%g", width, depth, length)
	}

	key := cache.NewKey("slot-tool", width, depth, length)
	solid, err := f.tools.GetOrBuild(key, func() (kernel.Solid, error) {
		box := f.k.Box(length, width, depth+clearance)
		f.log.Debug("built slot tool",
			zap.Float64("width", width),
			zap.Float64("depth", depth),
			zap.Float64("length", length))
		return f.k.Translate(box, 0, 0, (clearance-depth)/2), nil
	})
	if err != nil {
		return nil, err
	}

	rCorner := math.Hypot(length/2, width/2)
	wallX := kernel.Face{Class: kernel.FacePlanar, ZMin: -depth, ZMax: clearance, RMin: length / 2, RMax: rCorner}
	wallY := kernel.Face{Class: kernel.FacePlanar, ZMin: -depth, ZMax: clearance, RMin: width / 2, RMax: rCorner}
	faces := []kernel.Face{
		{Class: kernel.FacePlanar, ZMin: -depth, ZMax: -depth, RMin: 0, RMax: rCorner},
		wallX, wallX,
		wallY, wallY,
		{Class: kernel.FacePlanar, ZMin: clearance, ZMax: clearance, RMin: 0, RMax: rCorner},
	}
	return f.tool(solid, faces, clearance, h), nil
}
