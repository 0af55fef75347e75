package thread

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// BuildWoodThread builds the threaded lower portion of a wood screw:
// a core cylinder carrying a sharp V thread over the straight run,
// then a tip where core and thread taper together to a point. The
// result spans z in [-length, 0]; the unthreaded shank fuses above.
func (e *Engine) BuildWoodThread(d, coreD, length, tipLength, pitch float64) (kernel.Solid, error) {
	if d <= 0 || coreD <= 0 || pitch <= 0 || length <= 0 || tipLength <= 0 {
		return nil, kernel.Constructf("wood thread", "need positive dimensions, got d=%g coreD=%g pitch=%g length=%g tipLength=%g", d, coreD, pitch, length, tipLength)
	}
	if coreD >= d {
		return nil, kernel.Constructf("wood thread", "core diameter %g must be below thread diameter %g", coreD, d)
	}
	if tipLength >= length {
		return nil, kernel.Constructf("wood thread", "tip length %g must be below thread length %g", tipLength, length)
	}
	ro := d / 2
	ri := coreD / 2
	straight := length - tipLength

	key := cache.NewKey("wood-thread", d, coreD, pitch, length, tipLength)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		tooth, err := WoodToothProfile(ri, ro)
		if err != nil {
			return nil, kernel.Construct("wood tooth profile", err)
		}

		core := e.k.Translate(e.k.Cylinder(straight, ri), 0, 0, -straight/2)

		turns := int(math.Floor(straight/pitch)) + 1
		run, err := e.k.ThreadSweep(tooth, kernel.HelixSpec{
			Pitch:  pitch,
			Height: float64(turns) * pitch,
		})
		if err != nil {
			return nil, kernel.Construct("wood thread sweep", err)
		}
		// The sweep overruns the straight run; cap it where the tip
		// taper takes over.
		box := e.k.Translate(e.k.Box(d+4*pitch, d+4*pitch, straight), 0, 0, -straight/2)
		run = e.k.Intersection(run, box)

		coneProf, err := kernel.NewProfile().
			MoveTo(0, 0).
			LineTo(ri, 0).
			LineTo(0, -tipLength).
			Close()
		if err != nil {
			return nil, kernel.Construct("tip cone profile", err)
		}
		cone, err := e.k.Revolve(coneProf)
		if err != nil {
			return nil, kernel.Construct("tip cone revolve", err)
		}

		tipTurns := int(math.Floor(tipLength/pitch)) + 1
		// The taper shrinks the form to nothing at the tip point, so
		// the sweep self-terminates below z=-tipLength.
		tip, err := e.k.ThreadSweep(tooth, kernel.HelixSpec{
			Pitch:  pitch,
			Height: float64(tipTurns) * pitch,
			Taper:  ro / tipLength,
		})
		if err != nil {
			return nil, kernel.Construct("wood tip sweep", err)
		}

		s := e.k.Union(core, run)
		s = e.k.Union(s, e.k.Translate(cone, 0, 0, -straight))
		s = e.k.Union(s, e.k.Translate(tip, 0, 0, -straight))
		s = e.k.RotateZ(s, 180)
		e.log.Debug("built wood thread",
			zap.Float64("d", d),
			zap.Float64("coreD", coreD),
			zap.Float64("length", length),
			zap.Int("turns", turns))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return e.handed(solid), nil
}
