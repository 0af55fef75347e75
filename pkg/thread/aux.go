package thread

import (
	"math"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// ChamferCutter builds the end chamfer negative for an externally
// threaded part whose end face sits at z=-l: subtracting it truncates
// the part flat at -l and bevels the rim at 45 degrees. The cut
// extends one pitch below the face, so build the thread run slightly
// long and let the cutter finish the end. The solid is cached per
// (d, pitch) and shifted to the end face on every call; l is
// placement, not identity.
func (e *Engine) ChamferCutter(d, pitch, l float64) (kernel.Solid, error) {
	if d <= 0 || pitch <= 0 {
		return nil, kernel.Constructf("chamfer cutter", "need positive dimensions, got d=%g pitch=%g", d, pitch)
	}
	cham := NewForm(pitch).Height * 17.0 / 24.0
	key := cache.NewKey("chamfer-cutter", d, pitch)
	s, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		prof, err := kernel.NewProfile().
			MoveTo(0, 0).
			LineTo(d/2-cham, 0).
			LineTo(d/2+cham, 2*cham).
			LineTo(d/2+cham, -pitch-cham).
			LineTo(0, -pitch-cham).
			Close()
		if err != nil {
			return nil, kernel.Construct("chamfer cutter profile", err)
		}
		s, err := e.k.Revolve(prof)
		if err != nil {
			return nil, kernel.Construct("chamfer cutter revolve", err)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	if l != 0 {
		s = e.k.Translate(s, 0, 0, -l)
	}
	return s, nil
}

// HexProfile returns a regular hexagon with the given width across
// flats, drawn in the xy plane with a vertex on the +x axis.
func HexProfile(acrossFlats float64) (*kernel.Profile, error) {
	r := acrossFlats / math.Sqrt(3)
	b := kernel.NewProfile().MoveTo(r, 0)
	for i := 1; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		b = b.LineTo(r*math.Cos(a), r*math.Sin(a))
	}
	return b.Close()
}

// HexPrism builds a hexagonal prism with the given width across flats,
// centered on the origin. Nut blanks start from it.
func (e *Engine) HexPrism(acrossFlats, height float64) (kernel.Solid, error) {
	if acrossFlats <= 0 || height <= 0 {
		return nil, kernel.Constructf("hex prism", "need positive dimensions, got acrossFlats=%g height=%g", acrossFlats, height)
	}
	key := cache.NewKey("hex-prism", acrossFlats, height)
	return e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		prof, err := HexProfile(acrossFlats)
		if err != nil {
			return nil, kernel.Construct("hex profile", err)
		}
		s, err := e.k.Extrude(prof, height)
		if err != nil {
			return nil, kernel.Construct("hex prism extrude", err)
		}
		return s, nil
	})
}

// HexBoreCutter builds the negative that shaves a round blank into a
// hexagon: a cylinder of outerDiameter with a hexagonal hole of the
// given width across flats. The blank's flats span z in [0, height];
// the cutter overshoots by a tenth of the height on both ends, so
// chamfer cones revolved into the blank survive the cut.
func (e *Engine) HexBoreCutter(acrossFlats, height, outerDiameter float64) (kernel.Solid, error) {
	if acrossFlats <= 0 || height <= 0 {
		return nil, kernel.Constructf("hex bore cutter", "need positive dimensions, got acrossFlats=%g height=%g", acrossFlats, height)
	}
	if outerDiameter <= 2*acrossFlats/math.Sqrt(3) {
		return nil, kernel.Constructf("hex bore cutter", "rim diameter %g never clears the hexagon corners of width %g", outerDiameter, acrossFlats)
	}
	key := cache.NewKey("hex-bore", acrossFlats, height, outerDiameter)
	return e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		prof, err := HexProfile(acrossFlats)
		if err != nil {
			return nil, kernel.Construct("hex profile", err)
		}
		hole, err := e.k.Extrude(prof, 1.2*height)
		if err != nil {
			return nil, kernel.Construct("hex bore extrude", err)
		}
		rim := e.k.Cylinder(1.2*height, outerDiameter/2)
		return e.k.Translate(e.k.Difference(rim, hole), 0, 0, height/2), nil
	})
}
