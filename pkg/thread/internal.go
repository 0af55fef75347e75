package thread

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// fuzz is a radial overshoot that keeps union seams between the bore
// cylinder and the groove sweep from being tangent.
const fuzz = 5e-4

// BuildTap builds a screw tap: the male tool whose thread form matches
// the internal thread of nominal diameter d. The tap spans z in
// [-length, 0]. The sweep radius carries the engine's
// parts-per-thousand tuning.
func (e *Engine) BuildTap(d, pitch, length float64) (kernel.Solid, error) {
	if d <= 0 || pitch <= 0 || length <= 0 {
		return nil, kernel.Constructf("tap", "need positive dimensions, got d=%g pitch=%g length=%g", d, pitch, length)
	}
	turns := int(math.Floor(length/pitch)) + 2
	if turns < 3 {
		return nil, kernel.Constructf("tap", "thread run shorter than three turns: length=%g pitch=%g", length, pitch)
	}
	r := e.internalRadius(d)
	height := float64(turns) * pitch

	key := cache.NewKey("tap", d, pitch, length, e.sweepPPT)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		tooth, err := InternalToothProfile(r, pitch)
		if err != nil {
			return nil, kernel.Construct("tap tooth profile", err)
		}
		groove, err := e.k.ThreadSweep(tooth, kernel.HelixSpec{Pitch: pitch, Height: height})
		if err != nil {
			return nil, kernel.Construct("tap groove sweep", err)
		}
		// Overrun the blank by half a pitch at both ends so the groove
		// never terminates inside the stock.
		groove = e.k.Translate(groove, 0, 0, pitch/2)
		blank := e.k.Translate(e.k.Cylinder(length, r), 0, 0, -length/2)
		s := e.k.Difference(blank, groove)
		e.log.Debug("built tap",
			zap.Float64("d", d),
			zap.Float64("pitch", pitch),
			zap.Int("turns", turns))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return e.handed(solid), nil
}

// BuildInnerCutter builds the raw groove negative for an internal
// thread: the helical ridge solid alone, without bore or chamfers.
// Subtracting it from a part that already carries a minor-diameter
// bore of the given length carves the thread. The grooves overrun the
// bore by half a pitch at both ends, so the cut never terminates
// inside the stock.
func (e *Engine) BuildInnerCutter(d, pitch, boreLength float64) (kernel.Solid, error) {
	if d <= 0 || pitch <= 0 || boreLength <= 0 {
		return nil, kernel.Constructf("inner cutter", "need positive dimensions, got d=%g pitch=%g boreLength=%g", d, pitch, boreLength)
	}
	turns := int(math.Floor(boreLength/pitch)) + 2
	if turns < 3 {
		return nil, kernel.Constructf("inner cutter", "thread run shorter than three turns: boreLength=%g pitch=%g", boreLength, pitch)
	}
	r := e.internalRadius(d)
	height := float64(turns) * pitch

	key := cache.NewKey("inner-cutter", d, pitch, boreLength, e.sweepPPT)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		cutterProf, err := InternalCutterProfile(r, pitch)
		if err != nil {
			return nil, kernel.Construct("inner cutter profile", err)
		}
		grooves, err := e.k.ThreadSweep(cutterProf, kernel.HelixSpec{Pitch: pitch, Height: height})
		if err != nil {
			return nil, kernel.Construct("inner cutter sweep", err)
		}
		s := e.k.Translate(grooves, 0, 0, pitch/2)
		e.log.Debug("built inner cutter",
			zap.Float64("d", d),
			zap.Float64("pitch", pitch),
			zap.Int("turns", turns))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return e.handed(solid), nil
}

// BuildNutThread builds the bore negative for a nut of nominal thread
// diameter d and chamfer diameter da: the drilled hole, the helical
// thread grooves, and the two face chamfer cones, spanning z in
// [-length, 0]. Subtracting the shell's solid from a blank leaves the
// finished internal thread.
//
// The shell's faces record what the bore contributes to the finished
// part: the minor-diameter wall, the helical flanks, and the two
// conical chamfers.
func (e *Engine) BuildNutThread(d, da, pitch, length float64) (*kernel.Shell, error) {
	if d <= 0 || da <= 0 || pitch <= 0 || length <= 0 {
		return nil, kernel.Constructf("nut thread", "need positive dimensions, got d=%g da=%g pitch=%g length=%g", d, da, pitch, length)
	}
	f := NewForm(pitch)
	chamI := 2 * f.Height * math.Tan(15*math.Pi/180)
	if length <= 2*chamI {
		return nil, kernel.Constructf("nut thread", "chamfers consume the whole thread run: length=%g chamfer=%g", length, chamI)
	}
	turns := int(math.Floor(length/pitch)) + 2
	if turns < 3 {
		return nil, kernel.Constructf("nut thread", "thread run shorter than three turns: length=%g pitch=%g", length, pitch)
	}
	r := e.internalRadius(d)
	minor := r - f.DepthExternal()
	height := float64(turns) * pitch

	key := cache.NewKey("nut-thread", d, da, pitch, length, e.sweepPPT)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		cutterProf, err := InternalCutterProfile(r, pitch)
		if err != nil {
			return nil, kernel.Construct("nut groove profile", err)
		}
		grooves, err := e.k.ThreadSweep(cutterProf, kernel.HelixSpec{Pitch: pitch, Height: height})
		if err != nil {
			return nil, kernel.Construct("nut groove sweep", err)
		}
		grooves = e.k.Translate(grooves, 0, 0, pitch/2)
		bore := e.k.Translate(e.k.Cylinder(length+2*corr, minor+fuzz), 0, 0, -length/2)
		neg := e.k.Union(bore, grooves)
		// The groove sweep overruns both faces; cap it to the bore run.
		box := e.k.Translate(e.k.Box(d+4*pitch, d+4*pitch, length), 0, 0, -length/2)
		neg = e.k.Intersection(neg, box)

		topCone, err := chamferCone(e.k, da, chamI, f.Height, +1)
		if err != nil {
			return nil, err
		}
		bottomCone, err := chamferCone(e.k, da, chamI, f.Height, -1)
		if err != nil {
			return nil, err
		}
		neg = e.k.Union(neg, topCone)
		neg = e.k.Union(neg, e.k.Translate(bottomCone, 0, 0, -length))
		e.log.Debug("built nut thread negative",
			zap.Float64("d", d),
			zap.Float64("da", da),
			zap.Float64("length", length),
			zap.Int("turns", turns))
		return neg, nil
	})
	if err != nil {
		return nil, err
	}
	solid = e.handed(solid)

	cutterProf, err := InternalCutterProfile(r, pitch)
	if err != nil {
		return nil, kernel.Construct("nut groove profile", err)
	}
	faces := []kernel.Face{
		{Class: kernel.FaceCylindrical, ZMin: -length + chamI, ZMax: -chamI, RMin: minor, RMax: minor},
		{Class: kernel.FaceConical, ZMin: -chamI, ZMax: 0, RMin: da/2 - 2*f.Height, RMax: da / 2},
		{Class: kernel.FaceConical, ZMin: -length, ZMax: -length + chamI, RMin: da/2 - 2*f.Height, RMax: da / 2},
	}
	faces = append(faces, kernel.SweepFaces(cutterProf, -length+chamI, -chamI)...)
	return kernel.NewShell(solid, faces, nil), nil
}

// chamferCone builds the bore mouth chamfer negative for a face at
// z=0. With sign=+1 it overshoots above the face as a full cylinder of
// radius da/2 and narrows conically to da/2-2H at depth chamI below;
// sign=-1 flips it for the opposite face.
func chamferCone(k kernel.Kernel, da, chamI, formHeight, sign float64) (kernel.Solid, error) {
	prof, err := kernel.NewProfile().
		MoveTo(0, sign*chamI).
		LineTo(da/2, sign*chamI).
		LineTo(da/2, 0).
		LineTo(da/2-2*formHeight, -sign*chamI).
		LineTo(0, -sign*chamI).
		Close()
	if err != nil {
		return nil, kernel.Construct("chamfer cone profile", err)
	}
	s, err := k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("chamfer cone revolve", err)
	}
	return s, nil
}
