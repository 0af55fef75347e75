package thread

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// faceEps is the tolerance for matching the fuse plane at z=0.
const faceEps = 1e-7

// corr is a tiny axial overshoot that keeps boolean cut planes from
// landing exactly on blank faces.
const corr = 1e-5

// Cutter is the helical groove negative for an external thread run.
// The grooved span ends at z=0 where the runout lifts the groove out
// of the stock; the sweep extends down past z=-Height.
type Cutter struct {
	Solid  kernel.Solid
	Turns  int
	Height float64
	Runout float64
}

// BuildCutter builds the groove cutter for an external thread of
// major diameter d covering at least length along the axis. The turn
// count overshoots the requested run by up to one pitch so the groove
// never ends inside the stock.
func (e *Engine) BuildCutter(d, pitch, length float64) (*Cutter, error) {
	if d <= 0 || pitch <= 0 || length <= 0 {
		return nil, kernel.Constructf("thread cutter", "need positive dimensions, got d=%g pitch=%g length=%g", d, pitch, length)
	}
	turns := int(math.Floor(length/pitch)) + 1
	height := float64(turns) * pitch
	f := NewForm(pitch)
	runout := pitch / 2
	shift := 0.5 * (f.DepthExternal() + 0.5*f.FilletRadius())

	key := cache.NewKey("thread-cutter", d, pitch, length)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		prof, err := ExternalCutterProfile(d, pitch)
		if err != nil {
			return nil, kernel.Construct("thread cutter profile", err)
		}
		s, err := e.k.ThreadSweep(prof, kernel.HelixSpec{
			Pitch:         pitch,
			Height:        height,
			LeadOutHeight: runout,
			LeadOutShift:  shift,
		})
		if err != nil {
			return nil, kernel.Construct("thread cutter sweep", err)
		}
		e.log.Debug("built thread cutter",
			zap.Float64("d", d),
			zap.Float64("pitch", pitch),
			zap.Int("turns", turns))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return &Cutter{Solid: solid, Turns: turns, Height: height, Runout: runout}, nil
}

// BuildShellThread builds an externally threaded shank as an open
// shell: a cylinder of major diameter d spanning z in [-length, 0],
// threaded over the bottom threadLength, with its top face omitted so
// a head can fuse onto it. withChamfer adds a 45 degree end chamfer to
// the blank outline. The shell is built with its top plane at z=0 and
// shifted so the top sits at topZ; placement does not enter the cache
// key.
//
// The thread run always stops at least 5/8 pitch short of the top so
// the runout has room, matching the behavior for fully threaded
// screws.
func (e *Engine) BuildShellThread(d, length, threadLength, pitch float64, withChamfer bool, topZ float64) (*kernel.Shell, error) {
	if d <= 0 || pitch <= 0 || length <= 0 {
		return nil, kernel.Constructf("shell thread", "need positive dimensions, got d=%g length=%g pitch=%g", d, length, pitch)
	}
	toffset := math.Max(length-threadLength+pitch/2, 5*pitch/8)
	run := length - toffset
	if run <= 0 {
		return nil, kernel.Constructf("shell thread", "threaded run vanishes: length=%g threadLength=%g pitch=%g", length, threadLength, pitch)
	}

	key := cache.NewKey("shell-thread", d, pitch, length, threadLength, withChamfer)
	solid, err := e.solids.GetOrBuild(key, func() (kernel.Solid, error) {
		blankProf, err := shankProfile(d, length, pitch, withChamfer)
		if err != nil {
			return nil, kernel.Construct("shank profile", err)
		}
		blank, err := e.k.Revolve(blankProf)
		if err != nil {
			return nil, kernel.Construct("shank revolve", err)
		}
		cutter, err := e.BuildCutter(d, pitch, run)
		if err != nil {
			return nil, err
		}
		s := e.k.Difference(blank, e.k.Translate(cutter.Solid, 0, 0, -toffset))
		s = e.k.RotateZ(s, 90)
		e.log.Debug("built shell thread",
			zap.Float64("d", d),
			zap.Float64("length", length),
			zap.Float64("threadLength", threadLength),
			zap.Float64("toffset", toffset))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	solid = e.handed(solid)

	blankProf, err := shankProfile(d, length, pitch, withChamfer)
	if err != nil {
		return nil, kernel.Construct("shank profile", err)
	}
	cutterProf, err := ExternalCutterProfile(d, pitch)
	if err != nil {
		return nil, kernel.Construct("thread cutter profile", err)
	}
	faces := kernel.RevolveFaces(blankProf)
	faces = append(faces, kernel.SweepFaces(cutterProf, -length, -toffset)...)
	sh := kernel.NewShell(solid, faces, kernel.PlanarAt(0, faceEps))
	if topZ != 0 {
		sh = sh.ShiftZ(e.k.Translate(solid, 0, 0, topZ), topZ)
	}
	return sh, nil
}

// shankProfile returns the revolve section of an unthreaded shank:
// full diameter down to the chamfer shoulder, then a 45 degree chamfer
// of depth pitch/2 at the end. Without the chamfer the outline is a
// plain cylinder.
func shankProfile(d, length, pitch float64, withChamfer bool) (*kernel.Profile, error) {
	b := kernel.NewProfile().
		MoveTo(0, 0).
		LineTo(d/2, 0)
	if withChamfer {
		b = b.LineTo(d/2, -length+pitch/2).
			LineTo(d/2-pitch/2, -corr-length)
	} else {
		b = b.LineTo(d/2, -corr-length)
	}
	return b.LineTo(0, -corr-length).Close()
}
