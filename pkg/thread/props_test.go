package thread

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/chazu/mandrel/pkg/kernel/sdfx"
)

func TestFormProperties(t *testing.T) {
	params := gopter.DefaultTestParametersWithSeed(99)
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("form height is pitch times cos 30", prop.ForAll(
		func(pitch float64) bool {
			f := NewForm(pitch)
			return math.Abs(f.Height-pitch*math.Cos(math.Pi/6)) < 1e-12*pitch
		},
		gen.Float64Range(0.2, 6),
	))

	properties.Property("crest overshoot stays below the root depth", prop.ForAll(
		func(pitch float64) bool {
			f := NewForm(pitch)
			crest := math.Sqrt(3) * 3.0 / 80.0 * pitch
			return crest < f.DepthExternal()
		},
		gen.Float64Range(0.2, 6),
	))

	properties.TestingRun(t)
}

func TestCutterProperties(t *testing.T) {
	params := gopter.DefaultTestParametersWithSeed(1234)
	params.MinSuccessfulTests = 60
	properties := gopter.NewProperties(params)

	e := NewEngine(sdfx.New())

	properties.Property("grooves cover the requested run", prop.ForAll(
		func(d, pitch, length float64) bool {
			c, err := e.BuildCutter(d, pitch, length)
			if err != nil {
				return false
			}
			wantTurns := int(math.Floor(length/pitch)) + 1
			return c.Turns == wantTurns && c.Height >= length && c.Runout == pitch/2
		},
		gen.Float64Range(2, 30),
		gen.Float64Range(0.25, 3),
		gen.Float64Range(1, 60),
	))

	properties.Property("groove section stays inside the form envelope", prop.ForAll(
		func(d, pitch float64) bool {
			f := NewForm(pitch)
			prof, err := ExternalCutterProfile(d, pitch)
			if err != nil {
				return false
			}
			min, max := prof.Bounds()
			root := d/2 - f.DepthExternal()
			crest := d/2 + math.Sqrt(3)*3.0/80.0*pitch
			const eps = 1e-9
			return min.U >= root-f.FilletRadius()-eps &&
				max.U <= crest+eps &&
				max.V <= 0.475*pitch+eps &&
				min.V >= -0.475*pitch-eps
		},
		gen.Float64Range(1, 64),
		gen.Float64Range(0.2, 6),
	))

	properties.TestingRun(t)
}

func TestBoreProperties(t *testing.T) {
	params := gopter.DefaultTestParametersWithSeed(1234)
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("minimum bore stays below the nominal diameter", prop.ForAll(
		func(d, pitch float64) bool {
			return MinBoreDiameter(d, pitch) < d
		},
		gen.Float64Range(1, 64),
		gen.Float64Range(0.2, 6),
	))

	properties.Property("minimum bore grows with the nominal diameter", prop.ForAll(
		func(d, delta, pitch float64) bool {
			return MinBoreDiameter(d, pitch) < MinBoreDiameter(d+delta, pitch)
		},
		gen.Float64Range(1, 32),
		gen.Float64Range(0.1, 32),
		gen.Float64Range(0.2, 6),
	))

	properties.TestingRun(t)
}

func TestNutValidationProperties(t *testing.T) {
	params := gopter.DefaultTestParametersWithSeed(99)
	params.MinSuccessfulTests = 60
	properties := gopter.NewProperties(params)

	e := NewEngine(sdfx.New())

	properties.Property("short nut runs always fail closed", prop.ForAll(
		func(d, pitch, frac float64) bool {
			sh, err := e.BuildNutThread(d, d+0.5, pitch, frac*pitch)
			if err == nil || sh != nil {
				return false
			}
			var ce *kernel.ConstructionError
			return errors.As(err, &ce)
		},
		gen.Float64Range(4, 20),
		gen.Float64Range(0.5, 3),
		gen.Float64Range(0.05, 0.9),
	))

	properties.TestingRun(t)
}

func TestHandednessProperty(t *testing.T) {
	params := gopter.DefaultTestParametersWithSeed(7)
	params.MinSuccessfulTests = 25
	properties := gopter.NewProperties(params)

	rh := NewEngine(sdfx.New())
	lh := NewEngine(sdfx.New(), WithLeftHanded(true))

	properties.Property("left-handed solids mirror right-handed ones", prop.ForAll(
		func(d, pitch, length, tfrac, angle float64) bool {
			threadLength := tfrac * length
			rsh, err := rh.BuildShellThread(d, length, threadLength, pitch, true, 0)
			if err != nil {
				return false
			}
			lsh, err := lh.BuildShellThread(d, length, threadLength, pitch, true, 0)
			if err != nil {
				return false
			}
			// Sample mid-flank where containment depends on helix
			// phase.
			f := NewForm(pitch)
			r := d/2 - f.DepthExternal()/2
			p := [3]float64{r * math.Cos(angle), r * math.Sin(angle), -length / 2}
			m := [3]float64{p[0], -p[1], p[2]}
			return rsh.Solid.Contains(p) == lsh.Solid.Contains(m)
		},
		gen.Float64Range(3, 8),
		gen.Float64Range(0.5, 1.5),
		gen.Float64Range(6, 20),
		gen.Float64Range(0.3, 1),
		gen.Float64Range(0, 2*math.Pi),
	))

	properties.TestingRun(t)
}
