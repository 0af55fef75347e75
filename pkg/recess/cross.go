package recess

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// Cross recess core angles fixed by the standard: the cone below the
// reference plane falls at 26.5 degrees, the wing floor at 28 degrees.
const (
	rad265 = 26.5 * math.Pi / 180
	rad28  = 28.0 * math.Pi / 180
)

// CrossSpec carries the tabulated dimensions of one cross recess
// number: wing thickness B, wing slot width EMean, core diameter G,
// and the wing included angle Alpha and wing draft Beta in degrees.
type CrossSpec struct {
	B     float64
	EMean float64
	G     float64
	Alpha float64
	Beta  float64
}

// CrossTool builds a type H cross recess cutter for penetration
// diameter m, the diameter of the recess cone at the reference plane.
// A revolved core cone is narrowed by four sheared corner prisms at 90
// degree steps, leaving the four driving wings.
//
// The corner prisms are laid out on a plane inclined by Beta against
// the axis, so the 92 degree drive faces and the Alpha wing flanks use
// angles projected onto the section plane.
func (f *Factory) CrossTool(spec CrossSpec, m, h float64) (*Tool, error) {
	if spec.B <= 0 || spec.EMean <= 0 || spec.G <= 0 {
		return nil, kernel.Constructf("cross tool", "need positive recess dimensions, got %+v", spec)
	}
	if spec.Alpha <= 0 || spec.Alpha >= 180 || spec.Beta < 0 {
		return nil, kernel.Constructf("cross tool", "wing angles out of range: alpha=%g beta=%g", spec.Alpha, spec.Beta)
	}
	if m <= spec.G {
		return nil, kernel.Constructf("cross tool", "penetration diameter %g must exceed core diameter %g", m, spec.G)
	}

	tg := (m - spec.G) / 2 / math.Tan(rad265)
	tTot := tg + spec.G/2*math.Tan(rad28)
	hm := m / 4
	hmc := m / 2
	rMax := m/2 + hm*math.Tan(rad265)

	radBeta := spec.Beta * math.Pi / 180
	radAlphaP := math.Atan(math.Tan(spec.Alpha/2*math.Pi/180) / math.Cos(radBeta))
	rad92P := math.Atan(math.Tan(46*math.Pi/180) / math.Cos(radBeta))

	tb := tg + (spec.G-spec.B)/2*math.Tan(rad28)
	rbTop := spec.B/2 + (hmc+tb)*math.Tan(radBeta)
	rbTot := spec.B/2 - (tTot-tb)*math.Tan(radBeta)
	if rbTot <= 0 {
		return nil, kernel.Constructf("cross tool", "wing draft %g pulls the corner cutters onto the axis", spec.Beta)
	}
	dre := spec.EMean / 2 / math.Tan(radAlphaP)
	dx := m / 2 * math.Cos(rad92P)
	dy := m / 2 * math.Sin(rad92P)

	bodyProf, err := kernel.NewProfile().
		MoveTo(0, hm).
		LineTo(rMax, hm).
		LineTo(spec.G/2, -tg).
		LineTo(0, -tTot).
		Close()
	if err != nil {
		return nil, kernel.Construct("cross body profile", err)
	}
	corner := [5]kernel.Point2{
		{U: rbTot, V: 0},
		{U: rbTot + dre, V: spec.EMean / 2},
		{U: rbTot + dre + 2*dx, V: spec.EMean + 2*dy},
		{U: rbTot + dre + 2*dx, V: -spec.EMean - 2*dy},
		{U: rbTot + dre, V: -spec.EMean / 2},
	}
	cornerProf, err := kernel.NewProfile().
		MoveTo(corner[0].U, corner[0].V).
		LineTo(corner[1].U, corner[1].V).
		LineTo(corner[2].U, corner[2].V).
		LineTo(corner[3].U, corner[3].V).
		LineTo(corner[4].U, corner[4].V).
		Close()
	if err != nil {
		return nil, kernel.Construct("cross corner profile", err)
	}

	key := cache.NewKey("cross-tool", spec.B, spec.EMean, spec.G, spec.Alpha, spec.Beta, m)
	solid, err := f.tools.GetOrBuild(key, func() (kernel.Solid, error) {
		body, err := f.k.Revolve(bodyProf)
		if err != nil {
			return nil, kernel.Construct("cross body revolve", err)
		}
		cut, err := f.k.Prism(cornerProf, [3]float64{rbTop - rbTot, 0, hmc + tTot})
		if err != nil {
			return nil, kernel.Construct("cross corner prism", err)
		}
		cut = f.k.Translate(cut, 0, 0, -tTot)
		s := body
		for i := 0; i < 4; i++ {
			s = f.k.Difference(s, f.k.RotateZ(cut, float64(i)*90))
		}
		f.log.Debug("built cross tool",
			zap.Float64("m", m),
			zap.Float64("depth", tTot))
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	faces := kernel.RevolveFaces(bodyProf)
	for i := 0; i < 4; i++ {
		faces = append(faces, cornerFlankFaces(corner, rbTop-rbTot, -tTot, hmc)...)
	}
	return f.tool(solid, faces, hm, h), nil
}

// cornerFlankFaces returns the planar flanks one corner cutter leaves
// on the body: the two Alpha wing flanks and the two 92 degree drive
// faces. The outermost pentagon edge clears the body entirely and
// leaves nothing. Face extents are rotation invariant, so the same
// records serve all four corners.
func cornerFlankFaces(c [5]kernel.Point2, shear, zMin, zMax float64) []kernel.Face {
	edges := [4][2]kernel.Point2{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[3], c[4]},
		{c[4], c[0]},
	}
	out := make([]kernel.Face, 0, len(edges))
	for _, e := range edges {
		radii := [4]float64{
			math.Hypot(e[0].U, e[0].V),
			math.Hypot(e[1].U, e[1].V),
			math.Hypot(e[0].U+shear, e[0].V),
			math.Hypot(e[1].U+shear, e[1].V),
		}
		fc := kernel.Face{
			Class: kernel.FacePlanar,
			ZMin:  zMin,
			ZMax:  zMax,
			RMin:  radii[0],
			RMax:  radii[0],
		}
		for _, r := range radii[1:] {
			fc.RMin = math.Min(fc.RMin, r)
			fc.RMax = math.Max(fc.RMax, r)
		}
		out = append(out, fc)
	}
	return out
}
