package recess

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// HexalobularSpec carries the tabulated dimensions of one hexalobular
// drive size: tip diameter A, root diameter B, and outer lobe radius
// Re. The inner relief radius and the blend angle follow from these.
type HexalobularSpec struct {
	A  float64
	B  float64
	Re float64
}

// InnerRadius returns the relief arc radius Ri that makes the six
// inner arcs tangent to their neighboring outer lobes.
func (s HexalobularSpec) InnerRadius() float64 {
	sqrt3 := math.Sqrt(3)
	return -((s.B+sqrt3*(2*s.Re-s.A))*s.B + (s.A-4*s.Re)*s.A) /
		(4*s.B - 2*sqrt3*s.A + (4*sqrt3-8)*s.Re)
}

// BlendAngle returns the angle in radians from a lobe's center ray to
// the tangency point between the outer lobe arc and its inner relief
// arc.
func (s HexalobularSpec) BlendAngle() float64 {
	ri := s.InnerRadius()
	return math.Acos(s.A/(4*ri+4*s.Re)-2*s.Re/(4*ri+4*s.Re)) - math.Pi/6
}

// HexalobularTool builds a six-lobed recess cutter with socket depth
// below the reference plane. Six outer lobe arcs of radius Re
// alternate with six inner relief arcs of the derived radius; the
// floor is rounded by the closed-form round-over tool.
func (f *Factory) HexalobularTool(spec HexalobularSpec, depth, h float64) (*Tool, error) {
	if spec.A <= 0 || spec.B <= 0 || spec.Re <= 0 || depth <= 0 {
		return nil, kernel.Constructf("hexalobular tool", "need positive dimensions, got %+v depth=%g", spec, depth)
	}
	if spec.B >= spec.A {
		return nil, kernel.Constructf("hexalobular tool", "root diameter %g must stay below tip diameter %g", spec.B, spec.A)
	}
	ri := spec.InnerRadius()
	if ri <= 0 {
		return nil, kernel.Constructf("hexalobular tool", "lobe radii do not blend: Ri=%g for %+v", ri, spec)
	}
	if arg := (spec.A - 2*spec.Re) / (4 * (ri + spec.Re)); math.Abs(arg) > 1 {
		return nil, kernel.Constructf("hexalobular tool", "no tangency between lobes: %+v", spec)
	}

	point := spec.A / 4
	bottom := -depth - point
	lobeProf, err := hexalobularProfile(spec)
	if err != nil {
		return nil, kernel.Construct("hexalobular profile", err)
	}
	floorProf, err := roundoverProfile(spec.A, point, depth, bottom-clearance)
	if err != nil {
		return nil, kernel.Construct("hexalobular floor profile", err)
	}
	height := clearance - bottom

	key := cache.NewKey("hexalobular-tool", spec.A, spec.B, spec.Re, depth)
	solid, err := f.tools.GetOrBuild(key, func() (kernel.Solid, error) {
		lobes, err := f.k.Extrude(lobeProf, height)
		if err != nil {
			return nil, kernel.Construct("hexalobular extrude", err)
		}
		lobes = f.k.Translate(lobes, 0, 0, (clearance+bottom)/2)
		floor, err := f.k.Revolve(floorProf)
		if err != nil {
			return nil, kernel.Construct("hexalobular floor revolve", err)
		}
		f.log.Debug("built hexalobular tool",
			zap.Float64("a", spec.A),
			zap.Float64("depth", depth),
			zap.Float64("ri", ri))
		return f.k.Difference(lobes, floor), nil
	})
	if err != nil {
		return nil, err
	}

	faces := make([]kernel.Face, 0, 16)
	for _, fc := range kernel.ExtrudeFaces(lobeProf, height) {
		fc = fc.ShiftZ((clearance + bottom) / 2)
		if kernel.PlanarAt(bottom, faceEps)(fc) {
			continue
		}
		faces = append(faces, fc)
	}
	faces = append(faces, floorFaces(floorProf, spec.A)...)
	return f.tool(solid, faces, clearance, h), nil
}

// hexalobularProfile builds the closed twelve-arc lobe section. Each
// sixth of the ring is one outer arc bulging to A/2 followed by one
// inner arc dipping to B/2, rotated in 60 degree steps; the last inner
// arc lands exactly on the start point.
func hexalobularProfile(spec HexalobularSpec) (*kernel.Profile, error) {
	beta := spec.BlendAngle()
	reX := spec.A/2 - spec.Re + spec.Re*math.Sin(beta)
	reY := spec.Re * math.Cos(beta)

	start := kernel.Point2{U: reX, V: -reY}
	outerMid := kernel.Point2{U: spec.A / 2, V: 0}
	outerEnd := kernel.Point2{U: reX, V: reY}
	innerMid := kernel.Point2{U: math.Sqrt(3) * spec.B / 4, V: spec.B / 4}

	b := kernel.NewProfile().MoveTo(start.U, start.V)
	cur := start
	for i := 0; i < 6; i++ {
		b = b.ArcTo(outerMid.U, outerMid.V, outerEnd.U, outerEnd.V)
		next := rot60(cur)
		if i == 5 {
			next = start
		}
		b = b.ArcTo(innerMid.U, innerMid.V, next.U, next.V)
		cur = next
		outerMid = rot60(outerMid)
		outerEnd = rot60(outerEnd)
		innerMid = rot60(innerMid)
	}
	return b.Close()
}

// rot60 rotates a profile point 60 degrees counterclockwise.
func rot60(p kernel.Point2) kernel.Point2 {
	s := math.Sqrt(3) / 2
	return kernel.Point2{U: 0.5*p.U - s*p.V, V: s*p.U + 0.5*p.V}
}
