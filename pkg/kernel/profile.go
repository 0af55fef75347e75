package kernel

import (
	"fmt"
	"math"
)

// arcSegments is the number of chord segments used to tessellate one
// arc. Thread root fillets and recess floor blends are small relative
// to the profile, so a fixed subdivision is sufficient at kernel
// resolution.
const arcSegments = 16

// Point2 is a point in the abstract profile plane.
type Point2 struct {
	U, V float64
}

// SegmentKind distinguishes straight and arc profile segments.
type SegmentKind int

const (
	SegLine SegmentKind = iota
	SegArc
)

// Segment is one edge of a profile boundary. Mid is meaningful only for
// arcs, where the segment is the circular arc from From through Mid to To.
type Segment struct {
	Kind SegmentKind
	From Point2
	Mid  Point2
	To   Point2
}

// Profile is an immutable closed planar cross-section, built with a
// ProfileBuilder. It records both the authored segments (for face
// classification) and a tessellated boundary ring (for the backend).
type Profile struct {
	segs []Segment
	pts  []Point2
}

// Segments returns the authored boundary segments in order.
func (p *Profile) Segments() []Segment { return p.segs }

// Points returns the tessellated boundary ring. The last point is not
// repeated; consecutive points are distinct.
func (p *Profile) Points() []Point2 { return p.pts }

// Bounds returns the axis-aligned extent of the boundary.
func (p *Profile) Bounds() (min, max Point2) {
	min = Point2{math.Inf(1), math.Inf(1)}
	max = Point2{math.Inf(-1), math.Inf(-1)}
	for _, pt := range p.pts {
		min.U = math.Min(min.U, pt.U)
		min.V = math.Min(min.V, pt.V)
		max.U = math.Max(max.U, pt.U)
		max.V = math.Max(max.V, pt.V)
	}
	return min, max
}

// Shift returns a copy of the profile translated by (du, dv). Thread
// engines use it to move a template profile to its sweep radius or
// axial position.
func (p *Profile) Shift(du, dv float64) *Profile {
	out := &Profile{
		segs: make([]Segment, len(p.segs)),
		pts:  make([]Point2, len(p.pts)),
	}
	for i, s := range p.segs {
		s.From.U += du
		s.From.V += dv
		s.Mid.U += du
		s.Mid.V += dv
		s.To.U += du
		s.To.V += dv
		out.segs[i] = s
	}
	for i, pt := range p.pts {
		out.pts[i] = Point2{pt.U + du, pt.V + dv}
	}
	return out
}

// ProfileBuilder assembles a closed profile from points and arcs.
// Calls chain; the first error sticks and is reported by Close.
type ProfileBuilder struct {
	start   Point2
	cur     Point2
	started bool
	segs    []Segment
	pts     []Point2
	err     error
}

// NewProfile returns an empty builder.
func NewProfile() *ProfileBuilder {
	return &ProfileBuilder{}
}

func (b *ProfileBuilder) fail(format string, args ...any) *ProfileBuilder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

// MoveTo sets the profile start point. It must be the first call.
func (b *ProfileBuilder) MoveTo(u, v float64) *ProfileBuilder {
	if b.started {
		return b.fail("profile: MoveTo after start")
	}
	b.start = Point2{u, v}
	b.cur = b.start
	b.started = true
	b.pts = append(b.pts, b.start)
	return b
}

// LineTo appends a straight segment from the current point.
func (b *ProfileBuilder) LineTo(u, v float64) *ProfileBuilder {
	if !b.started {
		return b.fail("profile: LineTo before MoveTo")
	}
	to := Point2{u, v}
	if samePoint(b.cur, to) {
		return b.fail("profile: zero-length segment at (%g, %g)", u, v)
	}
	b.segs = append(b.segs, Segment{Kind: SegLine, From: b.cur, To: to})
	b.pts = append(b.pts, to)
	b.cur = to
	return b
}

// ArcTo appends a circular arc from the current point through
// (midU, midV) to (endU, endV). Collinear inputs degrade to a line.
func (b *ProfileBuilder) ArcTo(midU, midV, endU, endV float64) *ProfileBuilder {
	if !b.started {
		return b.fail("profile: ArcTo before MoveTo")
	}
	mid := Point2{midU, midV}
	to := Point2{endU, endV}
	if samePoint(b.cur, to) {
		return b.fail("profile: zero-length arc at (%g, %g)", endU, endV)
	}
	interior, ok := tessellateArc(b.cur, mid, to)
	if !ok {
		// Collinear through-point: treat as a straight segment.
		return b.LineTo(endU, endV)
	}
	b.segs = append(b.segs, Segment{Kind: SegArc, From: b.cur, Mid: mid, To: to})
	b.pts = append(b.pts, interior...)
	b.pts = append(b.pts, to)
	b.cur = to
	return b
}

// Close finishes the profile, adding the closing segment back to the
// start point if the boundary is not already closed there.
func (b *ProfileBuilder) Close() (*Profile, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.started {
		return nil, fmt.Errorf("profile: empty")
	}
	if !samePoint(b.cur, b.start) {
		b.segs = append(b.segs, Segment{Kind: SegLine, From: b.cur, To: b.start})
	} else if len(b.pts) > 1 {
		// Boundary returned to the start; drop the duplicate ring point.
		b.pts = b.pts[:len(b.pts)-1]
	}
	if len(b.pts) < 3 {
		return nil, fmt.Errorf("profile: need at least 3 boundary points, have %d", len(b.pts))
	}
	return &Profile{segs: b.segs, pts: b.pts}, nil
}

func samePoint(a, b Point2) bool {
	const eps = 1e-12
	return math.Abs(a.U-b.U) < eps && math.Abs(a.V-b.V) < eps
}

// tessellateArc returns the interior points of the arc from a through m
// to c, excluding both endpoints. ok is false when the three points are
// collinear and no circle exists.
func tessellateArc(a, m, c Point2) (interior []Point2, ok bool) {
	d := 2 * (a.U*(m.V-c.V) + m.U*(c.V-a.V) + c.U*(a.V-m.V))
	if math.Abs(d) < 1e-12 {
		return nil, false
	}
	aa := a.U*a.U + a.V*a.V
	mm := m.U*m.U + m.V*m.V
	cc := c.U*c.U + c.V*c.V
	center := Point2{
		U: (aa*(m.V-c.V) + mm*(c.V-a.V) + cc*(a.V-m.V)) / d,
		V: (aa*(c.U-m.U) + mm*(a.U-c.U) + cc*(m.U-a.U)) / d,
	}
	r := math.Hypot(a.U-center.U, a.V-center.V)

	angA := math.Atan2(a.V-center.V, a.U-center.U)
	angM := math.Atan2(m.V-center.V, m.U-center.U)
	angC := math.Atan2(c.V-center.V, c.U-center.U)

	// Walk counterclockwise from a; if the through-point is not on that
	// way to c, the arc runs clockwise instead.
	ccwM := normAngle(angM - angA)
	ccwC := normAngle(angC - angA)
	sweep := ccwC
	if ccwM > ccwC {
		sweep = ccwC - 2*math.Pi
	}

	interior = make([]Point2, 0, arcSegments-1)
	for i := 1; i < arcSegments; i++ {
		t := angA + sweep*float64(i)/float64(arcSegments)
		interior = append(interior, Point2{
			U: center.U + r*math.Cos(t),
			V: center.V + r*math.Sin(t),
		})
	}
	return interior, true
}

// normAngle maps an angle to [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
