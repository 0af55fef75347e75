// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// insideTol is the signed-distance threshold for containment queries;
// boundary points count as inside.
const insideTol = 1e-9

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Contains reports whether the point is inside the solid.
func (s *sdfxSolid) Contains(p [3]float64) bool {
	return s.s.Evaluate(v3.Vec{X: p[0], Y: p[1], Z: p[2]}) <= insideTol
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes cell count along the longest
// bounding box axis. Lower counts mesh faster at lower fidelity.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) { k.meshCells = n }
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: defaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// translate3 shifts an sdf.SDF3 by (x, y, z).
func translate3(s sdf.SDF3, x, y, z float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// rotateZ3 rotates an sdf.SDF3 about the z axis by rad.
func rotateZ3(s sdf.SDF3, rad float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.RotateZ(rad))
}

// polygon2D converts a profile boundary to an sdf.SDF2 polygon,
// normalizing the winding to anticlockwise.
func polygon2D(p *kernel.Profile) (sdf.SDF2, error) {
	pts := p.Points()
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].U*pts[j].V - pts[j].U*pts[i].V
	}
	vs := make([]v2.Vec, len(pts))
	if area >= 0 {
		for i, pt := range pts {
			vs[i] = v2.Vec{X: pt.U, Y: pt.V}
		}
	} else {
		for i, pt := range pts {
			vs[len(pts)-1-i] = v2.Vec{X: pt.U, Y: pt.V}
		}
	}
	return sdf.Polygon2D(vs)
}

// Box creates a box with the given dimensions, centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder with the given height and radius,
// centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Revolve sweeps a closed profile a full turn around the z axis. The
// profile's u coordinate is the radius and must be non-negative.
func (k *SdfxKernel) Revolve(p *kernel.Profile) (kernel.Solid, error) {
	poly, err := polygon2D(p)
	if err != nil {
		return nil, fmt.Errorf("revolve profile: %w", err)
	}
	s, err := sdf.Revolve3D(poly)
	if err != nil {
		return nil, fmt.Errorf("revolve: %w", err)
	}
	return wrap(s), nil
}

// Extrude sweeps a closed profile along z over [-height/2, height/2].
func (k *SdfxKernel) Extrude(p *kernel.Profile, height float64) (kernel.Solid, error) {
	poly, err := polygon2D(p)
	if err != nil {
		return nil, fmt.Errorf("extrude profile: %w", err)
	}
	s := sdf.Extrude3D(poly, height)
	return wrap(s), nil
}

// Prism sweeps a closed profile along dir with sections kept parallel
// to the xy plane, spanning from the profile plane at z=0 to z=dir[2].
// A sheared prism, in other words.
func (k *SdfxKernel) Prism(p *kernel.Profile, dir [3]float64) (kernel.Solid, error) {
	if dir[2] <= 0 {
		return nil, fmt.Errorf("prism: direction must have positive z, got %g", dir[2])
	}
	poly, err := polygon2D(p)
	if err != nil {
		return nil, fmt.Errorf("prism profile: %w", err)
	}
	bb2 := poly.BoundingBox()
	bb := sdf.Box3{
		Min: v3.Vec{
			X: bb2.Min.X + math.Min(0, dir[0]),
			Y: bb2.Min.Y + math.Min(0, dir[1]),
			Z: 0,
		},
		Max: v3.Vec{
			X: bb2.Max.X + math.Max(0, dir[0]),
			Y: bb2.Max.Y + math.Max(0, dir[1]),
			Z: dir[2],
		},
	}
	return wrap(&shearPrism{
		profile: poly,
		dir:     v3.Vec{X: dir[0], Y: dir[1], Z: dir[2]},
		bb:      bb,
	}), nil
}

// shearPrism is an SDF3 for a profile swept along a slanted direction
// with horizontal sections. Not exact Euclidean distance under the
// shear, but sign-correct everywhere, which is what booleans and
// meshing need.
type shearPrism struct {
	profile sdf.SDF2
	dir     v3.Vec
	bb      sdf.Box3
}

func (s *shearPrism) Evaluate(p v3.Vec) float64 {
	t := p.Z / s.dir.Z
	d2 := s.profile.Evaluate(v2.Vec{X: p.X - t*s.dir.X, Y: p.Y - t*s.dir.Y})
	dz := math.Max(-p.Z, p.Z-s.dir.Z)
	return math.Max(d2, dz)
}

func (s *shearPrism) BoundingBox() sdf.Box3 {
	return s.bb
}

// ThreadSweep sweeps a profile along a helical path. The result spans
// z in [-spec.Height, 0] with the groove phase at z=0 on the +x axis,
// plus the optional runout above z=0. Right-handed winding.
//
// Phase alignment relies on the screw convention that the profile's
// v=0 line sits at angle 2πz/pitch for a right-handed single-start
// sweep centered on the origin.
func (k *SdfxKernel) ThreadSweep(p *kernel.Profile, spec kernel.HelixSpec) (kernel.Solid, error) {
	if spec.Pitch <= 0 {
		return nil, fmt.Errorf("thread sweep: pitch must be positive, got %g", spec.Pitch)
	}
	if spec.Height <= 0 {
		return nil, fmt.Errorf("thread sweep: height must be positive, got %g", spec.Height)
	}
	main, err := screwSection(p, spec.Height, spec.Pitch)
	if err != nil {
		return nil, fmt.Errorf("thread sweep: %w", err)
	}
	// Bring the groove phase at the top plane to +x, then put the top
	// plane at z=0.
	main = rotateZ3(main, -2*math.Pi*(spec.Height/2)/spec.Pitch)
	main = translate3(main, 0, 0, -main.BoundingBox().Max.Z)

	s := main
	if spec.LeadOutHeight > 0 {
		lead, err := screwSection(p.Shift(spec.LeadOutShift/2, 0), spec.LeadOutHeight, spec.Pitch)
		if err != nil {
			return nil, fmt.Errorf("thread sweep runout: %w", err)
		}
		// Align the runout's bottom phase with the main sweep's top,
		// raise its bottom plane to z=0, and drift the helix center so
		// the groove spirals outward to a vanish point.
		lead = rotateZ3(lead, 2*math.Pi*(spec.LeadOutHeight/2)/spec.Pitch)
		lead = translate3(lead, 0, 0, -lead.BoundingBox().Min.Z)
		lead = translate3(lead, -spec.LeadOutShift/2, 0, 0)
		s = sdf.Union3D(s, lead)
	}
	if spec.Taper != 0 {
		s = newRadialTaper(s, spec.Taper)
	}
	return wrap(s), nil
}

// screwSection builds one helical sweep of the profile, centered on the
// origin, with no taper.
func screwSection(p *kernel.Profile, height, pitch float64) (sdf.SDF3, error) {
	poly, err := polygon2D(p)
	if err != nil {
		return nil, err
	}
	return sdf.Screw3D(poly, height, 0, pitch, 1)
}

// radialTaper shrinks an SDF3 radially by slope per unit z, so a thread
// form narrows toward -z. The z reference travels with the solid under
// later transforms.
type radialTaper struct {
	s     sdf.SDF3
	slope float64
	bb    sdf.Box3
}

func newRadialTaper(s sdf.SDF3, slope float64) sdf.SDF3 {
	bb := s.BoundingBox()
	grow := math.Abs(slope) * math.Max(math.Abs(bb.Min.Z), math.Abs(bb.Max.Z))
	bb.Min.X -= grow
	bb.Min.Y -= grow
	bb.Max.X += grow
	bb.Max.Y += grow
	return &radialTaper{s: s, slope: slope, bb: bb}
}

func (t *radialTaper) Evaluate(p v3.Vec) float64 {
	r := math.Hypot(p.X, p.Y)
	rEval := math.Max(r-t.slope*p.Z, 0)
	if r < 1e-12 {
		return t.s.Evaluate(v3.Vec{X: rEval, Y: 0, Z: p.Z})
	}
	k := rEval / r
	return t.s.Evaluate(v3.Vec{X: p.X * k, Y: p.Y * k, Z: p.Z})
}

func (t *radialTaper) BoundingBox() sdf.Box3 {
	return t.bb
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(translate3(unwrap(s), x, y, z))
}

// RotateZ rotates a solid around the z axis by the given degrees.
func (k *SdfxKernel) RotateZ(s kernel.Solid, degrees float64) kernel.Solid {
	return wrap(rotateZ3(unwrap(s), degrees*math.Pi/180.0))
}

// MirrorXZ reflects a solid across the XZ plane (y -> -y). Thread
// engines use it to turn right-handed sweeps into left-handed ones.
func (k *SdfxKernel) MirrorXZ(s kernel.Solid) kernel.Solid {
	inner := unwrap(s)
	bb := inner.BoundingBox()
	return wrap(&mirrorY{
		s: inner,
		bb: sdf.Box3{
			Min: v3.Vec{X: bb.Min.X, Y: -bb.Max.Y, Z: bb.Min.Z},
			Max: v3.Vec{X: bb.Max.X, Y: -bb.Min.Y, Z: bb.Max.Z},
		},
	})
}

// mirrorY is an SDF3 reflected across the XZ plane. Reflection is an
// isometry, so distances stay exact.
type mirrorY struct {
	s  sdf.SDF3
	bb sdf.Box3
}

func (m *mirrorY) Evaluate(p v3.Vec) float64 {
	return m.s.Evaluate(v3.Vec{X: p.X, Y: -p.Y, Z: p.Z})
}

func (m *mirrorY) BoundingBox() sdf.Box3 {
	return m.bb
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
