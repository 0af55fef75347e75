// Package kernel defines the abstract geometry kernel interface used by
// the thread and recess engines. Implementations (sdfx today, others
// later) provide profile-based solid construction and boolean operations
// behind this interface, so the fastener algorithms never touch a
// concrete modeling library.
//
// Coordinate conventions: all fastener geometry is built around the z
// axis. Profiles are planar curves in an abstract (u, v) plane; Revolve
// and ThreadSweep read u as absolute radius from the z axis and v as
// axial position, Extrude and Prism read (u, v) as (x, y).
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Contains reports whether the point lies inside the solid
	// (boundary points count as inside).
	Contains(p [3]float64) bool
}

// HelixSpec describes a helical sweep path. The swept profile advances
// Pitch per full turn around the z axis; the resulting solid spans
// z in [-Height, 0] with the groove phase at z=0 aligned with +x.
//
// A positive LeadOutHeight appends a runout turn above z=0 whose helix
// center drifts LeadOutShift away from the groove end, so the swept
// groove spirals outward to a vanish point instead of stopping at a
// knife edge. Taper shrinks the effective profile radius linearly with
// depth below z=0, in radius units per unit z; a form of radius r
// vanishes at z = -r/Taper.
//
// Sweeps are always right-handed; use MirrorXZ for left-handed forms.
type HelixSpec struct {
	Pitch         float64
	Height        float64
	LeadOutHeight float64
	LeadOutShift  float64
	Taper         float64
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Profile construction. Revolve sweeps a closed profile a full turn
	// around the z axis. Extrude sweeps it along z over [-height/2,
	// height/2]. Prism sweeps it along an arbitrary direction vector
	// with sections kept parallel to the xy plane (a sheared prism).
	// ThreadSweep sweeps it along a helical path per HelixSpec.
	Revolve(p *Profile) (Solid, error)
	Extrude(p *Profile, height float64) (Solid, error)
	Prism(p *Profile, dir [3]float64) (Solid, error)
	ThreadSweep(p *Profile, spec HelixSpec) (Solid, error)

	// Boolean operations.
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms.
	Translate(s Solid, x, y, z float64) Solid
	RotateZ(s Solid, degrees float64) Solid
	MirrorXZ(s Solid) Solid

	// Mesh output.
	ToMesh(s Solid) (*Mesh, error)
}
