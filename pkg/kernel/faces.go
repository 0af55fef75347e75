package kernel

import "math"

// axisEps is the radius below which a profile segment is considered to
// lie on the revolution axis and produces no face.
const axisEps = 1e-9

// FaceClass is the geometric class of an analytic boundary face.
type FaceClass int

const (
	FacePlanar FaceClass = iota
	FaceCylindrical
	FaceConical
	FaceToroidal
	FaceHelical
)

func (c FaceClass) String() string {
	switch c {
	case FacePlanar:
		return "planar"
	case FaceCylindrical:
		return "cylindrical"
	case FaceConical:
		return "conical"
	case FaceToroidal:
		return "toroidal"
	case FaceHelical:
		return "helical"
	}
	return "unknown"
}

// Face describes one boundary face of a constructed solid, derived
// analytically from the generating profile. Faces are selected by
// geometric predicates, never by positional indices: kernel-assigned
// face ordering is not a stable contract.
type Face struct {
	Class      FaceClass
	ZMin, ZMax float64
	RMin, RMax float64
}

// Planar reports whether the face is flat.
func (f Face) Planar() bool { return f.Class == FacePlanar }

// ShiftZ returns the face translated axially by dz.
func (f Face) ShiftZ(dz float64) Face {
	f.ZMin += dz
	f.ZMax += dz
	return f
}

// FacePredicate selects faces by geometric role.
type FacePredicate func(Face) bool

// PlanarAt matches flat faces centered on the plane z within tol.
func PlanarAt(z, tol float64) FacePredicate {
	return func(f Face) bool {
		if f.Class != FacePlanar {
			return false
		}
		center := (f.ZMin + f.ZMax) / 2
		return math.Abs(center-z) <= tol
	}
}

// Not inverts a predicate.
func Not(pred FacePredicate) FacePredicate {
	return func(f Face) bool { return !pred(f) }
}

// RevolveFaces derives the face inventory of a profile revolved around
// the z axis: one face per boundary segment, classified by the segment
// direction. Segments on the axis produce no face.
func RevolveFaces(p *Profile) []Face {
	const dirEps = 1e-9
	var faces []Face
	for _, s := range p.Segments() {
		if math.Abs(s.From.U) < axisEps && math.Abs(s.To.U) < axisEps {
			continue
		}
		f := Face{
			ZMin: math.Min(s.From.V, s.To.V),
			ZMax: math.Max(s.From.V, s.To.V),
			RMin: math.Min(s.From.U, s.To.U),
			RMax: math.Max(s.From.U, s.To.U),
		}
		switch {
		case s.Kind == SegArc:
			f.Class = FaceToroidal
			f.ZMin = math.Min(f.ZMin, s.Mid.V)
			f.ZMax = math.Max(f.ZMax, s.Mid.V)
			f.RMin = math.Min(f.RMin, s.Mid.U)
			f.RMax = math.Max(f.RMax, s.Mid.U)
		case math.Abs(s.To.V-s.From.V) < dirEps:
			f.Class = FacePlanar
		case math.Abs(s.To.U-s.From.U) < dirEps:
			f.Class = FaceCylindrical
		default:
			f.Class = FaceConical
		}
		faces = append(faces, f)
	}
	return faces
}

// SweepFaces derives the face inventory of a helical sweep spanning
// [zMin, zMax]: every profile segment becomes a helical band.
func SweepFaces(p *Profile, zMin, zMax float64) []Face {
	var faces []Face
	for _, s := range p.Segments() {
		f := Face{
			Class: FaceHelical,
			ZMin:  zMin,
			ZMax:  zMax,
			RMin:  math.Min(s.From.U, s.To.U),
			RMax:  math.Max(s.From.U, s.To.U),
		}
		if s.Kind == SegArc {
			f.RMin = math.Min(f.RMin, s.Mid.U)
			f.RMax = math.Max(f.RMax, s.Mid.U)
		}
		faces = append(faces, f)
	}
	return faces
}

// ExtrudeFaces derives the face inventory of a profile extruded over
// [-height/2, height/2]: one wall per segment plus two planar caps.
func ExtrudeFaces(p *Profile, height float64) []Face {
	half := height / 2
	var faces []Face
	rMax := 0.0
	for _, s := range p.Segments() {
		rFrom := math.Hypot(s.From.U, s.From.V)
		rTo := math.Hypot(s.To.U, s.To.V)
		f := Face{
			ZMin: -half,
			ZMax: half,
			RMin: math.Min(rFrom, rTo),
			RMax: math.Max(rFrom, rTo),
		}
		if s.Kind == SegArc {
			f.Class = FaceCylindrical
			f.RMax = math.Max(f.RMax, math.Hypot(s.Mid.U, s.Mid.V))
		} else {
			f.Class = FacePlanar
		}
		rMax = math.Max(rMax, f.RMax)
		faces = append(faces, f)
	}
	caps := []Face{
		{Class: FacePlanar, ZMin: -half, ZMax: -half, RMin: 0, RMax: rMax},
		{Class: FacePlanar, ZMin: half, ZMax: half, RMin: 0, RMax: rMax},
	}
	return append(faces, caps...)
}

// Shell is an open boundary: a solid together with the subset of its
// analytic faces that belong to the open surface. Omitted faces were
// removed from the closed boundary so the shell can be merged with a
// neighboring shell without a double wall.
type Shell struct {
	Solid   Solid
	Faces   []Face
	Omitted []Face
}

// NewShell partitions faces by the omit predicate and returns the
// resulting open shell over the solid.
func NewShell(s Solid, faces []Face, omit FacePredicate) *Shell {
	sh := &Shell{Solid: s}
	for _, f := range faces {
		if omit != nil && omit(f) {
			sh.Omitted = append(sh.Omitted, f)
		} else {
			sh.Faces = append(sh.Faces, f)
		}
	}
	return sh
}

// Select returns the shell faces matching the predicate.
func (sh *Shell) Select(pred FacePredicate) []Face {
	var out []Face
	for _, f := range sh.Faces {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// FaceCount returns the number of faces on the open shell.
func (sh *Shell) FaceCount() int { return len(sh.Faces) }

// ShiftZ returns a copy of the shell with every face translated axially
// by dz. The caller is responsible for translating the solid itself.
func (sh *Shell) ShiftZ(solid Solid, dz float64) *Shell {
	out := &Shell{
		Solid:   solid,
		Faces:   make([]Face, len(sh.Faces)),
		Omitted: make([]Face, len(sh.Omitted)),
	}
	for i, f := range sh.Faces {
		out.Faces[i] = f.ShiftZ(dz)
	}
	for i, f := range sh.Omitted {
		out.Omitted[i] = f.ShiftZ(dz)
	}
	return out
}
