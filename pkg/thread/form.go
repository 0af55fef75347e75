// Package thread builds ISO 60 degree metric thread geometry: helical
// groove cutters for external threads, taps and bore negatives for
// internal threads, and tapered wood screw threads.
//
// Profiles are drawn in (u, v) coordinates where u is the radius from
// the screw axis and v runs along the axis. All builders produce
// right-handed forms; the engine mirrors finished solids for
// left-handed output.
package thread

import (
	"math"

	"github.com/chazu/mandrel/pkg/kernel"
)

// Form holds the quantities derived from a thread pitch for the ISO
// 60 degree profile.
type Form struct {
	Pitch  float64
	Height float64 // fundamental triangle height, sqrt(3)/2 * pitch
}

// NewForm derives the form quantities for a pitch.
func NewForm(pitch float64) Form {
	return Form{
		Pitch:  pitch,
		Height: math.Sqrt(3) / 2 * pitch,
	}
}

// FilletRadius returns the root fillet radius, pitch*sqrt(3)/12.
func (f Form) FilletRadius() float64 {
	return f.Pitch * math.Sqrt(3) / 12
}

// DepthExternal returns the radial engagement of an external thread,
// 5/8 of the fundamental height.
func (f Form) DepthExternal() float64 {
	return 0.625 * f.Height
}

// MinBoreDiameter returns the smallest drill diameter that leaves
// enough wall for an internal thread of nominal diameter d.
func MinBoreDiameter(d, pitch float64) float64 {
	return d - 1.25*NewForm(pitch).Height + 0.001
}

// ExternalCutterProfile returns the closed section of the helical
// groove cut into a shank of major diameter d. The flanks meet the
// 60 degree form, the root carries the standard fillet, and the crest
// side overshoots the major radius so the boolean cut is clean.
func ExternalCutterProfile(d, pitch float64) (*kernel.Profile, error) {
	f := NewForm(pitch)
	outer := d/2 + math.Sqrt(3)*(3.0/80.0)*pitch
	root := d/2 - f.DepthExternal()
	fillet := f.FilletRadius()
	return kernel.NewProfile().
		MoveTo(outer, 0.475*pitch).
		LineTo(root, pitch/8).
		ArcTo(root-fillet/2, 0, root, -pitch/8).
		LineTo(outer, -0.475*pitch).
		Close()
}

// InternalToothProfile returns the groove section cut into a tap
// blank of major radius r. Its shape equals the tooth of the mating
// nut: a P/4 root flat at the minor radius and a rounded crest that
// dips just past the major radius.
func InternalToothProfile(r, pitch float64) (*kernel.Profile, error) {
	f := NewForm(pitch)
	minor := r - f.DepthExternal()
	return kernel.NewProfile().
		MoveTo(r, 0).
		LineTo(minor, -5*pitch/16).
		LineTo(minor, -9*pitch/16).
		LineTo(r, -14*pitch/16).
		ArcTo(r+f.Height/24, -31*pitch/32, r, -pitch).
		Close()
}

// InternalCutterProfile returns the tooth section swept to cut an
// internal thread into a bored blank. Its shape equals the material
// between two nut teeth, shifted down one pitch so the sweep starts
// below the bore mouth.
func InternalCutterProfile(r, pitch float64) (*kernel.Profile, error) {
	f := NewForm(pitch)
	minor := r - f.DepthExternal()
	p, err := kernel.NewProfile().
		MoveTo(minor, 7*pitch/16).
		LineTo(r, 2*pitch/16).
		ArcTo(r+f.Height/24, pitch/16, r, 0).
		LineTo(minor, -5*pitch/16).
		Close()
	if err != nil {
		return nil, err
	}
	return p.Shift(0, -pitch), nil
}

// WoodToothProfile returns the sharp V section of a wood screw thread
// between root radius ri and crest radius ro. The base sinks epsilon
// into the core so the sweep fuses without a seam.
func WoodToothProfile(ri, ro float64) (*kernel.Profile, error) {
	const epsilon = 0.03
	tph := ro - ri
	tphb := tph / math.Tan(60*math.Pi/180)
	return kernel.NewProfile().
		MoveTo(ri-epsilon, tphb).
		LineTo(ro, 0).
		LineTo(ri-epsilon, -tphb).
		Close()
}
