package fastener

import "github.com/chazu/mandrel/pkg/thread"

// Config carries the knobs that shape every part a factory builds. It
// is a plain value: copy it, change a field, build a new factory. A
// running factory never observes later edits.
type Config struct {
	// SweepRadiusPPT positions internal thread crests, in parts per
	// thousand of the nominal diameter. 500 is the exact flank
	// profile; the default leaves ten parts of assembly clearance.
	SweepRadiusPPT float64

	// LeftHanded mirrors every helix.
	LeftHanded bool

	// PrintMode rescales resolved thread diameters to compensate for
	// fused-filament shrinkage. Screws and nuts carry independent
	// coefficients since holes and pins distort differently.
	PrintMode   bool
	ScrewScaleA float64
	ScrewScaleB float64
	NutScaleA   float64
	NutScaleB   float64
}

// DefaultConfig returns the configuration for true-to-standard parts:
// right-handed threads, no print compensation.
func DefaultConfig() Config {
	return Config{
		SweepRadiusPPT: thread.DefaultSweepRadiusPPT,
		ScrewScaleA:    1.0,
		ScrewScaleB:    0.0,
		NutScaleA:      1.0,
		NutScaleB:      0.0,
	}
}
