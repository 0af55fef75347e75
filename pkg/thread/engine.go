package thread

import (
	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// DefaultSweepRadiusPPT is the default radial tuning for internal
// thread sweeps, in parts per thousand of the nominal diameter. 510
// widens the sweep radius by 2 percent over d/2, giving working
// clearance between printed mating parts.
const DefaultSweepRadiusPPT = 510.0

// Engine builds thread geometry on a kernel. Finished solids are
// memoized by their construction parameters, so repeated requests for
// the same form are served from the cache.
type Engine struct {
	k      kernel.Kernel
	log    *zap.Logger
	solids *cache.Cache[kernel.Solid]

	sweepPPT   float64
	leftHanded bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSweepRadiusPPT tunes the internal thread sweep radius in parts
// per thousand of the nominal diameter. External threads are not
// affected.
func WithSweepRadiusPPT(ppt float64) Option {
	return func(e *Engine) { e.sweepPPT = ppt }
}

// WithLeftHanded makes the engine mirror finished thread solids into
// left-handed forms.
func WithLeftHanded(on bool) Option {
	return func(e *Engine) { e.leftHanded = on }
}

// NewEngine returns a thread engine over the kernel.
func NewEngine(k kernel.Kernel, opts ...Option) *Engine {
	e := &Engine{
		k:        k,
		log:      zap.NewNop(),
		solids:   cache.New[kernel.Solid](),
		sweepPPT: DefaultSweepRadiusPPT,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CacheStats returns the solid cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.solids.Stats()
}

// LeftHanded reports whether the engine mirrors its output.
func (e *Engine) LeftHanded() bool {
	return e.leftHanded
}

// internalRadius returns the sweep radius for internal thread forms of
// nominal diameter d, with the parts-per-thousand tuning applied.
func (e *Engine) internalRadius(d float64) float64 {
	return d * e.sweepPPT / 1000
}

// handed mirrors a finished right-handed solid when the engine is
// configured for left-handed threads.
func (e *Engine) handed(s kernel.Solid) kernel.Solid {
	if e.leftHanded {
		return e.k.MirrorXZ(s)
	}
	return s
}
