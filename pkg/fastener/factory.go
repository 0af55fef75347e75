// Package fastener assembles complete threaded parts from dimension
// tables: screws, nuts, rods and taps addressed by standard number and
// size code. It sits on top of the thread and recess engines and is
// the surface scripts and hosts talk to.
package fastener

import (
	"sort"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/chazu/mandrel/pkg/recess"
	"github.com/chazu/mandrel/pkg/thread"
)

// Request names one part to build. Size takes a tabulated code like
// "M5" or a literal diameter; Length is metric by default, imperial
// with an "in" suffix. Drive overrides the drive geometry the head
// table assigns, for families that take one. Pitch overrides the
// tabulated coarse pitch when non-zero.
type Request struct {
	Type   string
	Size   string
	Length string
	Drive  string
	Pitch  float64
}

// Builder constructs one fastener family.
type Builder interface {
	Build(f *Factory, req Request) (kernel.Solid, error)
}

// Factory resolves requests against dimension tables and drives the
// geometry engines. All derived solids are memoized inside the
// engines, so a factory is cheap to ask twice.
type Factory struct {
	cfg      Config
	tables   *Tables
	log      *zap.Logger
	k        kernel.Kernel
	threads  *thread.Engine
	recesses *recess.Factory
	builders map[string]Builder
}

// Option configures a Factory.
type Option func(*Factory)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(f *Factory) { f.cfg = cfg }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(f *Factory) { f.log = log }
}

// WithTables replaces the embedded dimension tables.
func WithTables(t *Tables) Option {
	return func(f *Factory) { f.tables = t }
}

// New builds a factory over the given kernel with every standard
// builder registered.
func New(k kernel.Kernel, opts ...Option) *Factory {
	f := &Factory{
		cfg:    DefaultConfig(),
		tables: DefaultTables(),
		log:    zap.NewNop(),
		k:      k,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.threads = thread.NewEngine(k,
		thread.WithLogger(f.log.Named("thread")),
		thread.WithSweepRadiusPPT(f.cfg.SweepRadiusPPT),
		thread.WithLeftHanded(f.cfg.LeftHanded))
	f.recesses = recess.NewFactory(k, recess.WithLogger(f.log.Named("recess")))

	f.builders = map[string]Builder{
		"ISO7045":  panHeadScrew{},
		"ISO4026":  setScrew{},
		"ISO4032":  hexNut{},
		"DIN571":   woodScrew{},
		"DIN976":   threadedRod{},
		"ScrewTap": screwTap{},
	}
	return f
}

// Build dispatches a request to its registered builder.
func (f *Factory) Build(req Request) (kernel.Solid, error) {
	b, ok := f.builders[req.Type]
	if !ok {
		return nil, &ParameterError{Param: "type", Value: req.Type, Msg: "no builder registered"}
	}
	f.log.Debug("building fastener",
		zap.String("type", req.Type),
		zap.String("size", req.Size),
		zap.String("length", req.Length),
		zap.String("drive", req.Drive))
	return b.Build(f, req)
}

// Types lists the registered builder tags in sorted order.
func (f *Factory) Types() []string {
	tags := make([]string, 0, len(f.builders))
	for tag := range f.builders {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Config returns the configuration the factory was built with.
func (f *Factory) Config() Config { return f.cfg }

// Kernel returns the geometry kernel the factory builds on.
func (f *Factory) Kernel() kernel.Kernel { return f.k }

// Threads exposes the underlying thread engine.
func (f *Factory) Threads() *thread.Engine { return f.threads }

// Recesses exposes the underlying recess factory.
func (f *Factory) Recesses() *recess.Factory { return f.recesses }

// pitchFor picks the pitch for a request: an explicit override wins,
// otherwise the tabulated coarse pitch.
func pitchFor(req Request, tabulated float64) float64 {
	if req.Pitch > 0 {
		return req.Pitch
	}
	return tabulated
}
