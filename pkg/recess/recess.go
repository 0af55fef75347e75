// Package recess builds drive recess cutting tools: hexagon socket,
// cross (Phillips type H), hexalobular (Torx style), and plain slot.
// A tool's solid is subtracted from a head blank to sink the socket;
// its shell carries the socket wall faces with the buried top face
// omitted, so hosts can graft the socket onto a head shell.
//
// Tools are modeled with the penetration reference plane at z=0 and
// the socket volume below it, overshooting upward by a fixed clearance
// so boolean cuts clear the head surface. Finished solids are memoized
// by their dimensions. Placement height is not part of a tool's
// identity: every call, hit or miss, returns the solid translated to
// the requested height.
package recess

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// clearance is how far every tool extends above the reference plane.
const clearance = 1.0

// faceEps is the tolerance for matching planar faces at a known height.
const faceEps = 1e-7

// Tool is one drive recess cutter, placed at its requested height.
type Tool struct {
	Solid kernel.Solid
	Shell *kernel.Shell
}

// Factory builds recess tools on a kernel, memoizing finished solids.
type Factory struct {
	k     kernel.Kernel
	log   *zap.Logger
	tools *cache.Cache[kernel.Solid]
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the factory logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(f *Factory) { f.log = log }
}

// NewFactory returns a recess tool factory over the kernel.
func NewFactory(k kernel.Kernel, opts ...Option) *Factory {
	f := &Factory{
		k:     k,
		log:   zap.NewNop(),
		tools: cache.New[kernel.Solid](),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CacheStats returns the tool cache counters.
func (f *Factory) CacheStats() cache.Stats {
	return f.tools.Stats()
}

// tool assembles the placed Tool from a reference-plane solid, its face
// inventory, and the height of the face left open on the shell.
func (f *Factory) tool(solid kernel.Solid, faces []kernel.Face, topZ, h float64) *Tool {
	sh := kernel.NewShell(solid, faces, kernel.PlanarAt(topZ, faceEps))
	placed := solid
	if h != 0 {
		placed = f.k.Translate(solid, 0, 0, h)
		sh = sh.ShiftZ(placed, h)
	}
	return &Tool{Solid: placed, Shell: sh}
}

// roundoverProfile is the revolve section of the floor round-over tool
// shared by the socket and hexalobular recesses: an oversize barrel
// whose top surface slopes from the rim down to a drill-point apex,
// blended into the axis by an arc so the cut floor comes out smoothly
// rounded. point is the drill-point allowance below the socket depth,
// bottom the barrel underside.
func roundoverProfile(barrel, point, depth, bottom float64) (*kernel.Profile, error) {
	rCone := barrel / 4
	hyp := point * math.Sqrt(barrel*barrel/(point*point)+1) * rCone / barrel
	radBeta := math.Pi/2 - math.Atan(barrel/point)
	zCenter := hyp - point - depth
	return kernel.NewProfile().
		MoveTo(0, bottom).
		LineTo(barrel, bottom).
		LineTo(barrel, -depth+point).
		LineTo(math.Sin(radBeta)*rCone, zCenter-math.Cos(radBeta)*rCone).
		ArcTo(math.Sin(radBeta/2)*rCone, zCenter-math.Cos(radBeta/2)*rCone, 0, zCenter-rCone).
		Close()
}

// floorFaces selects the round-over faces that survive on a finished
// tool. The oversize barrel and its underside are consumed by the cut;
// everything else forms the rounded floor.
func floorFaces(p *kernel.Profile, barrel float64) []kernel.Face {
	var out []kernel.Face
	for _, fc := range kernel.RevolveFaces(p) {
		if fc.Class == kernel.FacePlanar {
			continue
		}
		if fc.Class == kernel.FaceCylindrical && fc.RMax >= barrel-faceEps {
			continue
		}
		out = append(out, fc)
	}
	return out
}
