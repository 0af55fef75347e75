package recess

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/mandrel/pkg/cache"
	"github.com/chazu/mandrel/pkg/kernel"
)

// SocketTool builds a hexagon socket cutter with width across flats af
// and socket depth below the reference plane. With boreDepth zero the
// floor ends in a rounded drill point. A positive boreDepth instead
// sinks a center relief bore of radius af/3 to that depth, joined to
// the hex walls by a 30 degree shoulder; it must reach below the
// socket floor.
func (f *Factory) SocketTool(af, depth, boreDepth, h float64) (*Tool, error) {
	if af <= 0 || depth <= 0 {
		return nil, kernel.Constructf("socket tool", "need positive dimensions, got af=%g depth=%g", af, depth)
	}
	if boreDepth != 0 && boreDepth <= depth {
		return nil, kernel.Constructf("socket tool", "relief bore must reach below the socket floor: depth=%g boreDepth=%g", depth, boreDepth)
	}

	eCham := 2 * af / math.Sqrt(3)
	var floorProf *kernel.Profile
	var hexBottom float64
	var err error
	if boreDepth == 0 {
		point := af / 3
		hexBottom = -depth - 1.1*point
		floorProf, err = roundoverProfile(eCham, point, depth, -depth-2*point)
	} else {
		hexBottom = -boreDepth - 1.1*(af/3)*math.Tan(math.Pi/6)
		floorProf, err = reliefProfile(af, depth, boreDepth)
	}
	if err != nil {
		return nil, kernel.Construct("socket floor profile", err)
	}
	hexProf, err := hexProfile(af)
	if err != nil {
		return nil, kernel.Construct("socket hexagon", err)
	}
	hexHeight := clearance - hexBottom

	key := cache.NewKey("socket-tool", af, depth, boreDepth)
	solid, err := f.tools.GetOrBuild(key, func() (kernel.Solid, error) {
		hex, err := f.k.Extrude(hexProf, hexHeight)
		if err != nil {
			return nil, kernel.Construct("socket hexagon extrude", err)
		}
		hex = f.k.Translate(hex, 0, 0, (clearance+hexBottom)/2)
		floor, err := f.k.Revolve(floorProf)
		if err != nil {
			return nil, kernel.Construct("socket floor revolve", err)
		}
		f.log.Debug("built socket tool",
			zap.Float64("af", af),
			zap.Float64("depth", depth),
			zap.Float64("boreDepth", boreDepth))
		return f.k.Difference(hex, floor), nil
	})
	if err != nil {
		return nil, err
	}

	faces := make([]kernel.Face, 0, 10)
	for _, fc := range kernel.ExtrudeFaces(hexProf, hexHeight) {
		fc = fc.ShiftZ((clearance + hexBottom) / 2)
		if kernel.PlanarAt(hexBottom, faceEps)(fc) {
			continue
		}
		faces = append(faces, fc)
	}
	faces = append(faces, floorFaces(floorProf, eCham)...)
	return f.tool(solid, faces, clearance, h), nil
}

// reliefProfile is the revolve section of the center-bore floor tool:
// a 30 degree shoulder runs from the oversize barrel down to the
// relief bore, whose bottom ends in a 120 degree point.
func reliefProfile(af, depth, boreDepth float64) (*kernel.Profile, error) {
	eCham := 2 * af / math.Sqrt(3)
	dCent := af / 3
	depthCent := dCent * math.Tan(math.Pi/6)
	depthCham := (eCham - dCent) * math.Tan(math.Pi/6)
	return kernel.NewProfile().
		MoveTo(0, -boreDepth-depthCent).
		LineTo(0, -boreDepth-2*depthCent).
		LineTo(eCham, -boreDepth-2*depthCent).
		LineTo(eCham, -depth+depthCham).
		LineTo(dCent, -depth).
		LineTo(dCent, -boreDepth).
		Close()
}

// hexProfile is a regular hexagon with width across flats af and one
// vertex on the +x axis.
func hexProfile(af float64) (*kernel.Profile, error) {
	rv := af / math.Sqrt(3)
	b := kernel.NewProfile().MoveTo(rv, 0)
	for i := 1; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		b = b.LineTo(rv*math.Cos(a), rv*math.Sin(a))
	}
	return b.Close()
}
