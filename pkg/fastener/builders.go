package fastener

import (
	"math"
	"strings"

	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/chazu/mandrel/pkg/recess"
	"github.com/chazu/mandrel/pkg/thread"
)

// All builders share the same frame: the bearing surface of the part
// lies in the z=0 plane, heads grow upward and shanks downward, and
// the requested length is measured under the head.

// resolvePitch picks the pitch for families that accept literal
// diameters: an explicit override wins, a tabulated size supplies its
// coarse pitch, and a bare literal diameter must bring its own.
func (f *Factory) resolvePitch(req Request) (float64, error) {
	if req.Pitch > 0 {
		return req.Pitch, nil
	}
	if row, ok := f.tables.Diameters[req.Size]; ok {
		return row.Pitch, nil
	}
	return 0, &ParameterError{Param: "pitch", Value: req.Size, Msg: "literal sizes need an explicit pitch"}
}

// panHeadScrew builds ISO 7045 pan head machine screws. The dome is a
// spherical cap blended into a cylindrical rim, the shank is threaded
// up to the tabulated limit b, and the drive recess is cut where the
// dome reaches the recess diameter.
type panHeadScrew struct{}

func (panHeadScrew) Build(f *Factory, req Request) (kernel.Solid, error) {
	row, err := f.tables.PanHead(req.Size)
	if err != nil {
		return nil, err
	}
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, false)
	if err != nil {
		return nil, err
	}
	length, err := ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	pitch := pitchFor(req, row.P)
	if length <= row.R+2*pitch {
		return nil, &ParameterError{Param: "length", Value: req.Length, Msg: "too short to thread under the head"}
	}

	threadLen := length - row.R
	if threadLen > row.B {
		threadLen = row.B
	}
	shank, err := f.threads.BuildShellThread(d, length, threadLen, pitch, true, 0)
	if err != nil {
		return nil, err
	}

	// Dome cap of radius rf spanning the head diameter, a straight rim
	// down to the bearing plane, and a fillet easing into the shank.
	beta := math.Asin(row.Dk / 2 / row.Rf)
	he := row.K - row.Rf + row.Dk/2/math.Tan(beta)
	prof, err := kernel.NewProfile().
		MoveTo(0, row.K).
		ArcTo(row.Rf*math.Sin(beta/2), row.K-row.Rf+row.Rf*math.Cos(beta/2), row.Dk/2, he).
		LineTo(row.Dk/2, 0).
		LineTo(d/2+row.R, 0).
		ArcTo(d/2+row.R-row.R/math.Sqrt2, -row.R+row.R/math.Sqrt2, d/2, -row.R).
		LineTo(0, -row.R).
		Close()
	if err != nil {
		return nil, kernel.Construct("pan head profile", err)
	}
	head, err := f.k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("pan head revolve", err)
	}

	tool, err := panHeadDrive(f, req.Drive, row)
	if err != nil {
		return nil, err
	}
	body := f.k.Union(head, shank.Solid)
	return f.k.Difference(body, tool.Solid), nil
}

// panHeadDrive cuts the drive the head row assigns, or the one the
// request overrides it with.
func panHeadDrive(f *Factory, code string, row PanHeadRow) (*recess.Tool, error) {
	if code == "" {
		code = row.Cross
	}
	switch {
	case code == "slot":
		return f.recesses.SlotTool(row.SlotWidth, row.SlotDepth, row.Dk+1, row.K)
	case strings.HasPrefix(code, "H"):
		cr, err := f.tables.Cross(code)
		if err != nil {
			return nil, err
		}
		if row.CrossM >= 2*row.Rf {
			return nil, &ParameterError{Param: "drive", Value: code, Msg: "cross penetration wider than the head dome"}
		}
		// Seat the recess where the dome diameter equals the
		// penetration diameter m.
		hcr := row.K - row.Rf + math.Sqrt(row.Rf*row.Rf-row.CrossM*row.CrossM/4)
		spec := recess.CrossSpec{B: cr.B, EMean: cr.E, G: cr.G, Alpha: cr.Alpha, Beta: cr.Beta}
		return f.recesses.CrossTool(spec, row.CrossM, hcr)
	case strings.HasPrefix(code, "T"):
		lr, err := f.tables.Lobe(code)
		if err != nil {
			return nil, err
		}
		spec := recess.HexalobularSpec{A: lr.A, B: lr.B, Re: lr.Re}
		return f.recesses.HexalobularTool(spec, row.LobeT, row.K)
	}
	return nil, &ParameterError{Param: "drive", Value: code, Msg: `want a cross number, a T number, or "slot"`}
}

// setScrew builds ISO 4026 hexagon socket set screws with flat point.
// The body is a single revolve with both end chamfers, threaded over
// its whole length, with the socket sunk into the top face.
type setScrew struct{}

func (setScrew) Build(f *Factory, req Request) (kernel.Solid, error) {
	row, err := f.tables.SetScrew(req.Size)
	if err != nil {
		return nil, err
	}
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, false)
	if err != nil {
		return nil, err
	}
	length, err := ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	pitch := pitchFor(req, row.P)
	if row.Df >= d || row.Dp >= d {
		return nil, &ParameterError{Param: "size", Value: req.Size, Msg: "face diameters must stay under the thread diameter"}
	}
	topCham := (d - row.Df) / 2
	tipCham := (d - row.Dp) / 2
	if length <= row.T+pitch || length <= topCham+tipCham+pitch {
		return nil, &ParameterError{Param: "length", Value: req.Length, Msg: "too short for its socket and point"}
	}

	prof, err := kernel.NewProfile().
		MoveTo(0, 0).
		LineTo(row.Df/2, 0).
		LineTo(d/2, -topCham).
		LineTo(d/2, -length+tipCham).
		LineTo(row.Dp/2, -length).
		LineTo(0, -length).
		Close()
	if err != nil {
		return nil, kernel.Construct("set screw profile", err)
	}
	body, err := f.k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("set screw revolve", err)
	}

	cutter, err := f.threads.BuildCutter(d, pitch, length)
	if err != nil {
		return nil, err
	}
	socket, err := f.recesses.SocketTool(row.S, row.T-1, 0, 0)
	if err != nil {
		return nil, err
	}
	threaded := f.k.Difference(body, cutter.Solid)
	return f.k.Difference(threaded, socket.Solid), nil
}

// hexNut builds ISO 4032 hexagon nuts: a revolved blank with corner
// chamfer cones on both faces, shaved to flats, with the threaded bore
// cut through.
type hexNut struct{}

func (hexNut) Build(f *Factory, req Request) (kernel.Solid, error) {
	row, err := f.tables.Nut(req.Size)
	if err != nil {
		return nil, err
	}
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, true)
	if err != nil {
		return nil, err
	}
	pitch := pitchFor(req, row.P)

	e := 2 * row.S / math.Sqrt(3)
	cc := (e - row.S) / 2
	if row.M <= 2*cc {
		return nil, &ParameterError{Param: "size", Value: req.Size, Msg: "nut too thin for its corner chamfers"}
	}
	prof, err := kernel.NewProfile().
		MoveTo(0, 0).
		LineTo(row.S/2, 0).
		LineTo(e/2, cc).
		LineTo(e/2, row.M-cc).
		LineTo(row.S/2, row.M).
		LineTo(0, row.M).
		Close()
	if err != nil {
		return nil, kernel.Construct("nut blank profile", err)
	}
	blank, err := f.k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("nut blank revolve", err)
	}

	hexCut, err := f.threads.HexBoreCutter(row.S, row.M, e+2)
	if err != nil {
		return nil, err
	}
	bore, err := f.threads.BuildNutThread(d, row.Da, pitch, row.M)
	if err != nil {
		return nil, err
	}
	flats := f.k.Difference(blank, hexCut)
	return f.k.Difference(flats, f.k.Translate(bore.Solid, 0, 0, row.M)), nil
}

// woodScrew builds DIN 571 hexagon head wood screws: a chamfered hex
// head, a smooth shank at core diameter, and a tapered wood thread
// over the lower three fifths of the length.
type woodScrew struct{}

func (woodScrew) Build(f *Factory, req Request) (kernel.Solid, error) {
	row, err := f.tables.WoodScrew(req.Size)
	if err != nil {
		return nil, err
	}
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, false)
	if err != nil {
		return nil, err
	}
	length, err := ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	pitch := pitchFor(req, row.Pitch)
	threadLen := 0.6 * length
	tip := 2 * pitch
	if threadLen <= tip+pitch {
		return nil, &ParameterError{Param: "length", Value: req.Length, Msg: "too short for its tapered tip"}
	}

	wood, err := f.threads.BuildWoodThread(d, row.Core, threadLen, tip, pitch)
	if err != nil {
		return nil, err
	}
	shankLen := length - threadLen
	shank := f.k.Translate(f.k.Cylinder(shankLen, row.Core/2), 0, 0, -shankLen/2)

	e := 2 * row.S / math.Sqrt(3)
	cc := (e - row.S) / 2
	prof, err := kernel.NewProfile().
		MoveTo(0, 0).
		LineTo(e/2, 0).
		LineTo(e/2, row.K-cc).
		LineTo(row.S/2, row.K).
		LineTo(0, row.K).
		Close()
	if err != nil {
		return nil, kernel.Construct("wood screw head profile", err)
	}
	blank, err := f.k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("wood screw head revolve", err)
	}
	hexCut, err := f.threads.HexBoreCutter(row.S, row.K, e+2)
	if err != nil {
		return nil, err
	}
	head := f.k.Difference(blank, hexCut)

	lower := f.k.Union(shank, f.k.Translate(wood, 0, 0, -shankLen))
	return f.k.Union(head, lower), nil
}

// threadedRod builds DIN 976 stud bolts: threaded over the full
// length, chamfered at both ends. The top chamfer is part of the rod
// profile; the bottom one is cut so the length comes out exact.
type threadedRod struct{}

func (threadedRod) Build(f *Factory, req Request) (kernel.Solid, error) {
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, false)
	if err != nil {
		return nil, err
	}
	pitch, err := f.resolvePitch(req)
	if err != nil {
		return nil, err
	}
	length, err := ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	cham := thread.NewForm(pitch).Height * 17.0 / 24.0
	if length <= 2*cham+2*pitch {
		return nil, &ParameterError{Param: "length", Value: req.Length, Msg: "too short for its end chamfers"}
	}

	prof, err := kernel.NewProfile().
		MoveTo(0, 0).
		LineTo(d/2-cham, 0).
		LineTo(d/2, -cham).
		LineTo(d/2, -length).
		LineTo(0, -length).
		Close()
	if err != nil {
		return nil, kernel.Construct("rod profile", err)
	}
	body, err := f.k.Revolve(prof)
	if err != nil {
		return nil, kernel.Construct("rod revolve", err)
	}

	cutter, err := f.threads.BuildCutter(d, pitch, length)
	if err != nil {
		return nil, err
	}
	bottom, err := f.threads.ChamferCutter(d, pitch, length)
	if err != nil {
		return nil, err
	}
	threaded := f.k.Difference(body, cutter.Solid)
	return f.k.Difference(threaded, bottom), nil
}

// screwTap builds the cutting tool for an internal thread, useful for
// carving a matching nut thread into arbitrary host geometry.
type screwTap struct{}

func (screwTap) Build(f *Factory, req Request) (kernel.Solid, error) {
	d, err := ResolveDiameter(f.cfg, f.tables, req.Size, true)
	if err != nil {
		return nil, err
	}
	pitch, err := f.resolvePitch(req)
	if err != nil {
		return nil, err
	}
	length, err := ParseLength(req.Length)
	if err != nil {
		return nil, err
	}
	return f.threads.BuildTap(d, pitch, length)
}
