package script

import (
	"fmt"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/mandrel/pkg/export"
	"github.com/chazu/mandrel/pkg/fastener"
	"github.com/chazu/mandrel/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms fastener script source before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: mesh-stats -> mesh_stats
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPart wraps a built part so later builtins can reference it.
type sexpPart struct {
	part *Part
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.part.Name)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toDimension renders a size or length argument in the string form the
// factory resolves: strings pass through, numbers format losslessly.
func toDimension(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpInt:
		return strconv.FormatInt(v.Val, 10), nil
	case *zygo.SexpFloat:
		return strconv.FormatFloat(v.Val, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("expected string or number, got %T (%s)", s, s.SexpString(nil))
}

// toCode extracts a drive code, accepting both "T25" and :T25 forms.
func toCode(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected drive code, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toPart extracts the part behind a reference.
func toPart(s zygo.Sexp) (*Part, error) {
	if ref, ok := s.(*sexpPart); ok {
		return ref.part, nil
	}
	return nil, fmt.Errorf("expected part reference, got %T (%s)", s, s.SexpString(nil))
}

// bboxList renders a solid's bounding box as a flat six-element list:
// min x, min y, min z, max x, max y, max z.
func bboxList(s kernel.Solid) zygo.Sexp {
	min, max := s.BoundingBox()
	vals := make([]zygo.Sexp, 0, 6)
	for _, v := range []float64{min[0], min[1], min[2], max[0], max[1], max[2]} {
		vals = append(vals, &zygo.SexpFloat{Val: v})
	}
	return zygo.MakeList(vals)
}

// statsList renders mesh statistics as a two-element list:
// triangle count, vertex count.
func statsList(st export.MeshStats) zygo.Sexp {
	return zygo.MakeList([]zygo.Sexp{
		&zygo.SexpInt{Val: int64(st.Triangles)},
		&zygo.SexpInt{Val: int64(st.Vertices)},
	})
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the fastener DSL into a zygomys environment.
// The builtins build parts through the factory and record them on res.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, f *fastener.Factory, res *Result) {

	// -----------------------------------------------------------------------
	// (screw "ISO7045" :size "M5" :length "20" :recess "T25" :name "lid")
	// -----------------------------------------------------------------------
	env.AddFunction("screw", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("screw requires a type argument, one of %v", f.Types())
		}
		typ, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("screw: type: %w", err)
		}
		return buildPart(f, res, "screw", fastener.Request{Type: typ}, pa)
	})

	// -----------------------------------------------------------------------
	// (nut :size "M5")
	// -----------------------------------------------------------------------
	env.AddFunction("nut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return buildPart(f, res, "nut", fastener.Request{Type: "ISO4032"}, parseArgs(args))
	})

	// -----------------------------------------------------------------------
	// (tap :size "M6" :length "12")
	// -----------------------------------------------------------------------
	env.AddFunction("tap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return buildPart(f, res, "tap", fastener.Request{Type: "ScrewTap"}, parseArgs(args))
	})

	// -----------------------------------------------------------------------
	// (rod :size "M8" :length "60")
	// -----------------------------------------------------------------------
	env.AddFunction("rod", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return buildPart(f, res, "rod", fastener.Request{Type: "DIN976"}, parseArgs(args))
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		p := res.Part(partName)
		if p == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}
		return &sexpPart{part: p}, nil
	})

	// -----------------------------------------------------------------------
	// (bounding-box ref) -> (minx miny minz maxx maxy maxz)
	//
	// Note: registered as "bounding_box" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts bounding-box to
	// bounding_box in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("bounding_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("bounding-box takes exactly one part, got %d arguments", len(args))
		}
		p, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounding-box: %w", err)
		}
		return bboxList(p.Solid), nil
	})

	// -----------------------------------------------------------------------
	// (mesh-stats ref) -> (triangles vertices)
	//
	// Registered as "mesh_stats"; see bounding_box above.
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_stats", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh-stats takes exactly one part, got %d arguments", len(args))
		}
		p, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-stats: %w", err)
		}
		mesh, err := f.Kernel().ToMesh(p.Solid)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-stats: %s: %w", p.Name, err)
		}
		return statsList(export.Stats(mesh)), nil
	})
}

// buildPart fills a request from keyword arguments, builds it through
// the factory, and records the part under its explicit or derived name.
func buildPart(f *fastener.Factory, res *Result, verb string, req fastener.Request, pa kwArgs) (zygo.Sexp, error) {
	var name string
	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: name: %w", verb, err)
		}
		name = s
	}
	if v, ok := pa.kw["size"]; ok {
		s, err := toDimension(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: size: %w", verb, err)
		}
		req.Size = s
	}
	if v, ok := pa.kw["length"]; ok {
		s, err := toDimension(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: length: %w", verb, err)
		}
		req.Length = s
	}
	if v, ok := pa.kw["recess"]; ok {
		s, err := toCode(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: recess: %w", verb, err)
		}
		req.Drive = s
	}
	if v, ok := pa.kw["pitch"]; ok {
		p, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: pitch: %w", verb, err)
		}
		req.Pitch = p
	}

	sol, err := f.Build(req)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", verb, err)
	}

	if name == "" {
		name = res.uniqueName(autoName(verb, req))
	} else if res.Part(name) != nil {
		return zygo.SexpNull, fmt.Errorf("%s: part %q already defined", verb, name)
	}
	return &sexpPart{part: res.add(name, req, sol)}, nil
}

// autoName derives a default part name like "iso7045-m5x20" or "nut-m5".
func autoName(verb string, req fastener.Request) string {
	base := verb
	if verb == "screw" {
		base = strings.ToLower(req.Type)
	}
	if req.Size != "" {
		base += "-" + strings.ToLower(req.Size)
	}
	if req.Length != "" {
		base += "x" + req.Length
	}
	return base
}
