package fastener

import (
	"fmt"
	"strconv"
	"strings"
)

// ParameterError reports a request value that cannot be resolved
// against the dimension tables or parsed as a literal.
type ParameterError struct {
	Param string
	Value string
	Msg   string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %s=%q: %s", e.Param, e.Value, e.Msg)
}

// ResolveDiameter turns a size value into a thread diameter in
// millimetres. A value found in the diameter table uses the tabulated
// nominal; anything else must parse as a literal diameter. In print
// mode the result is passed through the linear shrinkage compensation,
// with separate coefficients for nuts and screws.
func ResolveDiameter(cfg Config, t *Tables, value string, isNut bool) (float64, error) {
	var d float64
	if row, ok := t.Diameters[value]; ok {
		d = row.D
	} else {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return 0, &ParameterError{Param: "size", Value: value, Msg: "neither a tabulated size nor a positive diameter"}
		}
		d = f
	}
	if cfg.PrintMode {
		if isNut {
			d = cfg.NutScaleA*d + cfg.NutScaleB
		} else {
			d = cfg.ScrewScaleA*d + cfg.ScrewScaleB
		}
	}
	return d, nil
}

// ParseLength turns a length value into millimetres. Plain numbers are
// already metric. A trailing "in" marks an imperial length written as
// an optional whole part plus an optional fraction, "1 1/2in" style;
// the pieces are summed and converted at 25.4 mm per inch.
func ParseLength(value string) (float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, &ParameterError{Param: "length", Value: value, Msg: "empty"}
	}
	if !strings.HasSuffix(s, "in") {
		mm, err := strconv.ParseFloat(s, 64)
		if err != nil || mm <= 0 {
			return 0, &ParameterError{Param: "length", Value: value, Msg: "not a positive millimetre length"}
		}
		return mm, nil
	}

	inches := 0.0
	parts := strings.Fields(strings.TrimSuffix(s, "in"))
	if len(parts) == 0 {
		return 0, &ParameterError{Param: "length", Value: value, Msg: "no digits before the inch suffix"}
	}
	for _, part := range parts {
		num, den, found := strings.Cut(part, "/")
		if !found {
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, &ParameterError{Param: "length", Value: value, Msg: "malformed inch length"}
			}
			inches += f
			continue
		}
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, &ParameterError{Param: "length", Value: value, Msg: "malformed inch fraction"}
		}
		m, err := strconv.ParseFloat(den, 64)
		if err != nil || m == 0 {
			return 0, &ParameterError{Param: "length", Value: value, Msg: "malformed inch fraction"}
		}
		inches += n / m
	}
	if inches <= 0 {
		return 0, &ParameterError{Param: "length", Value: value, Msg: "not a positive inch length"}
	}
	return inches * 25.4, nil
}
