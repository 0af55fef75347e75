package fastener

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestLengthParsingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParametersWithSeed(4321)
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("metric lengths parse to themselves", prop.ForAll(
		func(mm float64) bool {
			got, err := ParseLength(strconv.FormatFloat(mm, 'f', 4, 64))
			return err == nil && math.Abs(got-mm) < 1e-3
		},
		gen.Float64Range(0.1, 500),
	))

	properties.Property("imperial lengths convert at 25.4", prop.ForAll(
		func(whole, num, den int) bool {
			got, err := ParseLength(fmt.Sprintf("%d %d/%din", whole, num, den))
			want := (float64(whole) + float64(num)/float64(den)) * 25.4
			return err == nil && math.Abs(got-want) < 1e-9
		},
		gen.IntRange(0, 12),
		gen.IntRange(1, 15),
		gen.IntRange(1, 16),
	))

	properties.TestingRun(t)
}

func TestPrintScalingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParametersWithSeed(4321)
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("screw and nut coefficients act independently", prop.ForAll(
		func(a, b float64) bool {
			cfg := DefaultConfig()
			cfg.PrintMode = true
			cfg.ScrewScaleA, cfg.ScrewScaleB = a, b
			tabs := DefaultTables()
			s, err1 := ResolveDiameter(cfg, tabs, "M5", false)
			n, err2 := ResolveDiameter(cfg, tabs, "M5", true)
			return err1 == nil && err2 == nil &&
				math.Abs(s-(a*5+b)) < 1e-9 &&
				math.Abs(n-5) < 1e-9
		},
		gen.Float64Range(0.8, 1.2),
		gen.Float64Range(-0.3, 0.3),
	))

	properties.TestingRun(t)
}
