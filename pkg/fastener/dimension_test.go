package fastener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10.0},
		{"12.5", 12.5},
		{"0.5", 0.5},
		{"1in", 25.4},
		{"2in", 50.8},
		{"1/2in", 12.7},
		{"1 1/2in", 38.1},
		{"3 3/4in", 95.25},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestParseLengthRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"", "abc", "-5", "0", "in", "1//2in", "x/2in", "1/0in", "12..5",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLength(in)
			var pe *ParameterError
			require.ErrorAs(t, err, &pe)
		})
	}
}

func TestResolveDiameter(t *testing.T) {
	cfg := DefaultConfig()
	tabs := DefaultTables()

	d, err := ResolveDiameter(cfg, tabs, "M5", false)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	d, err = ResolveDiameter(cfg, tabs, "M2.5", true)
	require.NoError(t, err)
	assert.Equal(t, 2.5, d)

	d, err = ResolveDiameter(cfg, tabs, "7.5", false)
	require.NoError(t, err)
	assert.Equal(t, 7.5, d, "literal diameters pass through")

	for _, bad := range []string{"M99", "-3", "0", ""} {
		_, err := ResolveDiameter(cfg, tabs, bad, false)
		var pe *ParameterError
		require.ErrorAs(t, err, &pe, "value %q", bad)
	}
}

func TestResolveDiameterPrintMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrintMode = true
	cfg.ScrewScaleA, cfg.ScrewScaleB = 1.1, 0
	cfg.NutScaleA, cfg.NutScaleB = 1.05, 0.1
	tabs := DefaultTables()

	d, err := ResolveDiameter(cfg, tabs, "M5", false)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, d, 1e-9, "screw scale")

	d, err = ResolveDiameter(cfg, tabs, "M5", true)
	require.NoError(t, err)
	assert.InDelta(t, 5.35, d, 1e-9, "nut scale is independent")

	d, err = ResolveDiameter(cfg, tabs, "4", false)
	require.NoError(t, err)
	assert.InDelta(t, 4.4, d, 1e-9, "literals scale too")

	cfg.PrintMode = false
	d, err = ResolveDiameter(cfg, tabs, "M5", false)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d, "coefficients are inert outside print mode")
}
