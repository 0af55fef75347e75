package fastener

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// DiameterRow pairs a nominal thread diameter with its ISO 262 coarse
// pitch.
type DiameterRow struct {
	D     float64 `yaml:"d"`
	Pitch float64 `yaml:"pitch"`
}

// PanHeadRow holds the ISO 7045 head dimensions for one size, plus the
// drive assignments the standard makes for it.
type PanHeadRow struct {
	P         float64 `yaml:"p"`
	B         float64 `yaml:"b"`
	Dk        float64 `yaml:"dk"`
	K         float64 `yaml:"k"`
	R         float64 `yaml:"r"`
	Rf        float64 `yaml:"rf"`
	Cross     string  `yaml:"cross"`
	CrossM    float64 `yaml:"crossM"`
	Lobe      string  `yaml:"lobe"`
	LobeT     float64 `yaml:"lobeT"`
	SlotWidth float64 `yaml:"slotWidth"`
	SlotDepth float64 `yaml:"slotDepth"`
}

// CrossRow holds the ISO 4757 cone dimensions for one cross recess
// number.
type CrossRow struct {
	B     float64 `yaml:"b"`
	E     float64 `yaml:"e"`
	G     float64 `yaml:"g"`
	F     float64 `yaml:"f"`
	R     float64 `yaml:"r"`
	T1    float64 `yaml:"t1"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// LobeRow holds the ISO 10664 hexalobular dimensions for one T number.
type LobeRow struct {
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	Re float64 `yaml:"re"`
}

// SetScrewRow holds the ISO 4026 dimensions for one size.
type SetScrewRow struct {
	P  float64 `yaml:"p"`
	T  float64 `yaml:"t"`
	Dp float64 `yaml:"dp"`
	Df float64 `yaml:"df"`
	S  float64 `yaml:"s"`
}

// NutRow holds the ISO 4032 dimensions for one size.
type NutRow struct {
	P  float64 `yaml:"p"`
	Da float64 `yaml:"da"`
	M  float64 `yaml:"m"`
	S  float64 `yaml:"s"`
}

// WoodScrewRow holds the DIN 571 dimensions for one size.
type WoodScrewRow struct {
	S     float64 `yaml:"s"`
	K     float64 `yaml:"k"`
	Pitch float64 `yaml:"pitch"`
	Core  float64 `yaml:"core"`
}

// Tables aggregates every dimension table the builders consult. Hosts
// that need non-standard sizes can load their own copy with LoadTables
// and hand it to the factory.
type Tables struct {
	Diameters map[string]DiameterRow  `yaml:"diameters"`
	ISO7045   map[string]PanHeadRow   `yaml:"iso7045"`
	ISO4757   map[string]CrossRow     `yaml:"iso4757"`
	ISO10664  map[string]LobeRow      `yaml:"iso10664"`
	ISO4026   map[string]SetScrewRow  `yaml:"iso4026"`
	ISO4032   map[string]NutRow       `yaml:"iso4032"`
	DIN571    map[string]WoodScrewRow `yaml:"din571"`
}

// LoadTables parses a dimension table file. Unknown keys are rejected
// so a typo in a replacement file fails loudly instead of silently
// falling back to zero dimensions.
func LoadTables(r io.Reader) (*Tables, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding dimension tables: %w", err)
	}
	return &t, nil
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *Tables
)

// DefaultTables returns the embedded standard tables. The result is
// shared; treat it as read-only.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		var t Tables
		if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
			panic(fmt.Sprintf("fastener: embedded tables are corrupt: %v", err))
		}
		defaultTables = &t
	})
	return defaultTables
}

// Diameter resolves a size code like "M5" to its nominal diameter row.
func (t *Tables) Diameter(code string) (DiameterRow, error) {
	row, ok := t.Diameters[code]
	if !ok {
		return DiameterRow{}, &ParameterError{Param: "size", Value: code, Msg: "not in the diameter table"}
	}
	return row, nil
}

// PanHead resolves a size code to its ISO 7045 row.
func (t *Tables) PanHead(code string) (PanHeadRow, error) {
	row, ok := t.ISO7045[code]
	if !ok {
		return PanHeadRow{}, &ParameterError{Param: "size", Value: code, Msg: "no ISO 7045 head dimensions"}
	}
	return row, nil
}

// Cross resolves a recess number like "H2" to its ISO 4757 row.
func (t *Tables) Cross(code string) (CrossRow, error) {
	row, ok := t.ISO4757[code]
	if !ok {
		return CrossRow{}, &ParameterError{Param: "drive", Value: code, Msg: "no ISO 4757 cross recess dimensions"}
	}
	return row, nil
}

// Lobe resolves a recess number like "T20" to its ISO 10664 row.
func (t *Tables) Lobe(code string) (LobeRow, error) {
	row, ok := t.ISO10664[code]
	if !ok {
		return LobeRow{}, &ParameterError{Param: "drive", Value: code, Msg: "no ISO 10664 hexalobular dimensions"}
	}
	return row, nil
}

// SetScrew resolves a size code to its ISO 4026 row.
func (t *Tables) SetScrew(code string) (SetScrewRow, error) {
	row, ok := t.ISO4026[code]
	if !ok {
		return SetScrewRow{}, &ParameterError{Param: "size", Value: code, Msg: "no ISO 4026 set screw dimensions"}
	}
	return row, nil
}

// Nut resolves a size code to its ISO 4032 row.
func (t *Tables) Nut(code string) (NutRow, error) {
	row, ok := t.ISO4032[code]
	if !ok {
		return NutRow{}, &ParameterError{Param: "size", Value: code, Msg: "no ISO 4032 nut dimensions"}
	}
	return row, nil
}

// WoodScrew resolves a size code to its DIN 571 row.
func (t *Tables) WoodScrew(code string) (WoodScrewRow, error) {
	row, ok := t.DIN571[code]
	if !ok {
		return WoodScrewRow{}, &ParameterError{Param: "size", Value: code, Msg: "no DIN 571 wood screw dimensions"}
	}
	return row, nil
}
