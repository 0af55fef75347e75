package script

import (
	"fmt"

	"github.com/chazu/mandrel/pkg/fastener"
	"github.com/chazu/mandrel/pkg/kernel"
)

// Part is one fastener a script produced.
type Part struct {
	Name  string
	Req   fastener.Request
	Solid kernel.Solid
}

// Result collects the parts of one evaluation in creation order.
type Result struct {
	parts []*Part
	index map[string]*Part
}

func newResult() *Result {
	return &Result{index: make(map[string]*Part)}
}

// add records a built part under the given name.
func (r *Result) add(name string, req fastener.Request, s kernel.Solid) *Part {
	p := &Part{Name: name, Req: req, Solid: s}
	r.parts = append(r.parts, p)
	r.index[name] = p
	return p
}

// uniqueName returns base, or base with a numeric suffix when taken.
func (r *Result) uniqueName(base string) string {
	if r.index[base] == nil {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s-%d", base, i)
		if r.index[name] == nil {
			return name
		}
	}
}

// Part returns the named part, or nil when no part has that name.
func (r *Result) Part(name string) *Part {
	return r.index[name]
}

// Parts returns all parts in creation order.
func (r *Result) Parts() []*Part {
	return r.parts
}

// PartCount returns the number of parts produced.
func (r *Result) PartCount() int {
	return len(r.parts)
}
