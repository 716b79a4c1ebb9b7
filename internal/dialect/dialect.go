// Package dialect implements the open, string-keyed dialect-extension
// registry that the IR core's analyzer consults for traits, in place of
// the source's polymorphic op hierarchy (§9: "closed tagged union of
// opcodes plus an open dialect-extension registry").
package dialect

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

// Trait is a capability flag queried through a narrow interface rather
// than virtual dispatch.
type Trait int

const (
	TraitTerminator Trait = iota
	TraitPure
)

// OpInfo is everything the analyzer may ask about an opcode.
type OpInfo struct {
	Traits []Trait
	// NumResults, if non-negative, fixes the number of result types the op
	// must declare; -1 means variadic/unconstrained.
	NumResults int
}

func (info OpInfo) HasTrait(t Trait) bool {
	for _, tr := range info.Traits {
		if tr == t {
			return true
		}
	}
	return false
}

// AttrCtor describes a named, parameterized attribute/type constructor
// registered by a dialect (e.g. builtin.integer_type/2).
type AttrCtor struct {
	Dialect string
	Name    string
	Arity   int // -1 means variable arity
}

// Dialect is a named registry of opcodes and attribute/type constructors.
type Dialect struct {
	Name  string
	ops   map[string]OpInfo
	attrs map[string]AttrCtor
}

func New(name string) *Dialect {
	return &Dialect{Name: name, ops: map[string]OpInfo{}, attrs: map[string]AttrCtor{}}
}

func (d *Dialect) RegisterOp(opcode string, info OpInfo) {
	d.ops[opcode] = info
}

func (d *Dialect) RegisterAttr(name string, arity int) {
	d.attrs[name] = AttrCtor{Dialect: d.Name, Name: name, Arity: arity}
}

func (d *Dialect) LookupOp(opcode string) (OpInfo, bool) {
	info, ok := d.ops[opcode]
	return info, ok
}

func (d *Dialect) LookupAttr(name string) (AttrCtor, bool) {
	c, ok := d.attrs[name]
	return c, ok
}

// Registry composes multiple loaded dialects, dispatching by the
// dialect-qualified opcode's prefix ("dialect.opcode").
type Registry struct {
	dialects map[string]*Dialect
}

func NewRegistry(dialects ...*Dialect) *Registry {
	r := &Registry{dialects: map[string]*Dialect{}}
	for _, d := range dialects {
		r.dialects[d.Name] = d
	}
	return r
}

func (r *Registry) Dialect(name string) (*Dialect, bool) {
	d, ok := r.dialects[name]
	return d, ok
}

func splitQualified(qualified string) (dialect, name string) {
	for i := 0; i < len(qualified); i++ {
		if qualified[i] == '.' {
			return qualified[:i], qualified[i+1:]
		}
	}
	return "", qualified
}

// OpInfo resolves the OpInfo for a dialect-qualified opcode across every
// registered dialect.
func (r *Registry) OpInfo(qualifiedOpcode string) (OpInfo, bool) {
	dname, opname := splitQualified(qualifiedOpcode)
	d, ok := r.dialects[dname]
	if !ok {
		return OpInfo{}, false
	}
	return d.LookupOp(opname)
}

// IsTerminator reports whether op's opcode carries the Terminator trait in
// the registry. Unknown opcodes are conservatively not terminators.
func (r *Registry) IsTerminator(op *ir.Operation) bool {
	return r.IsTerminatorName(op.Name)
}

// IsTerminatorName is IsTerminator keyed by opcode name directly, for
// callers (the PDL interpreter) that only have the matched/created
// opcode's name, not a concrete host Operation.
func (r *Registry) IsTerminatorName(name string) bool {
	info, ok := r.OpInfo(name)
	return ok && info.HasTrait(TraitTerminator)
}
