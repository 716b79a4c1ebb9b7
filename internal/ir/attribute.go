// Package ir implements the operation/block/region/value data model shared
// by concrete host IR, PDL patterns, and IRDL schemas (all three are
// Operations distinguished only by opcode).
package ir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Attribute is the closed, recursive attribute/type algebra: integers,
// strings, symbol references, arrays, dictionaries, and named parameterized
// constructors drawn from loaded dialects. There is no separate "Type" —
// a Value's type is itself an Attribute, per the source model.
type Attribute interface {
	fmt.Stringer
	Equal(Attribute) bool
	isAttribute()
}

// IntAttr is an integer-valued attribute (also used as IRDL's integer_attr
// payload and as array/dict indices where needed).
type IntAttr struct {
	Value int64
}

func (IntAttr) isAttribute()          {}
func (a IntAttr) String() string      { return strconv.FormatInt(a.Value, 10) }
func (a IntAttr) Equal(o Attribute) bool {
	b, ok := o.(IntAttr)
	return ok && a.Value == b.Value
}

// StringAttr is a string-valued attribute.
type StringAttr struct {
	Value string
}

func (StringAttr) isAttribute()     {}
func (a StringAttr) String() string { return strconv.Quote(a.Value) }
func (a StringAttr) Equal(o Attribute) bool {
	b, ok := o.(StringAttr)
	return ok && a.Value == b.Value
}

// SymbolRefAttr names a symbol defined somewhere in an enclosing
// DialectOp scope (resolved via SymbolTable, see symbol.go).
type SymbolRefAttr struct {
	Name string
}

func (SymbolRefAttr) isAttribute()     {}
func (a SymbolRefAttr) String() string { return "@" + a.Name }
func (a SymbolRefAttr) Equal(o Attribute) bool {
	b, ok := o.(SymbolRefAttr)
	return ok && a.Name == b.Name
}

// ArrayAttr is an ordered array of attributes.
type ArrayAttr struct {
	Elems []Attribute
}

func (ArrayAttr) isAttribute() {}
func (a ArrayAttr) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a ArrayAttr) Equal(o Attribute) bool {
	b, ok := o.(ArrayAttr)
	if !ok || len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !a.Elems[i].Equal(b.Elems[i]) {
			return false
		}
	}
	return true
}

// DictEntry is one key/value pair of a DictAttr; order is preserved so
// printing round-trips.
type DictEntry struct {
	Key   string
	Value Attribute
}

// DictAttr is an ordered dictionary attribute (string -> Attribute).
type DictAttr struct {
	Entries []DictEntry
}

func (DictAttr) isAttribute() {}
func (a DictAttr) String() string {
	parts := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		parts[i] = e.Key + " = " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (a DictAttr) Equal(o Attribute) bool {
	b, ok := o.(DictAttr)
	if !ok || len(a.Entries) != len(b.Entries) {
		return false
	}
	am := a.sorted()
	bm := b.sorted()
	for i := range am {
		if am[i].Key != bm[i].Key || !am[i].Value.Equal(bm[i].Value) {
			return false
		}
	}
	return true
}
func (a DictAttr) sorted() []DictEntry {
	out := append([]DictEntry(nil), a.Entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (a DictAttr) Get(key string) (Attribute, bool) {
	for _, e := range a.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// ParametricAttr is a named, parameterized attribute or type constructor
// from a loaded dialect, e.g. builtin.integer_type<32, signed> or
// vector<i32>. Dialect is the registering dialect's name ("builtin"),
// Name is the constructor ("integer_type"); both are compared for equality.
type ParametricAttr struct {
	Dialect string
	Name    string
	Params  []Attribute
}

func (ParametricAttr) isAttribute() {}
func (a ParametricAttr) String() string {
	parts := make([]string, len(a.Params))
	for i, p := range a.Params {
		parts[i] = p.String()
	}
	qualified := a.Name
	if a.Dialect != "" {
		qualified = a.Dialect + "." + a.Name
	}
	if len(parts) == 0 {
		return "!" + qualified
	}
	return "!" + qualified + "<" + strings.Join(parts, ", ") + ">"
}
func (a ParametricAttr) Equal(o Attribute) bool {
	b, ok := o.(ParametricAttr)
	if !ok || a.Dialect != b.Dialect || a.Name != b.Name || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !a.Params[i].Equal(b.Params[i]) {
			return false
		}
	}
	return true
}
