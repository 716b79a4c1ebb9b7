package interp

import "github.com/xirdlcheck/xirdlcheck/internal/ir"

// The symbolic records of §4.D, re-architected per §9 as one arena per
// analysis, nodes referred to by dense indices so producer/use edges
// become index lookups instead of mutable back-pointers.

type ValueID int
type AttrID int
type TypeID int
type OpID int

const noID = -1

// TypeNode is SymType{constant?}.
type TypeNode struct {
	Constant ir.Attribute // nil if unconstrained
	Origin   *ir.Operation
}

// AttrNode is SymAttr{type?, value?}.
type AttrNode struct {
	Type   TypeID // noID if absent
	Value  ir.Attribute
	Origin *ir.Operation
}

// ValueNode is SymValue{producer?, index?, type?}: either a plain matched
// operand (ProducerOp == noID) or the result of extracting index i from
// ProducerOp via a ResultOp.
type ValueNode struct {
	ProducerOp    OpID
	ProducerIndex int
	Type          TypeID
	Origin        *ir.Operation
}

// HasProducer reports whether the value is an op result (true) or a
// plain matched/external leaf (false) — exported so internal/lower can
// branch on it without reaching into the noID sentinel directly.
func (n *ValueNode) HasProducer() bool { return n.ProducerOp != noID }

// HasType reports whether the value carries a declared type constraint.
func (n *ValueNode) HasType() bool { return n.Type != noID }

// HasConstant reports whether the type is pinned to a concrete constant
// rather than left open.
func (n *TypeNode) HasConstant() bool { return n.Constant != nil }

// HasType reports whether the attribute's type operand was constrained.
func (n *AttrNode) HasType() bool { return n.Type != noID }

// UseToken is one entry of a SymResultType's use-list: either a concrete
// consuming SymOp, or the synthetic "outside world" sentinel.
type UseToken struct {
	Unknown bool
	User    OpID
}

// OpNode is SymOp{name?, operands[], attrs[], result_types[]}, with each
// result's use-list attached directly (folding the source's separate
// SymResultType record into its one owner, a 1:1 relationship).
type OpNode struct {
	Name        string // "" = any
	Operands    []ValueID
	Attrs       []AttrID
	ResultTypes []TypeID
	ResultUses  [][]UseToken // parallel to ResultTypes
	Origin      *ir.Operation
	Generated   bool // created during REWRITE, as opposed to matched
}

// Arena owns every symbolic record allocated during one pattern analysis.
type Arena struct {
	values []ValueNode
	attrs  []AttrNode
	types  []TypeNode
	ops    []OpNode

	resultValueCache map[[2]int]ValueID // (OpID, index) -> lazily-created ValueID
	valuesByProducer map[OpID][]ValueID
}

func NewArena() *Arena {
	return &Arena{resultValueCache: map[[2]int]ValueID{}, valuesByProducer: map[OpID][]ValueID{}}
}

func (a *Arena) NewType(n TypeNode) TypeID {
	a.types = append(a.types, n)
	return TypeID(len(a.types) - 1)
}

func (a *Arena) NewAttr(n AttrNode) AttrID {
	a.attrs = append(a.attrs, n)
	return AttrID(len(a.attrs) - 1)
}

func (a *Arena) NewValue(n ValueNode) ValueID {
	a.values = append(a.values, n)
	id := ValueID(len(a.values) - 1)
	if n.ProducerOp != noID {
		a.valuesByProducer[n.ProducerOp] = append(a.valuesByProducer[n.ProducerOp], id)
	}
	return id
}

func (a *Arena) NewOp(n OpNode) OpID {
	a.ops = append(a.ops, n)
	return OpID(len(a.ops) - 1)
}

// NumOps is the total count of ops ever allocated in this analysis,
// matched and created alike.
func (a *Arena) NumOps() int { return len(a.ops) }

func (a *Arena) Type(id TypeID) *TypeNode   { return &a.types[id] }
func (a *Arena) Attr(id AttrID) *AttrNode   { return &a.attrs[id] }
func (a *Arena) Value(id ValueID) *ValueNode { return &a.values[id] }
func (a *Arena) Op(id OpID) *OpNode         { return &a.ops[id] }

// ResultValue returns the ValueID wrapping (op, index), allocating it on
// first use (every pdl.result, in INIT and in REWRITE alike, resolves
// through here).
func (a *Arena) ResultValue(op OpID, index int, origin *ir.Operation) ValueID {
	key := [2]int{int(op), index}
	if id, ok := a.resultValueCache[key]; ok {
		return id
	}
	opn := a.Op(op)
	var typeID TypeID = noID
	if index < len(opn.ResultTypes) {
		typeID = opn.ResultTypes[index]
	}
	id := a.NewValue(ValueNode{ProducerOp: op, ProducerIndex: index, Type: typeID, Origin: origin})
	a.resultValueCache[key] = id
	return id
}

// ValuesProducedBy returns every ValueID ever allocated with op as its
// producer (lazily, via ResultValue), so a caller removing op from scope
// can also drop the values it produced.
func (a *Arena) ValuesProducedBy(op OpID) []ValueID {
	return a.valuesByProducer[op]
}

// ResultValueIfExists is ResultValue without the allocating side effect,
// for callers (internal/lower) that only want to know whether a given
// (op, index) result was ever referenced.
func (a *Arena) ResultValueIfExists(op OpID, index int) (ValueID, bool) {
	id, ok := a.resultValueCache[[2]int{int(op), index}]
	return id, ok
}

// addUse registers that consumer uses result index of producer, growing
// the result's use-list.
func (a *Arena) addUse(producer OpID, index int, consumer OpID) {
	opn := a.Op(producer)
	for len(opn.ResultUses) <= index {
		opn.ResultUses = append(opn.ResultUses, nil)
	}
	opn.ResultUses[index] = append(opn.ResultUses[index], UseToken{User: consumer})
}
