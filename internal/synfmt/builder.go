package synfmt

import (
	"fmt"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// scope resolves an SSA name (%foo) or block label (^bb) to its defining
// Value, searching outward through enclosing regions — the generic syntax
// has no forward references, so one pass in source order suffices.
type scope struct {
	vars   map[string]*ir.Value
	parent *scope
}

func newScope() *scope { return &scope{vars: map[string]*ir.Value{}} }

func (s *scope) push() *scope { return &scope{vars: map[string]*ir.Value{}, parent: s} }

func (s *scope) bind(name string, v *ir.Value) { s.vars[name] = v }

func (s *scope) lookup(name string) (*ir.Value, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

type builder struct {
	b         *ir.Builder
	positions *Positions
}

func newBuilder(b *ir.Builder) *builder {
	return &builder{b: b, positions: &Positions{byOp: map[*ir.Operation]diag.Position{}}}
}

func trimSigil(name string) string { return strings.TrimLeft(name, "%^") }

func (bl *builder) buildOp(blk *ir.Block, stmt *OpStmt, sc *scope) (*ir.Operation, error) {
	expr := stmt.Op
	op := bl.b.NewOperation(expr.Name)
	bl.positions.byOp[op] = toDiagPosition(stmt.Pos)

	for _, name := range expr.Operands {
		v, ok := sc.lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: undefined value %s", stmt.Pos, name)
		}
		ir.AddOperand(op, v)
	}

	if expr.Props != nil {
		for _, e := range expr.Props.Entries {
			op.SetAttr(e.Key, buildAttr(e.Value))
		}
	}

	numResults := len(expr.ResultTypes)
	if numResults == 0 {
		numResults = len(stmt.Results)
	}
	for i := 0; i < numResults; i++ {
		var t ir.Attribute
		if i < len(expr.ResultTypes) {
			t = buildAttr(expr.ResultTypes[i])
		}
		res := bl.b.AddResult(op, t)
		if i < len(stmt.Results) {
			res.Name = trimSigil(stmt.Results[i])
			sc.bind(stmt.Results[i], res)
		}
	}

	for _, rn := range expr.Regions {
		region := bl.b.NewRegion()
		region.Parent = op
		op.Regions = append(op.Regions, region)
		regionScope := sc.push()
		for _, bn := range rn.Blocks {
			cblk := bl.b.NewBlock(trimSigil(bn.Label))
			cblk.Parent = region
			region.Blocks = append(region.Blocks, cblk)
			blockScope := regionScope.push()
			for _, arg := range bn.Args {
				av := bl.b.AddBlockArg(cblk, buildAttr(arg.Type))
				av.Name = trimSigil(arg.Name)
				blockScope.bind(arg.Name, av)
			}
			for _, inner := range bn.Ops {
				if _, err := bl.buildOp(cblk, inner, blockScope); err != nil {
					return nil, err
				}
			}
		}
	}

	ir.AppendOperation(blk, op)
	return op, nil
}

// buildAttr lowers one attribute literal into internal/ir's closed
// Attribute union. Parsed operand types are discarded rather than
// round-tripped separately: an operand's Value already carries its type
// from its producer, so re-parsing it a second time off the use site
// would just be a redundant, possibly-conflicting copy.
func buildAttr(lit *AttrLit) ir.Attribute {
	switch {
	case lit == nil:
		return nil
	case lit.Int != nil:
		return ir.IntAttr{Value: *lit.Int}
	case lit.Str != nil:
		return ir.StringAttr{Value: *lit.Str}
	case lit.Sym != nil:
		return ir.SymbolRefAttr{Name: *lit.Sym}
	case lit.Array != nil:
		elems := make([]ir.Attribute, len(lit.Array.Elems))
		for i, e := range lit.Array.Elems {
			elems[i] = buildAttr(e)
		}
		return ir.ArrayAttr{Elems: elems}
	case lit.Dict != nil:
		entries := make([]ir.DictEntry, len(lit.Dict.Entries))
		for i, e := range lit.Dict.Entries {
			entries[i] = ir.DictEntry{Key: e.Key, Value: buildAttr(e.Value)}
		}
		return ir.DictAttr{Entries: entries}
	case lit.Param != nil:
		dialect, name := splitQualified(lit.Param.Qualified)
		params := make([]ir.Attribute, len(lit.Param.Params))
		for i, p := range lit.Param.Params {
			params[i] = buildAttr(p)
		}
		return ir.ParametricAttr{Dialect: dialect, Name: name, Params: params}
	default:
		return nil
	}
}

func splitQualified(qualified string) (dialectName, name string) {
	if i := strings.IndexByte(qualified, '.'); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return "", qualified
}
