// Package lower implements §4.E: rewriting a PDL pattern into an
// irdl.check_subset operation whose lhs/rhs regions are IRDL constraint
// graphs, so internal/simplify and internal/smt can discharge the type-
// system compliance question to an SMT solver.
package lower

import (
	"fmt"

	"github.com/xirdlcheck/xirdlcheck/internal/config"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
	"github.com/xirdlcheck/xirdlcheck/internal/irdl"
)

// Env is the IRDL dialect a pattern is lowered against: every declared
// AttributeOp/TypeOp/OperationOp, keyed by its unqualified name.
type Env struct {
	DialectName string
	Schemas     map[string]*ir.Operation // irdl.attribute / irdl.type
	Operations  map[string]*ir.Operation // irdl.operation

	// Extensions carries the §9 AnalysisConfig's additional native
	// bindings, consulted by native.go only when a name isn't already
	// in the built-in table. Never nil after BuildEnv.
	Extensions *config.AnalysisConfig
}

// BuildEnv reads an irdl.dialect operation's body into an Env. ext may
// be nil, in which case no config-declared native bindings apply.
func BuildEnv(dialectOp *ir.Operation, ext *config.AnalysisConfig) (*Env, error) {
	if dialectOp.Name != irdl.OpDialect {
		return nil, fmt.Errorf("lower: expected an irdl.dialect operation, got %q", dialectOp.Name)
	}
	if ext == nil {
		ext = config.Empty()
	}
	env := &Env{
		DialectName: irdl.DialectName(dialectOp),
		Schemas:     map[string]*ir.Operation{},
		Operations:  map[string]*ir.Operation{},
		Extensions:  ext,
	}
	body := irdl.DialectBody(dialectOp)
	if body == nil || len(body.Blocks) == 0 {
		return env, nil
	}
	for _, op := range body.Blocks[0].Operations {
		switch op.Name {
		case irdl.OpAttribute, irdl.OpType:
			env.Schemas[irdl.SchemaName(op)] = op
		case irdl.OpOperation:
			env.Operations[irdl.SchemaName(op)] = op
		}
	}
	return env, nil
}
