package dialect

// Core holds the always-loaded PDL and IRDL opcodes (§3's PDL/IRDL
// entities). None of them are terminators or pure; the interpreter and
// lowering passes special-case them by name, not by trait, since they are
// the analyzer's own vocabulary rather than host-IR under test.
func Core() *Dialect {
	d := New("pdl")
	for _, op := range []string{
		"pattern", "operation", "operand", "result", "type", "attribute",
		"replace", "erase", "rewrite", "apply_native_constraint", "apply_native_rewrite",
	} {
		d.RegisterOp(op, OpInfo{NumResults: -1})
	}
	return d
}

// IRDLCore holds the IRDL schema and extension opcodes.
func IRDLCore() *Dialect {
	d := New("irdl")
	for _, op := range []string{
		"dialect", "attribute", "type", "operation", "operands", "results",
		"any", "any_of", "all_of", "is", "base", "parametric",
		"check_subset", "yield", "match", "eq",
	} {
		d.RegisterOp(op, OpInfo{NumResults: -1})
	}
	return d
}

// PDLTest holds the fuzzer's synthetic host-IR opcodes (§4.C): a generic
// matchable op, a generic rewrite-generated op, and a terminator.
func PDLTest() *Dialect {
	d := New("pdltest")
	d.RegisterOp("matchop", OpInfo{NumResults: -1})
	d.RegisterOp("rewriteop", OpInfo{NumResults: -1})
	d.RegisterOp("terminator", OpInfo{NumResults: 0, Traits: []Trait{TraitTerminator}})
	return d
}

// Builtin holds the handful of builtin attribute/type constructors named
// across §4.E/§4.G: integer types/attrs, and vector/tensor container
// types used by the modeled native constraints (is_vector/is_tensor).
func Builtin() *Dialect {
	d := New("builtin")
	d.RegisterAttr("integer_type", 2)   // (width, signedness)
	d.RegisterAttr("integer_attr", 2)   // (value, type)
	d.RegisterAttr("signedness_attr", 1) // (signed|unsigned|signless)
	d.RegisterAttr("vector", 1)          // (element type)
	d.RegisterAttr("tensor", 1)          // (element type)
	return d
}

// Default assembles the registry every tool loads: core + irdl + pdltest +
// builtin. Ops of any other dialect (e.g. "arith" from a real
// .mlir-syntax file) are not registered anywhere: Registry.OpInfo reports
// them as not found, and since the analyzer consults traits only and
// never hard-codes dialect-specific semantics (§4.B), such an op is
// treated as carrying no traits.
func Default() *Registry {
	return NewRegistry(Core(), IRDLCore(), PDLTest(), Builtin())
}
