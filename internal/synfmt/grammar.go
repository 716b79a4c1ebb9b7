package synfmt

import "github.com/alecthomas/participle/v2/lexer"

// File is a sequence of top-level operations, mirroring the single-block
// Region that internal/ir.Print dumps: a parsed file is exactly the
// operand list of one implicit top-level block.
type File struct {
	Ops []*OpStmt `@@*`
}

// OpStmt is one (optionally result-assigning) operation statement.
// Pos/EndPos follow the kanso grammar/shared.go PosIdent convention:
// participle populates any lexer.Position-typed field by that name.
type OpStmt struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Results []string `( @SSAName { "," @SSAName } "=" )?`
	Op      *OpExpr  `@@`
}

// OpExpr is the generic op body: `"name"(operands) <{props}> (regions) :
// (operand-types) -> (result-types)`, every clause but the quoted name
// optional so a bare `"dialect.op"()` round-trips too.
type OpExpr struct {
	Name         string        `@String`
	Operands     []string      `"(" ( @SSAName { "," @SSAName } )? ")"`
	Props        *DictLit      `( "<" @@ ">" )?`
	Regions      []*RegionNode `( "(" ( @@ { "," @@ } )? ")" )?`
	OperandTypes []*AttrLit    `( ":" "(" ( @@ { "," @@ } )? ")" )?`
	ResultTypes  []*AttrLit    `( "->" ( "(" ( @@ { "," @@ } )? ")" | @@ ) )?`
}

// RegionNode is one `{ block* }` region; a region with no explicit block
// label still gets one implicit entry block, matching internal/ir.Region's
// "Blocks[0] is the entry block" convention.
type RegionNode struct {
	Blocks []*BlockNode `"{" @@* "}"`
}

// BlockNode is `^label(%arg: type, ...): op*`, or a label-less run of ops
// that belongs to the region's implicit entry block.
type BlockNode struct {
	Label string       `( @BlockName`
	Args  []*BlockArg  `  [ "(" ( @@ { "," @@ } )? ")" ] ":" )?`
	Ops   []*OpStmt    `@@*`
}

type BlockArg struct {
	Name string   `@SSAName ":"`
	Type *AttrLit `@@`
}

// AttrLit is the closed attribute/type literal grammar, inverting
// internal/ir.Attribute.String()'s concrete-type formats exactly so parse
// and print compose to the identity.
type AttrLit struct {
	Int   *int64     `(  @Integer`
	Str   *string    ` | @String`
	Sym   *string    ` | "@" @Ident`
	Array *ArrayLit  ` | @@`
	Dict  *DictLit   ` | @@`
	Param *ParamLit  ` | @@ )`
}

type ArrayLit struct {
	Elems []*AttrLit `"[" ( @@ { "," @@ } )? "]"`
}

type DictEntryLit struct {
	Key   string   `@Ident "="`
	Value *AttrLit `@@`
}

type DictLit struct {
	Entries []*DictEntryLit `"{" ( @@ { "," @@ } )? "}"`
}

// ParamLit is `!dialect.name<p1, p2>` or the param-less `!dialect.name`.
type ParamLit struct {
	Qualified string     `"!" @Ident`
	Params    []*AttrLit `( "<" ( @@ { "," @@ } )? ">" )?`
}
