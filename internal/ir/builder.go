package ir

// Builder allocates fresh Operations, Blocks, Regions, and Values with
// monotonically increasing ids, scoped to one IR construction (one parsed
// module, or one pattern's symbolic expansion). Grounded on the kanso
// IR builder's role as the single entry point for constructing well-formed
// IR nodes.
type Builder struct {
	nextOpID    int
	nextBlockID int
	nextValueID int
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) NewOperation(name string) *Operation {
	b.nextOpID++
	return &Operation{id: b.nextOpID, Name: name}
}

func (b *Builder) NewBlock(label string) *Block {
	b.nextBlockID++
	return &Block{id: b.nextBlockID, Label: label}
}

func (b *Builder) NewRegion() *Region {
	return &Region{}
}

func (b *Builder) newValue() *Value {
	b.nextValueID++
	return &Value{id: b.nextValueID}
}

// AddResult appends a new result value of the given type to op and
// returns it.
func (b *Builder) AddResult(op *Operation, typ Attribute) *Value {
	v := b.newValue()
	v.Kind = OpResultValue
	v.Op = op
	v.Type = typ
	v.Index = len(op.Results)
	op.Results = append(op.Results, v)
	return v
}

// AddBlockArg appends a new block-argument value of the given type to blk
// and returns it.
func (b *Builder) AddBlockArg(blk *Block, typ Attribute) *Value {
	v := b.newValue()
	v.Kind = BlockArgValue
	v.Block = blk
	v.Type = typ
	v.Index = len(blk.Args)
	blk.Args = append(blk.Args, v)
	return v
}

// AddOperand appends operand as the next operand of op, recording the use.
func AddOperand(op *Operation, operand *Value) {
	idx := len(op.Operands)
	op.Operands = append(op.Operands, operand)
	u := &Use{Value: operand, User: op, OperandIndex: idx}
	operand.addUse(u)
}

// SetOperand replaces op's operand at idx, retiring the old use and
// recording the new one.
func SetOperand(op *Operation, idx int, operand *Value) {
	old := op.Operands[idx]
	for _, u := range old.uses {
		if u.User == op && u.OperandIndex == idx {
			old.removeUse(u)
			break
		}
	}
	op.Operands[idx] = operand
	operand.addUse(&Use{Value: operand, User: op, OperandIndex: idx})
}

// AppendOperation inserts op at the end of blk.
func AppendOperation(blk *Block, op *Operation) {
	op.Parent = blk
	blk.Operations = append(blk.Operations, op)
}

// InsertOperationBefore inserts op immediately before anchor in anchor's
// block. Used by the IRDL simplifier (internal/simplify), which places
// each equality join directly ahead of the irdl.eq it replaces.
func InsertOperationBefore(anchor, op *Operation) {
	blk := anchor.Parent
	op.Parent = blk
	idx := indexOf(blk.Operations, anchor)
	blk.Operations = append(blk.Operations, nil)
	copy(blk.Operations[idx+1:], blk.Operations[idx:])
	blk.Operations[idx] = op
}

// EraseOperation detaches op from its block. It does not check or clear
// remaining uses of its results — callers (the abstract interpreter, the
// lowering passes) are responsible for that per their own invariants.
func EraseOperation(op *Operation) {
	blk := op.Parent
	if blk == nil {
		return
	}
	idx := indexOf(blk.Operations, op)
	if idx >= 0 {
		blk.Operations = append(blk.Operations[:idx], blk.Operations[idx+1:]...)
	}
	op.Parent = nil
}

func indexOf(ops []*Operation, target *Operation) int {
	for i, o := range ops {
		if o == target {
			return i
		}
	}
	return -1
}

// ReplaceAllUsesWith retargets every use of from to to, maintaining both
// values' use-list invariants. from's use-list is empty afterwards.
func ReplaceAllUsesWith(from, to *Value) {
	for _, u := range from.uses {
		u.User.Operands[u.OperandIndex] = to
		u.Value = to
		to.addUse(u)
	}
	from.uses = nil
}
