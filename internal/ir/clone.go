package ir

// ValueMapping records the old->new Value correspondence produced by a
// clone, readable by callers (per §4.A: "an explicit old->new mapping
// that callers may read").
type ValueMapping map[*Value]*Value

func (m ValueMapping) mapValue(b *Builder, v *Value) *Value {
	if v == nil {
		return nil
	}
	if nv, ok := m[v]; ok {
		return nv
	}
	// A value defined outside the cloned region (e.g. an operand supplied
	// from the pattern's matched side) stays as-is; only results/args
	// defined inside the cloned subtree get fresh identities.
	return v
}

// CloneRegion deep-clones a region (its blocks, operations, values) into a
// fresh SSA namespace, returning the clone and the old->new value mapping.
// extern supplies pre-existing mappings for values referenced from outside
// the region (e.g. the pattern's matched operands) so the clone's operand
// edges resolve correctly.
func CloneRegion(b *Builder, r *Region, extern ValueMapping) (*Region, ValueMapping) {
	mapping := ValueMapping{}
	for k, v := range extern {
		mapping[k] = v
	}
	nr := b.NewRegion()
	nr.Parent = r.Parent

	blockMap := map[*Block]*Block{}
	for _, blk := range r.Blocks {
		nb := b.NewBlock(blk.Label)
		nb.Parent = nr
		for _, arg := range blk.Args {
			na := b.AddBlockArg(nb, arg.Type)
			na.Name = arg.Name
			mapping[arg] = na
		}
		nr.Blocks = append(nr.Blocks, nb)
		blockMap[blk] = nb
	}

	for _, blk := range r.Blocks {
		nb := blockMap[blk]
		for _, op := range blk.Operations {
			nop := cloneOperation(b, op, mapping, blockMap)
			AppendOperation(nb, nop)
		}
	}
	return nr, mapping
}

func cloneOperation(b *Builder, op *Operation, mapping ValueMapping, blockMap map[*Block]*Block) *Operation {
	nop := b.NewOperation(op.Name)
	for _, attr := range op.Attributes {
		nop.SetAttr(attr.Name, attr.Value)
	}
	for _, operand := range op.Operands {
		AddOperand(nop, mapping.mapValue(b, operand))
	}
	for _, res := range op.Results {
		nr := b.AddResult(nop, res.Type)
		nr.Name = res.Name
		mapping[res] = nr
	}
	for _, region := range op.Regions {
		nregion, sub := CloneRegion(b, region, mapping)
		nregion.Parent = nop
		nop.Regions = append(nop.Regions, nregion)
		for k, v := range sub {
			mapping[k] = v
		}
	}
	return nop
}
