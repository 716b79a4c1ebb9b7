package ir

// WalkPreOrder visits every operation reachable from r, parent before
// children, in source order, stopping early if visit returns false.
func WalkPreOrder(r *Region, visit func(*Operation) bool) bool {
	for _, blk := range r.Blocks {
		for _, op := range blk.Operations {
			if !visit(op) {
				return false
			}
			for _, sub := range op.Regions {
				if !WalkPreOrder(sub, visit) {
					return false
				}
			}
		}
	}
	return true
}

// WalkPostOrder visits every operation reachable from r, children before
// parent, in source order.
func WalkPostOrder(r *Region, visit func(*Operation) bool) bool {
	for _, blk := range r.Blocks {
		for _, op := range blk.Operations {
			for _, sub := range op.Regions {
				if !WalkPostOrder(sub, visit) {
					return false
				}
			}
			if !visit(op) {
				return false
			}
		}
	}
	return true
}

// WalkInBlock visits only blk's direct operations (no descent into
// regions), in source order.
func WalkInBlock(blk *Block, visit func(*Operation) bool) bool {
	for _, op := range blk.Operations {
		if !visit(op) {
			return false
		}
	}
	return true
}
