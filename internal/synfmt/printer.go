package synfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// Print renders region back to the generic syntax of §6, the inverse of
// Parse: every operand/result/block-arg keeps the name it was parsed
// with (Value.Name), so re-parsing Print's output reproduces the same
// tree modulo cosmetic whitespace — the round-trip guarantee §6 requires.
func Print(region *ir.Region) string {
	var sb strings.Builder
	for _, blk := range region.Blocks {
		printOps(&sb, blk.Operations, 0)
	}
	return sb.String()
}

func printOps(sb *strings.Builder, ops []*ir.Operation, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, op := range ops {
		sb.WriteString(pad)
		printOp(sb, op, indent)
		sb.WriteString("\n")
	}
}

func printOp(sb *strings.Builder, op *ir.Operation, indent int) {
	if len(op.Results) > 0 {
		names := make([]string, len(op.Results))
		for i, r := range op.Results {
			names[i] = valueName(r)
		}
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString(" = ")
	}
	fmt.Fprintf(sb, "%q(", op.Name)
	operands := make([]string, len(op.Operands))
	for i, v := range op.Operands {
		operands[i] = valueName(v)
	}
	sb.WriteString(strings.Join(operands, ", "))
	sb.WriteString(")")

	if len(op.Attributes) > 0 {
		sb.WriteString(" <{")
		parts := make([]string, len(op.Attributes))
		for i, a := range op.Attributes {
			parts[i] = a.Name + " = " + a.Value.String()
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("}>")
	}

	for _, r := range op.Regions {
		sb.WriteString(" (")
		printRegion(sb, r, indent)
		sb.WriteString(")")
	}

	if len(op.Operands) > 0 {
		sb.WriteString(" : (")
		types := make([]string, len(op.Operands))
		for i, v := range op.Operands {
			types[i] = typeString(v)
		}
		sb.WriteString(strings.Join(types, ", "))
		sb.WriteString(")")
	}
	if len(op.Results) > 0 {
		sb.WriteString(" -> (")
		types := make([]string, len(op.Results))
		for i, v := range op.Results {
			types[i] = typeString(v)
		}
		sb.WriteString(strings.Join(types, ", "))
		sb.WriteString(")")
	}
}

func printRegion(sb *strings.Builder, r *ir.Region, indent int) {
	sb.WriteString("{\n")
	for _, blk := range r.Blocks {
		blkPad := strings.Repeat("  ", indent+1)
		sb.WriteString(blkPad)
		sb.WriteString(blockLabel(blk))
		if len(blk.Args) > 0 {
			sb.WriteString("(")
			args := make([]string, len(blk.Args))
			for i, a := range blk.Args {
				args[i] = valueName(a) + ": " + typeString(a)
			}
			sb.WriteString(strings.Join(args, ", "))
			sb.WriteString(")")
		}
		sb.WriteString(":\n")
		printOps(sb, blk.Operations, indent+2)
	}
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString("}")
}

func blockLabel(blk *ir.Block) string {
	if blk.Label != "" {
		return "^" + blk.Label
	}
	return fmt.Sprintf("^bb%d", blk.ID())
}

func valueName(v *ir.Value) string {
	if v == nil {
		return "%<nil>"
	}
	if v.Name != "" {
		return "%" + v.Name
	}
	return "%v" + strconv.Itoa(v.ID())
}

func typeString(v *ir.Value) string {
	if v.Type == nil {
		return "!irdl.constraint"
	}
	return v.Type.String()
}
