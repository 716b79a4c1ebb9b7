package ir

import (
	"fmt"
	"strings"
)

// Print renders region as an indented debug dump. The round-tripping
// generic-syntax printer required by §6 lives in internal/synfmt, which
// walks the same Operation tree; this one exists for logs and test
// failure messages, in the spirit of kanso's ir.PrintProgram debug dump.
func Print(r *Region) string {
	var b strings.Builder
	printRegion(&b, r, 0)
	return b.String()
}

func printRegion(b *strings.Builder, r *Region, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, blk := range r.Blocks {
		fmt.Fprintf(b, "%s^%s(%s):\n", pad, blk.Label, joinValues(blk.Args))
		for _, op := range blk.Operations {
			printOp(b, op, indent+1)
		}
	}
}

func printOp(b *strings.Builder, op *Operation, indent int) {
	pad := strings.Repeat("  ", indent)
	results := joinValues(op.Results)
	if results != "" {
		results = results + " = "
	}
	name := op.Name
	if name == "" {
		name = "<any>"
	}
	fmt.Fprintf(b, "%s%s%q(%s)", pad, results, name, joinValues(op.Operands))
	if len(op.Attributes) > 0 {
		parts := make([]string, len(op.Attributes))
		for i, a := range op.Attributes {
			parts[i] = a.Name + " = " + a.Value.String()
		}
		fmt.Fprintf(b, " <{%s}>", strings.Join(parts, ", "))
	}
	if len(op.Regions) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" ({\n")
	for _, r := range op.Regions {
		printRegion(b, r, indent+1)
	}
	fmt.Fprintf(b, "%s})\n", pad)
}

func joinValues(vs []*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = valueName(v)
	}
	return strings.Join(parts, ", ")
}

func valueName(v *Value) string {
	if v == nil {
		return "<nil>"
	}
	if v.Name != "" {
		return "%" + v.Name
	}
	return fmt.Sprintf("%%%d", v.id)
}
