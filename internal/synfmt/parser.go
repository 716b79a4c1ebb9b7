package synfmt

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"

	"github.com/xirdlcheck/xirdlcheck/internal/diag"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

var parser = participle.MustBuild[File](
	participle.Lexer(GenericLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// Positions maps every parsed operation back to its source span and
// implements internal/diag.PositionLookup so Reporter can anchor caret
// diagnostics on it.
type Positions struct {
	byOp map[*ir.Operation]diag.Position
}

func (p *Positions) Position(op *ir.Operation) (diag.Position, bool) {
	pos, ok := p.byOp[op]
	return pos, ok
}

func toDiagPosition(pos lexer.Position) diag.Position {
	return diag.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// ParseFile reads path and builds an internal/ir tree out of it.
func ParseFile(b *ir.Builder, path string) (*ir.Region, *Positions, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(b, path, string(source))
}

// Parse builds an internal/ir tree (one region, one top-level block, ops
// in source order) out of source, rooted at filename for diagnostics.
func Parse(b *ir.Builder, filename, source string) (*ir.Region, *Positions, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, nil, err
	}

	bl := newBuilder(b)
	region := b.NewRegion()
	blk := b.NewBlock("")
	blk.Parent = region
	region.Blocks = append(region.Blocks, blk)

	top := newScope()
	for _, stmt := range file.Ops {
		if _, err := bl.buildOp(blk, stmt, top); err != nil {
			return nil, nil, err
		}
	}
	return region, bl.positions, nil
}

func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}
	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"
	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
