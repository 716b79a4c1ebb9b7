package diag

import (
	"fmt"

	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// Abort is the verdict of a failed analysis: the first short-circuiting
// error, naming its Kind and the PDL operation that triggered it. A nil
// *Abort (via OK()) means the pattern analyzed clean.
type Abort struct {
	Kind Kind
	Op   *ir.Operation // the offending PDL op, nil for whole-pattern MalformedInput
	Msg  string
}

func New(kind Kind, op *ir.Operation, format string, args ...any) *Abort {
	return &Abort{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (a *Abort) Error() string {
	if a.Op == nil {
		return fmt.Sprintf("%s: %s", a.Kind.Code(), a.Msg)
	}
	return fmt.Sprintf("%s: %s (op %q)", a.Kind.Code(), a.Msg, a.Op.Name)
}

// Verdict is the outcome of one pattern analysis: OK, or the first Abort
// encountered. It is the return type of the abstract interpreter (§4.D)
// and is what the tabulator (§5) cross-tabulates against the dynamic
// (reference-engine) verdict.
type Verdict struct {
	Abort *Abort // nil means OK
}

func OK() Verdict { return Verdict{} }

func Fail(kind Kind, op *ir.Operation, format string, args ...any) Verdict {
	return Verdict{Abort: New(kind, op, format, args...)}
}

func (v Verdict) IsOK() bool { return v.Abort == nil }

func (v Verdict) String() string {
	if v.IsOK() {
		return "OK"
	}
	return v.Abort.Error()
}
