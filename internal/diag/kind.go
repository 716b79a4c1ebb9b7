// Package diag implements the error taxonomy of §7: typed aborts anchored
// on an offending operation, with stable string codes and colorized
// caret-style reporting, grounded on kanso's internal/errors package.
package diag

// Kind enumerates every abort kind the abstract interpreter (§4.D) and the
// lowering passes (§4.E) can raise, plus MalformedInput for structural
// misuse of PDL/IRDL itself (§7).
type Kind int

const (
	DisconnectedMatch Kind = iota
	OutOfScope
	NoInsertionPoint
	StillInUse
	UsesOutside
	ReplaceWithSelf
	TerminatorErased
	TerminatorReplacedByNonTerminator
	RootUsedInRHS
	UnknownNativeRewrite
	UnknownNativeConstraint
	MalformedInput
)

// Code is the stable, letter-coded identifier printed in diagnostics and
// used by the tabulator to classify verdicts. Grounded on kanso's
// internal/errors/codes.go numbered-range convention, adapted to a
// mnemonic scheme since this domain has no natural "E0001..." continuum.
func (k Kind) Code() string {
	switch k {
	case DisconnectedMatch:
		return "E-DISCONNECTED"
	case OutOfScope:
		return "E-OUTOFSCOPE"
	case NoInsertionPoint:
		return "E-NOINSERTPOINT"
	case StillInUse:
		return "E-STILLINUSE"
	case UsesOutside:
		return "E-USESOUTSIDE"
	case ReplaceWithSelf:
		return "E-REPLACESELF"
	case TerminatorErased:
		return "E-TERMERASED"
	case TerminatorReplacedByNonTerminator:
		return "E-TERMREPLACED"
	case RootUsedInRHS:
		return "E-ROOTINRHS"
	case UnknownNativeRewrite:
		return "E-UNKNOWNREWRITE"
	case UnknownNativeConstraint:
		return "E-UNKNOWNCONSTRAINT"
	case MalformedInput:
		return "E-MALFORMED"
	default:
		return "E-UNKNOWN"
	}
}

func (k Kind) String() string { return k.Code() }
