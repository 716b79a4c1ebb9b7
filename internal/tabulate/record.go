package tabulate

import (
	"time"

	"github.com/google/uuid"
)

// DynamicVerdict mirrors diag.Verdict without importing internal/interp
// directly into the record type — tabulate only needs the verdict's
// reportable shape (ok or a named abort), not the interpreter's state.
type DynamicVerdict struct {
	OK   bool
	Code string // diag.Kind.Code(), empty when OK
	Msg  string
}

// StaticVerdict mirrors smt.Result the same way.
type StaticVerdict struct {
	Attempted bool // false when the pattern never reached lowering (e.g. dynamic abort)
	Sat       bool
	Model     string
}

// Record is one completed fuzz trial: every field the accumulator keeps
// and the sqlite store (store/store.go) persists a row for.
type Record struct {
	Seed      int64
	PatternID uuid.UUID
	Dynamic   DynamicVerdict
	Static    StaticVerdict
	Elapsed   time.Duration
	Error     error // set by safe.go on panic/infrastructure failure

	// Reference and Mismatch are populated only when a ReferenceRunner
	// was configured (§7 differential testing); Mismatch is the whole
	// point of the fuzz harness when it's true.
	ReferenceChecked bool
	ReferenceOK      bool
	Mismatch         bool
}

// NewPatternID mints a fresh random pattern identifier, grounded on the
// teacher's use of a stable external id scheme for cross-run artifacts.
func NewPatternID() uuid.UUID { return uuid.New() }
