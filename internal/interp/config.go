package interp

import "github.com/xirdlcheck/xirdlcheck/internal/dialect"

// Strictness selects whether matched results are seeded with an
// UnknownUse token modeling a possible consumer outside the pattern
// (§4.D). STRICT is the source's enshrined default per the spec's
// resolution of open question 1.
type Strictness int

const (
	Strict Strictness = iota
	AssumeNoUseOutside
)

// Config is the explicit, immutable configuration threaded through the
// interpreter, replacing mutable global flags per §9's design note.
type Config struct {
	Strictness Strictness
	Registry   *dialect.Registry
}

func DefaultConfig(reg *dialect.Registry) Config {
	return Config{Strictness: Strict, Registry: reg}
}
