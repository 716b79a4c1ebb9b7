package tabulate

import (
	"sync"
	"sync/atomic"
)

// Accumulator is the append-only result store §5 calls for: counts are
// kept with atomics so readers never block a worker's Append, but the
// backing slice itself is protected by a plain mutex since append can
// reallocate (a true lock-free append-only log is more machinery than a
// fuzz run needs).
type Accumulator struct {
	mu      sync.Mutex
	records []Record

	total         atomic.Int64
	failed        atomic.Int64
	dynOK         atomic.Int64
	dynAbort      atomic.Int64
	staticSat     atomic.Int64
	staticUnsat   atomic.Int64
	staticSkipped atomic.Int64
	mismatch      atomic.Int64
}

// NewAccumulator preallocates capacity records of backing storage
// (Pool.Run passes 2*workers). This is only an initial size, not a bound:
// Append never blocks and the slice grows as needed.
func NewAccumulator(capacity int) *Accumulator {
	if capacity < 1 {
		capacity = 1
	}
	return &Accumulator{records: make([]Record, 0, capacity)}
}

func (a *Accumulator) Append(r Record) {
	a.mu.Lock()
	a.records = append(a.records, r)
	a.mu.Unlock()

	a.total.Add(1)
	if r.Error != nil {
		a.failed.Add(1)
		return
	}
	if r.Dynamic.OK {
		a.dynOK.Add(1)
		if r.Static.Attempted {
			if r.Static.Sat {
				a.staticSat.Add(1)
			} else {
				a.staticUnsat.Add(1)
			}
		} else {
			a.staticSkipped.Add(1)
		}
	} else {
		a.dynAbort.Add(1)
	}
	if r.Mismatch {
		a.mismatch.Add(1)
	}
}

func (a *Accumulator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// Summary is a point-in-time snapshot of the accumulator's running
// counts, safe to read concurrently with in-flight Appends.
type Summary struct {
	Total, Failed           int64
	DynamicOK, DynamicAbort int64
	StaticSat, StaticUnsat  int64
	StaticSkipped           int64 // dynamic OK but lowering/solver never produced a verdict
	Mismatch                int64
}

func (a *Accumulator) Summary() Summary {
	return Summary{
		Total:         a.total.Load(),
		Failed:        a.failed.Load(),
		DynamicOK:     a.dynOK.Load(),
		DynamicAbort:  a.dynAbort.Load(),
		StaticSat:     a.staticSat.Load(),
		StaticUnsat:   a.staticUnsat.Load(),
		StaticSkipped: a.staticSkipped.Load(),
		Mismatch:      a.mismatch.Load(),
	}
}

// CrossTab is the §6-mandated 2×2 {static pass/fail} × {dynamic
// pass/fail} table. A trial only reaches the static pipeline once its
// dynamic verdict is OK (Trial, tabulate.go), so "static pass" and
// "static fail" are both zero in the dynamic-fail row by construction —
// that reflects the pipeline's real dependency order (§4.E: lowering
// replays the rewrite's final state, which a dynamic abort never fully
// produces), not a reporting gap. A skipped static attempt (lowering or
// solver failure) counts as "static fail": it never yielded a safety
// proof.
type CrossTab struct {
	DynamicOKStaticPass   int64 // unsat: proven type-safe
	DynamicOKStaticFail   int64 // sat, or lowering/solver never concluded
	DynamicFailStaticPass int64 // always zero; kept for table symmetry
	DynamicFailStaticFail int64 // dynamic abort; static never attempted
}

func (a *Accumulator) CrossTab() CrossTab {
	s := a.Summary()
	return CrossTab{
		DynamicOKStaticPass:   s.StaticUnsat,
		DynamicOKStaticFail:   s.StaticSat + s.StaticSkipped,
		DynamicFailStaticPass: 0,
		DynamicFailStaticFail: s.DynamicAbort,
	}
}
