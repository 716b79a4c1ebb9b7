//go:build !deadlock

package smt

import "sync"

// mutex is sync.Mutex by default; built with -tags deadlock it becomes
// go-deadlock's drop-in replacement (lock.go / lock_deadlock.go), per
// §5's note that the solver's per-instance lock is the one place this
// module takes a non-trivial lock worth instrumenting during development.
type mutex = sync.Mutex
