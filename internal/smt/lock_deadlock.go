//go:build deadlock

package smt

import "github.com/sasha-s/go-deadlock"

// mutex under -tags deadlock is go-deadlock.Mutex, which panics with a
// full goroutine dump on a detected lock-ordering cycle instead of
// hanging, per §5.
type mutex = deadlock.Mutex
