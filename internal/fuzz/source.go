// Package fuzz implements §4.C: two deterministic generators parameterized
// by a seed (an operation-DAG generator and a PDL pattern generator) plus
// a dominance-honouring interleaver that places the pattern into the DAG.
// Grounded on funxy's tests/fuzz/generators package: the RandomSource
// abstraction and its two implementations (a math/rand-backed seeded
// source for reproducible runs, a byte-slice-backed source for corpus
// replay) are adapted file-for-file from generator.go.
package fuzz

import "math/rand"

// RandomSource abstracts where randomness comes from, so the same
// generator code drives both a seeded run (§5: "each worker seeds a
// fresh rand.Rand from baseSeed+taskIndex") and a saved failing corpus
// entry replayed byte-for-byte.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.Rand, the normal seeded source.
type RandSource struct {
	*rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{rand.New(rand.NewSource(seed))}
}

// ByteSource replays a fixed byte slice, e.g. a minimized failing input
// saved by the tabulator, without needing math/rand's algorithm to stay
// stable across Go versions.
type ByteSource struct {
	data []byte
	pos  int
}

func NewByteSource(data []byte) *ByteSource { return &ByteSource{data: data} }

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}
