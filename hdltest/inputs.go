// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdltest

import (
	"math/rand"

	"github.com/db47h/comphdl"
	"github.com/db47h/comphdl/internal/inputs"
)

// A Sequence generates input vectors, one per tick. Sequences never end.
//
type Sequence = inputs.Sequence

// Counter counts through all the combinations of its bits, most significant
// bit first. See NewCounter and NewRepeat.
//
type Counter = inputs.Counter

// NewCounter returns a counter of n bits, starting at 0, that changes value on
// every tick.
//
func NewCounter(n int) *Counter { return inputs.NewCounter(n) }

// NewRepeat returns a counter of n bits where each value is repeated rep
// times.
//
func NewRepeat(n, rep int) *Counter { return inputs.NewRepeat(n, rep) }

// Constant returns a sequence that always returns v.
//
func Constant(v []comphdl.Bit) Sequence { return inputs.Constant(v) }

// Random returns a sequence of random n-bit vectors without X bits.
//
func Random(n int, r *rand.Rand) Sequence { return inputs.Random(n, r) }

// Take returns the next n vectors from s.
//
func Take(s Sequence, n int) [][]comphdl.Bit { return inputs.Take(s, n) }

// Uint64 returns the value of bs, most significant bit first. ok is false if
// any bit is X.
//
func Uint64(bs []comphdl.Bit) (uint64, bool) { return inputs.Uint64(bs) }

// FromUint64 returns the n low bits of v, most significant bit first.
//
func FromUint64(v uint64, n int) []comphdl.Bit { return inputs.FromUint64(v, n) }
