// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package inputs provides generators of component input vectors.
//
package inputs

import (
	"math/rand"

	"github.com/db47h/comphdl"
)

// A Sequence generates input vectors, one per tick. Sequences never end.
//
type Sequence interface {
	Next() []comphdl.Bit
}

// Counter counts through all the combinations of its bits, most significant
// bit first, holding each value for a fixed number of ticks. X bits are never
// incremented: the carry goes through them to the next bit.
//
type Counter struct {
	cur   []comphdl.Bit
	count int
	rep   int
}

// NewCounter returns a counter of n bits, starting at 0, that changes value on
// every tick.
//
func NewCounter(n int) *Counter { return NewRepeat(n, 1) }

// NewRepeat returns a counter of n bits where each value is repeated rep
// times.
//
func NewRepeat(n, rep int) *Counter {
	if rep < 1 {
		rep = 1
	}
	return &Counter{cur: make([]comphdl.Bit, n), count: rep, rep: rep}
}

// Start sets the counter value. The length of v must match the counter size.
//
func (c *Counter) Start(v []comphdl.Bit) *Counter {
	if len(v) != len(c.cur) {
		panic("counter size mismatch")
	}
	copy(c.cur, v)
	c.count = c.rep
	return c
}

// Next implements Sequence.
//
func (c *Counter) Next() []comphdl.Bit {
	v := append([]comphdl.Bit(nil), c.cur...)
	c.count--
	if c.count == 0 {
		increment(c.cur)
		c.count = c.rep
	}
	return v
}

func increment(bs []comphdl.Bit) {
	for i := len(bs) - 1; i >= 0; i-- {
		switch bs[i] {
		case comphdl.L:
			bs[i] = comphdl.H
			return
		case comphdl.H:
			bs[i] = comphdl.L
		}
	}
}

type constant []comphdl.Bit

func (c constant) Next() []comphdl.Bit { return append([]comphdl.Bit(nil), c...) }

// Constant returns a sequence that always returns v.
//
func Constant(v []comphdl.Bit) Sequence {
	return constant(append([]comphdl.Bit(nil), v...))
}

type random struct {
	n int
	r *rand.Rand
}

func (s *random) Next() []comphdl.Bit {
	v := make([]comphdl.Bit, s.n)
	for i := range v {
		if s.r.Int63()&(1<<62) != 0 {
			v[i] = comphdl.H
		}
	}
	return v
}

// Random returns a sequence of random n-bit vectors without X bits.
//
func Random(n int, r *rand.Rand) Sequence {
	return &random{n: n, r: r}
}

// Take returns the next n vectors from s.
//
func Take(s Sequence, n int) [][]comphdl.Bit {
	vs := make([][]comphdl.Bit, n)
	for i := range vs {
		vs[i] = s.Next()
	}
	return vs
}

// Uint64 returns the value of the n-bit vector bs, most significant bit first.
// ok is false if any bit is X.
//
func Uint64(bs []comphdl.Bit) (v uint64, ok bool) {
	for _, b := range bs {
		switch b {
		case comphdl.H:
			v = v<<1 | 1
		case comphdl.L:
			v <<= 1
		default:
			return 0, false
		}
	}
	return v, true
}

// FromUint64 returns the n low bits of v, most significant bit first.
//
func FromUint64(v uint64, n int) []comphdl.Bit {
	bs := make([]comphdl.Bit, n)
	for i := range bs {
		if v&(1<<uint(n-1-i)) != 0 {
			bs[i] = comphdl.H
		}
	}
	return bs
}
