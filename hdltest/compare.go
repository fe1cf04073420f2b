// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdltest provides utility functions for testing components.
//
package hdltest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/comphdl"
)

// Settle ticks c with the same input until its output does not change for one
// tick, or maxTicks is reached. It returns the last output and the number of
// ticks.
//
func Settle(c comphdl.Component, in []comphdl.Bit, maxTicks int) ([]comphdl.Bit, int) {
	out := c.Tick(in)
	n := 1
	for ; n < maxTicks; n++ {
		next := c.Tick(in)
		if comphdl.EqualBits(next, out) && !c.AlwaysDirty() {
			return next, n + 1
		}
		out = next
	}
	return out, n
}

func describe(names []string, bs []comphdl.Bit) string {
	var b strings.Builder
	for i, n := range names {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(bs[i].String())
	}
	return b.String()
}

// TruthTable checks the outputs of c for every combination of its inputs,
// in counting order with the first input as the most significant bit. want[i]
// is the expected output for combination i, as a string of bits (see
// comphdl.Bits). c is ticked the given number of times for each combination.
//
func TruthTable(t testing.TB, c comphdl.Component, ticks int, want ...string) {
	t.Helper()
	n := c.NumInputs()
	if len(want) != 1<<uint(n) {
		t.Fatalf("%s: %d truth table entries for %d inputs", c.Name(), len(want), n)
	}
	pn := c.PortNames()
	in := NewCounter(n)
	for i := range want {
		v := in.Next()
		var out []comphdl.Bit
		for j := 0; j < ticks; j++ {
			out = c.Tick(v)
		}
		exp, err := comphdl.Bits(want[i])
		if err != nil {
			t.Fatal(err)
		}
		if !comphdl.EqualBits(exp, out) {
			t.Errorf("%s(%s) = %s, expected %s", c.Name(), describe(pn.Inputs, v), comphdl.BitsString(out), want[i])
		}
	}
}

// CompareParts drives two components with the same inputs and fails on the
// first difference in their outputs. Both parts must have the same number of
// inputs and outputs. Each input vector is held for ticks ticks. Besides all
// zeros and all ones, iterations random vectors are tried.
//
func CompareParts(t testing.TB, c1, c2 comphdl.Component, iterations, ticks int) {
	t.Helper()

	if c1.NumInputs() != c2.NumInputs() {
		t.Fatalf("%s has %d inputs, %s has %d", c1.Name(), c1.NumInputs(), c2.Name(), c2.NumInputs())
	}
	if c1.NumOutputs() != c2.NumOutputs() {
		t.Fatalf("%s has %d outputs, %s has %d", c1.Name(), c1.NumOutputs(), c2.Name(), c2.NumOutputs())
	}

	n := c1.NumInputs()
	names := c1.PortNames().Inputs
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ones := make([]comphdl.Bit, n)
	for i := range ones {
		ones[i] = comphdl.H
	}
	vectors := [][]comphdl.Bit{make([]comphdl.Bit, n), ones}
	vectors = append(vectors, Take(Random(n, r), iterations)...)

	start := time.Now()
	for _, v := range vectors {
		var o1, o2 []comphdl.Bit
		for i := 0; i < ticks; i++ {
			o1, o2 = c1.Tick(v), c2.Tick(v)
		}
		if !comphdl.EqualBits(o1, o2) {
			t.Fatal(fmt.Sprintf("\nInputs %s\n%s => %s\n%s => %s", describe(names, v),
				c1.Name(), comphdl.BitsString(o1), c2.Name(), comphdl.BitsString(o2)))
		}
	}
	elapsed := time.Since(start)
	total := uint64(len(vectors) * ticks)
	t.Logf("%d vectors, %d ticks in %v => %.2f Hz", len(vectors), total, elapsed, float64(total)/elapsed.Seconds())
}
