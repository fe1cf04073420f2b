// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	hw "github.com/db47h/comphdl"
)

func bits(t *testing.T, s string) []hw.Bit {
	t.Helper()
	bs, err := hw.Bits(s)
	if err != nil {
		t.Fatal(err)
	}
	return bs
}

func tickN(s hw.Component, in []hw.Bit, n int) []hw.Bit {
	var out []hw.Bit
	for i := 0; i < n; i++ {
		out = s.Tick(in)
	}
	return out
}

func TestStructural_initialState(t *testing.T) {
	s := instantiate(t, load(t, or2Src), "Or2")
	for i := 1; i < s.Len(); i++ {
		if !s.Dirty(i) {
			t.Fatalf("slot %d not dirty", i)
		}
		if hw.BitsString(s.SlotOutputs(i)) != "X" {
			t.Fatalf("slot %d output %s", i, hw.BitsString(s.SlotOutputs(i)))
		}
	}
	if s.Child(0) != nil {
		t.Fatal("slot 0 has a component")
	}
	if hw.BitsString(s.Output()) != "X" || hw.BitsString(s.Input()) != "XX" {
		t.Fatal("boundary not initialized to X")
	}
	if len(s.FanOut(0)) != 2 || len(s.FanOut(3)) != 1 {
		t.Fatal("fan-out tables do not match port counts")
	}
}

func TestStructural_or2(t *testing.T) {
	s := instantiate(t, load(t, or2Src), "Or2")
	td := []struct {
		in  string
		out string
	}{
		{"00", "0"},
		{"01", "1"},
		{"10", "1"},
		{"11", "1"},
		{"0X", "X"},
		{"1X", "1"},
		{"XX", "X"},
	}
	for _, d := range td {
		if out := tickN(s, bits(t, d.in), 3); hw.BitsString(out) != d.out {
			t.Errorf("Or2(%s) = %s, expected %s", d.in, hw.BitsString(out), d.out)
		}
	}
}

func TestStructural_propagationDelay(t *testing.T) {
	s := instantiate(t, load(t, or2Src), "Or2")
	tickN(s, bits(t, "00"), 5)
	if out := s.Tick(bits(t, "10")); hw.BitsString(out) != "0" {
		t.Fatalf("changed after 1 tick: %s", hw.BitsString(out))
	}
	if out := s.Tick(bits(t, "10")); hw.BitsString(out) != "1" {
		t.Fatalf("not settled after 2 ticks: %s", hw.BitsString(out))
	}
}

func TestStructural_chainDelay(t *testing.T) {
	// a chain of k inverters needs k ticks
	const k = 6
	var b strings.Builder
	b.WriteString("component Chain(a) -> x {\n\tw[0] = a;\n")
	for i := 0; i < k; i++ {
		fmt.Fprintf(&b, "\tNand(w[%d]) -> w[%d];\n", i, i+1)
	}
	fmt.Fprintf(&b, "\tx = w[%d];\n}\n", k)

	s := instantiate(t, load(t, b.String()), "Chain")
	tickN(s, bits(t, "0"), 2*k)
	if out := s.Output(); hw.BitsString(out) != "0" {
		t.Fatalf("settled to %s", hw.BitsString(out))
	}
	for i := 1; i <= k; i++ {
		out := s.Tick(bits(t, "1"))
		exp := "0"
		if i == k {
			exp = "1"
		}
		if hw.BitsString(out) != exp {
			t.Fatalf("tick %d: got %s, expected %s", i, hw.BitsString(out), exp)
		}
	}
}

func TestStructural_idempotence(t *testing.T) {
	s := instantiate(t, load(t, or2Src), "Or2")
	in := bits(t, "01")
	tickN(s, in, 4)
	before := s.Stats()
	out1 := s.Tick(in)
	out2 := s.Tick(in)
	after := s.Stats()
	if !hw.EqualBits(out1, out2) {
		t.Fatalf("outputs differ: %s, %s", hw.BitsString(out1), hw.BitsString(out2))
	}
	if after.Propagations != before.Propagations || after.Evaluations != before.Evaluations {
		t.Fatalf("work done on unchanged input: before %+v, after %+v", before, after)
	}
	if after.Ticks != before.Ticks+2 {
		t.Fatalf("ticks: %d -> %d", before.Ticks, after.Ticks)
	}
	for i := 1; i < s.Len(); i++ {
		if s.Dirty(i) {
			t.Fatalf("slot %d dirty", i)
		}
	}
	if s.AlwaysDirty() {
		t.Fatal("settled network reports pending work")
	}
}

func TestStructural_wrongInputCount(t *testing.T) {
	s := instantiate(t, load(t, or2Src), "Or2")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	s.Tick(bits(t, "1"))
}

func TestStructural_arrayExpansion(t *testing.T) {
	f := load(t, `
component NotA(a[3:0]) -> x[3:0] {
	Nand(a[3]) -> x[3];
	Nand(a[2]) -> x[2];
	Nand(a[1]) -> x[1];
	Nand(a[0]) -> x[0];
}

component NotS(a3, a2, a1, a0) -> (x3, x2, x1, x0) {
	Nand(a3) -> x3;
	Nand(a2) -> x2;
	Nand(a1) -> x1;
	Nand(a0) -> x0;
}

component ArrayTest1D(a[3:0]) -> b[3:0] {
	a[3:0] = b[3:0];
}`)
	na, ns := instantiate(t, f, "NotA"), instantiate(t, f, "NotS")
	if got := na.PortNames().Inputs; strings.Join(got, ",") != "a$3,a$2,a$1,a$0" {
		t.Fatalf("NotA inputs: %v", got)
	}
	id := instantiate(t, f, "ArrayTest1D")
	if id.NumInputs() != 4 || id.NumOutputs() != 4 {
		t.Fatalf("ArrayTest1D: %d inputs, %d outputs", id.NumInputs(), id.NumOutputs())
	}
	for v := 0; v < 16; v++ {
		in := make([]hw.Bit, 4)
		for i := range in {
			if v&(8>>uint(i)) != 0 {
				in[i] = hw.H
			}
		}
		oa, os := tickN(na, in, 2), tickN(ns, in, 2)
		if !hw.EqualBits(oa, os) {
			t.Fatalf("%s: NotA = %s, NotS = %s", hw.BitsString(in), hw.BitsString(oa), hw.BitsString(os))
		}
		if out := id.Tick(in); !hw.EqualBits(out, in) {
			t.Fatalf("ArrayTest1D(%s) = %s", hw.BitsString(in), hw.BitsString(out))
		}
	}
}

const srLatchSrc = `
// active low set/reset latch
component SR(s_n, r_n) -> (q, q_n) {
	Nand(s_n, q_n) -> q;
	Nand(r_n, q) -> q_n;
}

component Two(s1, r1, s2, r2) -> (q1, q2) {
	SR(s1, r1) -> (q1, _);
	SR(s2, r2) -> (q2, _);
}
`

func TestStructural_independentInstances(t *testing.T) {
	f := load(t, srLatchSrc)
	s := instantiate(t, f, "Two")
	tickN(s, bits(t, "0110"), 10)
	if out := tickN(s, bits(t, "1111"), 10); hw.BitsString(out) != "10" {
		t.Fatalf("got %s, expected 10", hw.BitsString(out))
	}
	// same definition, different state
	a, _ := hw.AsStructural(s.Child(1))
	b, _ := hw.AsStructural(s.Child(2))
	if a == b || hw.EqualBits(a.Output(), b.Output()) {
		t.Fatalf("aliased sub-networks: %s, %s", hw.BitsString(a.Output()), hw.BitsString(b.Output()))
	}

	// two instances from the same factory
	s2 := instantiate(t, f, "Two")
	if out := tickN(s2, bits(t, "1001"), 10); hw.BitsString(out) != "01" {
		t.Fatalf("second instance: got %s", hw.BitsString(out))
	}
	if out := tickN(s, bits(t, "1111"), 2); hw.BitsString(out) != "10" {
		t.Fatalf("first instance changed: %s", hw.BitsString(out))
	}
}

func TestStructural_clone(t *testing.T) {
	s := instantiate(t, load(t, srLatchSrc), "SR")
	tickN(s, bits(t, "01"), 5)
	tickN(s, bits(t, "11"), 5)
	c := s.Clone()
	if out := tickN(c, bits(t, "10"), 5); hw.BitsString(out) != "01" {
		t.Fatalf("clone reset: %s", hw.BitsString(out))
	}
	if out := tickN(s, bits(t, "11"), 5); hw.BitsString(out) != "10" {
		t.Fatalf("original changed by clone: %s", hw.BitsString(out))
	}
}

func TestCloneAsStructural(t *testing.T) {
	w := hw.CloneAsStructural(hw.NewNand(2))
	if w.Name() != "wNand" || w.NumInputs() != 2 || w.NumOutputs() != 1 {
		t.Fatalf("unexpected wrapper %s(%d) -> %d", w.Name(), w.NumInputs(), w.NumOutputs())
	}
	if out := tickN(w, bits(t, "11"), 2); hw.BitsString(out) != "0" {
		t.Fatalf("wNand(1, 1) = %s", hw.BitsString(out))
	}
	s := instantiate(t, load(t, or2Src), "Or2")
	c := hw.CloneAsStructural(s)
	if c == s || c.Len() != s.Len() {
		t.Fatal("CloneAsStructural did not copy the network")
	}
}

func TestStructural_nestedArity(t *testing.T) {
	f := load(t, or2Src+`
component Or4(a[3:0]) -> x {
	Or2(a[3], a[2]) -> x1;
	Or2(a[1], a[0]) -> x0;
	Or2(x1, x0) -> x;
}
component Or8(a[7:0]) -> (x, y) {
	Or4(a[7:4]) -> hi;
	Or4(a[3:0]) -> lo;
	Or2(hi, lo) -> x;
	y = hi;
}`)
	for _, n := range f.Names() {
		c, err := f.Instantiate(n)
		if err != nil {
			t.Fatal(err)
		}
		sig, _ := f.Signature(n)
		if c.NumInputs() != sig.NumInputs() || c.NumOutputs() != sig.NumOutputs() {
			t.Fatalf("%s: arity %d/%d, signature %v", n, c.NumInputs(), c.NumOutputs(), sig)
		}
	}
	s := instantiate(t, f, "Or8")
	if out := tickN(s, bits(t, "00000100"), 10); hw.BitsString(out) != "10" {
		t.Fatalf("Or8 = %s", hw.BitsString(out))
	}
	st := s.Stats()
	if st.Slots != 3+2*(3+3*3)+3 {
		t.Fatalf("unexpected slot count %d", st.Slots)
	}
}

const catSrc = `
// Cat copies its input to its output while run is high.
component Cat(run) -> eof {
	Nand(run, clk) -> clk;
	Stdin(clk) -> (eof, x[7:0]);
	Stdout(clk, x[7:0]) -> ();
}
`

func TestStructural_cat(t *testing.T) {
	const input = "Hello, world!"
	var out bytes.Buffer
	f := load(t, catSrc)
	f.SetInput(hw.NewByteSource(strings.NewReader(input)))
	f.SetOutput(hw.NewByteSink(&out))
	s := instantiate(t, f, "Cat")
	// swapping the streams does not affect existing instances
	f.SetInput(hw.NewByteSource(strings.NewReader("nope")))

	if s.NumInputs() != 1 || s.NumOutputs() != 1 {
		t.Fatalf("Cat has %d inputs and %d outputs", s.NumInputs(), s.NumOutputs())
	}
	for i := 0; i < 10; i++ {
		if out := s.Tick([]hw.Bit{hw.L}); out[0] != hw.X {
			t.Fatalf("tick %d: EOF = %v", i, out[0])
		}
	}
	ticks := 0
	for eof := hw.L; eof != hw.H; ticks++ {
		if ticks > 10*len(input)+10 {
			t.Fatal("no EOF")
		}
		eof = s.Tick([]hw.Bit{hw.H})[0]
	}
	tickN(s, []hw.Bit{hw.H}, 3)
	if out.String() != input {
		t.Fatalf("got %q, expected %q", out.String(), input)
	}
	if ticks > 2*len(input)+6 {
		t.Fatalf("took %d ticks", ticks)
	}
}
