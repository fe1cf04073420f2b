// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"

	hw "github.com/db47h/comphdl"
	"github.com/db47h/comphdl/hdltest"
)

type step struct {
	in   string
	want string
}

func runSteps(t *testing.T, c hw.Component, steps []step) {
	t.Helper()
	for i, s := range steps {
		out, _ := hdltest.Settle(c, hw.MustBits(s.in), 100)
		if got := hw.BitsString(out); got != s.want {
			t.Fatalf("step %d: %s(%s) = %s, expected %s", i, c.Name(), s.in, got, s.want)
		}
	}
}

func TestSRLatch(t *testing.T) {
	runSteps(t, newPart(t, "SRLatch"), []step{
		{"11", "XX"},
		{"01", "10"},
		{"11", "10"},
		{"10", "01"},
		{"11", "01"},
		{"01", "10"},
	})
}

func TestDLatch(t *testing.T) {
	runSteps(t, newPart(t, "DLatch"), []step{
		{"10", "XX"},
		{"11", "10"},
		{"01", "01"},
		{"00", "01"},
		{"10", "01"},
		{"11", "10"},
		{"00", "10"},
	})
}

func TestDFF(t *testing.T) {
	runSteps(t, newPart(t, "DFF"), []step{
		{"10", "X"},
		{"11", "1"},
		{"01", "1"},
		{"00", "1"},
		{"01", "0"},
		{"11", "0"},
		{"10", "0"},
		{"11", "1"},
	})
}

func TestRegister8(t *testing.T) {
	c := newPart(t, "Register8")
	clk := func(v uint8, clk hw.Bit) []hw.Bit {
		return append(hw.ByteToBits(v), clk)
	}
	prev := hw.Unknown(8)
	for i := 255; i >= 0; i -= 17 {
		v := uint8(i)
		// set input while the clock is low
		out, _ := hdltest.Settle(c, clk(v, hw.L), 100)
		if !hw.EqualBits(out, prev) {
			t.Fatalf("input %d, clock low: expected %s, got %s", v, hw.BitsString(prev), hw.BitsString(out))
		}
		out, _ = hdltest.Settle(c, clk(v, hw.H), 100)
		if b, ok := hw.BitsToByte(out); !ok || b != v {
			t.Fatalf("input %d, rising edge: got %s", v, hw.BitsString(out))
		}
		// change input while the clock is high
		out, _ = hdltest.Settle(c, clk(^v, hw.H), 100)
		if b, ok := hw.BitsToByte(out); !ok || b != v {
			t.Fatalf("input %d, clock high: got %s", v, hw.BitsString(out))
		}
		prev = out
	}
}
