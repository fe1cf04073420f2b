// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"

	hw "github.com/db47h/comphdl"
	"github.com/db47h/comphdl/hdltest"
)

func TestHalfAdder(t *testing.T) {
	h := newPart(t, "HalfAdder")
	hdltest.TruthTable(t, h, testTicks, "00", "10", "10", "01")

	mine := newPart(t, "MyHalfAdder", parse(t, `
	component MyHalfAdder(a, b) -> (s, c) {
		Nand(a, b) -> n;
		Nand(a, n) -> w0;
		Nand(b, n) -> w1;
		Nand(w0, w1) -> s;
		Nand(n) -> c;
	}`)...)
	hdltest.CompareParts(t, h, mine, 8, testTicks)
}

func TestFullAdder(t *testing.T) {
	hdltest.TruthTable(t, newPart(t, "FullAdder"), 16,
		"00", "10", "10", "01", "10", "01", "01", "11")
}

func TestAdd4(t *testing.T) {
	c := newPart(t, "Add4")
	for a := uint64(0); a < 16; a++ {
		for b := uint64(0); b < 16; b++ {
			in := append(hdltest.FromUint64(a, 4), hdltest.FromUint64(b, 4)...)
			out, _ := hdltest.Settle(c, in, 100)
			// s[3:0], cout
			s, ok := hdltest.Uint64(out[:4])
			if !ok || out[4] == hw.X {
				t.Fatalf("%d + %d = %s", a, b, hw.BitsString(out))
			}
			if out[4] == hw.H {
				s += 16
			}
			if s != a+b {
				t.Errorf("%d + %d = %d", a, b, s)
			}
		}
	}
}
