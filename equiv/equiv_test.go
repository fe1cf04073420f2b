// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package equiv_test

import (
	"testing"

	hw "github.com/db47h/comphdl"
	"github.com/db47h/comphdl/equiv"
	"github.com/db47h/comphdl/hdltest"
	"github.com/db47h/comphdl/hwlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSrc = `
component OrNor(a, b) -> x {
	Nand(a, a) -> n_a;
	Nand(b, b) -> n_b;
	Nand(n_a, n_b) -> t;
	Nand(t) -> nt;
	Nand(nt) -> x;
}

// wrong carry
component BadHalfAdder(a, b) -> (s, c) {
	Xor(a, b) -> s;
	Or(a, b) -> c;
}

component MyAdd4(a[3:0], b[3:0]) -> (s[3:0], cout) {
	FullAdder(a[0], b[0], zero) -> (s[0], c0);
	FullAdder(a[1], b[1], c0) -> (s[1], c1);
	FullAdder(a[2], b[2], c1) -> (s[2], c2);
	FullAdder(a[3], b[3], c2) -> (s[3], cout);
	False() -> zero;
}

component Unknown(a) -> x {
	ConstantBit() -> (_, _, u);
	And(a, u) -> x;
}

component Floating(a) -> x {
	And(a, b) -> x;
}

component Stuck(a) -> x {
	Nand(a) -> x;
	Stdout(a, a, a, a, a, a, a, a, a) -> ();
}

component Latch(s_n, r_n) -> q {
	SRLatch(s_n, r_n) -> (q, _);
}
`

func factory(t *testing.T) *hw.Factory {
	t.Helper()
	srcs, err := hw.Parse("equiv.hdl", []byte(testSrc))
	require.NoError(t, err)
	f, err := hwlib.Factory(srcs)
	require.NoError(t, err)
	return f
}

func TestCheck_equivalent(t *testing.T) {
	f := factory(t)
	td := [][2]string{
		{"Or", "OrNor"},
		{"Add4", "MyAdd4"},
		{"Buf", "Buf"},
		{"Mux", "Mux"},
	}
	for _, d := range td {
		r, err := equiv.Check(f, d[0], d[1])
		require.NoError(t, err, "%s/%s", d[0], d[1])
		assert.True(t, r.Equivalent, "%s/%s: %v", d[0], d[1], r)
	}
}

func TestCheck_counterexample(t *testing.T) {
	f := factory(t)
	td := [][2]string{
		{"And", "Or"},
		{"HalfAdder", "BadHalfAdder"},
		{"True", "False"},
		{"Xor", "Xnor"},
	}
	for _, d := range td {
		r, err := equiv.Check(f, d[0], d[1])
		require.NoError(t, err)
		require.False(t, r.Equivalent, "%s/%s", d[0], d[1])

		// the counterexample must hold in simulation
		var outs [2][]hw.Bit
		for i, name := range d {
			c, err := f.Instantiate(name)
			require.NoError(t, err)
			outs[i], _ = hdltest.Settle(c, r.Counterexample, 100)
			assert.Equal(t, hw.BitsString(r.Outputs[i]), hw.BitsString(outs[i]), "%s(%s)", name, hw.BitsString(r.Counterexample))
		}
		assert.NotEqual(t, hw.BitsString(outs[0]), hw.BitsString(outs[1]))
	}
}

func TestCheck_errors(t *testing.T) {
	f := factory(t)
	td := []struct {
		a, b string
		err  error
	}{
		{"Not", "And", equiv.ErrInterface},
		{"Cat", "Invert", equiv.ErrUnsupported},
		{"Stuck", "Not", equiv.ErrUnsupported},
		{"Unknown", "Buf", equiv.ErrUnsupported},
		{"Floating", "Buf", equiv.ErrUnsupported},
		{"Clock", "Buf", equiv.ErrCycle},
		{"DFF", "And", equiv.ErrCycle},
		{"Latch", "And", equiv.ErrCycle},
		{"Nope", "And", hw.ErrUnknownComponent},
	}
	for _, d := range td {
		_, err := equiv.Check(f, d.a, d.b)
		require.Error(t, err, "%s/%s", d.a, d.b)
		assert.ErrorIs(t, err, d.err, "%s/%s: %v", d.a, d.b, err)
	}
}
