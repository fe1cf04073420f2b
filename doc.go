// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package comphdl compiles a small hierarchical hardware description language into
networks of logic gates and simulates them one tick at a time with tri-state
(0, 1, X) signals.

Components are defined in terms of other components. The only builtin logic
gate is an n-input Nand:

	component Not(a) -> x {
		Nand(a) -> x;
	}

	component Or2(a, b) -> x {
		Not(a) -> n_a;
		Not(b) -> n_b;
		Nand(n_a, n_b) -> x;
	}

Other builtins are ConstantBit() -> (o0, o1, oX), which outputs 0, 1 and X,
and two byte stream bridges: Stdin(clk) -> (EOF, x7..x0) and
Stdout(clk, x7..x0) -> (), which read or write one byte on each rising edge
of clk.

Ports can be 1D arrays: a[3:0] is shorthand for a$3, a$2, a$1, a$0. The name
_ denotes an unconnected port. Assignments such as x[3:0] = a[3:0] merge
signals: each resulting signal must have at most one driver.

Sources are compiled into a Factory, which then instantiates components into
Structural networks:

	f, err := comphdl.Load("or.hdl", src)
	if err != nil {
		// handle error
	}
	c, err := f.Instantiate("Or2")
	if err != nil {
		// handle error
	}
	out := c.Tick([]comphdl.Bit{comphdl.L, comphdl.H})

On each tick, a Structural network evaluates each of its children, one after
the other, from the values committed on the previous tick. A signal going
through n gates in series needs n ticks to propagate. Nested networks are ticked once per
tick of their parent.
*/
package comphdl
