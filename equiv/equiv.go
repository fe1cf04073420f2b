// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package equiv checks the functional equivalence of two combinational
// components.
//
// Both components are flattened down to Nand gates into a single
// and-inverter graph with shared inputs. The outputs are then compared pairwise
// by a miter circuit and a SAT solver looks for an input vector for which the
// miter is true.
//
// Only two valued logic is modeled: X is not a valid input, and ConstantBit's
// X output may not be used. Components with a loop (latches, oscillators) or
// using I/O bridges are rejected.
//
package equiv

import (
	"fmt"
	"strings"

	"github.com/db47h/comphdl"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// Errors.
//
var (
	ErrUnsupported = errors.New("unsupported construct")
	ErrCycle       = errors.New("combinational loop")
	ErrInterface   = errors.New("interface mismatch")
	ErrSolver      = errors.New("solver interrupted")
)

// Result is the outcome of an equivalence check.
//
type Result struct {
	Equivalent bool
	// Counterexample is an input vector for which the components differ.
	// Outputs holds the corresponding outputs of both components.
	Counterexample []comphdl.Bit
	Outputs        [2][]comphdl.Bit
}

func (r *Result) String() string {
	if r.Equivalent {
		return "equivalent"
	}
	return fmt.Sprintf("differ on input %s: %s != %s",
		comphdl.BitsString(r.Counterexample),
		comphdl.BitsString(r.Outputs[0]),
		comphdl.BitsString(r.Outputs[1]))
}

// Check checks whether components a and b compiled by f compute the same
// function.
//
func Check(f *comphdl.Factory, a, b string) (*Result, error) {
	sa, ok := f.Signature(a)
	if !ok {
		return nil, errors.Wrap(comphdl.ErrUnknownComponent, a)
	}
	sb, ok := f.Signature(b)
	if !ok {
		return nil, errors.Wrap(comphdl.ErrUnknownComponent, b)
	}
	if sa.NumInputs() != sb.NumInputs() || sa.NumOutputs() != sb.NumOutputs() {
		return nil, errors.Wrapf(ErrInterface, "%s and %s", sa, sb)
	}

	c := logic.NewC()
	ins := make([]z.Lit, sa.NumInputs())
	for i := range ins {
		ins[i] = c.Lit()
	}
	fl := &flattener{f: f, c: c}
	oa, err := fl.eval(a, ins)
	if err != nil {
		return nil, err
	}
	ob, err := fl.eval(b, ins)
	if err != nil {
		return nil, err
	}

	diffs := make([]z.Lit, len(oa))
	for i := range oa {
		diffs[i] = c.Xor(oa[i], ob[i])
	}
	miter := c.Ors(diffs...)
	if miter == c.F {
		return &Result{Equivalent: true}, nil
	}

	g := gini.New()
	c.ToCnf(g)
	g.Add(c.T)
	g.Add(z.LitNull)
	g.Assume(miter)
	switch g.Solve() {
	case -1:
		return &Result{Equivalent: true}, nil
	case 1:
	default:
		return nil, ErrSolver
	}

	value := func(m z.Lit) comphdl.Bit {
		if m.Var() <= g.MaxVar() && g.Value(m) {
			return comphdl.H
		}
		return comphdl.L
	}
	values := func(ms []z.Lit) []comphdl.Bit {
		bs := make([]comphdl.Bit, len(ms))
		for i, m := range ms {
			bs[i] = value(m)
		}
		return bs
	}
	return &Result{
		Counterexample: values(ins),
		Outputs:        [2][]comphdl.Bit{values(oa), values(ob)},
	}, nil
}

type flattener struct {
	f *comphdl.Factory
	c *logic.C
}

// eval returns the output literals of an instance of component name with the
// given inputs.
//
func (fl *flattener) eval(name string, ins []z.Lit) ([]z.Lit, error) {
	switch name {
	case comphdl.NandName:
		return []z.Lit{fl.c.Ands(ins...).Not()}, nil
	case comphdl.ConstantBitName:
		// the X output is z.LitNull and rejected if used.
		return []z.Lit{fl.c.F, fl.c.T, z.LitNull}, nil
	case comphdl.StdinName, comphdl.StdoutName:
		return nil, errors.Wrapf(ErrUnsupported, "I/O component %s", name)
	}
	d, ok := fl.f.Definition(name)
	if !ok {
		return nil, errors.Wrap(comphdl.ErrUnknownComponent, name)
	}
	for s := 1; s < d.Len(); s++ {
		if k := d.Child(s); k == comphdl.StdinName || k == comphdl.StdoutName {
			return nil, errors.Wrapf(ErrUnsupported, "%s: I/O component %s#%d", name, k, s)
		}
	}
	b := newBody(fl, d, ins)
	for s := 1; s < d.Len(); s++ {
		if err := b.evalSlot(s); err != nil {
			return nil, err
		}
	}
	outs := make([]z.Lit, d.Signature().NumOutputs())
	for p := range outs {
		m, err := b.value(comphdl.Endpoint{Slot: 0, Port: p, Dir: comphdl.Input})
		if err != nil {
			return nil, err
		}
		outs[p] = m
	}
	return outs, nil
}

const (
	unvisited = iota
	visiting
	done
)

// body evaluates the children of a definition on demand, in dependency order.
//
type body struct {
	fl      *flattener
	d       *comphdl.Definition
	drivers map[comphdl.Endpoint]comphdl.Endpoint
	outs    [][]z.Lit
	state   []uint8
	stack   []int
}

func newBody(fl *flattener, d *comphdl.Definition, ins []z.Lit) *body {
	b := &body{
		fl:      fl,
		d:       d,
		drivers: make(map[comphdl.Endpoint]comphdl.Endpoint),
		outs:    make([][]z.Lit, d.Len()),
		state:   make([]uint8, d.Len()),
	}
	for _, c := range d.Connections() {
		for _, l := range c.Loads {
			b.drivers[l] = c.Driver
		}
	}
	b.outs[0] = ins
	b.state[0] = done
	return b
}

func (b *body) describe(ep comphdl.Endpoint) string {
	if ep.Slot == 0 {
		return fmt.Sprintf("%s output %d", b.d.Name(), ep.Port)
	}
	return fmt.Sprintf("%s: %s#%d input %d", b.d.Name(), b.d.Child(ep.Slot), ep.Slot, ep.Port)
}

// value returns the literal driving the load ep.
//
func (b *body) value(ep comphdl.Endpoint) (z.Lit, error) {
	drv, ok := b.drivers[ep]
	if !ok {
		return z.LitNull, errors.Wrapf(ErrUnsupported, "undriven %s", b.describe(ep))
	}
	if err := b.evalSlot(drv.Slot); err != nil {
		return z.LitNull, err
	}
	m := b.outs[drv.Slot][drv.Port]
	if m == z.LitNull {
		return z.LitNull, errors.Wrapf(ErrUnsupported, "X constant drives %s", b.describe(ep))
	}
	return m, nil
}

func (b *body) evalSlot(s int) error {
	switch b.state[s] {
	case done:
		return nil
	case visiting:
		return errors.Wrapf(ErrCycle, "%s: %s", b.d.Name(), b.path(s))
	}
	b.state[s] = visiting
	b.stack = append(b.stack, s)
	n, _ := b.d.Arity(s)
	ins := make([]z.Lit, n)
	for p := range ins {
		m, err := b.value(comphdl.Endpoint{Slot: s, Port: p, Dir: comphdl.Input})
		if err != nil {
			return err
		}
		ins[p] = m
	}
	outs, err := b.fl.eval(b.d.Child(s), ins)
	if err != nil {
		return errors.Wrapf(err, "%s#%d", b.d.Child(s), s)
	}
	b.outs[s] = outs
	b.state[s] = done
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

// path returns the loop closed by slot s.
//
func (b *body) path(s int) string {
	var parts []string
	i := len(b.stack) - 1
	for i > 0 && b.stack[i] != s {
		i--
	}
	for _, j := range b.stack[i:] {
		parts = append(parts, fmt.Sprintf("%s#%d", b.d.Child(j), j))
	}
	parts = append(parts, fmt.Sprintf("%s#%d", b.d.Child(s), s))
	return strings.Join(parts, " -> ")
}
