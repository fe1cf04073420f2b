// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Direction is the direction of an Endpoint, as seen from inside a component
// body.
//
type Direction uint8

// Endpoint directions.
//
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// An Endpoint is one port of one child in a component body. Slot 0 is the body
// itself, with inverted directions: the component inputs are Output endpoints
// and its outputs are Input endpoints.
//
type Endpoint struct {
	Slot int
	Port int
	Dir  Direction
}

func less(a, b Endpoint) bool {
	if a.Slot != b.Slot {
		return a.Slot < b.Slot
	}
	if a.Port != b.Port {
		return a.Port < b.Port
	}
	return a.Dir < b.Dir
}

// A Connection is a resolved signal: its single driver and its loads.
//
type Connection struct {
	Signal string
	Driver Endpoint
	Loads  []Endpoint
}

// A Definition is a compiled component body.
//
type Definition struct {
	sig      *Signature
	children []string
	arity    [][2]int
	conns    []Connection
	undriven []string
	fanOut   [][][]Index
}

// Signature returns the component signature.
//
func (d *Definition) Signature() *Signature { return d.sig }

// Name returns the component name.
//
func (d *Definition) Name() string { return d.sig.name }

// Len returns the number of children, including the boundary at index 0.
//
func (d *Definition) Len() int { return len(d.children) }

// Child returns the component kind of child i. Child(0) is the definition's
// own name.
//
func (d *Definition) Child(i int) string { return d.children[i] }

// Arity returns the number of inputs and outputs of child i, as used in the
// body. For child 0 these are the numbers of Output and Input endpoints of the
// boundary.
//
func (d *Definition) Arity(i int) (in, out int) { return d.arity[i][0], d.arity[i][1] }

// Connections returns the resolved signals, sorted by driver.
//
func (d *Definition) Connections() []Connection {
	cs := make([]Connection, len(d.conns))
	for i, c := range d.conns {
		c.Loads = append([]Endpoint(nil), c.Loads...)
		cs[i] = c
	}
	return cs
}

// Loads returns the endpoints driven by driver.
//
func (d *Definition) Loads(driver Endpoint) []Endpoint {
	i := sort.Search(len(d.conns), func(i int) bool { return !less(d.conns[i].Driver, driver) })
	if i < len(d.conns) && d.conns[i].Driver == driver {
		return append([]Endpoint(nil), d.conns[i].Loads...)
	}
	return nil
}

// Undriven returns the names of signals that have loads but no driver. Their
// loads stay X.
//
func (d *Definition) Undriven() []string { return append([]string(nil), d.undriven...) }

// lookupFn returns the signature of a component kind.
//
type lookupFn func(name string) (*Signature, bool)

type compiler struct {
	src    *Source
	lookup lookupFn

	children []string
	arity    [][2]int
	eps      map[string][]Endpoint
	names    []string // in order of first appearance
	groups   *signalGroups
}

// compile compiles the body of src into a Definition.
//
func compile(src *Source, lookup lookupFn) (*Definition, error) {
	c := &compiler{
		src:    src,
		lookup: lookup,
		eps:    make(map[string][]Endpoint),
		groups: newSignalGroups(),
	}
	return c.compile()
}

func (c *compiler) errorf(loc string, kind error, format string, args ...interface{}) error {
	if loc == "" {
		loc = c.src.Loc
	}
	return &CompileError{
		Component: c.src.Signature.name,
		Loc:       loc,
		Err:       errors.Wrapf(kind, format, args...),
	}
}

func (c *compiler) add(name string, ep Endpoint) {
	if _, ok := c.eps[name]; !ok {
		c.names = append(c.names, name)
		c.eps[name] = nil
	}
	c.eps[name] = append(c.eps[name], ep)
}

func (c *compiler) see(name string) {
	if _, ok := c.eps[name]; !ok {
		c.names = append(c.names, name)
		c.eps[name] = nil
	}
}

func (c *compiler) compile() (*Definition, error) {
	sig := c.src.Signature

	// boundary
	c.children = append(c.children, sig.name)
	c.arity = append(c.arity, [2]int{len(sig.outputs), len(sig.inputs)})
	for i, n := range sig.inputs {
		c.add(n, Endpoint{0, i, Output})
	}
	for i, n := range sig.outputs {
		c.add(n, Endpoint{0, i, Input})
	}

	var assigns []*Assignment
	for _, st := range c.src.Body {
		switch st := st.(type) {
		case *Instance:
			if err := c.instance(st); err != nil {
				return nil, err
			}
		case *Assignment:
			if len(st.LHS) != len(st.RHS) {
				return nil, c.errorf(st.Loc, ErrUnbalanced, "%d signals on the left, %d on the right", len(st.LHS), len(st.RHS))
			}
			for _, n := range st.LHS {
				c.see(n)
			}
			for _, n := range st.RHS {
				c.see(n)
			}
			assigns = append(assigns, st)
		default:
			panic(fmt.Sprintf("unexpected statement type %T", st))
		}
	}

	if err := c.checkArrays(); err != nil {
		return nil, err
	}

	for _, a := range assigns {
		for i, l := range a.LHS {
			r := a.RHS[i]
			if l == r || isWildcard(l) || isWildcard(r) {
				continue
			}
			c.groups.union(l, r)
		}
	}

	return c.resolve()
}

func (c *compiler) instance(st *Instance) error {
	name := c.src.Signature.name
	if st.Kind == name {
		return c.errorf(st.Loc, ErrRecursive, "%s instantiates itself", name)
	}
	sig, ok := c.lookup(st.Kind)
	if !ok {
		return c.errorf(st.Loc, ErrUnknownComponent, "%s", st.Kind)
	}
	if !IsBuiltin(st.Kind) {
		if len(st.Inputs) != sig.NumInputs() {
			return c.errorf(st.Loc, ErrArity, "%s has %d inputs, got %d", st.Kind, sig.NumInputs(), len(st.Inputs))
		}
		if len(st.Outputs) != sig.NumOutputs() {
			return c.errorf(st.Loc, ErrArity, "%s has %d outputs, got %d", st.Kind, sig.NumOutputs(), len(st.Outputs))
		}
	}
	slot := len(c.children)
	c.children = append(c.children, st.Kind)
	c.arity = append(c.arity, [2]int{len(st.Inputs), len(st.Outputs)})
	for i, n := range st.Inputs {
		c.add(n, Endpoint{slot, i, Input})
	}
	for i, n := range st.Outputs {
		c.add(n, Endpoint{slot, i, Output})
	}
	return nil
}

// checkArrays rejects multi-dimensional arrays and base names used both as an
// array and as a scalar.
//
func (c *compiler) checkArrays() error {
	arrays := make(map[string]string)
	scalars := make(map[string]bool)
	for _, n := range c.names {
		base, dims := splitName(n)
		if dims > 1 {
			return c.errorf("", ErrArrayDims, "got %s", n)
		}
		if base == Wildcard {
			continue
		}
		if dims == 0 {
			if _, ok := arrays[base]; ok {
				return c.errorf("", ErrArrayScalar, "%s", base)
			}
			scalars[base] = true
		} else {
			if scalars[base] {
				return c.errorf("", ErrArrayScalar, "%s", base)
			}
			arrays[base] = n
		}
	}
	return nil
}

func (c *compiler) resolve() (*Definition, error) {
	signals := make(map[string][]Endpoint)
	var order []string
	for _, n := range c.names {
		if isWildcard(n) {
			continue
		}
		cn := c.groups.canonical(n)
		if _, ok := signals[cn]; !ok {
			order = append(order, cn)
		}
		signals[cn] = append(signals[cn], c.eps[n]...)
	}

	d := &Definition{
		sig:      c.src.Signature,
		children: c.children,
		arity:    c.arity,
	}
	for _, name := range order {
		var drivers, loads []Endpoint
		for _, ep := range signals[name] {
			if ep.Dir == Output {
				drivers = append(drivers, ep)
			} else {
				loads = append(loads, ep)
			}
		}
		if len(drivers) > 1 {
			sortEndpoints(drivers)
			ds := make([]string, len(drivers))
			for i, ep := range drivers {
				ds[i] = c.describe(ep)
			}
			return nil, c.errorf("", ErrMultipleDrivers, "signal %q (%s) driven by %s",
				name, strings.Join(c.groups.members(name), " = "), strings.Join(ds, ", "))
		}
		if len(drivers) == 0 {
			if len(loads) > 0 {
				d.undriven = append(d.undriven, name)
			}
			continue
		}
		d.conns = append(d.conns, Connection{
			Signal: name,
			Driver: drivers[0],
			Loads:  dedupEndpoints(loads),
		})
	}
	sort.Slice(d.conns, func(i, j int) bool { return less(d.conns[i].Driver, d.conns[j].Driver) })
	d.fanOut = d.buildFanOut()
	return d, nil
}

// describe returns a human readable name for ep.
//
func (c *compiler) describe(ep Endpoint) string {
	if ep.Slot == 0 {
		if ep.Dir == Output {
			return "input " + c.src.Signature.inputs[ep.Port]
		}
		return "output " + c.src.Signature.outputs[ep.Port]
	}
	kind := c.children[ep.Slot]
	var port string
	if sig, ok := c.lookup(kind); ok && !IsBuiltin(kind) {
		if ep.Dir == Output {
			port = sig.outputs[ep.Port]
		} else {
			port = sig.inputs[ep.Port]
		}
	} else {
		port = fmt.Sprintf("%c%d", ep.Dir.String()[0], ep.Port)
	}
	return fmt.Sprintf("%s#%d.%s", kind, ep.Slot, port)
}

func sortEndpoints(eps []Endpoint) {
	sort.Slice(eps, func(i, j int) bool { return less(eps[i], eps[j]) })
}

func dedupEndpoints(eps []Endpoint) []Endpoint {
	sortEndpoints(eps)
	out := eps[:0]
	for _, ep := range eps {
		if len(out) > 0 && out[len(out)-1] == ep {
			continue
		}
		out = append(out, ep)
	}
	return out
}

// buildFanOut converts the connection table into per-slot fan-out lists.
//
func (d *Definition) buildFanOut() [][][]Index {
	fan := make([][][]Index, len(d.children))
	for i := range fan {
		fan[i] = make([][]Index, d.arity[i][1])
	}
	for _, c := range d.conns {
		loads := make([]Index, len(c.Loads))
		for i, ld := range c.Loads {
			loads[i] = Index{Slot: ld.Slot, Port: ld.Port}
		}
		fan[c.Driver.Slot][c.Driver.Port] = loads
	}
	return fan
}
