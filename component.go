// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"fmt"
	"strconv"
)

// PortNames holds the names of a component's input and output ports.
//
type PortNames struct {
	Inputs  []string
	Outputs []string
}

// DefaultPortNames returns port names i0, i1, ... and o0, o1, ...
//
func DefaultPortNames(in, out int) PortNames {
	var pn PortNames
	for i := 0; i < in; i++ {
		pn.Inputs = append(pn.Inputs, "i"+strconv.Itoa(i))
	}
	for i := 0; i < out; i++ {
		pn.Outputs = append(pn.Outputs, "o"+strconv.Itoa(i))
	}
	return pn
}

// A Component is a simulated logic element. The set of components is closed:
// the builtin primitives (Nand, ConstantBit, Stdin, Stdout) and Structural
// networks built by a Factory.
//
// Tick evaluates the component with the given inputs and returns its new
// outputs. It panics if len(in) != NumInputs(). The returned slice is owned by
// the caller.
//
// AlwaysDirty reports whether the component must be evaluated on the next
// tick even if its inputs do not change.
//
type Component interface {
	Tick(in []Bit) []Bit
	NumInputs() int
	NumOutputs() int
	Name() string
	PortNames() PortNames
	AlwaysDirty() bool
	Clone() Component

	component()
}

// AsStructural returns c as a *Structural if it is a composite component.
//
func AsStructural(c Component) (*Structural, bool) {
	s, ok := c.(*Structural)
	return s, ok
}

// CloneAsStructural returns a deep copy of c as a Structural network. If c is
// a primitive, it is wrapped in a network named "w"+c.Name() whose ports are
// wired one to one to those of the primitive.
//
func CloneAsStructural(c Component) *Structural {
	if s, ok := AsStructural(c); ok {
		return s.Clone().(*Structural)
	}
	pn := c.PortNames()
	sig := &Signature{
		name:    "w" + c.Name(),
		inputs:  append([]string(nil), pn.Inputs...),
		outputs: append([]string(nil), pn.Outputs...),
	}
	// slot 0 outputs (our inputs) feed the primitive inputs, the primitive
	// outputs feed slot 0 inputs.
	fan := make([][][]Index, 2)
	fan[0] = make([][]Index, c.NumInputs())
	for i := range fan[0] {
		fan[0][i] = []Index{{Slot: 1, Port: i}}
	}
	fan[1] = make([][]Index, c.NumOutputs())
	for i := range fan[1] {
		fan[1][i] = []Index{{Slot: 0, Port: i}}
	}
	return newStructural(sig, []Component{nil, c.Clone()}, fan)
}

func checkInputs(c Component, in []Bit) {
	if len(in) != c.NumInputs() {
		panic(fmt.Sprintf("%s: got %d inputs, expected %d", c.Name(), len(in), c.NumInputs()))
	}
}
