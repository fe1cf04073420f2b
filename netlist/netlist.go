// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist exports structural networks as Yosys JSON netlists.
//
// Each distinct component becomes a module. Primitive components become cells
// whose type is the primitive name. Bits are numbered per module starting at
// 2, one per net. Ports that nothing drives are connected to "x".
//
package netlist

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/db47h/comphdl"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Creator is the creator string of generated netlists.
//
const Creator = "comphdl"

// Bit is a net number. BitX is an unconnected net.
//
type Bit int

// Constant bits.
//
const (
	BitX Bit = -1
	Bit0 Bit = 0
	Bit1 Bit = 1
)

// MarshalJSON implements json.Marshaler. Constant bits are encoded as the
// strings "0", "1" and "x".
//
func (b Bit) MarshalJSON() ([]byte, error) {
	switch b {
	case BitX:
		return []byte(`"x"`), nil
	case Bit0:
		return []byte(`"0"`), nil
	case Bit1:
		return []byte(`"1"`), nil
	}
	return []byte(strconv.Itoa(int(b))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
func (b *Bit) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"x"`:
		*b = BitX
		return nil
	case `"0"`:
		*b = Bit0
		return nil
	case `"1"`:
		*b = Bit1
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.Wrapf(err, "invalid bit %s", data)
	}
	*b = Bit(n)
	return nil
}

// Port is a module port.
//
type Port struct {
	Direction string `json:"direction"`
	Bits      []Bit  `json:"bits"`
}

// Cell is a component instance in a module.
//
type Cell struct {
	HideName       int               `json:"hide_name"`
	Type           string            `json:"type"`
	PortDirections map[string]string `json:"port_directions"`
	Connections    map[string][]Bit  `json:"connections"`
}

// Module is a component definition.
//
type Module struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Ports      map[string]*Port  `json:"ports"`
	Cells      map[string]*Cell  `json:"cells"`
}

// Netlist is a Yosys JSON netlist.
//
type Netlist struct {
	Creator string             `json:"creator"`
	Modules map[string]*Module `json:"modules"`
}

// FromStructural returns the netlist of s and all its structural children.
// The module for s has the top attribute set.
//
func FromStructural(s *comphdl.Structural) *Netlist {
	n := &Netlist{Creator: Creator, Modules: make(map[string]*Module)}
	n.add(s)
	n.Modules[s.Name()].Attributes = map[string]string{"top": fmt.Sprintf("%032b", 1)}
	return n
}

// FromComponent is like FromStructural. Primitive components are wrapped
// first.
//
func FromComponent(c comphdl.Component) *Netlist {
	return FromStructural(comphdl.CloneAsStructural(c))
}

func (n *Netlist) add(s *comphdl.Structural) {
	if _, ok := n.Modules[s.Name()]; ok {
		return
	}
	m := &Module{Ports: make(map[string]*Port), Cells: make(map[string]*Cell)}
	n.Modules[s.Name()] = m

	// one bit per driver port, shared by its loads.
	ins := make([][]Bit, s.Len())
	outs := make([][]Bit, s.Len())
	for i := range ins {
		in, out := len(s.SlotInputs(i)), len(s.SlotOutputs(i))
		ins[i] = make([]Bit, in)
		for j := range ins[i] {
			ins[i][j] = BitX
		}
		outs[i] = make([]Bit, out)
	}
	next := Bit(2)
	for i := range outs {
		for p, loads := range s.FanOut(i) {
			outs[i][p] = next
			for _, l := range loads {
				ins[l.Slot][l.Port] = next
			}
			next++
		}
	}

	pn := s.PortNames()
	for i, name := range pn.Inputs {
		m.Ports[name] = &Port{Direction: "input", Bits: []Bit{outs[0][i]}}
	}
	for i, name := range pn.Outputs {
		m.Ports[name] = &Port{Direction: "output", Bits: []Bit{ins[0][i]}}
	}

	for i := 1; i < s.Len(); i++ {
		c := s.Child(i)
		cell := &Cell{
			HideName:       1,
			Type:           c.Name(),
			PortDirections: make(map[string]string),
			Connections:    make(map[string][]Bit),
		}
		cpn := c.PortNames()
		for j, name := range cpn.Inputs {
			cell.PortDirections[name] = "input"
			cell.Connections[name] = []Bit{ins[i][j]}
		}
		for j, name := range cpn.Outputs {
			cell.PortDirections[name] = "output"
			cell.Connections[name] = []Bit{outs[i][j]}
		}
		m.Cells[fmt.Sprintf("$%s$%s$%d", c.Name(), s.Name(), i)] = cell
		if sub, ok := comphdl.AsStructural(c); ok {
			n.add(sub)
		}
	}
}

// JSON returns the indented JSON encoding of n.
//
func (n *Netlist) JSON() ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// YAML returns the YAML encoding of n.
//
func (n *Netlist) YAML() ([]byte, error) {
	return yaml.Marshal(n)
}

// Parse decodes a JSON or YAML netlist.
//
func Parse(data []byte) (*Netlist, error) {
	var n Netlist
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "netlist")
	}
	return &n, nil
}
