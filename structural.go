// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import "fmt"

// An Index addresses one port of one slot in a Structural network. When used
// as a fan-out target, Port is an input port of the slot, except for slot 0
// where it is one of the network's outputs.
//
type Index struct {
	Slot int
	Port int
}

func (i Index) String() string { return fmt.Sprintf("%d.%d", i.Slot, i.Port) }

type slot struct {
	c       Component
	in      []Bit
	out     []Bit
	fanOut  [][]Index // per output port, shared between clones
	dirty   bool
	changed bool
}

// Stats holds simulation counters.
//
type Stats struct {
	Ticks        uint64 // calls to Tick on the outermost network
	Evaluations  uint64 // slot evaluations
	Propagations uint64 // input ports updated by propagation
	Slots        int    // slots, excluding boundaries
}

func (s *Stats) add(o Stats) {
	s.Ticks += o.Ticks
	s.Evaluations += o.Evaluations
	s.Propagations += o.Propagations
	s.Slots += o.Slots
}

// Structural is a network of components. Slot 0 is the network's own
// boundary: its outputs are the network's inputs and its inputs are the
// network's outputs. Other slots hold child components.
//
// Each Tick runs in two phases. First every dirty child is evaluated from the
// inputs it received during the previous tick. Then the outputs that changed
// are propagated to their loads, which become dirty for the next tick. A
// signal crossing n gates in series therefore needs n ticks to reach the far
// end.
//
type Structural struct {
	sig   *Signature
	slots []slot
	stats Stats
}

// newStructural assembles a network. children[0] is ignored. fanOut[i] must
// have one entry per output of slot i.
//
func newStructural(sig *Signature, children []Component, fanOut [][][]Index) *Structural {
	s := &Structural{
		sig:   sig,
		slots: make([]slot, len(children)),
	}
	s.slots[0] = slot{
		in:     Unknown(sig.NumOutputs()),
		out:    Unknown(sig.NumInputs()),
		fanOut: fanOut[0],
	}
	for i := 1; i < len(children); i++ {
		c := children[i]
		if len(fanOut[i]) != c.NumOutputs() {
			panic(fmt.Sprintf("%s: slot %d (%s): fan-out for %d outputs, component has %d", sig.name, i, c.Name(), len(fanOut[i]), c.NumOutputs()))
		}
		s.slots[i] = slot{
			c:      c,
			in:     Unknown(c.NumInputs()),
			out:    Unknown(c.NumOutputs()),
			fanOut: fanOut[i],
			dirty:  true,
		}
	}
	return s
}

func (*Structural) component() {}

// Tick implements Component.
//
func (s *Structural) Tick(in []Bit) []Bit {
	b := &s.slots[0]
	if len(in) != len(b.out) {
		panic(fmt.Sprintf("%s: got %d inputs, expected %d", s.sig.name, len(in), len(b.out)))
	}
	s.stats.Ticks++

	if !EqualBits(in, b.out) {
		copy(b.out, in)
		s.propagate(0)
	}

	for i := 1; i < len(s.slots); i++ {
		s.slots[i].changed = false
	}
	for i := 1; i < len(s.slots); i++ {
		sl := &s.slots[i]
		if !sl.dirty {
			continue
		}
		out := sl.c.Tick(sl.in)
		s.stats.Evaluations++
		if !EqualBits(out, sl.out) {
			copy(sl.out, out)
			sl.changed = true
		}
		sl.dirty = sl.c.AlwaysDirty()
	}
	for i := 1; i < len(s.slots); i++ {
		if s.slots[i].changed {
			s.propagate(i)
		}
	}

	return append([]Bit(nil), b.in...)
}

// propagate copies the outputs of slot i to its loads. Loads whose input
// value changes are marked dirty.
//
func (s *Structural) propagate(i int) {
	src := &s.slots[i]
	for port, loads := range src.fanOut {
		v := src.out[port]
		for _, ld := range loads {
			dst := &s.slots[ld.Slot]
			if dst.in[ld.Port] == v {
				continue
			}
			dst.in[ld.Port] = v
			dst.dirty = true
			s.stats.Propagations++
		}
	}
}

// NumInputs implements Component.
func (s *Structural) NumInputs() int { return s.sig.NumInputs() }

// NumOutputs implements Component.
func (s *Structural) NumOutputs() int { return s.sig.NumOutputs() }

// Name implements Component.
func (s *Structural) Name() string { return s.sig.name }

// PortNames implements Component.
func (s *Structural) PortNames() PortNames { return s.sig.PortNames() }

// AlwaysDirty implements Component. A network needs to be evaluated again as
// long as any of its children is dirty.
//
func (s *Structural) AlwaysDirty() bool {
	for i := 1; i < len(s.slots); i++ {
		if s.slots[i].dirty {
			return true
		}
	}
	return false
}

// Clone implements Component. Children are cloned recursively; the signature
// and fan-out tables are shared.
//
func (s *Structural) Clone() Component {
	c := &Structural{
		sig:   s.sig,
		slots: make([]slot, len(s.slots)),
		stats: s.stats,
	}
	for i, sl := range s.slots {
		sl.in = append([]Bit(nil), sl.in...)
		sl.out = append([]Bit(nil), sl.out...)
		if sl.c != nil {
			sl.c = sl.c.Clone()
		}
		c.slots[i] = sl
	}
	return c
}

// Signature returns the network's signature.
//
func (s *Structural) Signature() *Signature { return s.sig }

// Len returns the number of slots, boundary included.
//
func (s *Structural) Len() int { return len(s.slots) }

// Child returns the component in slot i. It returns nil for slot 0.
//
func (s *Structural) Child(i int) Component { return s.slots[i].c }

// SlotInputs returns a copy of the current input vector of slot i.
//
func (s *Structural) SlotInputs(i int) []Bit { return append([]Bit(nil), s.slots[i].in...) }

// SlotOutputs returns a copy of the current output vector of slot i.
//
func (s *Structural) SlotOutputs(i int) []Bit { return append([]Bit(nil), s.slots[i].out...) }

// FanOut returns the fan-out table of slot i: for each output port, the list
// of ports it drives. The returned value must not be modified.
//
func (s *Structural) FanOut(i int) [][]Index { return s.slots[i].fanOut }

// Dirty reports whether slot i will be evaluated on the next tick.
//
func (s *Structural) Dirty(i int) bool { return s.slots[i].dirty }

// Input returns the last input vector committed by Tick.
//
func (s *Structural) Input() []Bit { return s.SlotOutputs(0) }

// Output returns the current output vector.
//
func (s *Structural) Output() []Bit { return s.SlotInputs(0) }

// Stats returns the simulation counters for s and all nested networks.
//
func (s *Structural) Stats() Stats {
	st := s.stats
	st.Slots = len(s.slots) - 1
	for i := 1; i < len(s.slots); i++ {
		if n, ok := AsStructural(s.slots[i].c); ok {
			sub := n.Stats()
			sub.Ticks = 0
			st.add(sub)
		}
	}
	return st
}
