// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"strings"

	"github.com/pkg/errors"
)

// A Signature is the public interface of a component kind: its name and the
// ordered names of its input and output ports. Signatures are immutable.
//
type Signature struct {
	name    string
	inputs  []string
	outputs []string
}

// NewSignature returns a new signature. Port names must be unique across
// inputs and outputs.
//
func NewSignature(name string, inputs, outputs []string) (*Signature, error) {
	seen := make(map[string]struct{}, len(inputs)+len(outputs))
	for _, l := range [][]string{inputs, outputs} {
		for _, n := range l {
			if _, ok := seen[n]; ok {
				return nil, errors.Wrapf(ErrDuplicatePort, "%s.%s", name, n)
			}
			seen[n] = struct{}{}
		}
	}
	return &Signature{
		name:    name,
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
	}, nil
}

// Name returns the component name.
//
func (s *Signature) Name() string { return s.name }

// NumInputs returns the number of input ports.
//
func (s *Signature) NumInputs() int { return len(s.inputs) }

// NumOutputs returns the number of output ports.
//
func (s *Signature) NumOutputs() int { return len(s.outputs) }

// Inputs returns a copy of the input port names.
//
func (s *Signature) Inputs() []string { return append([]string(nil), s.inputs...) }

// Outputs returns a copy of the output port names.
//
func (s *Signature) Outputs() []string { return append([]string(nil), s.outputs...) }

// PortNames returns a copy of the port names.
//
func (s *Signature) PortNames() PortNames {
	return PortNames{Inputs: s.Inputs(), Outputs: s.Outputs()}
}

func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteByte('(')
	b.WriteString(strings.Join(s.inputs, ", "))
	b.WriteString(") -> (")
	b.WriteString(strings.Join(s.outputs, ", "))
	b.WriteByte(')')
	return b.String()
}
