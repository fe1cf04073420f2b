// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"io"
	"os"

	"github.com/db47h/comphdl/internal/hdl"
	"github.com/pkg/errors"
)

// Parse parses HDL source code and returns its component definitions. Array
// ports are expanded into their elements. The filename is only used in error
// messages and source locations.
//
// Syntax errors are returned as is. Signatures with duplicate port names are
// reported as a *CompileError.
//
func Parse(filename string, src []byte) ([]Source, error) {
	f, err := hdl.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	srcs := make([]Source, 0, len(f.Components))
	for _, c := range f.Components {
		loc := c.Pos.String()
		sig, err := NewSignature(c.Name, hdl.ExpandPorts(c.Inputs), hdl.ExpandPorts(c.Outputs))
		if err != nil {
			return nil, &CompileError{Component: c.Name, Loc: loc, Err: err}
		}
		s := Source{Signature: sig, Loc: loc}
		for _, st := range c.Body {
			switch st := st.(type) {
			case *hdl.Instance:
				s.Body = append(s.Body, &Instance{
					Kind:    st.Kind,
					Inputs:  hdl.ExpandPorts(st.Inputs),
					Outputs: hdl.ExpandPorts(st.Outputs),
					Loc:     st.Pos.String(),
				})
			case *hdl.Assign:
				s.Body = append(s.Body, &Assignment{
					LHS: hdl.ExpandPorts(st.LHS),
					RHS: hdl.ExpandPorts(st.RHS),
					Loc: st.Pos.String(),
				})
			}
		}
		srcs = append(srcs, s)
	}
	return srcs, nil
}

// ParseFile reads and parses the named file.
//
func ParseFile(name string) ([]Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(name, f)
}

// ParseReader reads all of r and parses it.
//
func ParseReader(filename string, r io.Reader) ([]Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return Parse(filename, src)
}

// Load parses src and compiles it into a new Factory.
//
func Load(filename string, src []byte, opts ...Option) (*Factory, error) {
	srcs, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return Compile(srcs, opts...)
}
