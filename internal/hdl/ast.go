// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"fmt"
	"strings"
)

// Position is a location in a source file.
//
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// A Subscript is an array index name[Hi] or range name[Hi:Lo].
//
type Subscript struct {
	Hi, Lo int
}

// Port is a signal reference, possibly subscripted.
//
type Port struct {
	Name string
	Subs []Subscript
	Pos  Position
}

// Expand returns the scalar signal names of p. Each subscript expands into
// name$i elements; chained subscripts expand into multi-dimensional names
// such as a$1$2.
//
func (p Port) Expand() []string {
	names := []string{p.Name}
	for _, s := range p.Subs {
		var next []string
		for _, n := range names {
			next = append(next, ExpandRange(n, s.Hi, s.Lo)...)
		}
		names = next
	}
	return names
}

func (p Port) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	for _, s := range p.Subs {
		if s.Hi == s.Lo {
			fmt.Fprintf(&b, "[%d]", s.Hi)
		} else {
			fmt.Fprintf(&b, "[%d:%d]", s.Hi, s.Lo)
		}
	}
	return b.String()
}

// ExpandPorts expands a list of ports.
//
func ExpandPorts(ps []Port) []string {
	var names []string
	for _, p := range ps {
		names = append(names, p.Expand()...)
	}
	return names
}

// Stmt is a component body statement: *Instance or *Assign.
//
type Stmt interface {
	Position() Position
}

// Instance is a child instantiation.
//
type Instance struct {
	Kind    string
	Inputs  []Port
	Outputs []Port
	Pos     Position
}

// Position implements Stmt.
func (s *Instance) Position() Position { return s.Pos }

// Assign is a signal assignment.
//
type Assign struct {
	LHS []Port
	RHS []Port
	Pos Position
}

// Position implements Stmt.
func (s *Assign) Position() Position { return s.Pos }

// Component is a component definition.
//
type Component struct {
	Name    string
	Inputs  []Port
	Outputs []Port
	Body    []Stmt
	Pos     Position
}

// File is a parsed source file.
//
type File struct {
	Name       string
	Components []*Component
}
