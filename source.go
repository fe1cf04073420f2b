// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

// A Source is the parsed definition of a component: its signature and body.
// Array ports must already be expanded into their element names (see
// ArrayName).
//
type Source struct {
	Signature *Signature
	Body      []Statement
	Loc       string // source location of the definition
}

// A Statement is either an *Instance or an *Assignment.
//
type Statement interface {
	Location() string
	statement()
}

// An Instance instantiates a child component:
//
//	Kind(Inputs...) -> (Outputs...);
//
type Instance struct {
	Kind    string
	Inputs  []string
	Outputs []string
	Loc     string
}

// An Assignment declares that the signals in LHS and RHS are pairwise the
// same signal:
//
//	(LHS...) = (RHS...);
//
type Assignment struct {
	LHS []string
	RHS []string
	Loc string
}

// Location returns the source location of the statement.
func (s *Instance) Location() string { return s.Loc }

// Location returns the source location of the statement.
func (s *Assignment) Location() string { return s.Loc }

func (*Instance) statement()   {}
func (*Assignment) statement() {}
