// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Errors returned by Compile and Instantiate wrap one of these and
// can be tested with errors.Is.
//
var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrArity            = errors.New("wrong number of ports")
	ErrDuplicatePort    = errors.New("duplicate port name")
	ErrRedefinition     = errors.New("redefinition of component")
	ErrRecursive        = errors.New("recursive definition")
	ErrCycle            = errors.New("circular component dependency")
	ErrMultipleDrivers  = errors.New("signal has multiple drivers")
	ErrArrayScalar      = errors.New("signal used both as array and as bit")
	ErrArrayDims        = errors.New("only 1D arrays are supported")
	ErrUnbalanced       = errors.New("unbalanced assignment")
	ErrBuiltinArity     = errors.New("invalid builtin arity")
)

// A CompileError is returned when a component definition cannot be compiled.
//
type CompileError struct {
	Component string // component being compiled
	Loc       string // source location, if known
	Err       error
}

func (e *CompileError) Error() string {
	if e.Loc != "" {
		return fmt.Sprintf("%s: component %s: %v", e.Loc, e.Component, e.Err)
	}
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *CompileError) Cause() error { return e.Err }

// An InstantiationError is returned by Factory.Instantiate.
//
type InstantiationError struct {
	Component string // innermost component being instantiated
	Err       error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InstantiationError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *InstantiationError) Cause() error { return e.Err }
