// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Factory holds compiled component definitions and instantiates them into
// Structural networks.
//
type Factory struct {
	log   logrus.FieldLogger
	sigs  map[string]*Signature
	defs  map[string]*Definition
	names []string
	src   *ByteSource
	sink  *ByteSink
}

// An Option configures a Factory.
//
type Option func(*Factory)

// WithLogger sets the logger used by the factory. By default nothing is
// logged.
//
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Factory) { f.log = l }
}

// WithInput sets the byte source used by Stdin bridges.
//
func WithInput(src *ByteSource) Option {
	return func(f *Factory) { f.src = src }
}

// WithOutput sets the byte sink used by Stdout bridges.
//
func WithOutput(sink *ByteSink) Option {
	return func(f *Factory) { f.sink = sink }
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFactory(opts []Option) *Factory {
	f := &Factory{
		sigs: make(map[string]*Signature),
		defs: make(map[string]*Definition),
	}
	for _, o := range opts {
		o(f)
	}
	if f.log == nil {
		f.log = discardLogger()
	}
	for _, n := range []string{NandName, ConstantBitName, StdinName, StdoutName} {
		f.sigs[n] = &Signature{name: n}
	}
	return f
}

// Compile compiles the given component sources into a new Factory.
//
// All signatures are registered before any body is compiled, so components can
// reference components defined later. Compile fails on the first error; the
// returned error is a *CompileError.
//
func Compile(srcs []Source, opts ...Option) (*Factory, error) {
	f := newFactory(opts)

	for i := range srcs {
		src := &srcs[i]
		if src.Signature == nil {
			return nil, errors.Errorf("source #%d has no signature", i)
		}
		name := src.Signature.name
		if _, ok := f.sigs[name]; ok {
			return nil, &CompileError{Component: name, Loc: src.Loc, Err: ErrRedefinition}
		}
		f.sigs[name] = src.Signature
		f.names = append(f.names, name)
	}

	for i := range srcs {
		src := &srcs[i]
		d, err := compile(src, f.lookup)
		if err != nil {
			return nil, err
		}
		f.defs[d.Name()] = d
		f.log.WithFields(logrus.Fields{
			"component": d.Name(),
			"children":  d.Len() - 1,
			"signals":   len(d.conns),
		}).Debug("compiled")
		if len(d.undriven) > 0 {
			f.log.WithField("component", d.Name()).Debugf("undriven signals: %s", strings.Join(d.undriven, ", "))
		}
	}

	if err := f.checkCycles(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) lookup(name string) (*Signature, bool) {
	s, ok := f.sigs[name]
	return s, ok
}

// checkCycles rejects components that depend on themselves through other
// components.
//
func (f *Factory) checkCycles() error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(f.defs))
	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = grey
		path = append(path, name)
		d := f.defs[name]
		for i := 1; i < d.Len(); i++ {
			k := d.children[i]
			if IsBuiltin(k) {
				continue
			}
			switch color[k] {
			case grey:
				var start int
				for j, n := range path {
					if n == k {
						start = j
						break
					}
				}
				cycle := append(append([]string(nil), path[start:]...), k)
				src := f.defs[k]
				return &CompileError{Component: src.Name(), Err: errors.Wrap(ErrCycle, strings.Join(cycle, " -> "))}
			case white:
				if err := visit(k); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		return nil
	}
	for _, n := range f.names {
		if color[n] == white {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetInput sets the byte source for Stdin bridges created by subsequent calls
// to Instantiate. Existing instances are not affected.
//
func (f *Factory) SetInput(src *ByteSource) { f.src = src }

// SetOutput sets the byte sink for Stdout bridges created by subsequent calls
// to Instantiate. Existing instances are not affected.
//
func (f *Factory) SetOutput(sink *ByteSink) { f.sink = sink }

// Signature returns the signature of the named component. Builtin components
// have empty signatures.
//
func (f *Factory) Signature(name string) (*Signature, bool) { return f.lookup(name) }

// Definition returns the compiled definition of the named component.
//
func (f *Factory) Definition(name string) (*Definition, bool) {
	d, ok := f.defs[name]
	return d, ok
}

// Names returns the names of all compiled components in declaration order.
//
func (f *Factory) Names() []string { return append([]string(nil), f.names...) }

// Instantiate creates a new Structural network for the named component. The
// returned error is an *InstantiationError.
//
func (f *Factory) Instantiate(name string) (Component, error) {
	d, ok := f.defs[name]
	if !ok {
		return nil, &InstantiationError{Component: name, Err: ErrUnknownComponent}
	}
	s, err := f.instantiate(d)
	if err != nil {
		return nil, err
	}
	f.log.WithFields(logrus.Fields{
		"component": name,
		"slots":     s.Stats().Slots,
	}).Debug("instantiated")
	return s, nil
}

func (f *Factory) instantiate(d *Definition) (*Structural, error) {
	children := make([]Component, d.Len())
	for i := 1; i < d.Len(); i++ {
		kind := d.children[i]
		in, out := d.Arity(i)
		if IsBuiltin(kind) {
			c, err := f.newBuiltin(kind, in, out)
			if err != nil {
				return nil, &InstantiationError{Component: d.Name(), Err: err}
			}
			children[i] = c
			continue
		}
		sub, ok := f.defs[kind]
		if !ok {
			return nil, &InstantiationError{Component: d.Name(), Err: errors.Wrap(ErrUnknownComponent, kind)}
		}
		c, err := f.instantiate(sub)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return newStructural(d.sig, children, d.fanOut), nil
}

func (f *Factory) newBuiltin(kind string, in, out int) (Component, error) {
	var c Component
	switch kind {
	case NandName:
		if out != 1 {
			break
		}
		return NewNand(in), nil
	case ConstantBitName:
		c = NewConstantBit()
	case StdinName:
		c = NewStdin(f.src)
	case StdoutName:
		c = NewStdout(f.sink)
	default:
		return nil, errors.Wrap(ErrUnknownComponent, kind)
	}
	if c == nil || c.NumInputs() != in || c.NumOutputs() != out {
		return nil, errors.Wrapf(ErrBuiltinArity, "%s with %d inputs and %d outputs", kind, in, out)
	}
	return c, nil
}
