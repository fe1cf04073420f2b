// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of components written in HDL on top of the
// builtin Nand, ConstantBit, Stdin and Stdout.
//
// Available components:
//
//	Not, Buf, And, Or, Nor, Xor, Xnor, And3, Or3, True, False, Not8
//	HalfAdder, FullAdder, Add4
//	Mux, DMux, Mux4, DMux4
//	SRLatch, DLatch, DFF, Register8
//	Clock, Cat, Invert
//
package hwlib

import (
	"embed"
	"path"

	"github.com/db47h/comphdl"
	"github.com/pkg/errors"
)

//go:embed *.hdl
var files embed.FS

// File is a library source file.
//
type File struct {
	Name string
	Src  []byte
}

// Files returns the library source files, sorted by name.
//
func Files() []File {
	es, err := files.ReadDir(".")
	if err != nil {
		panic(err)
	}
	fs := make([]File, 0, len(es))
	for _, e := range es {
		src, err := files.ReadFile(e.Name())
		if err != nil {
			panic(err)
		}
		fs = append(fs, File{Name: path.Join("hwlib", e.Name()), Src: src})
	}
	return fs
}

// Sources parses the library files.
//
func Sources() ([]comphdl.Source, error) {
	var srcs []comphdl.Source
	for _, f := range Files() {
		s, err := comphdl.Parse(f.Name, f.Src)
		if err != nil {
			return nil, errors.Wrap(err, "hwlib")
		}
		srcs = append(srcs, s...)
	}
	return srcs, nil
}

// Factory compiles the library together with extra user components.
//
func Factory(extra []comphdl.Source, opts ...comphdl.Option) (*comphdl.Factory, error) {
	srcs, err := Sources()
	if err != nil {
		return nil, err
	}
	return comphdl.Compile(append(srcs, extra...), opts...)
}
