// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the parser for HDL source files:
//
//	// comment
//	component Or2(a, b) -> x {
//		Nand(a) -> n_a;
//		Nand(b) -> n_b;
//		Nand(n_a, n_b) -> x;
//	}
//
//	component Buf4(a[3:0]) -> (x[3:0]) {
//		x[3:0] = a[3:0];
//	}
//
package hdl

import (
	"fmt"

	"github.com/db47h/comphdl/internal/lex"
)

// Error is a syntax error.
//
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

type parser struct {
	file string
	l    lex.Interface
	i    lex.Item
	peek *lex.Item
}

// Parse parses an HDL source file. The file name is only used in positions.
//
func Parse(filename string, src []byte) (f *File, err error) {
	p := &parser{file: filename, l: Lexer(src)}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			f, err = nil, e
		}
	}()
	p.next()
	f = &File{Name: filename}
	for p.i.Type != EOF {
		f.Components = append(f.Components, p.component())
	}
	return f, nil
}

func (p *parser) pos(pos lex.Pos) Position {
	line, col := p.l.Position(pos)
	return Position{File: p.file, Line: line, Col: col}
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.errorAt(p.i.Pos, format, args...)
}

func (p *parser) errorAt(pos lex.Pos, format string, args ...interface{}) {
	panic(&Error{Pos: p.pos(pos), Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) next() {
	if p.peek != nil {
		p.i, p.peek = *p.peek, nil
	} else {
		p.i = p.l.Lex()
	}
	switch p.i.Type {
	case Invalid:
		p.errorf("%v", p.i.Value)
	case Raw:
		p.errorf("unexpected character %s", p.i)
	}
}

func (p *parser) lookahead() lex.Item {
	if p.peek == nil {
		it := p.l.Lex()
		p.peek = &it
	}
	return *p.peek
}

func describe(i lex.Item) string {
	switch i.Type {
	case Ident, Int:
		return tokNames[i.Type] + " " + i.String()
	}
	return tokNames[i.Type]
}

func (p *parser) expect(t lex.Type) lex.Item {
	if p.i.Type != t {
		p.errorf("expected %s, got %s", tokNames[t], describe(p.i))
	}
	it := p.i
	p.next()
	return it
}

func (p *parser) ident() string {
	return p.expect(Ident).Value.(string)
}

// component := "component" IDENT "(" [ports] ")" "->" outs "{" stmt* "}"
func (p *parser) component() *Component {
	if p.i.Type != Ident || p.i.Value.(string) != "component" {
		p.errorf("expected component definition, got %s", describe(p.i))
	}
	c := &Component{Pos: p.pos(p.i.Pos)}
	p.next()
	c.Name = p.ident()
	p.expect(ParenOpen)
	c.Inputs = p.ports(ParenClose)
	p.expect(ParenClose)
	p.expect(Arrow)
	c.Outputs = p.outs()
	p.expect(BraceOpen)
	for p.i.Type != BraceClose {
		if p.i.Type == EOF {
			p.errorf("unexpected end of input in component %s", c.Name)
		}
		c.Body = append(c.Body, p.stmt())
	}
	p.next()
	return c
}

// ports := [port ("," port)* [","]]
func (p *parser) ports(end lex.Type) []Port {
	var ps []Port
	for p.i.Type != end {
		ps = append(ps, p.port())
		if p.i.Type != Comma {
			break
		}
		p.next()
	}
	return ps
}

// outs := port | "(" ports ")"
func (p *parser) outs() []Port {
	if p.i.Type == ParenOpen {
		p.next()
		ps := p.ports(ParenClose)
		p.expect(ParenClose)
		return ps
	}
	return []Port{p.port()}
}

// port := IDENT ("[" INT [":" INT] "]")*
func (p *parser) port() Port {
	pos := p.pos(p.i.Pos)
	return p.subscripts(Port{Name: p.ident(), Pos: pos})
}

// MaxRange is the maximum number of elements in a subscript range.
//
const MaxRange = 1 << 16

func (p *parser) subscripts(pt Port) Port {
	for p.i.Type == BracketOpen {
		pos := p.i.Pos
		p.next()
		hi := p.expect(Int).Value.(int)
		lo := hi
		if p.i.Type == Colon {
			p.next()
			lo = p.expect(Int).Value.(int)
		}
		p.expect(BracketClose)
		if abs(hi-lo) >= MaxRange {
			p.errorAt(pos, "range [%d:%d] of %s exceeds %d elements", hi, lo, pt.Name, MaxRange)
		}
		pt.Subs = append(pt.Subs, Subscript{Hi: hi, Lo: lo})
	}
	return pt
}

// stmt := IDENT "(" [ports] ")" "->" outs ";"
//       | outs "=" outs ";"
func (p *parser) stmt() Stmt {
	pos := p.pos(p.i.Pos)
	if p.i.Type == Ident && p.lookahead().Type == ParenOpen {
		s := &Instance{Kind: p.ident(), Pos: pos}
		p.expect(ParenOpen)
		s.Inputs = p.ports(ParenClose)
		p.expect(ParenClose)
		p.expect(Arrow)
		s.Outputs = p.outs()
		p.expect(Semicolon)
		return s
	}
	s := &Assign{Pos: pos}
	s.LHS = p.outs()
	p.expect(Equal)
	s.RHS = p.outs()
	p.expect(Semicolon)
	return s
}
