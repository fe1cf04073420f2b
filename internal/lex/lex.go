// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a state function based lexer.
//
// A lexer runs state functions until one of them emits an item. A state
// function returns the next state function, or nil to return to the initial
// state. The position of items emitted by a state function reached from the
// initial state is the position of the first rune read in that state.
//
package lex

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// EOF is both the rune returned by Lexer.Next at the end of input, and the
// item type emitted for it.
//
const EOF = -1

// Type is an item type.
//
type Type int

// Pos is a byte offset in the input.
//
type Pos int

// Item is a lexical item.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch v := i.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", i.Value)
}

// A StateFn is a lexer state function.
//
type StateFn func(l *Lexer) StateFn

// Interface is the interface implemented by lexers.
//
type Interface interface {
	// Lex returns the next item.
	Lex() Item
	// Position returns the 1-based line and column numbers of p.
	Position(p Pos) (line, col int)
}

// A Lexer is a state function based lexer.
//
type Lexer struct {
	in    []byte
	init  StateFn
	state StateFn
	items []Item

	pos   Pos // next rune
	start Pos // start of the current item
	cur   rune
	cpos  Pos
	prev  rune
	ppos  Pos
	lines []Pos // line start offsets, lines[0] == 0
}

// New returns a new lexer reading its input from r. Read errors are treated as
// the end of input.
//
func New(r io.Reader, init StateFn) *Lexer {
	in, _ := io.ReadAll(r)
	return &Lexer{
		in:    in,
		init:  init,
		cur:   EOF,
		prev:  EOF,
		lines: []Pos{0},
	}
}

// Lex returns the next item.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start = l.pos
			l.state = l.init
		}
		l.state = l.state(l)
	}
	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// Next returns the next rune in the input, or EOF.
//
func (l *Lexer) Next() rune {
	l.prev, l.ppos = l.cur, l.cpos
	l.cpos = l.pos
	if int(l.pos) >= len(l.in) {
		l.cur = EOF
		return EOF
	}
	r, sz := utf8.DecodeRune(l.in[l.pos:])
	l.pos += Pos(sz)
	l.cur = r
	if r == '\n' && l.lines[len(l.lines)-1] < l.pos {
		l.lines = append(l.lines, l.pos)
	}
	return r
}

// Peek returns the next rune without consuming it.
//
func (l *Lexer) Peek() rune {
	if int(l.pos) >= len(l.in) {
		return EOF
	}
	r, _ := utf8.DecodeRune(l.in[l.pos:])
	return r
}

// Backup unreads the last rune read by Next. It can be called only once per
// call of Next.
//
func (l *Lexer) Backup() {
	l.pos = l.cpos
	l.cur, l.cpos = l.prev, l.ppos
}

// Current returns the last rune read by Next.
//
func (l *Lexer) Current() rune { return l.cur }

// Start returns the position of the current item.
//
func (l *Lexer) Start() Pos { return l.start }

// Ignore discards the input read so far for the current item.
//
func (l *Lexer) Ignore() { l.start = l.pos }

// AcceptWhile reads runes while f returns true.
//
func (l *Lexer) AcceptWhile(f func(r rune) bool) {
	r := l.Next()
	for r != EOF && f(r) {
		r = l.Next()
	}
	l.Backup()
}

// Emit emits an item of type t with value v at the start position of the
// current item.
//
func (l *Lexer) Emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: v})
	l.start = l.pos
}

// Position implements Interface.
//
func (l *Lexer) Position(p Pos) (line, col int) {
	i := sort.Search(len(l.lines), func(i int) bool { return l.lines[i] > p }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, int(p-l.lines[i]) + 1
}
