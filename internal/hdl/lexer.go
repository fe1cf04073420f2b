// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"bytes"
	"strconv"
	"unicode"

	"github.com/db47h/comphdl/internal/lex"
)

// Tokens
const (
	EOF lex.Type = lex.EOF
	Raw lex.Type = iota
	Ident
	Int
	ParenOpen
	ParenClose
	BraceOpen
	BraceClose
	BracketOpen
	BracketClose
	Comma
	Colon
	Semicolon
	Arrow
	Equal
	Invalid
)

var tokNames = map[lex.Type]string{
	EOF:          "end of input",
	Ident:        "identifier",
	Int:          "integer",
	ParenOpen:    "'('",
	ParenClose:   "')'",
	BraceOpen:    "'{'",
	BraceClose:   "'}'",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Colon:        "':'",
	Semicolon:    "';'",
	Arrow:        "'->'",
	Equal:        "'='",
}

// Lexer returns a new lexer for HDL source code.
//
func Lexer(src []byte) lex.Interface {
	return lex.New(bytes.NewReader(src), lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '(':
		l.Emit(ParenOpen, "(")
	case r == ')':
		l.Emit(ParenClose, ")")
	case r == '{':
		l.Emit(BraceOpen, "{")
	case r == '}':
		l.Emit(BraceClose, "}")
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ',':
		l.Emit(Comma, ",")
	case r == ':':
		l.Emit(Colon, ":")
	case r == ';':
		l.Emit(Semicolon, ";")
	case r == '=':
		l.Emit(Equal, "=")
	case r == '-':
		if l.Next() == '>' {
			l.Emit(Arrow, "->")
			break
		}
		l.Backup()
		l.Emit(Raw, r)
	case r == '/':
		switch l.Next() {
		case '/':
			return lexLineComment
		case '*':
			return lexBlockComment
		}
		l.Backup()
		l.Emit(Raw, r)
	default:
		l.Emit(Raw, r)
	}
	return nil
}

func lexLineComment(l *lex.Lexer) lex.StateFn {
	l.AcceptWhile(func(r rune) bool { return r != '\n' })
	return nil
}

func lexBlockComment(l *lex.Lexer) lex.StateFn {
	for {
		switch l.Next() {
		case lex.EOF:
			l.Emit(Invalid, "unterminated comment")
			return lexEOF
		case '*':
			if l.Next() == '/' {
				return nil
			}
			l.Backup()
		}
	}
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	buf := []rune{l.Current()}
	r := l.Next()
	for '0' <= r && r <= '9' {
		buf = append(buf, r)
		r = l.Next()
	}
	l.Backup()
	i, err := strconv.Atoi(string(buf))
	if err != nil {
		l.Emit(Invalid, "integer out of range: "+string(buf))
		return nil
	}
	l.Emit(Int, i)
	return nil
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	var buf []rune
	buf = append(buf, l.Current())
	r := l.Next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		buf = append(buf, r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(Ident, string(buf))
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(EOF, "end of input")
	return lexEOF
}
