// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Bit is the value of a single wire: Low, High or Unknown.
//
// The zero value is L.
//
type Bit uint8

// Bit values.
//
const (
	L Bit = iota // Low
	H            // High
	X            // Unknown
)

func (b Bit) String() string {
	switch b {
	case L:
		return "0"
	case H:
		return "1"
	case X:
		return "X"
	}
	return "Bit(" + strconv.Itoa(int(b)) + ")"
}

// Bits parses a string of '0', '1' and 'X' (or 'x') characters into a bit
// vector. Underscores can be used as digit separators and are ignored.
//
func Bits(s string) ([]Bit, error) {
	bs := make([]Bit, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bs = append(bs, L)
		case '1':
			bs = append(bs, H)
		case 'x', 'X':
			bs = append(bs, X)
		case '_':
		default:
			return nil, errors.Errorf("invalid bit %q at position %d in %q", r, i, s)
		}
	}
	return bs, nil
}

// MustBits is like Bits but panics on error.
//
func MustBits(s string) []Bit {
	bs, err := Bits(s)
	if err != nil {
		panic(err)
	}
	return bs
}

// BitsString returns the string representation of a bit vector.
//
func BitsString(bs []Bit) string {
	var b strings.Builder
	b.Grow(len(bs))
	for _, v := range bs {
		b.WriteString(v.String())
	}
	return b.String()
}

// ByteToBits returns the 8 bits of b, most significant first.
//
func ByteToBits(b byte) []Bit {
	bs := make([]Bit, 8)
	for i := range bs {
		if b&(0x80>>uint(i)) != 0 {
			bs[i] = H
		}
	}
	return bs
}

// BitsToByte packs 8 bits, most significant first, into a byte.
// It returns false if any of the bits is X.
//
func BitsToByte(bs []Bit) (byte, bool) {
	if len(bs) != 8 {
		panic("BitsToByte: need exactly 8 bits")
	}
	var v byte
	for _, b := range bs {
		switch b {
		case H:
			v = v<<1 | 1
		case L:
			v <<= 1
		default:
			return 0, false
		}
	}
	return v, true
}

// Unknown returns a vector of n X bits.
//
func Unknown(n int) []Bit {
	bs := make([]Bit, n)
	for i := range bs {
		bs[i] = X
	}
	return bs
}

// EqualBits reports whether a and b hold the same values.
//
func EqualBits(a, b []Bit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
