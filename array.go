// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

import (
	"strings"

	"github.com/db47h/comphdl/internal/hdl"
)

// Wildcard is the signal name for intentionally unconnected ports. Array
// elements of the wildcard (_$0, _$1, ...) are wildcards as well.
//
const Wildcard = hdl.Wildcard

// ArrayName returns the name of element i of array base: base$i.
//
func ArrayName(base string, i int) string {
	return hdl.ArrayName(base, i)
}

// ExpandRange expands base[hi:lo] into its element names, from hi to lo. hi can
// be lower than lo.
//
func ExpandRange(base string, hi, lo int) []string {
	return hdl.ExpandRange(base, hi, lo)
}

// splitName returns the base name of an array element and the number of
// subscripts in name.
//
func splitName(name string) (base string, dims int) {
	parts := strings.Split(name, hdl.ArraySep)
	return parts[0], len(parts) - 1
}

func isWildcard(name string) bool {
	base, _ := splitName(name)
	return base == Wildcard
}
