// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import "strconv"

// ArraySep separates an array name from its index in expanded signal names.
//
const ArraySep = "$"

// Wildcard is the name of the unconnected signal.
//
const Wildcard = "_"

// ArrayName returns the name of element i of array base.
//
func ArrayName(base string, i int) string {
	return base + ArraySep + strconv.Itoa(i)
}

// ExpandRange returns the names of elements hi down to lo of array base. If
// hi < lo, the names are returned in ascending order.
//
func ExpandRange(base string, hi, lo int) []string {
	step := -1
	if hi < lo {
		step = 1
	}
	ns := make([]string, 0, abs(hi-lo)+1)
	for i := hi; ; i += step {
		ns = append(ns, ArrayName(base, i))
		if i == lo {
			break
		}
	}
	return ns
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
