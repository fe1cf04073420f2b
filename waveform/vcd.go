// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package waveform records simulation traces.
//
// VCD writes a Value Change Dump of every port of every instance in a
// network, suitable for GTKWave and similar viewers. WaveJSON records the
// boundary signals of a network in WaveDrom's JSON format.
//
package waveform

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/db47h/comphdl"
	"github.com/pkg/errors"
)

// VCDOption configures a VCD writer.
//
type VCDOption func(*VCD)

// SkipNand excludes Nand instances from the dump.
//
func SkipNand() VCDOption {
	return func(v *VCD) { v.skipNand = true }
}

// MaxDepth limits the nesting depth of dumped instances. Depth 0 dumps the
// top level ports only.
//
func MaxDepth(n int) VCDOption {
	return func(v *VCD) { v.maxDepth = n }
}

// scope is one dumped instance: slot of net.
type scope struct {
	net  *comphdl.Structural
	slot int
	ids  []string
}

// VCD writes a Value Change Dump of a structural network.
//
type VCD struct {
	w        *bufio.Writer
	skipNand bool
	maxDepth int
	scopes   []scope
	last     []byte
	clk      string
	clkOn    bool
	nextID   int
	t        uint64
	err      error
}

// NewVCD writes the VCD header for s to w. Every value starts as x. A
// synthetic clk signal toggles on every sample.
//
// The header is flushed before NewVCD returns. Samples are buffered until
// Close.
//
func NewVCD(w io.Writer, s *comphdl.Structural, opts ...VCDOption) (*VCD, error) {
	v := &VCD{w: bufio.NewWriter(w), maxDepth: -1}
	for _, o := range opts {
		o(v)
	}
	v.printf("$version comphdl $end\n")
	v.printf("$timescale 1ns $end\n")
	v.declare(s, 0, s.Name(), s.PortNames(), 0)
	v.printf("$scope module clk $end\n")
	v.clk = v.newID()
	v.printf("$var wire 1 %s clk $end\n", v.clk)
	v.printf("$upscope $end\n")
	v.printf("$enddefinitions $end\n")

	v.printf("$dumpvars\n")
	v.printf("0%s\n", v.clk)
	for _, sc := range v.scopes {
		for _, id := range sc.ids {
			v.printf("x%s\n", id)
			v.last = append(v.last, 'x')
		}
	}
	v.printf("$end\n")
	v.clkOn = true
	if v.err != nil {
		return nil, v.err
	}
	return v, v.w.Flush()
}

func (v *VCD) printf(format string, args ...interface{}) {
	if v.err != nil {
		return
	}
	_, v.err = fmt.Fprintf(v.w, format, args...)
}

// newID returns a new identifier code, in base 94 using the printable ASCII
// characters.
//
func (v *VCD) newID() string {
	n := v.nextID
	v.nextID++
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			break
		}
		n--
	}
	return string(b)
}

// declare declares the scope of slot of net, then recursively the scopes of
// its children.
//
func (v *VCD) declare(net *comphdl.Structural, slot int, name string, pn comphdl.PortNames, depth int) {
	sc := scope{net: net, slot: slot}
	v.printf("$scope module %s-%d $end\n", name, len(v.scopes))
	for _, ports := range [][]string{pn.Inputs, pn.Outputs} {
		for _, p := range ports {
			id := v.newID()
			sc.ids = append(sc.ids, id)
			v.printf("$var wire 1 %s %s $end\n", id, p)
		}
	}
	v.scopes = append(v.scopes, sc)

	var sub *comphdl.Structural
	if slot == 0 {
		sub = net
	} else {
		sub, _ = comphdl.AsStructural(net.Child(slot))
	}
	if sub != nil && (v.maxDepth < 0 || depth < v.maxDepth) {
		for i := 1; i < sub.Len(); i++ {
			c := sub.Child(i)
			if v.skipNand && c.Name() == comphdl.NandName {
				continue
			}
			v.declare(sub, i, c.Name(), c.PortNames(), depth+1)
		}
	}
	v.printf("$upscope $end\n")
}

// values returns the inputs and outputs of a scope.
//
func (sc *scope) values() []comphdl.Bit {
	if sc.slot == 0 {
		return append(sc.net.Input(), sc.net.Output()...)
	}
	return append(sc.net.SlotInputs(sc.slot), sc.net.SlotOutputs(sc.slot)...)
}

func vcdValue(b comphdl.Bit) byte {
	switch b {
	case comphdl.L:
		return '0'
	case comphdl.H:
		return '1'
	}
	return 'x'
}

// Sample writes timestamp t followed by the values that changed since the
// last sample. Output is buffered until Close.
//
func (v *VCD) Sample(t uint64) error {
	if t < v.t {
		return errors.Errorf("timestamp %d before %d", t, v.t)
	}
	v.t = t
	v.printf("#%s\n", strconv.FormatUint(t, 10))
	k := 0
	for i := range v.scopes {
		sc := &v.scopes[i]
		for j, b := range sc.values() {
			c := vcdValue(b)
			if v.last[k] != c {
				v.last[k] = c
				v.printf("%c%s\n", c, sc.ids[j])
			}
			k++
		}
	}
	if v.clkOn {
		v.printf("1%s\n", v.clk)
	} else {
		v.printf("0%s\n", v.clk)
	}
	v.clkOn = !v.clkOn
	return v.err
}

// Close writes the final timestamp and flushes the output. It does not close
// the underlying writer.
//
func (v *VCD) Close() error {
	v.printf("#%s\n", strconv.FormatUint(v.t+1, 10))
	if v.err != nil {
		return v.err
	}
	return v.w.Flush()
}
