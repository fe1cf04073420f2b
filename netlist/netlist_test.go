// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"testing"

	hw "github.com/db47h/comphdl"
	"github.com/db47h/comphdl/hwlib"
	"github.com/db47h/comphdl/netlist"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantiate(t *testing.T, src, name string) hw.Component {
	t.Helper()
	srcs, err := hw.Parse("test.hdl", []byte(src))
	require.NoError(t, err)
	f, err := hwlib.Factory(srcs)
	require.NoError(t, err)
	c, err := f.Instantiate(name)
	require.NoError(t, err)
	return c
}

func TestFromStructural(t *testing.T) {
	n := netlist.FromComponent(instantiate(t, "", "Or"))
	bits := func(bs ...netlist.Bit) []netlist.Bit { return bs }
	want := &netlist.Netlist{
		Creator: netlist.Creator,
		Modules: map[string]*netlist.Module{
			"Or": {
				Attributes: map[string]string{"top": "00000000000000000000000000000001"},
				Ports: map[string]*netlist.Port{
					"a": {Direction: "input", Bits: bits(2)},
					"b": {Direction: "input", Bits: bits(3)},
					"x": {Direction: "output", Bits: bits(6)},
				},
				Cells: map[string]*netlist.Cell{
					"$Not$Or$1": {
						HideName:       1,
						Type:           "Not",
						PortDirections: map[string]string{"a": "input", "x": "output"},
						Connections:    map[string][]netlist.Bit{"a": bits(2), "x": bits(4)},
					},
					"$Not$Or$2": {
						HideName:       1,
						Type:           "Not",
						PortDirections: map[string]string{"a": "input", "x": "output"},
						Connections:    map[string][]netlist.Bit{"a": bits(3), "x": bits(5)},
					},
					"$Nand$Or$3": {
						HideName:       1,
						Type:           "Nand",
						PortDirections: map[string]string{"i0": "input", "i1": "input", "o0": "output"},
						Connections:    map[string][]netlist.Bit{"i0": bits(4), "i1": bits(5), "o0": bits(6)},
					},
				},
			},
			"Not": {
				Ports: map[string]*netlist.Port{
					"a": {Direction: "input", Bits: bits(2)},
					"x": {Direction: "output", Bits: bits(3)},
				},
				Cells: map[string]*netlist.Cell{
					"$Nand$Not$1": {
						HideName:       1,
						Type:           "Nand",
						PortDirections: map[string]string{"i0": "input", "o0": "output"},
						Connections:    map[string][]netlist.Bit{"i0": bits(2), "o0": bits(3)},
					},
				},
			},
		},
	}
	if d := cmp.Diff(want, n); d != "" {
		t.Fatalf("netlist mismatch (-want +got):\n%s", d)
	}
}

func TestFromStructural_undriven(t *testing.T) {
	n := netlist.FromComponent(instantiate(t, `component Floating(a) -> (x, y) { And(a, b) -> x; }`, "Floating"))
	m := n.Modules["Floating"]
	require.NotNil(t, m)
	assert.Equal(t, []netlist.Bit{netlist.BitX}, m.Ports["y"].Bits)
	assert.Equal(t, []netlist.Bit{netlist.BitX}, m.Cells["$And$Floating$1"].Connections["b"])
}

func TestFromComponent_primitive(t *testing.T) {
	n := netlist.FromComponent(hw.NewNand(2))
	require.Len(t, n.Modules, 1)
	for name, m := range n.Modules {
		assert.Equal(t, "wNand", name)
		assert.Len(t, m.Cells, 1)
		assert.Len(t, m.Ports, 3)
	}
}

func TestEncoding(t *testing.T) {
	n := netlist.FromComponent(instantiate(t, `component Floating(a) -> x { Xor(a, b) -> x; }`, "Floating"))
	j, err := n.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(j), `"x"`)
	y, err := n.YAML()
	require.NoError(t, err)

	for _, data := range [][]byte{j, y} {
		got, err := netlist.Parse(data)
		require.NoError(t, err)
		if d := cmp.Diff(n, got); d != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", d)
		}
	}
}
