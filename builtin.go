// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package comphdl

// Names of the builtin components as used in HDL sources.
//
const (
	NandName        = "Nand"
	ConstantBitName = "ConstantBit"
	StdinName       = "Stdin"
	StdoutName      = "Stdout"
)

// IsBuiltin reports whether name is the name of a builtin component.
//
func IsBuiltin(name string) bool {
	switch name {
	case NandName, ConstantBitName, StdinName, StdoutName:
		return true
	}
	return false
}

// NandBits returns the NAND of the given bits: H if any bit is L, otherwise X
// if any bit is X, otherwise L.
//
func NandBits(in []Bit) Bit {
	unknown := false
	for _, b := range in {
		switch b {
		case L:
			return H
		case X:
			unknown = true
		}
	}
	if unknown {
		return X
	}
	return L
}

// Nand is an n-input NAND gate with a single output.
//
//	Inputs: i0, i1, ... in-1
//	Outputs: o0
//
type Nand struct {
	n int
}

// NewNand returns a new NAND gate with n inputs.
//
func NewNand(n int) *Nand {
	if n < 0 {
		panic("negative input count")
	}
	return &Nand{n: n}
}

func (*Nand) component() {}

// Tick implements Component.
//
func (g *Nand) Tick(in []Bit) []Bit {
	checkInputs(g, in)
	return []Bit{NandBits(in)}
}

// NumInputs implements Component.
func (g *Nand) NumInputs() int { return g.n }

// NumOutputs implements Component.
func (*Nand) NumOutputs() int { return 1 }

// Name implements Component.
func (*Nand) Name() string { return NandName }

// PortNames implements Component.
func (g *Nand) PortNames() PortNames { return DefaultPortNames(g.n, 1) }

// AlwaysDirty implements Component.
func (*Nand) AlwaysDirty() bool { return false }

// Clone implements Component.
func (g *Nand) Clone() Component { return &Nand{n: g.n} }

// ConstantBit outputs L, H and X on its three outputs.
//
//	Outputs: o0, o1, oX
//
type ConstantBit struct{}

// NewConstantBit returns a new constant source.
//
func NewConstantBit() *ConstantBit { return &ConstantBit{} }

func (*ConstantBit) component() {}

// Tick implements Component.
//
func (c *ConstantBit) Tick(in []Bit) []Bit {
	checkInputs(c, in)
	return []Bit{L, H, X}
}

// NumInputs implements Component.
func (*ConstantBit) NumInputs() int { return 0 }

// NumOutputs implements Component.
func (*ConstantBit) NumOutputs() int { return 3 }

// Name implements Component.
func (*ConstantBit) Name() string { return ConstantBitName }

// PortNames implements Component.
func (*ConstantBit) PortNames() PortNames {
	return PortNames{Outputs: []string{"o0", "o1", "oX"}}
}

// AlwaysDirty implements Component.
func (*ConstantBit) AlwaysDirty() bool { return false }

// Clone implements Component.
func (*ConstantBit) Clone() Component { return &ConstantBit{} }
