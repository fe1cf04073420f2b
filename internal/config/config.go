// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads simulation run files.
//
// A run file is written in HCL:
//
//	source = "cat.hdl"
//	top    = "Cat"
//	ticks  = var.ticks
//	stdin  = "stdin.txt"
//
//	input {
//	  pattern = "repeat"
//	  repeat  = 50
//	}
//
//	output {
//	  vcd     = "out.vcd"
//	  netlist = "out.json"
//	}
//
// Expressions may reference variables as var.<name>. Relative paths are
// relative to the directory of the run file.
//
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// Input patterns.
//
const (
	PatternCounter  = "counter"
	PatternRepeat   = "repeat"
	PatternConstant = "constant"
)

// Defaults.
//
const (
	DefaultTicks   = 4000
	DefaultPattern = PatternRepeat
	DefaultRepeat  = 50
)

// Input configures the input pattern.
//
type Input struct {
	Pattern string `hcl:"pattern,optional"`
	Repeat  int    `hcl:"repeat,optional"`
	Value   string `hcl:"value,optional"`
}

// Output configures the simulation artifacts. Empty paths are not written.
//
type Output struct {
	VCD     string `hcl:"vcd,optional"`
	Wave    string `hcl:"wave,optional"`
	Netlist string `hcl:"netlist,optional"`
	Metrics string `hcl:"metrics,optional"`
}

// Run is a simulation run.
//
type Run struct {
	Source string  `hcl:"source"`
	Top    string  `hcl:"top"`
	Ticks  int     `hcl:"ticks,optional"`
	Stdin  string  `hcl:"stdin,optional"`
	Input  *Input  `hcl:"input,block"`
	Output *Output `hcl:"output,block"`
}

// Default returns a run with default settings.
//
func Default() *Run {
	return &Run{
		Ticks:  DefaultTicks,
		Input:  &Input{Pattern: DefaultPattern, Repeat: DefaultRepeat},
		Output: &Output{},
	}
}

// ParseVars parses name=value pairs.
//
func ParseVars(kvs []string) (map[string]string, error) {
	vars := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			return nil, errors.Errorf("invalid variable %q, expected name=value", kv)
		}
		vars[kv[:i]] = kv[i+1:]
	}
	return vars, nil
}

func evalContext(vars map[string]string) *hcl.EvalContext {
	vs := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		vs[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(vs)},
	}
}

// Parse decodes a run file. Unset or zero settings get their default value.
//
func Parse(filename string, src []byte, vars map[string]string) (*Run, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse %s", filename)
	}
	r := Default()
	r.Input, r.Output = nil, nil
	diags = gohcl.DecodeBody(f.Body, evalContext(vars), r)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decode %s", filename)
	}
	d := Default()
	if r.Ticks == 0 {
		r.Ticks = d.Ticks
	}
	if r.Input == nil {
		r.Input = d.Input
	}
	if r.Input.Pattern == "" {
		r.Input.Pattern = d.Input.Pattern
	}
	if r.Input.Repeat == 0 {
		r.Input.Repeat = d.Input.Repeat
	}
	if r.Output == nil {
		r.Output = d.Output
	}
	r.resolve(filepath.Dir(filename))
	if err := r.Validate(); err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return r, nil
}

// Load reads and decodes the run file at path.
//
func Load(path string, vars map[string]string) (*Run, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(path, src, vars)
}

func (r *Run) resolve(dir string) {
	for _, p := range []*string{&r.Source, &r.Stdin, &r.Output.VCD, &r.Output.Wave, &r.Output.Netlist, &r.Output.Metrics} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate checks the settings of r.
//
func (r *Run) Validate() error {
	if r.Ticks <= 0 {
		return errors.Errorf("invalid tick count %d", r.Ticks)
	}
	switch r.Input.Pattern {
	case PatternCounter, PatternRepeat:
		if r.Input.Repeat <= 0 {
			return errors.Errorf("invalid repeat count %d", r.Input.Repeat)
		}
	case PatternConstant:
	default:
		return errors.Errorf("unknown input pattern %q, expected one of %s, %s or %s",
			r.Input.Pattern, PatternCounter, PatternRepeat, PatternConstant)
	}
	return nil
}
