// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/comphdl/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHDL = `
component MyOr(a, b) -> x {
	Nand(a, a) -> n_a;
	Nand(b, b) -> n_b;
	Nand(n_a, n_b) -> x;
}

component NotOr(a, b) -> x {
	Nor(a, b) -> x;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRun_cat(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "Hello, world!\n")
	src := writeFile(t, dir, "cat.hdl", `component Echo(run) -> eof { Cat(run) -> eof; }`)

	out, _, err := execute(t, "", "run", src, "Echo", "--stdin", in, "--pattern", "repeat", "--repeat", "10", "-n", "1000")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!\n", out)

	// from the command's standard input
	out, _, err = execute(t, "abc", "run", src, "Echo", "--repeat", "10", "-n", "200")
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}

func TestRun_artifacts(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "or.hdl", testHDL)
	vcd := filepath.Join(dir, "or.vcd")
	wave := filepath.Join(dir, "or.json")
	nl := filepath.Join(dir, "or.yaml")
	prom := filepath.Join(dir, "or.prom")

	_, stderr, err := execute(t, "", "run", src, "MyOr", "--pattern", "counter", "-n", "8",
		"--vcd", vcd, "--wave", wave, "--netlist", nl, "--metrics", prom, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "simulating")

	data, err := os.ReadFile(vcd)
	require.NoError(t, err)
	assert.Contains(t, string(data), "$scope module MyOr-0 $end")
	assert.Contains(t, string(data), "#7\n")

	data, err = os.ReadFile(wave)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"a"`)

	data, err = os.ReadFile(nl)
	require.NoError(t, err)
	n, err := netlist.Parse(data)
	require.NoError(t, err)
	assert.Contains(t, n.Modules, "MyOr")

	data, err = os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `comphdl_ticks_total{component="MyOr"} 8`)
}

func TestRun_config(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "or.hdl", testHDL)
	run := writeFile(t, dir, "run.hcl", `
source = "or.hdl"
top    = var.top
ticks  = 16
output {
  vcd = "trace.vcd"
}
`)
	_, _, err := execute(t, "", "run", "-c", run, "--var", "top=NotOr", "-n", "4")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "trace.vcd"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "$scope module NotOr-0 $end")
	assert.Contains(t, string(data), "#3\n")
	assert.NotContains(t, string(data), "#5\n")
}

func TestRun_errors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "or.hdl", testHDL)
	td := [][]string{
		{"run"},
		{"run", src},
		{"run", src, "Nope"},
		{"run", filepath.Join(dir, "nope.hdl"), "MyOr"},
		{"run", src, "MyOr", "--pattern", "zigzag"},
		{"run", src, "MyOr", "--pattern", "constant", "--value", "1"},
		{"run", src, "MyOr", "--var", "a=b"},
		{"run", src, "MyOr", "--log-format", "xml"},
	}
	for _, args := range td {
		_, _, err := execute(t, "", args...)
		assert.Error(t, err, "%v", args)
	}
	_, _, err := execute(t, "", "run", src, "MyOr", "--pattern", "constant", "--value", "01", "-n", "3")
	assert.NoError(t, err)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.hdl", testHDL)
	bad := writeFile(t, dir, "bad.hdl", "component Bad(a) -> x {\n\tNope(a) -> x;\n}\n")
	redef := writeFile(t, dir, "redef.hdl", "component Or(a, b) -> x {\n\tNand(a, b) -> x;\n}\n")

	out, _, err := execute(t, "", "check", good, bad, redef)
	require.Error(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, good+": ok", lines[0])
	assert.Contains(t, lines[1], "Nope")
	assert.Contains(t, lines[2], "redefin")

	// Or is only a redefinition when the library is loaded.
	out, _, err = execute(t, "", "check", "--no-lib", "-j", "1", redef)
	require.NoError(t, err)
	assert.Equal(t, redef+": ok\n", out)
}

func TestRealMain_exitCode(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.hdl", testHDL)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, realMain([]string{"check", good}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 1, realMain([]string{"check", filepath.Join(dir, "missing.hdl")}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 1, realMain([]string{"equiv", good, "MyOr", "NotOr"}, strings.NewReader(""), &stdout, &stderr))
}

func TestNetlist(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "or.hdl", testHDL)
	out, _, err := execute(t, "", "netlist", src, "MyOr")
	require.NoError(t, err)
	n, err := netlist.Parse([]byte(out))
	require.NoError(t, err)
	assert.Len(t, n.Modules["MyOr"].Cells, 3)

	out, _, err = execute(t, "", "netlist", src, "NotOr", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "creator: comphdl")

	_, _, err = execute(t, "", "netlist", src, "MyOr", "--format", "xml")
	assert.Error(t, err)
}

func TestEquiv(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "or.hdl", testHDL)
	out, _, err := execute(t, "", "equiv", src, "Or", "MyOr")
	require.NoError(t, err)
	assert.Equal(t, "Or, MyOr: equivalent\n", out)

	out, _, err = execute(t, "", "equiv", src, "NotOr", "MyOr")
	require.Error(t, err)
	assert.Contains(t, out, "differ on input")
}

func TestImports_noTestingInBinary(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotEqual(t, "testing", path, name)
			assert.NotEqual(t, "github.com/db47h/comphdl/hdltest", path, name)
		}
	}
}
