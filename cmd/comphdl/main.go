// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command comphdl compiles and simulates HDL components.
//
// Usage:
//
//	comphdl run FILE TOP [flags]
//	comphdl run --config run.hcl [--var name=value]
//	comphdl check FILE...
//	comphdl netlist FILE TOP [--format json|yaml]
//	comphdl equiv FILE A B
//
// The components of the standard library (package hwlib) are available to
// every file unless --no-lib is set.
//
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// realMain runs the command line args and returns the process exit code.
//
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
