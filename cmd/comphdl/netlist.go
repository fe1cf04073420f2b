// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"

	"github.com/db47h/comphdl/netlist"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newNetlistCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "netlist FILE TOP",
		Short: "Print the Yosys JSON netlist of a component",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = a.execute(func(cmd *cobra.Command, args []string) error {
		f, err := a.load(args[0])
		if err != nil {
			return err
		}
		c, err := f.Instantiate(args[1])
		if err != nil {
			return err
		}
		n := netlist.FromComponent(c)
		if output != "" {
			return writeNetlist(output, n, format)
		}
		data, err := encodeNetlist(n, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	})
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to `file` instead of standard output")
	return cmd
}

func encodeNetlist(n *netlist.Netlist, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := n.JSON()
		return append(data, '\n'), err
	case "yaml":
		return n.YAML()
	}
	return nil, errors.Errorf("unknown netlist format %q", format)
}

func writeNetlist(path string, n *netlist.Netlist, format string) error {
	data, err := encodeNetlist(n, format)
	if err != nil {
		return err
	}
	return errors.WithStack(os.WriteFile(path, data, 0o644))
}
