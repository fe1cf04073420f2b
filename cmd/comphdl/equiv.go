// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/comphdl/equiv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errNotEquivalent = errors.New("components are not equivalent")

func newEquivCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equiv FILE A B",
		Short: "Check that two combinational components compute the same function",
		Long: `Equiv proves that components A and B produce the same outputs for every
input, or prints an input on which they differ. It exits with a non zero status
if the components differ.`,
		Args: cobra.ExactArgs(3),
	}
	cmd.RunE = a.execute(func(cmd *cobra.Command, args []string) error {
		f, err := a.load(args[0])
		if err != nil {
			return err
		}
		r, err := equiv.Check(f, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s, %s: %v\n", args[1], args[2], r)
		if !r.Equivalent {
			return errNotEquivalent
		}
		return nil
	})
	return cmd
}
