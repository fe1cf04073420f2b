// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCheckCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Compile HDL files and report errors",
		Long: `Check compiles each file independently and reports every error. Files are
processed concurrently.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.execute(func(cmd *cobra.Command, args []string) error {
		errs := make([]error, len(args))
		var g errgroup.Group
		if jobs > 0 {
			g.SetLimit(jobs)
		}
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				_, errs[i] = a.load(path)
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for i, path := range args {
			if errs[i] != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, errs[i])
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		if failed > 0 {
			return errors.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	})
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum number of files compiled at once (0 for no limit)")
	return cmd
}
