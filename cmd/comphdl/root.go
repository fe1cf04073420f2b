// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"

	"github.com/db47h/comphdl"
	"github.com/db47h/comphdl/hwlib"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands.
//
type app struct {
	log    *logrus.Logger
	stdin  io.Reader
	stdout io.Writer

	logLevel  string
	logFormat string
	noLib     bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		log:    logrus.New(),
		stdin:  stdin,
		stdout: stdout,
	}
	a.log.SetOutput(stderr)

	cmd := &cobra.Command{
		Use:           "comphdl",
		Short:         "Compile and simulate HDL components",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format (text or json)")
	pf.BoolVar(&a.noLib, "no-lib", false, "do not load the standard component library")

	cmd.AddCommand(
		newRunCmd(a),
		newCheckCmd(a),
		newNetlistCmd(a),
		newEquivCmd(a),
	)
	return cmd
}

// execute wraps RunE functions so that errors are logged once.
//
func (a *app) execute(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			a.log.Error(err)
		}
		return err
	}
}

func (a *app) setupLogger() error {
	lvl, err := logrus.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.log.SetLevel(lvl)
	switch a.logFormat {
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", a.logFormat)
	}
	return nil
}

// load parses the named HDL file and compiles it, along with the standard
// library unless disabled.
//
func (a *app) load(path string, opts ...comphdl.Option) (*comphdl.Factory, error) {
	srcs, err := comphdl.ParseFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]comphdl.Option{comphdl.WithLogger(a.log.WithField("file", path))}, opts...)
	if a.noLib {
		return comphdl.Compile(srcs, opts...)
	}
	return hwlib.Factory(srcs, opts...)
}
